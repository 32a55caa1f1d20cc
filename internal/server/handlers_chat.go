package server

import (
	"encoding/json"
	"net/http"

	"github.com/dmoreno/cv-studio/internal/types"
)

// handleChat runs one conversational turn of the CV assistant. Rejections,
// provider outages and unparseable model output all come back as a normal
// 200 with success=false and a Spanish chat-bubble message, so the client
// renders them inline in the conversation.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		s.errorResponse(w, http.StatusBadRequest, "message is required")
		return
	}

	resp := s.chat.HandleMessage(r.Context(), req)
	s.jsonResponse(w, http.StatusOK, resp)
}

// ApplyResponse is the body returned by POST /api/cv/chat/apply.
type ApplyResponse struct {
	Success bool             `json:"success"`
	Action  types.ActionType `json:"action"`
	Data    json.RawMessage  `json:"data"`
}

// handleChatApply commits the pending draft of a conversation. Applying the
// same message twice returns the stored entity unchanged.
func (s *Server) handleChatApply(w http.ResponseWriter, r *http.Request) {
	var req types.ApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ConversationID == "" || req.MessageID == "" {
		s.errorResponse(w, http.StatusBadRequest, "conversation_id and message_id are required")
		return
	}

	action, data, err := s.chat.Apply(req)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ApplyResponse{
		Success: true,
		Action:  action,
		Data:    data,
	})
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoreno/cv-studio/internal/types"
)

func TestChat_PlainTurn(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{
		completions: &stubCompletions{response: `{"type":"message","message":"cuéntame más"}`},
	})

	w := doJSON(t, s.handler(), http.MethodPost, "/api/cv/chat", "", `{"message":"hola"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, types.ActionMessage, resp.Action)
	assert.Equal(t, "cuéntame más", resp.Message)
	assert.NotEmpty(t, resp.ConversationID)
}

func TestChat_ProvidersDownStill200(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{
		completions: &stubCompletions{err: fmt.Errorf("all providers down")},
	})

	w := doJSON(t, s.handler(), http.MethodPost, "/api/cv/chat", "", `{"message":"hola"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.ChatResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "No he podido conectar")
}

func TestChat_MissingMessage(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{})

	w := doJSON(t, s.handler(), http.MethodPost, "/api/cv/chat", "", `{"message":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatApply_Flow(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{
		completions: &stubCompletions{
			response: `{"type":"add_experience","message":"¿La añado?","data":{"company":"Acme & Co","position":"Dev"}}`,
		},
	})
	h := s.handler()

	chatW := doJSON(t, h, http.MethodPost, "/api/cv/chat", "", `{"message":"añade mi trabajo en Acme"}`)
	require.Equal(t, http.StatusOK, chatW.Code)

	var chatResp types.ChatResponse
	require.NoError(t, json.Unmarshal(chatW.Body.Bytes(), &chatResp))
	require.True(t, chatResp.Success)
	require.NotEmpty(t, chatResp.MessageID)

	applyBody := fmt.Sprintf(`{"conversation_id":%q,"message_id":%q}`, chatResp.ConversationID, chatResp.MessageID)
	applyW := doJSON(t, h, http.MethodPost, "/api/cv/chat/apply", "", applyBody)
	require.Equal(t, http.StatusOK, applyW.Code)

	var applyResp ApplyResponse
	require.NoError(t, json.Unmarshal(applyW.Body.Bytes(), &applyResp))
	assert.True(t, applyResp.Success)
	assert.Equal(t, types.ActionAddExperience, applyResp.Action)

	var entity map[string]any
	require.NoError(t, json.Unmarshal(applyResp.Data, &entity))
	assert.Equal(t, "Acme & Co", entity["company"])
	assert.NotEmpty(t, entity["id"])

	// Applying the same message again returns the stored entity unchanged
	againW := doJSON(t, h, http.MethodPost, "/api/cv/chat/apply", "", applyBody)
	require.Equal(t, http.StatusOK, againW.Code)

	var againResp ApplyResponse
	require.NoError(t, json.Unmarshal(againW.Body.Bytes(), &againResp))
	assert.JSONEq(t, string(applyResp.Data), string(againResp.Data))
}

func TestChatApply_UnknownConversation(t *testing.T) {
	s, _, _ := newTestServer(t, testServerOptions{})

	w := doJSON(t, s.handler(), http.MethodPost, "/api/cv/chat/apply", "",
		`{"conversation_id":"nope","message_id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

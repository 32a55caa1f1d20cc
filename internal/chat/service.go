package chat

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dmoreno/cv-studio/internal/llm"
	"github.com/dmoreno/cv-studio/internal/schemas"
	"github.com/dmoreno/cv-studio/internal/security"
	"github.com/dmoreno/cv-studio/internal/types"
)

// User-facing degradation messages. Every failure ends in a chat bubble;
// the conversation stays usable and "retry" means the user re-sends.
const (
	msgProvidersDown = "No he podido conectar con el asistente en este momento. Inténtalo de nuevo en unos segundos."
	msgParseFailed   = "No he podido procesar la respuesta. ¿Puedes contármelo de otra forma?"
)

// ErrConversationNotFound indicates an apply referenced an unknown or
// expired conversation.
type ErrConversationNotFound struct {
	ConversationID string
}

func (e *ErrConversationNotFound) Error() string {
	return fmt.Sprintf("conversation not found: %s", e.ConversationID)
}

// ErrMessageNotFound indicates an apply referenced a message with no
// pending action.
type ErrMessageNotFound struct {
	MessageID string
}

func (e *ErrMessageNotFound) Error() string {
	return fmt.Sprintf("message not found: %s", e.MessageID)
}

// CompletionClient is the slice of the llm chain the service needs.
type CompletionClient interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
}

// Service orchestrates one chat turn: filter, sanitize, assemble, complete,
// parse, sanitize again, then fold the action into the session.
type Service struct {
	completions CompletionClient
	sessions    *Store
	logger      *zap.Logger
}

// NewService creates the chat service.
func NewService(completions CompletionClient, sessions *Store, logger *zap.Logger) *Service {
	return &Service{completions: completions, sessions: sessions, logger: logger}
}

// actionEnvelope is the JSON object the model is instructed to return.
type actionEnvelope struct {
	Type    string          `json:"type"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// HandleMessage processes one user turn. Degraded outcomes (rejected input,
// providers down, unparseable output) are returned as unsuccessful-but-valid
// responses, never as errors: the chat must stay interactive.
func (s *Service) HandleMessage(ctx context.Context, req types.ChatRequest) types.ChatResponse {
	sess := s.sessions.GetOrCreate(req.ConversationID)
	sess.Lock()
	defer sess.Unlock()

	if req.Context.ActiveSection != "" {
		sess.SwitchSection(req.Context.ActiveSection)
	}

	resp := types.ChatResponse{Success: true, ConversationID: sess.ID}

	// Heuristic pre-filter: a match means no model call at all.
	if verdict := security.Classify(req.Message); !verdict.Safe {
		s.logger.Info("chat input rejected",
			zap.String("conversation_id", sess.ID),
			zap.String("reason", string(verdict.Reason)))
		resp.Action = types.ActionMessage
		resp.Message = verdict.Message
		return resp
	}

	sanitized := security.SanitizeInput(req.Message)
	messages := AssemblePrompt(sanitized, req.ConversationHistory, req.Context)

	content, err := s.completions.Complete(ctx, messages)
	if err != nil {
		s.logger.Error("all completion providers failed",
			zap.String("conversation_id", sess.ID),
			zap.Error(err))
		resp.Success = false
		resp.Message = msgProvidersDown
		return resp
	}

	envelope, err := s.parseEnvelope(content)
	if err != nil {
		s.logger.Warn("unparseable model output",
			zap.String("conversation_id", sess.ID),
			zap.Error(err))
		resp.Success = false
		resp.Message = msgParseFailed
		return resp
	}

	resp.Message = security.SanitizeText(envelope.Message)
	resp.Action = types.ActionType(envelope.Type)

	cleanData, err := security.SanitizePayload(envelope.Data)
	if err != nil {
		resp.Success = false
		resp.Message = msgParseFailed
		return resp
	}

	switch types.ActionType(envelope.Type) {
	case types.ActionUpdateDraft:
		if err := sess.Draft.MergeUpdate(sess.ActiveSection, cleanData); err != nil {
			s.logger.Warn("draft merge failed", zap.Error(err))
			resp.Success = false
			resp.Message = msgParseFailed
			return resp
		}
		sess.State = StateDrafting
		if merged, err := json.Marshal(sess.Draft); err == nil {
			resp.Data = merged
		}
	case types.ActionAddExperience, types.ActionAddEducation, types.ActionAddProject,
		types.ActionAddSkillGroup, types.ActionAddCertification:
		pending := PendingAction{
			MessageID: uuid.NewString(),
			Type:      envelope.Type,
			Data:      cleanData,
		}
		sess.Messages = append(sess.Messages, pending)
		sess.State = StateReady
		resp.MessageID = pending.MessageID
		resp.Data = cleanData
	default:
		// Plain conversation turn; no state change.
	}

	return resp
}

// parseEnvelope extracts and schema-validates the action object from raw
// model output.
func (s *Service) parseEnvelope(raw string) (*actionEnvelope, error) {
	cleaned := llm.CleanJSONBlock(llm.StripThinking(raw))
	obj, err := llm.ExtractJSONObject(cleaned)
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(schemas.ActionEnvelope, []byte(obj)); err != nil {
		return nil, err
	}
	var envelope actionEnvelope
	if err := json.Unmarshal([]byte(obj), &envelope); err != nil {
		return nil, &llm.ParseError{Message: err.Error()}
	}
	return &envelope, nil
}

// Apply confirms a pending add action. The first call constructs the typed
// entity, marks the action applied, and clears the draft; any later call for
// the same message is a no-op that returns the already-built entity.
func (s *Service) Apply(req types.ApplyRequest) (types.ActionType, json.RawMessage, error) {
	sess := s.sessions.Get(req.ConversationID)
	if sess == nil {
		return "", nil, &ErrConversationNotFound{ConversationID: req.ConversationID}
	}
	sess.Lock()
	defer sess.Unlock()

	for i := range sess.Messages {
		pending := &sess.Messages[i]
		if pending.MessageID != req.MessageID {
			continue
		}
		if pending.Applied {
			return types.ActionType(pending.Type), pending.Entity, nil
		}

		entity, err := s.finalize(pending.Type, pending.Data)
		if err != nil {
			return "", nil, err
		}

		pending.Applied = true
		pending.Entity = entity
		sess.State = StateApplied
		sess.Draft = Draft{}
		return types.ActionType(pending.Type), entity, nil
	}

	return "", nil, &ErrMessageNotFound{MessageID: req.MessageID}
}

func (s *Service) finalize(actionType string, data json.RawMessage) (json.RawMessage, error) {
	var (
		entity any
		err    error
	)
	switch types.ActionType(actionType) {
	case types.ActionAddExperience:
		entity, err = FinalizeExperience(data)
	case types.ActionAddEducation:
		entity, err = FinalizeEducation(data)
	case types.ActionAddProject:
		entity, err = FinalizeProject(data)
	case types.ActionAddSkillGroup:
		entity, err = FinalizeSkillGroup(data)
	case types.ActionAddCertification:
		var cert types.Certification
		if err := json.Unmarshal(data, &cert); err != nil {
			return nil, err
		}
		cert.ID = uuid.NewString()
		entity = cert
	default:
		return nil, fmt.Errorf("action type %q cannot be applied", actionType)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(entity)
}

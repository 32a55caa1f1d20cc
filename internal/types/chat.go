package types

import "encoding/json"

// Role identifies the author of a chat message.
type Role string

// Chat message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ActionType identifies what the assistant wants the editor to do with the
// payload of a turn.
type ActionType string

// Action types emitted by the assistant.
const (
	ActionUpdateDraft      ActionType = "update_draft"
	ActionAddExperience    ActionType = "add_experience"
	ActionAddEducation     ActionType = "add_education"
	ActionAddProject       ActionType = "add_project"
	ActionAddSkillGroup    ActionType = "add_skill_group"
	ActionAddCertification ActionType = "add_certification"
	ActionMessage          ActionType = "message"
)

// Action is the typed payload attached to an assistant message.
// Applied transitions false -> true exactly once, on explicit user
// confirmation, and never reverts.
type Action struct {
	Type    ActionType      `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Applied bool            `json:"applied"`
}

// ChatMessage is one turn of the CV-assistant conversation.
type ChatMessage struct {
	ID      string  `json:"id"`
	Role    Role    `json:"role"`
	Content string  `json:"content"`
	Action  *Action `json:"action,omitempty"`
}

// ChatContext describes the editor state the assistant should know about.
type ChatContext struct {
	ActiveSection string `json:"active_section"`
	HasExperience bool   `json:"has_experience"`
	HasEducation  bool   `json:"has_education"`
	HasSkills     bool   `json:"has_skills"`
	HasProjects   bool   `json:"has_projects"`
}

// DraftExperience mirrors Experience with nullable fields. Only fields the
// model has explicitly extracted are ever set; absent keys never overwrite.
type DraftExperience struct {
	Company      *string   `json:"company,omitempty"`
	Position     *string   `json:"position,omitempty"`
	Location     *string   `json:"location,omitempty"`
	StartDate    *string   `json:"start_date,omitempty"`
	EndDate      *string   `json:"end_date,omitempty"`
	Current      *bool     `json:"current,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Achievements *[]string `json:"achievements,omitempty"`
	Technologies *[]string `json:"technologies,omitempty"`
}

// DraftEducation mirrors Education with nullable fields.
type DraftEducation struct {
	Institution *string `json:"institution,omitempty"`
	Degree      *string `json:"degree,omitempty"`
	Field       *string `json:"field,omitempty"`
	Location    *string `json:"location,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	Grade       *string `json:"grade,omitempty"`
}

// DraftProject mirrors Project with nullable fields.
type DraftProject struct {
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	URL          *string   `json:"url,omitempty"`
	Technologies *[]string `json:"technologies,omitempty"`
	Highlights   *[]string `json:"highlights,omitempty"`
}

// DraftSkillGroup mirrors SkillGroup with nullable fields.
type DraftSkillGroup struct {
	Category *string   `json:"category,omitempty"`
	Skills   *[]string `json:"skills,omitempty"`
}

// ChatRequest is the body of POST /api/cv/chat.
type ChatRequest struct {
	Message             string        `json:"message" validate:"required,min=1"`
	ConversationID      string        `json:"conversation_id,omitempty"`
	ConversationHistory []ChatMessage `json:"conversation_history,omitempty"`
	Context             ChatContext   `json:"context"`
}

// ChatResponse is the body returned by POST /api/cv/chat.
type ChatResponse struct {
	Success        bool            `json:"success"`
	ConversationID string          `json:"conversation_id"`
	MessageID      string          `json:"message_id,omitempty"`
	Action         ActionType      `json:"action,omitempty"`
	Data           json.RawMessage `json:"data,omitempty"`
	Message        string          `json:"message"`
}

// ApplyRequest is the body of POST /api/cv/chat/apply.
type ApplyRequest struct {
	ConversationID string `json:"conversation_id" validate:"required"`
	MessageID      string `json:"message_id" validate:"required"`
}

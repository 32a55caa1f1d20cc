// Package chat implements the CV-assistant conversation flow: prompt
// assembly, the per-conversation draft state machine, and the orchestration
// from user text to a sanitized, typed action.
package chat

import (
	"fmt"
	"strings"

	"github.com/dmoreno/cv-studio/internal/llm"
	"github.com/dmoreno/cv-studio/internal/prompts"
	"github.com/dmoreno/cv-studio/internal/types"
)

// maxHistoryTurns bounds the prior turns included in a prompt so token usage
// stays capped regardless of true conversation length.
const maxHistoryTurns = 6

var systemPrompt = prompts.MustGet("chat.json", "system")

// AssemblePrompt builds the provider-ready message list: the fixed system
// prompt, a capped slice of prior turns in their original order, and the
// current user message with the editor context appended as a trailing
// annotation.
func AssemblePrompt(sanitized string, history []types.ChatMessage, ctx types.ChatContext) []llm.Message {
	messages := make([]llm.Message, 0, maxHistoryTurns+2)
	messages = append(messages, llm.Message{Role: "system", Content: systemPrompt})

	start := 0
	if len(history) > maxHistoryTurns {
		start = len(history) - maxHistoryTurns
	}
	for _, m := range history[start:] {
		messages = append(messages, llm.Message{Role: string(m.Role), Content: m.Content})
	}

	messages = append(messages, llm.Message{
		Role:    "user",
		Content: sanitized + "\n\n" + contextAnnotation(ctx),
	})
	return messages
}

// contextAnnotation summarizes the editor state for the model.
func contextAnnotation(ctx types.ChatContext) string {
	var sb strings.Builder
	sb.WriteString("[Contexto del editor: ")
	if ctx.ActiveSection != "" {
		fmt.Fprintf(&sb, "sección activa=%s; ", ctx.ActiveSection)
	}
	fmt.Fprintf(&sb, "tiene experiencia=%s, formación=%s, habilidades=%s, proyectos=%s]",
		yesNo(ctx.HasExperience), yesNo(ctx.HasEducation), yesNo(ctx.HasSkills), yesNo(ctx.HasProjects))
	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}

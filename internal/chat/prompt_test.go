package chat

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmoreno/cv-studio/internal/types"
)

func TestAssemblePrompt_SystemFirstUserLast(t *testing.T) {
	messages := AssemblePrompt("tengo 3 años de experiencia", nil, types.ChatContext{ActiveSection: "experience"})

	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].Role)
	assert.Equal(t, "user", messages[1].Role)
	assert.Contains(t, messages[1].Content, "tengo 3 años de experiencia")
	assert.Contains(t, messages[1].Content, "sección activa=experience")
}

func TestAssemblePrompt_HistoryCapped(t *testing.T) {
	var history []types.ChatMessage
	for i := 0; i < 20; i++ {
		history = append(history, types.ChatMessage{
			Role:    types.RoleUser,
			Content: fmt.Sprintf("turno %d", i),
		})
	}

	messages := AssemblePrompt("hola", history, types.ChatContext{})

	// system + capped history + current turn, regardless of true length.
	require.Len(t, messages, 1+maxHistoryTurns+1)
	assert.Equal(t, "turno 14", messages[1].Content, "history keeps the most recent turns in original order")
	assert.Equal(t, "turno 19", messages[maxHistoryTurns].Content)
}

func TestAssemblePrompt_ContextAnnotation(t *testing.T) {
	messages := AssemblePrompt("hola", nil, types.ChatContext{
		HasExperience: true,
		HasSkills:     true,
	})

	last := messages[len(messages)-1].Content
	assert.Contains(t, last, "tiene experiencia=sí")
	assert.Contains(t, last, "formación=no")
	assert.Contains(t, last, "habilidades=sí")
}

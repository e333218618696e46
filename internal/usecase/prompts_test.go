package usecase

import (
	"strings"
	"testing"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestBuildCondensePrompt(t *testing.T) {
	history := []domain.ChatTurn{
		domain.GreetingTurn(),
		domain.NewChatTurn("user", "I need a TV"),
	}

	prompt := buildCondensePrompt(history, "something {context} eco?")

	assert.Contains(t, prompt, "Chat History:\nAI: Hello! Which product are you looking for today?\nHuman: I need a TV\n")
	assert.Contains(t, prompt, "Follow Up Input:\nsomething {context} eco?\n")
	assert.True(t, strings.HasSuffix(prompt, "Standalone question:"))
}

func TestBuildAnswerPrompt_JoinsDocumentsWithBlankLine(t *testing.T) {
	docs := []domain.Document{
		{ProductID: 1, Content: "id: 1\nname: A"},
		{ProductID: 2, Content: "id: 2\nname: B"},
	}

	prompt := buildAnswerPrompt(docs, "which is greener?")

	assert.Contains(t, prompt, "Context:\nid: 1\nname: A\n\nid: 2\nname: B\n\nQuestion:\nwhich is greener?\n")
	assert.Contains(t, prompt, "Your name is EcoSpark.")
	assert.Contains(t, prompt, "(product_id:id)")
}

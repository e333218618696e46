package usecase

import (
	"strings"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
)

const condenseTemplate = `Given the following chat history and a follow up question, rephrase the follow up input question to be a standalone question.
Or end the conversation if it seems like it's done.

Chat History:
{chat_history}

Follow Up Input:
{question}

Standalone question:`

const answerTemplate = `You are a friendly, conversational retail shopping negotiation assistant of a electronic store which sells TV, lighting, audio products, washing machine, etc. Your name is EcoSpark.
Use the following context including product names, descriptions, category, brand, price, specification, eco data to show the shopper whats available, answer their question
and negotiate with them to help them find the best product for their needs. Remember to provide good options and help them choose the optimal eco-friendly product if possible.
Please be friendly like a sweet sale girl and make sure to provide CORRECT product name, category, brand, price, specification, eco data, etc.
If you're referring to a product, please also append (product_id:id) to the product name.

Context:
{context}

Question:
{question}

Helpful Answer:`

const (
	humanPrefix = "Human"
	aiPrefix    = "AI"
)

// renderHistory выводит историю построчно: "Human: ..." или "AI: ...".
func renderHistory(history []domain.ChatTurn) string {
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		prefix := aiPrefix
		if turn.Role == domain.RoleUser {
			prefix = humanPrefix
		}
		lines = append(lines, prefix+": "+turn.Message)
	}
	return strings.Join(lines, "\n")
}

// Подстановка выполняется за один проход, поэтому фигурные скобки во вводе пользователя не раскрываются.
func buildCondensePrompt(history []domain.ChatTurn, question string) string {
	return strings.NewReplacer(
		"{chat_history}", renderHistory(history),
		"{question}", question,
	).Replace(condenseTemplate)
}

func buildAnswerPrompt(docs []domain.Document, question string) string {
	contents := make([]string, 0, len(docs))
	for _, d := range docs {
		contents = append(contents, d.Content)
	}

	return strings.NewReplacer(
		"{context}", strings.Join(contents, "\n\n"),
		"{question}", question,
	).Replace(answerTemplate)
}

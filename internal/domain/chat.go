package domain

// ChatRole: автор реплики в истории диалога
type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// GreetingMessage подставляется вместо пустой истории диалога.
const GreetingMessage = "Hello! Which product are you looking for today?"

// ChatTurn: одна реплика истории диалога
type ChatTurn struct {
	Role    ChatRole
	Message string
}

// NewChatTurn приводит произвольную роль клиента к user/assistant:
// всё, кроме "user", считается репликой ассистента.
func NewChatTurn(role, message string) ChatTurn {
	r := RoleAssistant
	if role == string(RoleUser) {
		r = RoleUser
	}
	return ChatTurn{Role: r, Message: message}
}

func GreetingTurn() ChatTurn {
	return ChatTurn{Role: RoleAssistant, Message: GreetingMessage}
}

// PromptMessage: сообщение, отправляемое языковой модели
type PromptMessage struct {
	Role    string
	Content string
}

func NewUserPrompt(content string) PromptMessage {
	return PromptMessage{Role: "user", Content: content}
}

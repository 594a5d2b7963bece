package store

// Conversation is one assistant chat session. Scheduling attempts and
// their outcomes are recorded as messages inside a conversation.
type Conversation struct {
	ID        int32
	UID       string
	Title     string
	Timezone  string
	CreatedTs int64
	UpdatedTs int64
}

type FindConversation struct {
	ID    *int32
	UID   *string
	Limit *int
}

type UpdateConversation struct {
	ID        int32
	Title     *string
	UpdatedTs *int64
}

type DeleteConversation struct {
	ID int32
}

type MessageRole string

const (
	MessageRoleUser      MessageRole = "USER"
	MessageRoleAssistant MessageRole = "ASSISTANT"
	MessageRoleSystem    MessageRole = "SYSTEM"
)

// Message is a single turn in a conversation. Metadata carries the
// serialized scheduling outcome for assistant turns that ran an attempt.
type Message struct {
	ID             int32
	UID            string
	ConversationID int32
	Role           MessageRole
	Content        string
	Metadata       string // JSON string
	CreatedTs      int64
}

type FindMessage struct {
	ID             *int32
	UID            *string
	ConversationID *int32
	Limit          *int
}

type DeleteMessage struct {
	ID             *int32
	ConversationID *int32
}

package model

// MaxTurns is the number of leading conversation entries considered for analysis.
const MaxTurns = 200

// FallbackReply is returned when the completion engine produces no text.
const FallbackReply = "I couldn’t generate a response. Try rephrasing your question."

// Role of a conversation participant.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// CoachingContext describes the meeting the user is preparing for.
type CoachingContext struct {
	ConversationType string   `json:"conversation"`
	Feeling          string   `json:"feeling"`
	FocusPoints      []string `json:"focus"`
}

// IsEmpty reports whether no context field is present.
func (c CoachingContext) IsEmpty() bool {
	return c.ConversationType == "" && c.Feeling == "" && len(c.FocusPoints) == 0
}

// ConversationTurn is one chronological entry of a practice session.
type ConversationTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// ChatRequest is the canonical form of a POST /chat body.
type ChatRequest struct {
	UserText string
	Context  CoachingContext
}

// ChatReply is the response of the chat operation.
type ChatReply struct {
	Reply string `json:"reply"`
}

// AnalysisRequest is the canonical form of a POST /analyze body.
type AnalysisRequest struct {
	Context CoachingContext
	Turns   []ConversationTurn
}

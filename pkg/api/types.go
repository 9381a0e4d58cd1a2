package api

// SourceTypeAgent marks a message originated by the automated agent.
// Only these messages carry traces.
const SourceTypeAgent = "agent"

// Conversation is one end-user session as listed by the billing API.
// Used downstream only as the key to fetch its messages.
type Conversation struct {
	ID         int64  `json:"id"`
	ContactURN string `json:"urn"`
	CreatedOn  string `json:"created_on"`
}

// Message is a single turn within a conversation. Ephemeral: lives in
// memory only while its conversation is being processed.
type Message struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	SourceType string `json:"source_type"`
	CreatedAt  string `json:"created_at"`
}

// conversationsPage is the paginated envelope of the conversation
// listing. Next is decoded but deliberately not consulted for
// termination; only an empty results page ends the walk.
type conversationsPage struct {
	Count   int            `json:"count"`
	Next    *string        `json:"next"`
	Results []Conversation `json:"results"`
}

// messagesPage is the envelope of the message listing. A response
// without a results field decodes to a nil slice, which callers treat
// as an empty message list rather than an error.
type messagesPage struct {
	Results []Message `json:"results"`
}

package model

// Handler values sent by the chat platform.
const (
	HandlerTrigger = "trigger"
	HandlerMessage = "message"
	HandlerPing    = "ping"
)

// InboundEvent is a webhook event posted by the chat platform.
type InboundEvent struct {
	Handler      string            `json:"handler"`
	RequestID    string            `json:"requestId"`
	TenantID     string            `json:"tenantId"`
	Channel      string            `json:"channel"`
	Visitor      EventVisitor      `json:"visitor"`
	Conversation EventConversation `json:"conversation"`
	Message      EventMessage      `json:"message"`
	Params       map[string]string `json:"params,omitempty"`
}

// EventVisitor identifies the visitor who produced the event.
type EventVisitor struct {
	ID     string `json:"id"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Locale string `json:"locale,omitempty"`
}

// EventConversation carries the platform's conversation handle.
type EventConversation struct {
	ID string `json:"id"`
}

// EventMessage is the visitor's message.
type EventMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Key returns the conversation key of the event.
func (e InboundEvent) Key() ConversationKey {
	return ConversationKey{TenantID: e.TenantID, VisitorID: e.Visitor.ID}
}

// VisitorMeta converts the event's visitor fields.
func (e InboundEvent) VisitorMeta() VisitorMeta {
	return VisitorMeta{
		Email:              e.Visitor.Email,
		Name:               e.Visitor.Name,
		Locale:             e.Visitor.Locale,
		Channel:            e.Channel,
		ConversationHandle: e.Conversation.ID,
	}
}

// ReplyText is a single reply bubble.
type ReplyText struct {
	Text string `json:"text"`
}

// Reply is the synchronous webhook response body.
type Reply struct {
	Replies []ReplyText `json:"replies"`
}

// EmptyReply acknowledges an event without saying anything.
func EmptyReply() Reply {
	return Reply{Replies: []ReplyText{}}
}

// TextReply wraps text in a single-bubble reply.
func TextReply(text string) Reply {
	return Reply{Replies: []ReplyText{{Text: text}}}
}

// Text returns the first reply's text, or "".
func (r Reply) Text() string {
	if len(r.Replies) == 0 {
		return ""
	}
	return r.Replies[0].Text
}

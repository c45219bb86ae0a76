package model

import "time"

// Role identifies the author of a history entry.
type Role string

const (
	RoleVisitor   Role = "visitor"
	RoleAssistant Role = "assistant"
)

// DefaultMaxHistory is the history cap used when none is configured.
const DefaultMaxHistory = 10

// ConversationKey identifies one visitor's conversation with one tenant.
type ConversationKey struct {
	TenantID  string
	VisitorID string
}

// String returns "tenant:visitor".
func (k ConversationKey) String() string {
	return k.TenantID + ":" + k.VisitorID
}

// HistoryEntry is one turn of the conversation transcript.
type HistoryEntry struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// VisitorMeta is captured at session start. Later triggers only fill blanks.
type VisitorMeta struct {
	Email              string            `json:"email,omitempty"`
	Name               string            `json:"name,omitempty"`
	Locale             string            `json:"locale,omitempty"`
	Channel            string            `json:"channel,omitempty"`
	ConversationHandle string            `json:"conversation_handle,omitempty"`
	Extra              map[string]string `json:"extra,omitempty"`
}

// Merge fills empty fields of m from other and returns the result.
func (m VisitorMeta) Merge(other VisitorMeta) VisitorMeta {
	if m.Email == "" {
		m.Email = other.Email
	}
	if m.Name == "" {
		m.Name = other.Name
	}
	if m.Locale == "" {
		m.Locale = other.Locale
	}
	if m.Channel == "" {
		m.Channel = other.Channel
	}
	if m.ConversationHandle == "" {
		m.ConversationHandle = other.ConversationHandle
	}
	if len(other.Extra) > 0 {
		extra := make(map[string]string, len(m.Extra)+len(other.Extra))
		for k, v := range other.Extra {
			extra[k] = v
		}
		for k, v := range m.Extra {
			extra[k] = v
		}
		m.Extra = extra
	}
	return m
}

// PendingResult is a background pipeline output awaiting the visitor's next turn.
type PendingResult struct {
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	Consumed  bool      `json:"consumed"`
}

// Fresh reports whether the result is unconsumed and no older than ttl at now.
func (p *PendingResult) Fresh(now time.Time, ttl time.Duration) bool {
	return p != nil && !p.Consumed && now.Sub(p.CreatedAt) <= ttl
}

// Conversation is the durable per-visitor conversation record.
type Conversation struct {
	Key                ConversationKey
	History            []HistoryEntry
	Visitor            VisitorMeta
	ClarificationCount int
	ResolvedParams     map[string]string
	Pending            *PendingResult
	ReplyOverride      string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewConversation returns an empty conversation for key.
func NewConversation(key ConversationKey) Conversation {
	return Conversation{
		Key:            key,
		ResolvedParams: map[string]string{},
	}
}

// AppendHistory appends entries, evicting the oldest so that at most max remain.
func (c *Conversation) AppendHistory(max int, entries ...HistoryEntry) {
	if max <= 0 {
		max = DefaultMaxHistory
	}
	c.History = append(c.History, entries...)
	if over := len(c.History) - max; over > 0 {
		c.History = append([]HistoryEntry(nil), c.History[over:]...)
	}
}

// SetResolvedParam adds or overwrites a resolved parameter. Keys are never removed.
func (c *Conversation) SetResolvedParam(name, value string) {
	if c.ResolvedParams == nil {
		c.ResolvedParams = map[string]string{}
	}
	c.ResolvedParams[name] = value
}

// ResetClarifications sets the clarification counter back to zero.
func (c *Conversation) ResetClarifications() {
	c.ClarificationCount = 0
}

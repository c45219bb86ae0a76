package chatpush

import "context"

// IChatPush delivers out-of-band messages into an open chat conversation.
// Implementations are safe for concurrent use.
type IChatPush interface {
	SendMessage(ctx context.Context, channel, conversationHandle, text string) error
}

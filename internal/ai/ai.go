// Package ai talks to the hosted conversational-agent platform that backs the voice
// widget. The server only brokers session URLs; conversations run client side.
package ai

import "context"

type Adapter interface {
	// SessionURL returns a signed URL the browser uses to open a conversation with
	// agentID. An empty URL means the client should connect with the public agent id.
	SessionURL(ctx context.Context, agentID string) (string, error)
}

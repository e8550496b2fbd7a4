package router

import "context"

// HandlerFunc is a command side effect. Handlers take the raw payload and
// return nothing; the dispatcher consumes no result.
type HandlerFunc func(payload []byte)

type MessageRouter interface {
	// RegisterHandler binds a command segment to a handler. Matching is
	// case-sensitive and exact. Register everything before Start.
	RegisterHandler(command string, handler HandlerFunc)

	// Start subscribes the function call filter and, if a user ID is
	// configured, the user event filter, then announces device status.
	Start(ctx context.Context) error
}

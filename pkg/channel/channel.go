package channel

import (
	"context"

	"minibot/pkg/message"
	"minibot/pkg/robot"
)

// Result is what one dispatch produced: the buffered response batches and
// any "did you mean" suggestions from the fallback search.
type Result struct {
	Batches     []robot.Batch
	Suggestions []string
}

// Handler dispatches one inbound text message and returns what should be
// relayed back through the transport.
type Handler func(context.Context, *message.TextMessage) (Result, error)

// Adapter bridges one external transport (for example Telegram) into MiniBot.
type Adapter interface {
	Name() string
	Run(context.Context, Handler) error
}

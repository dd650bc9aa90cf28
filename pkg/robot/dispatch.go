package robot

import (
	"context"
	"errors"
	"fmt"

	"minibot/pkg/fuzzy"
	"minibot/pkg/message"
)

// Receive dispatches one incoming message. Listeners are evaluated in
// registration order and at most one handler runs; its error (or panic)
// becomes the dispatch result. When nothing matches, the message text is
// fuzzy-matched against the registered suggestions and any hits are
// buffered, best first. One dispatch runs at a time per robot.
func (r *Robot) Receive(ctx context.Context, msg message.Incoming) error {
	if msg == nil {
		return errors.New("message is required")
	}

	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()

	var matched *Listener
	var match Match
	pool := make([]string, 0)

	for _, listener := range r.listeners {
		pool = append(pool, listener.opts.Suggestions...)

		if msg.Done() {
			continue
		}
		if m := listener.matcher(msg); m != nil {
			matched = listener
			match = m
			break
		}
	}

	if matched == nil {
		r.suggest(msg, pool)
		return nil
	}

	if missing := r.missingConfig(); len(missing) > 0 {
		r.log.Info("Dispatch blocked on missing configuration", "missing", len(missing), "listener", matched.opts.ID)
		lines := missingConfigReply(missing, r.teamID, r.setupURLTemplate)
		return newResponse(ctx, r, msg, nil).ReplyText(lines...)
	}

	return r.runHandler(ctx, matched, msg, match)
}

// runHandler invokes the single matched handler and waits for it to
// settle. A panicking handler surfaces as an error instead of taking the
// dispatch loop down.
func (r *Robot) runHandler(ctx context.Context, listener *Listener, msg message.Incoming, match Match) (err error) {
	defer func() {
		if cause := recover(); cause != nil {
			err = fmt.Errorf("listener handler panicked: %v", cause)
		}
	}()

	if err := listener.handler(newResponse(ctx, r, msg, match)); err != nil {
		if listener.opts.ID != "" {
			return fmt.Errorf("listener %s: %w", listener.opts.ID, err)
		}
		return fmt.Errorf("listener handler: %w", err)
	}
	return nil
}

// suggest runs the fuzzy fallback over the collected suggestion pool. An
// empty pool or a match-less search just yields no suggestions.
func (r *Robot) suggest(msg message.Incoming, pool []string) {
	if len(pool) == 0 {
		return
	}

	text, ok := msg.(*message.TextMessage)
	if !ok {
		return
	}

	ranked := fuzzy.Targets(fuzzy.Rank(r.stripMention(text.Text), pool))
	if len(ranked) == 0 {
		return
	}

	r.log.Debug("Buffering suggestions for unmatched message", "count", len(ranked))
	r.bufMu.Lock()
	r.toSuggest = append(r.toSuggest, ranked...)
	r.bufMu.Unlock()
}

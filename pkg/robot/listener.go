package robot

import (
	"errors"
	"regexp"

	"minibot/pkg/message"
)

// Match holds the capture groups from a successful listener match. Index 0
// is the full match for text listeners; predicate listeners report an
// empty (but non-nil) match.
type Match []string

// MatcherFunc inspects an incoming message and returns a match, or nil
// when the listener should not act.
type MatcherFunc func(message.Incoming) Match

// HandlerFunc runs a matched listener. The dispatch engine waits for it to
// return; its error becomes the dispatch result.
type HandlerFunc func(*Response) error

// ListenerOptions carries optional listener metadata. Suggestions feed the
// fuzzy fallback when no listener matches a message.
type ListenerOptions struct {
	ID          string
	Suggestions []string
}

// Listener is one registered (matcher, options, handler) triple. Listeners
// are immutable once registered.
type Listener struct {
	matcher MatcherFunc
	opts    ListenerOptions
	handler HandlerFunc
}

func newListener(matcher MatcherFunc, opts ListenerOptions, handler HandlerFunc) (*Listener, error) {
	if matcher == nil {
		return nil, errors.New("missing a matcher for listener")
	}
	if handler == nil {
		return nil, errors.New("missing a handler for listener")
	}
	return &Listener{matcher: matcher, opts: opts, handler: handler}, nil
}

// textMatcher wraps a regexp into a matcher that only considers
// text-bearing messages.
func textMatcher(re *regexp.Regexp) MatcherFunc {
	return func(msg message.Incoming) Match {
		text, ok := msg.(*message.TextMessage)
		if !ok {
			return nil
		}
		if m := text.Match(re); m != nil {
			return Match(m)
		}
		return nil
	}
}

// Listen registers a raw-predicate listener. Registration order is the
// match precedence and is never reordered.
func (r *Robot) Listen(matcher MatcherFunc, opts ListenerOptions, handler HandlerFunc) error {
	listener, err := newListener(matcher, opts, handler)
	if err != nil {
		return err
	}

	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()
	r.listeners = append(r.listeners, listener)
	return nil
}

// Hear registers a listener that matches the pattern anywhere in any text
// message.
func (r *Robot) Hear(re *regexp.Regexp, opts ListenerOptions, handler HandlerFunc) error {
	if re == nil {
		return errors.New("missing a matcher for listener")
	}
	return r.Listen(textMatcher(re), opts, handler)
}

// Respond registers a listener that matches only when the message is
// addressed to the bot. The mention requirement holds in debug mode too.
func (r *Robot) Respond(re *regexp.Regexp, opts ListenerOptions, handler HandlerFunc) error {
	if re == nil {
		return errors.New("missing a matcher for listener")
	}

	compiled, err := r.respondPattern(re)
	if err != nil {
		return err
	}
	return r.Listen(textMatcher(compiled), opts, handler)
}

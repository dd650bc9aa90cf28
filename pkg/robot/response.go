package robot

import (
	"context"

	"minibot/pkg/delivery"
	"minibot/pkg/message"
)

// Payload is one outbound item: plain text, or a rich attachment when
// Rich is set.
type Payload struct {
	Text string
	Rich *delivery.Rich
}

// Text wraps a plain string into a payload item.
func Text(text string) Payload {
	return Payload{Text: text}
}

// RichItem wraps a rich attachment into a payload item.
func RichItem(rich delivery.Rich) Payload {
	return Payload{Rich: &rich}
}

// Batch is one buffered outbound batch: the ordered payload items of a
// single send or reply call.
type Batch struct {
	Items []Payload
	Reply bool
}

// Response is handed to a matched listener's handler. It knows the
// triggering message, the match that selected the listener, and how to
// send content back.
type Response struct {
	ctx   context.Context
	robot *Robot
	msg   message.Incoming

	// Match holds the capture groups of the matching pattern.
	Match Match
}

func newResponse(ctx context.Context, r *Robot, msg message.Incoming, match Match) *Response {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Response{ctx: ctx, robot: r, msg: msg, Match: match}
}

// Robot returns the robot that dispatched the message.
func (resp *Response) Robot() *Robot {
	return resp.robot
}

// Message returns the message that triggered the listener.
func (resp *Response) Message() message.Incoming {
	return resp.msg
}

// Send posts payload items to the room the message came from.
func (resp *Response) Send(items ...Payload) error {
	return resp.post(items, false)
}

// Reply posts payload items flagged as directed at the sender.
func (resp *Response) Reply(items ...Payload) error {
	return resp.post(items, true)
}

// SendText posts plain text lines to the room.
func (resp *Response) SendText(lines ...string) error {
	return resp.post(textPayloads(lines), false)
}

// ReplyText posts plain text lines directed at the sender.
func (resp *Response) ReplyText(lines ...string) error {
	return resp.post(textPayloads(lines), true)
}

// Finish marks the triggering message done so no further listener acts on
// it.
func (resp *Response) Finish() {
	resp.msg.Finish()
}

func textPayloads(lines []string) []Payload {
	items := make([]Payload, 0, len(lines))
	for _, line := range lines {
		items = append(items, Text(line))
	}
	return items
}

// post buffers or delivers one batch. An empty item list, or a message
// without a sender or room, is a silent no-op.
func (resp *Response) post(items []Payload, reply bool) error {
	if len(items) == 0 {
		return nil
	}

	sender := resp.msg.Sender()
	if sender == nil || resp.msg.Room() == "" {
		return nil
	}

	r := resp.robot
	if r.debug || r.deliverer == nil {
		r.bufMu.Lock()
		r.toSend = append(r.toSend, Batch{Items: items, Reply: reply})
		r.bufMu.Unlock()
		return nil
	}

	d := delivery.Delivery{
		TeamID: r.teamID,
		UserID: sender.ID,
		RoomID: resp.msg.Room(),
		Reply:  reply,
	}
	for _, item := range items {
		if item.Rich != nil {
			d.Rich = append(d.Rich, *item.Rich)
			continue
		}
		d.Text = append(d.Text, item.Text)
	}

	return r.deliverer.Deliver(resp.ctx, d)
}

// Outbox returns a copy of the buffered batches.
func (r *Robot) Outbox() []Batch {
	r.bufMu.Lock()
	defer r.bufMu.Unlock()

	out := make([]Batch, len(r.toSend))
	copy(out, r.toSend)
	return out
}

// DrainOutbox returns the buffered batches and clears the buffer. Channel
// adapters use this to relay debug-mode output through their own
// transport.
func (r *Robot) DrainOutbox() []Batch {
	r.bufMu.Lock()
	defer r.bufMu.Unlock()

	out := r.toSend
	r.toSend = nil
	return out
}

// Suggestions returns a copy of the buffered suggestion strings.
func (r *Robot) Suggestions() []string {
	r.bufMu.Lock()
	defer r.bufMu.Unlock()

	out := make([]string, len(r.toSuggest))
	copy(out, r.toSuggest)
	return out
}

// DrainSuggestions returns the buffered suggestions and clears the buffer.
func (r *Robot) DrainSuggestions() []string {
	r.bufMu.Lock()
	defer r.bufMu.Unlock()

	out := r.toSuggest
	r.toSuggest = nil
	return out
}

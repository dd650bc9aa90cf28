package message

import (
	"regexp"

	"minibot/pkg/user"
)

// Incoming is implemented by every inbound message kind the dispatch
// engine can receive.
type Incoming interface {
	Sender() *user.User
	Room() string
	Finish()
	Done() bool
}

// Message is an incoming chat event. The room is copied from the sending
// user at construction time and never changes afterwards.
type Message struct {
	user *user.User
	room string
	done bool
}

// New wraps the sending user into a fresh, not-yet-finished message.
func New(u *user.User) *Message {
	m := &Message{user: u}
	if u != nil {
		m.room = u.Room
	}
	return m
}

// Sender returns the user that sent the message.
func (m *Message) Sender() *user.User {
	return m.user
}

// Room returns the room the message was seen in.
func (m *Message) Room() string {
	return m.room
}

// Finish marks the message so no further listener acts on it. Finishing
// twice is harmless; the flag is never reset.
func (m *Message) Finish() {
	m.done = true
}

// Done reports whether the message has been finished.
func (m *Message) Done() bool {
	return m.done
}

// TextMessage is a Message carrying chat text and a transport-assigned id.
type TextMessage struct {
	Message
	Text string
	ID   string
}

// NewText builds a text message from the sending user.
func NewText(u *user.User, text string, id string) *TextMessage {
	m := &TextMessage{Text: text, ID: id}
	m.Message = *New(u)
	return m
}

// Match runs the regexp against the message text and returns the match
// with its capture groups, or nil when the text does not match. It has no
// side effects.
func (m *TextMessage) Match(re *regexp.Regexp) []string {
	if re == nil {
		return nil
	}
	return re.FindStringSubmatch(m.Text)
}

// String returns the message text.
func (m *TextMessage) String() string {
	return m.Text
}

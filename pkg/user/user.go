package user

// User represents a participating user in the chat.
type User struct {
	ID         string
	Name       string
	Room       string
	Attributes map[string]any
}

// New builds a User from an id and optional attributes. The "name" and
// "room" attributes are lifted into their own fields; Name falls back to
// the id when not supplied.
func New(id string, attrs map[string]any) *User {
	u := &User{
		ID:         id,
		Attributes: make(map[string]any),
	}
	u.Apply(attrs)

	if u.Name == "" {
		u.Name = id
	}

	return u
}

// Apply merges attributes into the user, new values winning on keys that
// are re-supplied.
func (u *User) Apply(attrs map[string]any) {
	for key, value := range attrs {
		switch key {
		case "name":
			if name, ok := value.(string); ok && name != "" {
				u.Name = name
				continue
			}
		case "room":
			if room, ok := value.(string); ok {
				u.Room = room
				continue
			}
		}
		u.Attributes[key] = value
	}
}

// Get returns a free-form attribute value, or nil when unset.
func (u *User) Get(key string) any {
	return u.Attributes[key]
}

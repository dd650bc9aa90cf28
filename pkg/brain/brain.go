// Package brain is the in-memory user directory and scratch storage shared
// by listener handlers. Contents live in memory; durability across
// restarts is the snapshot store's job.
package brain

import (
	"strings"
	"sync"

	"minibot/pkg/user"
)

// Brain stores known users plus a private key/value namespace. User lookup
// order is the order users were first seen, never map iteration order.
type Brain struct {
	mu      sync.RWMutex
	users   map[string]*user.User
	order   []string
	private map[string]any
}

// New returns an empty brain.
func New() *Brain {
	return &Brain{
		users:   make(map[string]*user.User),
		private: make(map[string]any),
	}
}

// UserForID returns the user for the given id, creating one on first
// sight. Supplied attributes are merged into an existing user, except when
// they carry a room differing from the stored one: that is treated as a
// new session and a brand-new user replaces the old object.
func (b *Brain) UserForID(id string, attrs map[string]any) *user.User {
	b.mu.Lock()
	defer b.mu.Unlock()

	u, ok := b.users[id]
	if ok && roomChanged(u, attrs) {
		u = nil
	}

	if u == nil {
		u = user.New(id, attrs)
		if !ok {
			b.order = append(b.order, id)
		}
		b.users[id] = u
		return u
	}

	u.Apply(attrs)
	return u
}

func roomChanged(u *user.User, attrs map[string]any) bool {
	room, ok := attrs["room"].(string)
	return ok && room != "" && room != u.Room
}

// UserForName returns the first user whose name matches case-insensitively,
// or nil when none does.
func (b *Brain) UserForName(name string) *user.User {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, id := range b.order {
		if u := b.users[id]; strings.EqualFold(u.Name, name) {
			return u
		}
	}
	return nil
}

// UsersForRawFuzzyName returns every user whose name starts with the
// fragment, case-insensitively. Exact matches are included since a name is
// a prefix of itself.
func (b *Brain) UsersForRawFuzzyName(fragment string) []*user.User {
	b.mu.RLock()
	defer b.mu.RUnlock()

	lower := strings.ToLower(fragment)
	matched := make([]*user.User, 0)
	for _, id := range b.order {
		u := b.users[id]
		if strings.HasPrefix(strings.ToLower(u.Name), lower) {
			matched = append(matched, u)
		}
	}
	return matched
}

// UsersForFuzzyName is UsersForRawFuzzyName, narrowed to exact matches
// whenever at least one exists. An exact name short-circuits the ambiguity
// of being a prefix of longer names.
func (b *Brain) UsersForFuzzyName(fragment string) []*user.User {
	matched := b.UsersForRawFuzzyName(fragment)

	exact := make([]*user.User, 0, len(matched))
	for _, u := range matched {
		if strings.EqualFold(u.Name, fragment) {
			exact = append(exact, u)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return matched
}

// Get returns a stored value from the private namespace, or nil.
func (b *Brain) Get(key string) any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	value, ok := b.private[key]
	if !ok {
		return nil
	}
	return value
}

// Set stores one value in the private namespace and returns the brain for
// chaining.
func (b *Brain) Set(key string, value any) *Brain {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.private[key] = value
	return b
}

// SetAll merges every supplied key into the private namespace.
func (b *Brain) SetAll(values map[string]any) *Brain {
	b.mu.Lock()
	defer b.mu.Unlock()

	for key, value := range values {
		b.private[key] = value
	}
	return b
}

// Remove deletes a key from the private namespace. Removing an unknown key
// is a no-op.
func (b *Brain) Remove(key string) *Brain {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.private, key)
	return b
}

// MergeData shallow-merges new data into the private namespace, new values
// winning on collision.
func (b *Brain) MergeData(data map[string]any) {
	b.SetAll(data)
}

// Data returns a shallow copy of the private namespace.
func (b *Brain) Data() map[string]any {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data := make(map[string]any, len(b.private))
	for key, value := range b.private {
		data[key] = value
	}
	return data
}

// Users returns all known users in the order they were first seen.
func (b *Brain) Users() []*user.User {
	b.mu.RLock()
	defer b.mu.RUnlock()

	all := make([]*user.User, 0, len(b.order))
	for _, id := range b.order {
		all = append(all, b.users[id])
	}
	return all
}

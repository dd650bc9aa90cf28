// Package robot implements the listener dispatch engine: an ordered
// listener registry, the addressed-message pattern compiler, the
// required-configuration gate, and the response buffers one bot instance
// owns.
package robot

import (
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"

	"minibot/pkg/brain"
	"minibot/pkg/delivery"
)

// Robot dispatches incoming messages to matching listeners for one team.
// All mutable state (listeners, outbox, suggestion buffer) belongs to the
// instance so multiple robots stay independent.
type Robot struct {
	teamID string
	botID  string
	debug  bool

	brain     *brain.Brain
	deliverer delivery.Deliverer
	log       *slog.Logger
	lookupEnv func(string) string

	setupURLTemplate string
	mentionRe        *regexp.Regexp

	dispatchMu sync.Mutex
	listeners  []*Listener
	required   []Requirement

	bufMu     sync.Mutex
	toSend    []Batch
	toSuggest []string
}

// New builds a robot for one team. In debug mode responses are buffered in
// the outbox instead of being delivered.
func New(teamID string, botID string, debug bool, log *slog.Logger) *Robot {
	if log == nil {
		log = slog.Default()
	}

	return &Robot{
		teamID:    teamID,
		botID:     botID,
		debug:     debug,
		brain:     brain.New(),
		log:       log.With("component", "robot"),
		lookupEnv: os.Getenv,
		mentionRe: mentionPattern(botID),
	}
}

// SetDeliverer wires the outbound delivery collaborator used outside debug
// mode.
func (r *Robot) SetDeliverer(d delivery.Deliverer) {
	r.deliverer = d
}

// SetSetupURLTemplate sets the per-team OAuth setup URL used by the
// required-configuration gate. A "{team}" placeholder is replaced with the
// team id.
func (r *Robot) SetSetupURLTemplate(template string) {
	r.setupURLTemplate = template
}

// SetEnvLookup overrides how required configuration values are resolved.
// The default is os.Getenv.
func (r *Robot) SetEnvLookup(lookup func(string) string) {
	if lookup != nil {
		r.lookupEnv = lookup
	}
}

// TeamID returns the id of the team this robot serves.
func (r *Robot) TeamID() string {
	return r.teamID
}

// BotID returns the bot's own user id.
func (r *Robot) BotID() string {
	return r.botID
}

// Debug reports whether responses are buffered instead of delivered.
func (r *Robot) Debug() bool {
	return r.debug
}

// Brain returns the robot's user directory.
func (r *Robot) Brain() *brain.Brain {
	return r.brain
}

// Listeners returns how many listeners are registered.
func (r *Robot) Listeners() int {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()
	return len(r.listeners)
}

// leadingFlags captures an inline flag group at the start of a pattern so
// it can be hoisted in front of the composed respond pattern.
var leadingFlags = regexp.MustCompile(`^\(\?([imsU]+)\)`)

// respondPattern rewrites a pattern so it only matches messages addressed
// to the bot: an optional "<@BOTID|name>:" mention or a bare "@BOTID"
// opener, then whitespace, then the original pattern.
func (r *Robot) respondPattern(re *regexp.Regexp) (*regexp.Regexp, error) {
	pattern := re.String()

	flags := ""
	if m := leadingFlags.FindStringSubmatch(pattern); m != nil {
		flags = m[0]
		pattern = pattern[len(m[0]):]
	}

	if strings.HasPrefix(pattern, "^") {
		r.log.Warn("Anchors don't work well with respond, perhaps you want to use hear", "pattern", re.String())
	}

	composed := flags + `[<]?[@]?` + regexp.QuoteMeta(r.botID) + `(?:[^>]+>:)?\s*(?:` + pattern + `)`
	return regexp.Compile(composed)
}

// mentionPattern matches a leading bot mention in any of its surface
// forms, used to normalize text before the suggestion search.
func mentionPattern(botID string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*[<]?[@]?` + regexp.QuoteMeta(botID) + `(?:[^>]*>)?:?\s*`)
}

// stripMention removes a leading bot mention from message text.
func (r *Robot) stripMention(text string) string {
	return strings.TrimSpace(r.mentionRe.ReplaceAllString(text, ""))
}

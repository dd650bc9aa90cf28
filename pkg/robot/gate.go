package robot

import (
	"fmt"
	"strings"
)

// Mode says how a missing configuration value gets set: through the OAuth
// setup flow, or by the user directly.
type Mode string

const (
	ModeOAuth Mode = "oauth"
	ModeUser  Mode = "user"
)

// Requirement is one named configuration value the bot needs before
// matched handlers may run.
type Requirement struct {
	Name     string
	Required bool
	Mode     Mode
}

// RequireConfig declares configuration requirements. Declaration order is
// kept so gate messages are deterministic.
func (r *Robot) RequireConfig(reqs ...Requirement) {
	r.dispatchMu.Lock()
	defer r.dispatchMu.Unlock()
	r.required = append(r.required, reqs...)
}

// missingConfig returns the required entries whose values are currently
// unset, in declaration order.
func (r *Robot) missingConfig() []Requirement {
	missing := make([]Requirement, 0)
	for _, req := range r.required {
		if req.Required && strings.TrimSpace(r.lookupEnv(req.Name)) == "" {
			missing = append(missing, req)
		}
	}
	return missing
}

// missingConfigReply builds the two-line "configuration needed" reply for
// the gate. OAuth-mode entries take precedence: their line points at the
// team's setup URL. Otherwise user-mode entries get a self-set example
// naming the first missing variable.
func missingConfigReply(missing []Requirement, teamID string, setupURLTemplate string) []string {
	oauth := make([]string, 0, len(missing))
	user := make([]string, 0, len(missing))
	for _, req := range missing {
		if req.Mode == ModeOAuth {
			oauth = append(oauth, req.Name)
		} else {
			user = append(user, req.Name)
		}
	}

	if len(oauth) > 0 {
		return []string{
			fmt.Sprintf("I need the following settings before I can do that: %s", strings.Join(oauth, ", ")),
			fmt.Sprintf("Complete the setup for your team here: %s", setupURL(setupURLTemplate, teamID)),
		}
	}

	if len(user) > 0 {
		return []string{
			fmt.Sprintf("I need the following settings before I can do that: %s", strings.Join(user, ", ")),
			fmt.Sprintf("You can set this yourself, like so: set %s <value>", user[0]),
		}
	}

	return nil
}

func setupURL(template string, teamID string) string {
	return strings.ReplaceAll(template, "{team}", teamID)
}

package robot

import (
	"strings"
	"testing"
)

func TestMissingConfigReplyOAuthMode(t *testing.T) {
	lines := missingConfigReply([]Requirement{
		{Name: "SERVICE_OAUTH_TOKEN", Required: true, Mode: ModeOAuth},
		{Name: "SERVICE_API_KEY", Required: true, Mode: ModeUser},
	}, "TDEADBEEF", "https://example.test/teams/{team}/setup")

	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "SERVICE_OAUTH_TOKEN") {
		t.Fatalf("line 1 = %q, want oauth variable name", lines[0])
	}
	if strings.Contains(lines[0], "SERVICE_API_KEY") {
		t.Fatalf("line 1 = %q, oauth branch must list only oauth variables", lines[0])
	}
	if !strings.Contains(lines[1], "https://example.test/teams/TDEADBEEF/setup") {
		t.Fatalf("line 2 = %q, want team setup URL", lines[1])
	}
}

func TestMissingConfigReplyUserMode(t *testing.T) {
	lines := missingConfigReply([]Requirement{
		{Name: "SERVICE_API_KEY", Required: true, Mode: ModeUser},
		{Name: "SERVICE_REGION", Required: true, Mode: ModeUser},
	}, "TDEADBEEF", "")

	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "SERVICE_API_KEY, SERVICE_REGION") {
		t.Fatalf("line 1 = %q, want missing variable list", lines[0])
	}
	if !strings.Contains(lines[1], "set SERVICE_API_KEY <value>") {
		t.Fatalf("line 2 = %q, want example naming the first variable", lines[1])
	}
}

func TestMissingConfigReplyEmpty(t *testing.T) {
	if lines := missingConfigReply(nil, "TDEADBEEF", ""); lines != nil {
		t.Fatalf("lines = %v, want nil", lines)
	}
}

func TestMissingConfigHonorsRequiredFlag(t *testing.T) {
	r := debugRobot()
	r.SetEnvLookup(func(string) string { return "" })
	r.RequireConfig(
		Requirement{Name: "OPTIONAL_SETTING", Required: false, Mode: ModeUser},
		Requirement{Name: "NEEDED_SETTING", Required: true, Mode: ModeUser},
	)

	missing := r.missingConfig()
	if len(missing) != 1 || missing[0].Name != "NEEDED_SETTING" {
		t.Fatalf("missing = %+v, want only NEEDED_SETTING", missing)
	}
}

func TestMissingConfigSeesSetValues(t *testing.T) {
	r := debugRobot()
	r.SetEnvLookup(func(name string) string {
		if name == "NEEDED_SETTING" {
			return "present"
		}
		return ""
	})
	r.RequireConfig(Requirement{Name: "NEEDED_SETTING", Required: true, Mode: ModeUser})

	if missing := r.missingConfig(); len(missing) != 0 {
		t.Fatalf("missing = %+v, want none", missing)
	}
}

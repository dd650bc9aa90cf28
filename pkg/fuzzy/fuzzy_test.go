package fuzzy

import "testing"

func TestRankOrdersByDistance(t *testing.T) {
	matches := Rank("hreoku lis app", []string{"heroku migrate app", "heroku list apps"})

	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].Target != "heroku list apps" {
		t.Fatalf("best match = %q, want heroku list apps", matches[0].Target)
	}
	if matches[1].Target != "heroku migrate app" {
		t.Fatalf("second match = %q, want heroku migrate app", matches[1].Target)
	}
	if matches[0].Distance >= matches[1].Distance {
		t.Fatalf("distances not ascending: %d, %d", matches[0].Distance, matches[1].Distance)
	}
}

func TestRankDropsDistantCandidates(t *testing.T) {
	matches := Rank("deploy api", []string{"completely unrelated phrase"})
	if len(matches) != 0 {
		t.Fatalf("matches = %v, want none", matches)
	}
}

func TestRankIsCaseInsensitive(t *testing.T) {
	matches := Rank("HEROKU LIST APPS", []string{"heroku list apps"})
	if len(matches) != 1 || matches[0].Distance != 0 {
		t.Fatalf("matches = %v, want one exact match", matches)
	}
}

func TestRankEmptyQuery(t *testing.T) {
	if matches := Rank("   ", []string{"anything"}); matches != nil {
		t.Fatalf("matches = %v, want nil", matches)
	}
}

func TestRankKeepsOrderOnTies(t *testing.T) {
	matches := Rank("pong", []string{"ping", "pung"})
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].Target != "ping" || matches[1].Target != "pung" {
		t.Fatalf("tied matches reordered: %v", matches)
	}
}

func TestTargets(t *testing.T) {
	targets := Targets([]Match{{Target: "a"}, {Target: "b"}})
	if len(targets) != 2 || targets[0] != "a" || targets[1] != "b" {
		t.Fatalf("targets = %v", targets)
	}

	if Targets(nil) != nil {
		t.Fatal("expected nil for no matches")
	}
}

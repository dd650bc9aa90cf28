package telegram

import (
	"strings"
	"testing"

	"minibot/pkg/channel"
	"minibot/pkg/delivery"
	"minibot/pkg/robot"
)

func TestAllowFromSet(t *testing.T) {
	allowed := allowFromSet([]string{" 123 ", "", "456", "123"})
	if len(allowed) != 2 {
		t.Fatalf("allowFromSet len = %d, want 2", len(allowed))
	}
	if _, ok := allowed["123"]; !ok {
		t.Fatal("allowFromSet missing 123")
	}
	if _, ok := allowed["456"]; !ok {
		t.Fatal("allowFromSet missing 456")
	}
}

func TestSenderAllowed(t *testing.T) {
	adapter := &Adapter{allowFrom: map[string]struct{}{"1": {}}}
	if !adapter.senderAllowed("1") {
		t.Fatal("expected sender 1 to be allowed")
	}
	if adapter.senderAllowed("2") {
		t.Fatal("expected sender 2 to be denied")
	}

	adapter.allowFrom = nil
	if !adapter.senderAllowed("any") {
		t.Fatal("expected sender to be allowed when allowlist empty")
	}
}

func TestRenderResult(t *testing.T) {
	result := channel.Result{
		Batches: []robot.Batch{
			{Items: []robot.Payload{robot.Text("hello 1"), robot.Text("hello 2")}},
			{Items: []robot.Payload{robot.RichItem(delivery.Rich{Title: "Build", Text: "passed", TitleLink: "https://ci.example.test/1"})}},
		},
		Suggestions: []string{"heroku list apps"},
	}

	lines := renderResult(result)
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if lines[0] != "hello 1\nhello 2" {
		t.Fatalf("batch 1 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Build") || !strings.Contains(lines[1], "https://ci.example.test/1") {
		t.Fatalf("batch 2 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "Did you mean?") || !strings.Contains(lines[2], "heroku list apps") {
		t.Fatalf("suggestions = %q", lines[2])
	}
}

func TestRenderResultSkipsEmptyBatches(t *testing.T) {
	lines := renderResult(channel.Result{Batches: []robot.Batch{{}}})
	if len(lines) != 0 {
		t.Fatalf("lines = %v, want none", lines)
	}
}

func TestRenderRichFallback(t *testing.T) {
	if got := renderRich(delivery.Rich{Fallback: "plain"}); got != "plain" {
		t.Fatalf("renderRich = %q, want fallback text", got)
	}
}

func TestPreviewText(t *testing.T) {
	if got := previewText(" hello "); got != "hello" {
		t.Fatalf("previewText short = %q, want %q", got, "hello")
	}

	long := strings.Repeat("a", messagePreviewLimit+20)
	got := previewText(long)
	if len(got) != messagePreviewLimit+3 {
		t.Fatalf("previewText long len = %d, want %d", len(got), messagePreviewLimit+3)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("previewText long = %q, want ellipsis suffix", got)
	}
}

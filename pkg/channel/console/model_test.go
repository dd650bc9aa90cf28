package console

import (
	"testing"

	"minibot/pkg/delivery"
	"minibot/pkg/robot"
)

func TestIsExitCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: "exit", want: true},
		{input: "/exit", want: true},
		{input: "QUIT", want: true},
		{input: ":q", want: true},
		{input: "hello", want: false},
		{input: "exit now", want: false},
	}

	for _, tt := range tests {
		if got := isExitCommand(tt.input); got != tt.want {
			t.Fatalf("isExitCommand(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRenderBatchJoinsItems(t *testing.T) {
	batch := robot.Batch{Items: []robot.Payload{
		robot.Text("line one"),
		robot.Text("line two"),
	}}

	if got := renderBatch(batch, "minibottester"); got != "line one\nline two" {
		t.Fatalf("renderBatch = %q", got)
	}
}

func TestRenderBatchPrefixesReplies(t *testing.T) {
	batch := robot.Batch{
		Items: []robot.Payload{robot.Text("PONG")},
		Reply: true,
	}

	if got := renderBatch(batch, "minibottester"); got != "@minibottester PONG" {
		t.Fatalf("renderBatch = %q", got)
	}
}

func TestRenderRichFallsBack(t *testing.T) {
	if got := renderRich(delivery.Rich{Fallback: "plain version"}); got != "plain version" {
		t.Fatalf("renderRich = %q", got)
	}

	rich := delivery.Rich{Title: "Deploys", Text: "3 running", TitleLink: "https://example.test"}
	if got := renderRich(rich); got != "[Deploys] 3 running https://example.test" {
		t.Fatalf("renderRich = %q", got)
	}
}

// Package console is the interactive debug surface: a terminal chat UI
// that feeds typed lines through the dispatch pipeline and renders the
// buffered responses locally instead of delivering them.
package console

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"minibot/pkg/brain"
	"minibot/pkg/channel"
	"minibot/pkg/user"

	tea "github.com/charmbracelet/bubbletea"
)

const localRoom = "shell"

// Adapter runs a local chat session against the robot. The session user is
// materialized in the shared user directory so user lookups work in the
// shell the same way they do on a live channel.
type Adapter struct {
	botName   string
	directory *brain.Brain
	log       *slog.Logger
}

func NewAdapter(botName string, directory *brain.Brain, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}

	return &Adapter{
		botName:   botName,
		directory: directory,
		log:       log.With("channel", "console"),
	}
}

func (a *Adapter) Name() string {
	return "console"
}

// Run starts the terminal UI and blocks until the user quits or the
// context is cancelled.
func (a *Adapter) Run(ctx context.Context, handler channel.Handler) error {
	sender := a.localUser()
	a.log.Info("console session started", "user", sender.Name)

	program := tea.NewProgram(newModel(ctx, handler, sender, a.botName))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("console session: %w", err)
	}

	return nil
}

func (a *Adapter) localUser() *user.User {
	name := os.Getenv("USER")
	if name == "" {
		name = "shelluser"
	}

	return a.directory.UserForID("1", map[string]any{
		"name": name,
		"room": localRoom,
	})
}

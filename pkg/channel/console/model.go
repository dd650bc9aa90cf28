package console

import (
	"context"
	"fmt"
	"strings"

	"minibot/pkg/channel"
	"minibot/pkg/delivery"
	"minibot/pkg/message"
	"minibot/pkg/robot"
	"minibot/pkg/user"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

type consoleLine struct {
	role    string
	content string
}

type dispatchResultMsg struct {
	result channel.Result
	err    error
}

type model struct {
	ctx     context.Context
	handler channel.Handler
	sender  *user.User
	botName string

	theme    theme
	input    textinput.Model
	viewport viewport.Model
	lines    []consoleLine
	width    int
	height   int
	isReady  bool
}

func newModel(ctx context.Context, handler channel.Handler, sender *user.User, botName string) *model {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "Say something..."
	in.Focus()
	in.CharLimit = 0

	return &model{
		ctx:      ctx,
		handler:  handler,
		sender:   sender,
		botName:  botName,
		theme:    defaultTheme(),
		input:    in,
		viewport: viewport.New(80, 16),
		width:    100,
		height:   24,
	}
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.resizeComponents()
		m.refreshViewport()
		m.isReady = true
		return m, nil
	case tea.KeyMsg:
		switch typed.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			text := strings.TrimSpace(m.input.Value())
			if text == "" {
				return m, nil
			}
			if isExitCommand(text) {
				return m, tea.Quit
			}

			m.lines = append(m.lines, consoleLine{role: "user", content: text})
			m.input.SetValue("")
			m.refreshViewport()
			return m, dispatchCmd(m.ctx, m.handler, m.sender, text)
		}
	case dispatchResultMsg:
		m.appendResult(typed)
		m.refreshViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) View() string {
	if !m.isReady {
		m.resizeComponents()
		m.refreshViewport()
	}

	header := m.theme.header.Width(m.width - 2).Render(fmt.Sprintf("%s debug shell", m.botName))
	status := m.theme.status.Render("Enter send · Ctrl+C/Esc quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		status,
		m.theme.input.Width(m.width-2).Render(m.input.View()),
	)
}

// dispatchCmd runs one dispatch off the UI loop and reports the outcome.
func dispatchCmd(ctx context.Context, handler channel.Handler, sender *user.User, text string) tea.Cmd {
	return func() tea.Msg {
		msg := message.NewText(sender, text, uuid.NewString())
		result, err := handler(ctx, msg)
		return dispatchResultMsg{result: result, err: err}
	}
}

func (m *model) appendResult(msg dispatchResultMsg) {
	if msg.err != nil {
		m.lines = append(m.lines, consoleLine{role: "error", content: msg.err.Error()})
	}

	for _, batch := range msg.result.Batches {
		content := renderBatch(batch, m.sender.Name)
		if content != "" {
			m.lines = append(m.lines, consoleLine{role: "bot", content: content})
		}
	}
	for _, suggestion := range msg.result.Suggestions {
		m.lines = append(m.lines, consoleLine{role: "suggestion", content: "did you mean: " + suggestion})
	}
}

// renderBatch flattens one outbound batch into shell text. Reply batches
// open with the sender's name, the way the chat service would render them.
func renderBatch(batch robot.Batch, senderName string) string {
	parts := make([]string, 0, len(batch.Items))
	for _, item := range batch.Items {
		if item.Rich != nil {
			parts = append(parts, renderRich(*item.Rich))
			continue
		}
		if item.Text != "" {
			parts = append(parts, item.Text)
		}
	}

	content := strings.TrimSpace(strings.Join(parts, "\n"))
	if content == "" {
		return ""
	}
	if batch.Reply {
		return "@" + senderName + " " + content
	}
	return content
}

func renderRich(rich delivery.Rich) string {
	parts := make([]string, 0, 3)
	if rich.Title != "" {
		parts = append(parts, "["+rich.Title+"]")
	}
	if rich.Text != "" {
		parts = append(parts, rich.Text)
	}
	if rich.TitleLink != "" {
		parts = append(parts, rich.TitleLink)
	}
	if len(parts) == 0 {
		parts = append(parts, rich.Fallback)
	}
	return strings.Join(parts, " ")
}

func (m *model) resizeComponents() {
	m.viewport.Width = max(20, m.width-2)
	m.viewport.Height = max(5, m.height-5)
	m.input.Width = max(20, m.width-6)
}

func (m *model) refreshViewport() {
	rendered := make([]string, 0, len(m.lines))
	for _, line := range m.lines {
		switch line.role {
		case "user":
			rendered = append(rendered, m.theme.userTitle.Render(m.sender.Name+">")+" "+line.content)
		case "bot":
			rendered = append(rendered, m.theme.botTitle.Render(m.botName+">")+" "+line.content)
		case "suggestion":
			rendered = append(rendered, m.theme.suggestion.Render(line.content))
		case "error":
			rendered = append(rendered, m.theme.errLine.Render("error: "+line.content))
		}
	}

	m.viewport.SetContent(strings.Join(rendered, "\n"))
	m.viewport.GotoBottom()
}

func isExitCommand(input string) bool {
	switch strings.ToLower(input) {
	case "/exit", "exit", "quit", ":q":
		return true
	}
	return false
}

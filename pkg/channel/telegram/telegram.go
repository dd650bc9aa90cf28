package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"minibot/pkg/brain"
	"minibot/pkg/channel"
	"minibot/pkg/config"
	"minibot/pkg/delivery"
	"minibot/pkg/message"
	"minibot/pkg/robot"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

const channelName = "telegram"
const messagePreviewLimit = 240

// Adapter bridges Telegram updates into MiniBot messages and relays the
// robot's buffered output back through Telegram.
type Adapter struct {
	cfg       config.TelegramConfig
	directory *brain.Brain
	allowFrom map[string]struct{}
	log       *slog.Logger
}

// NewAdapter validates Telegram configuration and constructs an adapter
// instance. Senders are materialized as users through the directory, with
// the Telegram chat as their room.
func NewAdapter(cfg config.TelegramConfig, directory *brain.Brain, log *slog.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("channels.telegram.token is required")
	}
	if directory == nil {
		return nil, errors.New("user directory is required")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Adapter{
		cfg:       cfg,
		directory: directory,
		allowFrom: allowFromSet(cfg.AllowFrom),
		log:       log.With("component", "channel.telegram"),
	}, nil
}

// Name returns the channel identifier used in logs.
func (a *Adapter) Name() string {
	return channelName
}

// Run starts Telegram long polling and dispatches every text update
// through the shared channel handler.
func (a *Adapter) Run(ctx context.Context, handler channel.Handler) error {
	if handler == nil {
		return errors.New("handler is required")
	}

	bot, err := telego.NewBot(strings.TrimSpace(a.cfg.Token))
	if err != nil {
		return fmt.Errorf("initialize telegram bot: %w", err)
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}

	a.log.Info("Telegram channel started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("telegram updates channel closed")
			}

			incoming := update.Message
			if incoming == nil {
				continue
			}

			content := strings.TrimSpace(incoming.Text)
			if content == "" {
				// Only text updates can match listeners.
				continue
			}
			if incoming.From == nil {
				a.log.Debug("Ignoring message without sender")
				continue
			}

			senderID := strconv.FormatInt(incoming.From.ID, 10)
			if !a.senderAllowed(senderID) {
				a.log.Debug("Ignoring message from unauthorized sender", "sender_id", senderID)
				continue
			}

			chatID := strconv.FormatInt(incoming.Chat.ID, 10)
			sender := a.directory.UserForID(senderID, map[string]any{
				"name": senderName(incoming.From),
				"room": chatID,
			})
			msg := message.NewText(sender, content, strconv.Itoa(incoming.MessageID))

			a.log.Info("Received message", "chat_id", chatID, "sender_id", senderID, "content", previewText(content))

			result, err := handler(ctx, msg)
			if err != nil {
				a.log.Error("Failed to dispatch inbound message", "error", err)
			}

			for _, line := range renderResult(result) {
				if _, err := bot.SendMessage(ctx, tu.Message(tu.ID(incoming.Chat.ID), line)); err != nil {
					a.log.Error("Failed to send telegram message", "error", err)
				}
			}
		}
	}
}

// renderResult flattens dispatch output into Telegram-sized text chunks,
// one per batch, with suggestions as a trailing "did you mean" message.
func renderResult(result channel.Result) []string {
	lines := make([]string, 0, len(result.Batches)+1)
	for _, batch := range result.Batches {
		if text := renderBatch(batch); text != "" {
			lines = append(lines, text)
		}
	}

	if len(result.Suggestions) > 0 {
		var b strings.Builder
		b.WriteString("Did you mean?")
		for _, suggestion := range result.Suggestions {
			b.WriteString("\n- ")
			b.WriteString(suggestion)
		}
		lines = append(lines, b.String())
	}

	return lines
}

func renderBatch(batch robot.Batch) string {
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
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// renderRich renders an attachment as plain text; Telegram has no native
// equivalent of the rich payload shape.
func renderRich(rich delivery.Rich) string {
	parts := make([]string, 0, 4)
	if rich.Title != "" {
		parts = append(parts, rich.Title)
	}
	if rich.Text != "" {
		parts = append(parts, rich.Text)
	}
	if rich.TitleLink != "" {
		parts = append(parts, rich.TitleLink)
	}
	if len(parts) == 0 && rich.Fallback != "" {
		parts = append(parts, rich.Fallback)
	}
	return strings.Join(parts, "\n")
}

func senderName(from *telego.User) string {
	name := strings.TrimSpace(strings.TrimSpace(from.FirstName) + " " + strings.TrimSpace(from.LastName))
	if from.Username != "" {
		name = from.Username
	}
	return name
}

// senderAllowed checks whether a sender is permitted by allow_from config.
//
// When no allow list is configured, all senders are accepted.
func (a *Adapter) senderAllowed(senderID string) bool {
	if len(a.allowFrom) == 0 {
		return true
	}

	_, ok := a.allowFrom[strings.TrimSpace(senderID)]
	return ok
}

// allowFromSet normalizes allow_from values into a lookup set.
func allowFromSet(allowFrom []string) map[string]struct{} {
	if len(allowFrom) == 0 {
		return nil
	}

	allowed := make(map[string]struct{}, len(allowFrom))
	for _, value := range allowFrom {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		allowed[trimmed] = struct{}{}
	}

	if len(allowed) == 0 {
		return nil
	}

	return allowed
}

// previewText returns a bounded log-safe preview of message text.
func previewText(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) <= messagePreviewLimit {
		return trimmed
	}

	return trimmed[:messagePreviewLimit] + "..."
}

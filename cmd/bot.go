/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"minibot/pkg/channel"
	"minibot/pkg/channel/telegram"
	"minibot/pkg/config"
	"minibot/pkg/delivery"
	"minibot/pkg/gateway"
	"minibot/pkg/logger"
	"minibot/pkg/message"
	"minibot/pkg/robot"
	"minibot/pkg/store"

	"github.com/spf13/cobra"
)

const telegramChannelName = "telegram"

// botCmd represents the bot command
var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the bot against live channels",
	Long:  "Loads MiniBot configuration, registers the built-in listeners, and dispatches messages from every enabled channel.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = args

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			return
		}
		if err := cfg.Validate(); err != nil {
			fmt.Printf("invalid config: %v\n", err)
			return
		}

		appLogger, err := logger.New(cfg.Logging)
		if err != nil {
			fmt.Printf("failed to initialize logger: %v\n", err)
			return
		}
		slog.SetDefault(appLogger)
		log := slog.Default().With("component", "cmd.bot")

		bot, err := buildRobot(cfg, appLogger)
		if err != nil {
			log.Error("Failed to initialize robot", "error", err)
			return
		}

		adapters, err := enabledAdapters(cfg, bot, appLogger)
		if err != nil {
			log.Error("Channel configuration invalid", "error", err)
			return
		}

		defer restoreBrain(cfg, bot, log)()

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := gateway.NewService(cfg, bot, adapters, appLogger)
		if err != nil {
			log.Error("Failed to initialize gateway service", "error", err)
			return
		}

		log.Info("Bot started", "team_id", cfg.Bot.TeamID, "bot_id", cfg.Bot.BotID, "debug", cfg.Bot.Debug, "channels", enabledChannelNames(adapters), "listeners", bot.Listeners())
		if err := svc.Run(runCtx); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Bot runtime failed", "error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(botCmd)
}

// buildRobot assembles a robot instance from file configuration: identity,
// configuration requirements, and the outbound delivery client.
func buildRobot(cfg *config.Config, log *slog.Logger) (*robot.Robot, error) {
	bot := robot.New(cfg.Bot.TeamID, cfg.Bot.BotID, cfg.Bot.Debug, log)
	bot.RequireConfig(requirements(cfg.Required)...)
	bot.SetSetupURLTemplate(cfg.Delivery.SetupURLTemplate)

	if !cfg.Bot.Debug {
		client, err := delivery.NewClient(cfg.Delivery.BaseURL, cfg.Delivery.AuthToken)
		if err != nil {
			return nil, fmt.Errorf("configure delivery client: %w", err)
		}
		bot.SetDeliverer(client)
	}

	if err := registerBuiltins(bot); err != nil {
		return nil, fmt.Errorf("register built-in listeners: %w", err)
	}

	return bot, nil
}

// restoreBrain loads the persisted brain snapshot and returns the save
// hook to run on shutdown. Snapshot failures degrade to an in-memory
// brain instead of stopping the bot.
func restoreBrain(cfg *config.Config, bot *robot.Robot, log *slog.Logger) func() {
	snapshots, err := store.Open(cfg.Store.Dir)
	if err != nil {
		log.Warn("Brain snapshots disabled", "error", err)
		return func() {}
	}

	if err := snapshots.Load(bot.Brain()); err != nil {
		log.Warn("Failed to load brain snapshot", "error", err)
	}

	return func() {
		if err := snapshots.Save(bot.Brain()); err != nil {
			log.Warn("Failed to save brain snapshot", "error", err)
		}
	}
}

// requirements maps file configuration entries onto gate requirements.
func requirements(items []config.RequiredItem) []robot.Requirement {
	reqs := make([]robot.Requirement, 0, len(items))
	for _, item := range items {
		mode := robot.ModeUser
		if strings.EqualFold(strings.TrimSpace(item.Mode), string(robot.ModeOAuth)) {
			mode = robot.ModeOAuth
		}
		reqs = append(reqs, robot.Requirement{Name: item.Name, Required: item.Required, Mode: mode})
	}

	return reqs
}

// dispatchHandler adapts the robot's dispatch loop to the channel handler
// contract. Buffered output and suggestions are drained into the result so
// adapters can relay them over their own transport.
func dispatchHandler(bot *robot.Robot) channel.Handler {
	return func(ctx context.Context, msg *message.TextMessage) (channel.Result, error) {
		err := bot.Receive(ctx, msg)
		return channel.Result{
			Batches:     bot.DrainOutbox(),
			Suggestions: bot.DrainSuggestions(),
		}, err
	}
}

func enabledAdapters(cfg *config.Config, bot *robot.Robot, log *slog.Logger) ([]channel.Adapter, error) {
	adapters := make([]channel.Adapter, 0, 1)

	if cfg.Channels.Telegram.Enabled {
		adapter, err := telegram.NewAdapter(cfg.Channels.Telegram, bot.Brain(), log)
		if err != nil {
			return nil, fmt.Errorf("configure %s channel: %w", telegramChannelName, err)
		}
		adapters = append(adapters, adapter)
	}

	if len(adapters) == 0 {
		return nil, errors.New("no channels are enabled")
	}

	return adapters, nil
}

func enabledChannelNames(adapters []channel.Adapter) string {
	names := make([]string, 0, len(adapters))
	for _, adapter := range adapters {
		names = append(names, adapter.Name())
	}

	return strings.Join(names, ",")
}

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
	"syscall"

	"minibot/pkg/channel/console"
	"minibot/pkg/config"
	"minibot/pkg/logger"

	"github.com/spf13/cobra"
)

var shellBotName string

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start a local debug session",
	Long:  "Starts an interactive terminal session against the bot. Responses are buffered and rendered locally instead of being delivered.",
	Run: func(cmd *cobra.Command, args []string) {
		_ = args

		cfg := shellConfig()

		appLogger, err := logger.New(cfg.Logging)
		if err != nil {
			fmt.Printf("failed to initialize logger: %v\n", err)
			return
		}
		slog.SetDefault(appLogger)
		log := slog.Default().With("component", "cmd.shell")

		bot, err := buildRobot(cfg, appLogger)
		if err != nil {
			log.Error("Failed to initialize robot", "error", err)
			return
		}

		defer restoreBrain(cfg, bot, log)()

		runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		adapter := console.NewAdapter(shellBotName, bot.Brain(), appLogger)
		if err := adapter.Run(runCtx, dispatchHandler(bot)); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			log.Error("Shell session failed", "error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().StringVarP(&shellBotName, "name", "n", "minibot", "display name for the bot in the shell")
}

// shellConfig loads config.json when present and falls back to a local
// default. The shell always forces debug mode so nothing leaves the
// terminal.
func shellConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = &config.Config{}
	}

	cfg.Bot.Debug = true
	if cfg.Bot.TeamID == "" {
		cfg.Bot.TeamID = "TLOCAL"
	}
	if cfg.Bot.BotID == "" {
		cfg.Bot.BotID = shellBotName
	}
	cfg.Channels.Telegram.Enabled = false

	return cfg
}

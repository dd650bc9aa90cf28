/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"minibot/pkg/delivery"
	"minibot/pkg/robot"
)

var (
	pingPattern  = regexp.MustCompile(`(?i)ping`)
	echoPattern  = regexp.MustCompile(`(?i)echo (.*)`)
	timePattern  = regexp.MustCompile(`(?i)time`)
	whoisPattern = regexp.MustCompile(`(?i)who is @?([\w .\-]+)\??`)
	helpPattern  = regexp.MustCompile(`(?i)help`)
)

// registerBuiltins wires the stock listeners every bot instance carries.
// Registration order is match precedence, so the more specific patterns
// come first.
func registerBuiltins(bot *robot.Robot) error {
	steps := []func(*robot.Robot) error{
		registerEcho,
		registerWhois,
		registerPing,
		registerTime,
		registerHelp,
	}
	for _, step := range steps {
		if err := step(bot); err != nil {
			return err
		}
	}

	return nil
}

func registerPing(bot *robot.Robot) error {
	opts := robot.ListenerOptions{ID: "ping", Suggestions: []string{"ping"}}
	return bot.Respond(pingPattern, opts, func(resp *robot.Response) error {
		return resp.ReplyText("PONG")
	})
}

func registerEcho(bot *robot.Robot) error {
	opts := robot.ListenerOptions{ID: "echo", Suggestions: []string{"echo <text>"}}
	return bot.Respond(echoPattern, opts, func(resp *robot.Response) error {
		return resp.SendText(resp.Match[1])
	})
}

func registerTime(bot *robot.Robot) error {
	opts := robot.ListenerOptions{ID: "time", Suggestions: []string{"time"}}
	return bot.Respond(timePattern, opts, func(resp *robot.Response) error {
		return resp.SendText(fmt.Sprintf("Server time is: %s", time.Now().Format(time.RFC1123)))
	})
}

// registerWhois looks a user up in the directory by fuzzy name and reports
// what the bot knows about them.
func registerWhois(bot *robot.Robot) error {
	opts := robot.ListenerOptions{ID: "whois", Suggestions: []string{"who is <name>"}}
	return bot.Respond(whoisPattern, opts, func(resp *robot.Response) error {
		fragment := strings.TrimRight(strings.TrimSpace(resp.Match[1]), "?")
		matches := resp.Robot().Brain().UsersForFuzzyName(fragment)
		if len(matches) == 0 {
			return resp.ReplyText(fmt.Sprintf("I haven't seen anyone called %q.", fragment))
		}

		lines := make([]string, 0, len(matches))
		for _, match := range matches {
			line := match.Name
			if match.Room != "" {
				line = fmt.Sprintf("%s (last seen in %s)", match.Name, match.Room)
			}
			lines = append(lines, line)
		}

		return resp.SendText(lines...)
	})
}

func registerHelp(bot *robot.Robot) error {
	opts := robot.ListenerOptions{ID: "help", Suggestions: []string{"help"}}
	return bot.Respond(helpPattern, opts, func(resp *robot.Response) error {
		return resp.Send(robot.RichItem(delivery.Rich{
			Title:    "MiniBot commands",
			Text:     "ping · echo <text> · time · who is <name> · help",
			Color:    "good",
			Fallback: "MiniBot commands: ping, echo, time, who is, help",
		}))
	})
}

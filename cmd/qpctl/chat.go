package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/google/subcommands"

	"QuantPilot/internal/assistant"
	"QuantPilot/internal/store"
)

type chatCmd struct {
	stock string
}

func (*chatCmd) Name() string     { return "chat" }
func (*chatCmd) Synopsis() string { return "ask the AI assistant about your portfolio" }
func (*chatCmd) Usage() string {
	return `qpctl chat [-stock SYMBOL] <message>

  Sends the message to the assistant together with the saved portfolio
  and, with -stock, the latest indicators of that symbol.
`
}

func (c *chatCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.stock, "stock", "", "symbol the question is about")
}

func (c *chatCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	message := strings.TrimSpace(strings.Join(f.Args(), " "))
	if message == "" {
		fmt.Fprintln(os.Stderr, "Error: a message is required")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if cfg.Gemini.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Error: GEMINI_API_KEY is not set")
		return subcommands.ExitFailure
	}
	ai, err := assistant.NewGeminiAssistant(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	req := assistant.Request{Message: message, SelectedStock: strings.ToUpper(c.stock)}
	if st, err := openStore(cfg); err != nil {
		log.Printf("warning: portfolio unavailable: %v", err)
	} else {
		if p, err := store.LoadPortfolio(st); err == nil {
			req.Portfolio = p.Holdings
		}
		st.Close()
	}
	if req.SelectedStock != "" {
		if col, err := newCollector(cfg); err == nil {
			if points, err := col.Indicators(ctx, req.SelectedStock, 200); err == nil && len(points) > 0 {
				req.Latest = &points[len(points)-1]
			}
		}
	}

	reply, err := ai.Chat(ctx, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(reply)
	return subcommands.ExitSuccess
}

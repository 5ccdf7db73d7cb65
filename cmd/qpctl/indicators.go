package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"QuantPilot/internal/strategy"
)

type indicatorsCmd struct {
	days int
	rows int
}

func (*indicatorsCmd) Name() string     { return "indicators" }
func (*indicatorsCmd) Synopsis() string { return "compute technical indicators for a symbol" }
func (*indicatorsCmd) Usage() string {
	return `qpctl indicators [-days n] [-rows n] <symbol>

  Computes SMA, RSI, MACD, Bollinger Bands and Stochastic over the daily
  history and prints the most recent bars with the current signals.
`
}

func (c *indicatorsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 200, "number of daily bars to fetch")
	f.IntVar(&c.rows, "rows", 10, "number of recent bars to display")
}

func (c *indicatorsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one symbol is required")
		return subcommands.ExitUsageError
	}
	symbol := strings.ToUpper(f.Arg(0))

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	col, err := newCollector(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	points, err := col.Indicators(ctx, symbol, c.days)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	signals := strategy.LatestSignals(points, time.Now())
	printMarkdown(indicatorsMarkdown(symbol, points, c.rows, signals))
	return subcommands.ExitSuccess
}

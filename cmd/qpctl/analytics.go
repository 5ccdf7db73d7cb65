package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"QuantPilot/internal/collector"
	"QuantPilot/internal/model"
	"QuantPilot/internal/store"
	"QuantPilot/internal/strategy"
)

type analyticsCmd struct {
	period    string
	benchmark string
}

func (*analyticsCmd) Name() string     { return "analytics" }
func (*analyticsCmd) Synopsis() string { return "compute portfolio risk and performance analytics" }
func (*analyticsCmd) Usage() string {
	return `qpctl analytics [-period 1y] [-benchmark SPY] [SYMBOL:QTY[@COST]...]

  Computes Sharpe, Sortino, drawdown, beta, alpha and the benchmark
  comparison. Without arguments the saved portfolio is used.
`
}

func (c *analyticsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "lookback period (1mo, 3mo, 6mo, 1y, 2y); defaults to the config")
	f.StringVar(&c.benchmark, "benchmark", "", "benchmark symbol; defaults to the config")
}

func (c *analyticsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	holdings, err := parseHoldings(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
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

	if len(holdings) == 0 {
		st, err := openStore(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		p, err := store.LoadPortfolio(st)
		st.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		holdings = p.Holdings
	}
	if len(holdings) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no holdings given and the saved portfolio is empty")
		return subcommands.ExitUsageError
	}

	for i := range holdings {
		if holdings[i].Price > 0 {
			continue
		}
		q, err := col.Quote(ctx, holdings[i].Symbol)
		if err != nil {
			log.Printf("warning: no price for %s: %v", holdings[i].Symbol, err)
			continue
		}
		holdings[i].Price = q.Price
	}

	req := collector.AnalyticsRequest{Period: c.period, Benchmark: c.benchmark}
	if req.Period == "" {
		req.Period = cfg.Analytics.Period
	}
	if req.Benchmark == "" {
		req.Benchmark = cfg.Analytics.Benchmark
	}

	res, err := col.PortfolioAnalytics(ctx, holdings, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	var cmp *model.BenchmarkComparison
	if bc, err := col.BenchmarkComparison(ctx, holdings, req); err != nil {
		log.Printf("warning: benchmark comparison: %v", err)
	} else {
		cmp = &bc
	}

	recs := strategy.Recommend(holdings, &res)
	printMarkdown(analyticsMarkdown(req.Period, strings.ToUpper(req.Benchmark), res, cmp, recs))
	return subcommands.ExitSuccess
}

// parseHoldings reads SYMBOL:QTY or SYMBOL:QTY@COST arguments.
func parseHoldings(args []string) ([]model.Holding, error) {
	holdings := make([]model.Holding, 0, len(args))
	for _, arg := range args {
		symbol, rest, ok := strings.Cut(arg, ":")
		if !ok || symbol == "" {
			return nil, fmt.Errorf("invalid holding %q, want SYMBOL:QTY[@COST]", arg)
		}
		qtyText, costText, hasCost := strings.Cut(rest, "@")
		qty, err := strconv.ParseFloat(qtyText, 64)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("invalid quantity in %q", arg)
		}
		h := model.Holding{Symbol: strings.ToUpper(symbol), Quantity: qty}
		if hasCost {
			if h.AvgCost, err = strconv.ParseFloat(costText, 64); err != nil || h.AvgCost < 0 {
				return nil, fmt.Errorf("invalid cost in %q", arg)
			}
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

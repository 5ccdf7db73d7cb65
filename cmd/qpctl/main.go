// Command qpctl runs the QuantPilot engines from the terminal.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path"

	"github.com/google/subcommands"

	"QuantPilot/internal/collector"
	"QuantPilot/internal/config"
	"QuantPilot/internal/store"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to the YAML config file")
	provider   = flag.String("provider", "", "Data provider override (alphavantage, yahoo, mock)")
)

func main() {
	log.SetFlags(0)
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&quoteCmd{}, "market data")
	commander.Register(&indicatorsCmd{}, "market data")
	commander.Register(&analyticsCmd{}, "portfolio")
	commander.Register(&chatCmd{}, "assistant")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// loadConfig reads the config file and applies the -provider override.
func loadConfig() (*config.Config, error) {
	if v := os.Getenv("CONFIG_PATH"); v != "" && *configPath == "configs/config.yaml" {
		*configPath = v
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}
	if *provider != "" {
		cfg.DataSource.Provider = *provider
	}
	return cfg, cfg.Validate()
}

func newCollector(cfg *config.Config) (*collector.Collector, error) {
	f, err := collector.NewFetcher(cfg.DataSource.Provider, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.CallsPerMinute)
	if err != nil {
		return nil, err
	}
	return collector.NewCollector(f, cfg.Analytics.RiskFreeRate), nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	return store.Open(cfg.Storage.Backend, cfg.Storage.FilePath, cfg.Database.SQLitePath)
}

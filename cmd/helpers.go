package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/ziadkadry99/finquery/internal/classifier"
	"github.com/ziadkadry99/finquery/internal/config"
	"github.com/ziadkadry99/finquery/internal/engine"
	"github.com/ziadkadry99/finquery/internal/llm"
	"github.com/ziadkadry99/finquery/internal/providers"
	"github.com/ziadkadry99/finquery/internal/querylog"
	"github.com/ziadkadry99/finquery/internal/session"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `finquery init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildEngine wires the query engine from config. The query log store is
// optional.
func buildEngine(cfg *config.Config, sessions *session.Store, qlog *querylog.Store) (*engine.Engine, error) {
	provider, err := llm.NewProvider(string(cfg.Provider), cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("creating AI provider: %w", err)
	}
	if cfg.RateLimitRPM > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RateLimitRPM)
	}

	timeout := time.Duration(cfg.ProviderTimeoutSeconds) * time.Second

	return engine.New(engine.Deps{
		Sessions:     sessions,
		Classifier:   classifier.New(provider, cfg.Model),
		Market:       providers.NewMarketClient(cfg.MarketBaseURL, os.Getenv("POLYGON_API_KEY"), timeout),
		Fundamentals: providers.NewFundamentalsClient(cfg.FundamentalsBaseURL, os.Getenv("FINDATA_API_KEY"), timeout),
		Research:     providers.NewResearchClient(cfg.ResearchBaseURL, os.Getenv("PERPLEXITY_API_KEY"), cfg.SonarModel, cfg.DeepResearchModel, timeout),
		AI:           provider,
		Model:        cfg.Model,
		CallTimeout:  timeout,
		QueryLog:     qlog,
	}), nil
}

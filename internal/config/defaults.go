package config

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Provider:          ProviderOpenAI,
		Model:             "gpt-4o",
		SonarModel:        "sonar",
		DeepResearchModel: "sonar-deep-research",

		MarketBaseURL:       "https://api.polygon.io",
		FundamentalsBaseURL: "https://api.financialdatasets.ai",
		ResearchBaseURL:     "https://api.perplexity.ai",

		Port:    8080,
		DataDir: "data",

		HistoryCap:             20,
		SessionTTLMinutes:      60,
		SweepIntervalMinutes:   10,
		ProviderTimeoutSeconds: 25,
		RateLimitRPM:           60,
	}
}

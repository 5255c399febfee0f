package config

// ProviderType identifies the AI provider used for classification and
// synthesis.
type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
)

// Config is the top-level finquery configuration, corresponding to
// .finquery.yml. API keys are never stored here; they come from the
// environment (OPENAI_API_KEY, ANTHROPIC_API_KEY, POLYGON_API_KEY,
// FINDATA_API_KEY, PERPLEXITY_API_KEY).
type Config struct {
	Provider          ProviderType `yaml:"provider" koanf:"provider"`
	Model             string       `yaml:"model" koanf:"model"`
	SonarModel        string       `yaml:"sonar_model" koanf:"sonar_model"`
	DeepResearchModel string       `yaml:"deep_research_model" koanf:"deep_research_model"`

	MarketBaseURL       string `yaml:"market_base_url" koanf:"market_base_url"`
	FundamentalsBaseURL string `yaml:"fundamentals_base_url" koanf:"fundamentals_base_url"`
	ResearchBaseURL     string `yaml:"research_base_url" koanf:"research_base_url"`

	Port    int    `yaml:"port" koanf:"port"`
	DataDir string `yaml:"data_dir" koanf:"data_dir"`

	HistoryCap             int `yaml:"history_cap" koanf:"history_cap"`
	SessionTTLMinutes      int `yaml:"session_ttl_minutes" koanf:"session_ttl_minutes"`
	SweepIntervalMinutes   int `yaml:"sweep_interval_minutes" koanf:"sweep_interval_minutes"`
	ProviderTimeoutSeconds int `yaml:"provider_timeout_seconds" koanf:"provider_timeout_seconds"`
	RateLimitRPM           int `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
}

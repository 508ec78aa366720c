// Package config loads run settings from defaults, an optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/deusflow/newsdigest/internal/news"
)

// ConfigPathEnv names the variable consulted when no --config flag is given.
const ConfigPathEnv = "NEWSDIGEST_CONFIG"

const (
	ProviderNaver = "naver"
	ProviderRSS   = "rss"

	LLMOllama = "ollama"
	LLMOpenAI = "openai"
	LLMGemini = "gemini"
)

// ErrMissingCredentials is returned when the Naver search API keys are not set.
var ErrMissingCredentials = errors.New("naver API credentials are not configured")

type Config struct {
	Search  SearchConfig  `yaml:"search"`
	LLM     LLMConfig     `yaml:"llm"`
	Summary SummaryConfig `yaml:"summary"`
	Output  OutputConfig  `yaml:"output"`

	DaysBack           int      `yaml:"days_back" env:"DAYS_BACK" env-default:"7"`
	RelevanceThreshold int      `yaml:"relevance_threshold" env:"RELEVANCE_THRESHOLD" env-default:"50"`
	SkipDomains        []string `yaml:"skip_domains" env:"SKIP_DOMAINS" env-separator:"," env-default:"n.news,news.ifm.kr,www.dnews.co.kr"`

	RequestTimeout time.Duration `yaml:"request_timeout" env:"REQUEST_TIMEOUT" env-default:"30s"`
	LogLevel       string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Debug          bool          `yaml:"debug" env:"DEBUG"`
}

// SearchConfig selects the news source and carries its credentials.
type SearchConfig struct {
	Provider     string `yaml:"provider" env:"SEARCH_PROVIDER" env-default:"naver"`
	Endpoint     string `yaml:"endpoint" env:"NAVER_SEARCH_URL" env-default:"https://openapi.naver.com/v1/search/news.json"`
	ClientID     string `yaml:"client_id" env:"X_NAVER_CLIENT_ID"`
	ClientSecret string `yaml:"client_secret" env:"X_NAVER_CLIENT_SECRET"`
	DisplayCount int    `yaml:"display_count" env:"NEWS_DISPLAY_COUNT" env-default:"30"`
	FeedsFile    string `yaml:"feeds_file" env:"RSS_FEEDS_FILE"`
}

// LLMConfig describes the text-generation service.
type LLMConfig struct {
	Provider     string        `yaml:"provider" env:"LLM_PROVIDER" env-default:"ollama"`
	Model        string        `yaml:"model" env:"LLM_MODEL" env-default:"llama3.1:8b"`
	BaseURL      string        `yaml:"base_url" env:"LLM_BASE_URL"`
	OpenAIAPIKey string        `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	GeminiAPIKey string        `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Timeout      time.Duration `yaml:"timeout" env:"LLM_TIMEOUT" env-default:"120s"`
}

// SummaryConfig holds the summarization model and its length bounds.
type SummaryConfig struct {
	Endpoint         string `yaml:"endpoint" env:"SUMMARY_ENDPOINT" env-default:"https://api-inference.huggingface.co/models"`
	Model            string `yaml:"model" env:"SUMMARY_MODEL" env-default:"gogamza/kobart-summarization"`
	APIKey           string `yaml:"api_key" env:"HUGGINGFACE_API_KEY"`
	MaxTextLength    int    `yaml:"max_text_length" env:"MAX_TEXT_LENGTH" env-default:"2048"`
	MinContentLength int    `yaml:"min_content_length" env:"MIN_CONTENT_LENGTH" env-default:"64"`
	MinLength        int    `yaml:"min_length" env:"SUMMARY_MIN_LENGTH" env-default:"30"`
	MaxLength        int    `yaml:"max_length" env:"SUMMARY_MAX_LENGTH" env-default:"128"`
}

// OutputConfig names the files a run produces.
type OutputConfig struct {
	File        string `yaml:"file" env:"OUTPUT_FILE" env-default:"result.html"`
	NoDupFile   string `yaml:"nodup_file" env:"OUTPUT_NODUP_FILE" env-default:"result_nodup.html"`
	MetricsFile string `yaml:"metrics_file" env:"METRICS_FILE"`
}

// Load reads the YAML file at path (or $NEWSDIGEST_CONFIG) when present and applies
// environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigPathEnv)
	}

	var cfg Config
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	cfg.normalize()
	return &cfg, cfg.Validate()
}

func (c *Config) normalize() {
	c.Search.Provider = strings.ToLower(strings.TrimSpace(c.Search.Provider))
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))

	domains := c.SkipDomains[:0]
	for _, d := range c.SkipDomains {
		if d = strings.TrimSpace(d); d != "" {
			domains = append(domains, d)
		}
	}
	c.SkipDomains = domains
}

func (c *Config) Validate() error {
	if c.DaysBack < 0 {
		return fmt.Errorf("DAYS_BACK must not be negative, got %d", c.DaysBack)
	}
	if c.RelevanceThreshold < 0 || c.RelevanceThreshold > 100 {
		return fmt.Errorf("RELEVANCE_THRESHOLD must be within 0..100, got %d", c.RelevanceThreshold)
	}
	if c.Search.DisplayCount <= 0 {
		return fmt.Errorf("NEWS_DISPLAY_COUNT must be positive, got %d", c.Search.DisplayCount)
	}
	if c.Search.Provider != ProviderNaver && c.Search.Provider != ProviderRSS {
		return fmt.Errorf("SEARCH_PROVIDER must be %q or %q", ProviderNaver, ProviderRSS)
	}
	switch c.LLM.Provider {
	case LLMOllama, LLMOpenAI, LLMGemini:
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of %s, %s, %s", LLMOllama, LLMOpenAI, LLMGemini)
	}
	if c.Summary.MinLength > c.Summary.MaxLength {
		return fmt.Errorf("SUMMARY_MIN_LENGTH (%d) exceeds SUMMARY_MAX_LENGTH (%d)", c.Summary.MinLength, c.Summary.MaxLength)
	}
	if c.Summary.MaxTextLength <= 0 {
		return fmt.Errorf("MAX_TEXT_LENGTH must be positive, got %d", c.Summary.MaxTextLength)
	}
	if c.Output.File == "" {
		return fmt.Errorf("OUTPUT_FILE is required")
	}
	return nil
}

// CheckSearchCredentials returns ErrMissingCredentials when the Naver source
// is selected without both API keys. The RSS source needs no credentials.
func (c *Config) CheckSearchCredentials() error {
	if c.Search.Provider == ProviderRSS {
		return nil
	}
	if c.Search.ClientID == "" || c.Search.ClientSecret == "" {
		return ErrMissingCredentials
	}
	return nil
}

// HasSearchCredentials reports whether the selected search source can be called.
func (c *Config) HasSearchCredentials() bool {
	return c.CheckSearchCredentials() == nil
}

// Window derives the lookback window ending at now.
func (c *Config) Window(now time.Time) news.Window {
	return news.NewWindow(now, c.DaysBack)
}

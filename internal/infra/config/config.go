package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	LLM     LLMConfig     `yaml:"llm"`
	Weather WeatherConfig `yaml:"weather"`
	Advisor AdvisorConfig `yaml:"advisor"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig bounds retries of completion calls.
type RetryConfig struct {
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
}

// LLMConfig contains settings for the OpenAI-compatible completion endpoint.
type LLMConfig struct {
	APIKey         string        `yaml:"apiKey"`
	BaseURL        string        `yaml:"baseUrl"`
	Model          string        `yaml:"model"`
	Temperature    float32       `yaml:"temperature"`
	MaxTokens      int           `yaml:"maxTokens"`
	AttemptTimeout time.Duration `yaml:"attemptTimeout"`
	Retry          RetryConfig   `yaml:"retry"`
}

// WeatherConfig controls intent extraction and the forecast tool.
type WeatherConfig struct {
	Timezone     string     `yaml:"timezone"`
	IntentPrompt string     `yaml:"intentPrompt"`
	Tool         ToolConfig `yaml:"tool"`
}

// ToolConfig describes the Amap MCP server.
type ToolConfig struct {
	Transport string        `yaml:"transport"`
	Command   string        `yaml:"command"`
	Args      []string      `yaml:"args"`
	Endpoint  string        `yaml:"endpoint"`
	APIKey    string        `yaml:"apiKey"`
	ToolName  string        `yaml:"toolName"`
	Timeout   time.Duration `yaml:"timeout"`
}

// AdvisorConfig controls the outfit recommendation domain.
type AdvisorConfig struct {
	Prompt             string `yaml:"prompt"`
	UnavailableMessage string `yaml:"unavailableMessage"`
}

// Load reads configuration from a YAML file, a .env file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(envFile()); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func envFile() string {
	if path := os.Getenv("ENV_FILE"); path != "" {
		return path
	}
	return ".env"
}

// loadDotEnv never overrides variables already present in the process environment.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	// LLM_MODEL_ID wins over the older LLM_MODEL name.
	if v := os.Getenv("LLM_MODEL_ID"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_MAX_TOKENS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.MaxTokens = parsed
		}
	}
	if v := os.Getenv("LLM_ATTEMPT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.AttemptTimeout = parsed
		}
	}
	if v := os.Getenv("LLM_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.LLM.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("LLM_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.Retry.BaseBackoff = parsed
		}
	}
	if v := os.Getenv("AMAP_API_KEY"); v != "" {
		cfg.Weather.Tool.APIKey = v
	}
	if v := os.Getenv("AMAP_MCP_TRANSPORT"); v != "" {
		cfg.Weather.Tool.Transport = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("AMAP_MCP_ENDPOINT"); v != "" {
		cfg.Weather.Tool.Endpoint = v
	}
	if v := os.Getenv("WEATHER_TIMEZONE"); v != "" {
		cfg.Weather.Timezone = v
	}
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:     ":8080",
			ReadTimeout: 5 * time.Second,
			// Streams stay open while the model is generating.
			WriteTimeout:   5 * time.Minute,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		LLM: LLMConfig{
			BaseURL:        "https://api.openai.com/v1",
			Model:          "gpt-4o-mini",
			Temperature:    0.3,
			MaxTokens:      2048,
			AttemptTimeout: 60 * time.Second,
			Retry: RetryConfig{
				MaxAttempts: 3,
				BaseBackoff: time.Second,
			},
		},
		Weather: WeatherConfig{
			Timezone: "Asia/Shanghai",
			Tool: ToolConfig{
				Transport: "stdio",
				Command:   "npx",
				Args:      []string{"-y", "@amap/amap-maps-mcp-server"},
				Endpoint:  "https://mcp.amap.com/mcp",
				ToolName:  "maps_weather",
				Timeout:   30 * time.Second,
			},
		},
		Advisor: AdvisorConfig{
			UnavailableMessage: "I can only look up the next 4 days",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		return errors.New("llm.baseUrl cannot be empty")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be between 0 and 2")
	}
	if c.LLM.MaxTokens < 0 {
		return errors.New("llm.maxTokens cannot be negative")
	}
	if c.LLM.AttemptTimeout <= 0 {
		return errors.New("llm.attemptTimeout must be positive")
	}
	if c.LLM.Retry.MaxAttempts <= 0 {
		return errors.New("llm.retry.maxAttempts must be positive")
	}
	if c.LLM.Retry.BaseBackoff < 0 {
		return errors.New("llm.retry.baseBackoff cannot be negative")
	}
	if _, err := time.LoadLocation(c.Weather.Timezone); err != nil {
		return fmt.Errorf("weather.timezone %q: %w", c.Weather.Timezone, err)
	}
	switch c.Weather.Tool.Transport {
	case "stdio":
		if strings.TrimSpace(c.Weather.Tool.Command) == "" {
			return errors.New("weather.tool.command cannot be empty for stdio transport")
		}
	case "http":
		if strings.TrimSpace(c.Weather.Tool.Endpoint) == "" {
			return errors.New("weather.tool.endpoint cannot be empty for http transport")
		}
	default:
		return fmt.Errorf("weather.tool.transport %q must be stdio or http", c.Weather.Tool.Transport)
	}
	if strings.TrimSpace(c.Weather.Tool.ToolName) == "" {
		return errors.New("weather.tool.toolName cannot be empty")
	}
	if c.Weather.Tool.Timeout <= 0 {
		return errors.New("weather.tool.timeout must be positive")
	}
	if strings.TrimSpace(c.Advisor.UnavailableMessage) == "" {
		return errors.New("advisor.unavailableMessage cannot be empty")
	}
	return nil
}

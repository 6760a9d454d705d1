package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Generation providers
const (
	ProviderHTTP   = "http"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// Config holds the runtime configuration
type Config struct {
	Port       string           `yaml:"port"`
	LogLevel   string           `yaml:"log_level"`
	Generation GenerationConfig `yaml:"generation"`
	Breaker    BreakerConfig    `yaml:"breaker"`
	Auth       AuthConfig       `yaml:"auth"`

	// envProblems holds environment values that could not be parsed
	envProblems []string
}

// GenerationConfig selects and configures the story generator
type GenerationConfig struct {
	Provider       string `yaml:"provider"`
	APIKey         string `yaml:"api_key"`
	Endpoint       string `yaml:"endpoint"`
	OpenAIBaseURL  string `yaml:"openai_base_url"`
	OpenAIModel    string `yaml:"openai_model"`
	GeminiAPIKey   string `yaml:"gemini_api_key"`
	GeminiModel    string `yaml:"gemini_model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// BreakerConfig controls the circuit breaker around the generator
type BreakerConfig struct {
	Enabled     bool `yaml:"enabled"`
	MaxFailures int  `yaml:"max_failures"`
	OpenSeconds int  `yaml:"open_seconds"`
}

// AuthConfig controls the invoker token guard. An empty secret disables it.
type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
}

// ConfigurationError lists every problem found while validating the configuration
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Load reads .env (if present), the optional YAML file named by
// STORYLAND_CONFIG, then environment overrides, and validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("STORYLAND_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns the configuration used when nothing is set
func Defaults() Config {
	return Config{
		Port:     "8080",
		LogLevel: "info",
		Generation: GenerationConfig{
			Provider:       ProviderHTTP,
			TimeoutSeconds: 7,
		},
		Breaker: BreakerConfig{
			Enabled:     true,
			MaxFailures: 5,
			OpenSeconds: 30,
		},
	}
}

func (c *Config) applyEnv() {
	c.Port = getEnvDefault("PORT", c.Port)
	c.LogLevel = getEnvDefault("LOG_LEVEL", c.LogLevel)

	g := &c.Generation
	g.Provider = strings.ToLower(getEnvDefault("GENERATION_PROVIDER", g.Provider))
	g.APIKey = getEnvDefault("DEEPSEEK_API_KEY", g.APIKey)
	g.Endpoint = getEnvDefault("GENERATION_ENDPOINT", g.Endpoint)
	g.OpenAIBaseURL = getEnvDefault("OPENAI_BASE_URL", g.OpenAIBaseURL)
	g.OpenAIModel = getEnvDefault("OPENAI_MODEL", g.OpenAIModel)
	g.GeminiAPIKey = getEnvDefault("GEMINI_API_KEY", g.GeminiAPIKey)
	g.GeminiModel = getEnvDefault("GEMINI_MODEL", g.GeminiModel)
	g.TimeoutSeconds = c.envInt("GENERATION_TIMEOUT_SECONDS", g.TimeoutSeconds)

	c.Breaker.Enabled = c.envBool("BREAKER_ENABLED", c.Breaker.Enabled)
	c.Breaker.MaxFailures = c.envInt("BREAKER_MAX_FAILURES", c.Breaker.MaxFailures)
	c.Breaker.OpenSeconds = c.envInt("BREAKER_OPEN_SECONDS", c.Breaker.OpenSeconds)

	c.Auth.JWTSecret = getEnvDefault("SKILL_JWT_SECRET", c.Auth.JWTSecret)
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Generation.Provider == "" {
		c.Generation.Provider = ProviderHTTP
	}
	if c.Generation.TimeoutSeconds == 0 {
		c.Generation.TimeoutSeconds = 7
	}
}

// Validate reports every missing or invalid setting at once
func (c *Config) Validate() error {
	problems := append([]string(nil), c.envProblems...)

	switch c.Generation.Provider {
	case ProviderHTTP, ProviderOpenAI:
		if c.Generation.APIKey == "" {
			problems = append(problems, "DEEPSEEK_API_KEY is required for provider "+c.Generation.Provider)
		}
	case ProviderGemini:
		if c.Generation.GeminiAPIKey == "" {
			problems = append(problems, "GEMINI_API_KEY is required for provider gemini")
		}
	case ProviderMock:
	default:
		problems = append(problems, fmt.Sprintf("unknown GENERATION_PROVIDER %q", c.Generation.Provider))
	}

	if c.Generation.TimeoutSeconds < 0 {
		problems = append(problems, "GENERATION_TIMEOUT_SECONDS must be positive")
	}
	if c.Breaker.Enabled {
		if c.Breaker.MaxFailures <= 0 {
			problems = append(problems, "BREAKER_MAX_FAILURES must be positive")
		}
		if c.Breaker.OpenSeconds <= 0 {
			problems = append(problems, "BREAKER_OPEN_SECONDS must be positive")
		}
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("PORT %q is not a number", c.Port))
	}

	if len(problems) > 0 {
		return &ConfigurationError{Problems: problems}
	}
	return nil
}

func getEnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt reads an integer override, recording a problem when it does not parse
func (c *Config) envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.envProblems = append(c.envProblems, fmt.Sprintf("%s %q is not an integer", key, v))
		return def
	}
	return n
}

// envBool reads a boolean override, recording a problem when it does not parse
func (c *Config) envBool(key string, def bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "":
		return def
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	c.envProblems = append(c.envProblems, fmt.Sprintf("%s %q is not a boolean", key, v))
	return def
}

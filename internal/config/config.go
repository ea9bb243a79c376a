package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/emiliopalmerini/sessiontrack/internal/adapters/genai"
	"github.com/emiliopalmerini/sessiontrack/internal/adapters/otel"
	"github.com/emiliopalmerini/sessiontrack/internal/domain"
	"github.com/emiliopalmerini/sessiontrack/internal/util"
)

// Prefix is the environment variable prefix. Tagged keys also resolve
// unprefixed, so GEMINI_API_KEY works on its own.
const Prefix = "SESSIONTRACK"

type Config struct {
	DataDir string `envconfig:"DATA_DIR"`
	Debug   bool   `envconfig:"DEBUG" default:"false"`

	MonthlyBudget float64       `envconfig:"MONTHLY_BUDGET" default:"50.00"`
	PriceInput    float64       `envconfig:"PRICE_INPUT" default:"0.00005"`
	PriceOutput   float64       `envconfig:"PRICE_OUTPUT" default:"0.0002"`
	OutputReserve int           `envconfig:"OUTPUT_RESERVE" default:"500"`
	AITimeout     time.Duration `envconfig:"AI_TIMEOUT" default:"60s"`
	AutoRollover  bool          `envconfig:"AUTO_ROLLOVER" default:"true"`

	Addr            string        `envconfig:"ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY"`
	GeminiModel   string `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	GeminiBaseURL string `envconfig:"GEMINI_BASE_URL"`

	// TursoDatabaseURL moves the ledger to a remote Turso database.
	TursoDatabaseURL string `envconfig:"TURSO_DATABASE_URL"`
	TursoAuthToken   string `envconfig:"TURSO_AUTH_TOKEN"`

	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_ENDPOINT"`
	OTELInsecure bool   `envconfig:"OTEL_INSECURE" default:"false"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg.DataDir == "" {
		dir, err := util.GetXDGDataDir()
		if err != nil {
			return nil, err
		}
		cfg.DataDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.MonthlyBudget < 0 {
		errs = append(errs, fmt.Errorf("MONTHLY_BUDGET must be non-negative, got %v", c.MonthlyBudget))
	}
	if c.PriceInput < 0 || c.PriceOutput < 0 {
		errs = append(errs, fmt.Errorf("token prices must be non-negative, got input=%v output=%v", c.PriceInput, c.PriceOutput))
	}
	if c.OutputReserve < 0 {
		errs = append(errs, fmt.Errorf("OUTPUT_RESERVE must be non-negative, got %d", c.OutputReserve))
	}
	if c.AITimeout <= 0 {
		errs = append(errs, fmt.Errorf("AI_TIMEOUT must be positive, got %s", c.AITimeout))
	}
	return errors.Join(errs...)
}

func (c *Config) SessionsDir() string { return filepath.Join(c.DataDir, "sessions") }
func (c *Config) ProjectsDir() string { return filepath.Join(c.DataDir, "projects") }
func (c *Config) LedgerPath() string  { return filepath.Join(c.DataDir, "ledger.db") }

func (c *Config) Pricing() domain.TokenPricing {
	return domain.TokenPricing{InputPerToken: c.PriceInput, OutputPerToken: c.PriceOutput}
}

func (c *Config) Gemini() genai.Config {
	return genai.Config{
		APIKey:          c.GeminiAPIKey,
		Model:           c.GeminiModel,
		BaseURL:         c.GeminiBaseURL,
		MaxOutputTokens: c.OutputReserve,
		Timeout:         c.AITimeout,
	}
}

func (c *Config) OTEL() otel.Config {
	return otel.Config{
		Endpoint: c.OTELEndpoint,
		Enabled:  c.OTELEnabled,
		Insecure: c.OTELInsecure,
	}
}

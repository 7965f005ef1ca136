// Package config provides configuration loading and validation for the worker.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "VENDOR_ENRICHER"

// Config is the complete worker configuration.
type Config struct {
	DatabaseURL string          `mapstructure:"database_url" validate:"required"`
	Worker      WorkerConfig    `mapstructure:"worker"`
	Lookup      LookupConfig    `mapstructure:"lookup"`
	Quota       QuotaConfig     `mapstructure:"quota"`
	Selection   SelectionConfig `mapstructure:"selection"`
	Watch       WatchConfig     `mapstructure:"watch"`
	Log         LogConfig       `mapstructure:"log"`
}

// WorkerConfig identifies this worker. Name is written as the creator/updater of
// every row the worker touches and decides contact ownership.
type WorkerConfig struct {
	Name string `mapstructure:"name" validate:"required"`
}

// LookupConfig configures the registry client.
type LookupConfig struct {
	URL          string        `mapstructure:"url" validate:"required,url"`
	Key          string        `mapstructure:"key" validate:"required"`
	UserAgent    string        `mapstructure:"user_agent"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gte=0"` // 0 waits indefinitely
	RateLimitRPS float64       `mapstructure:"rate_limit_rps" validate:"gte=0"`
}

// QuotaConfig configures the credit monitor.
type QuotaConfig struct {
	LowWaterMark int  `mapstructure:"low_water_mark" validate:"gte=1"`
	AlertOnZero  bool `mapstructure:"alert_on_zero"`
}

// SelectionConfig configures vendor selection.
type SelectionConfig struct {
	ClaimTTL time.Duration `mapstructure:"claim_ttl" validate:"gt=0"`
}

// WatchConfig configures the long-running scheduler mode.
type WatchConfig struct {
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
	Workers  int           `mapstructure:"workers" validate:"gte=1,lte=32"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=auto json console"`
}

// Error is a configuration error. It is fatal at startup.
type Error struct {
	Field   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	switch {
	case e.Field != "" && e.Cause != nil:
		return fmt.Sprintf("config error: %s: %s: %v", e.Field, e.Message, e.Cause)
	case e.Field != "":
		return fmt.Sprintf("config error: %s: %s", e.Field, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("config error: %s: %v", e.Message, e.Cause)
	default:
		return fmt.Sprintf("config error: %s", e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database_url", "")
	v.SetDefault("worker.name", "")
	v.SetDefault("lookup.url", "https://www.nif.pt/")
	v.SetDefault("lookup.key", "")
	v.SetDefault("lookup.user_agent", "VendorEnricher/1.0")
	v.SetDefault("lookup.timeout", time.Duration(0))
	v.SetDefault("lookup.rate_limit_rps", 0.0)
	v.SetDefault("quota.low_water_mark", 1)
	v.SetDefault("quota.alert_on_zero", false)
	v.SetDefault("selection.claim_ttl", 10*time.Minute)
	v.SetDefault("watch.interval", time.Minute)
	v.SetDefault("watch.workers", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "auto")
}

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence. An empty path skips the file.
// The result is not validated; call Validate once CLI overrides are applied.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// DATABASE_URL is shared with the migration tooling, accept it unprefixed too.
	if err := v.BindEnv("database_url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, &Error{Field: "database_url", Message: "failed to bind environment", Cause: err}
	}

	if path != "" {
		if !filepath.IsAbs(path) {
			cwd, err := os.Getwd()
			if err != nil {
				return nil, &Error{Message: "failed to get current directory", Cause: err}
			}
			path = filepath.Join(cwd, path)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, &Error{Message: fmt.Sprintf("failed to read config file %s", path), Cause: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &Error{Message: "failed to decode configuration", Cause: err}
	}

	cfg.Worker.Name = strings.TrimSpace(cfg.Worker.Name)
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))

	return &cfg, nil
}

// Validate checks required fields and value ranges. The first failing field is
// reported as an *Error.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &Error{Field: fieldPath(fe.Namespace()), Message: describe(fe), Cause: err}
		}
		return &Error{Message: "invalid configuration", Cause: err}
	}
	return nil
}

// RequireStore validates only what the store-only commands need.
func (c *Config) RequireStore() error {
	if c.DatabaseURL == "" {
		return &Error{Field: "database_url", Message: "is required"}
	}
	return nil
}

// RequireLookup validates only what a dry-run registry lookup needs.
func (c *Config) RequireLookup() error {
	if strings.TrimSpace(c.Lookup.URL) == "" {
		return &Error{Field: "lookup.url", Message: "is required"}
	}
	if strings.TrimSpace(c.Lookup.Key) == "" {
		return &Error{Field: "lookup.key", Message: "is required"}
	}
	return nil
}

// fieldPath converts "Config.lookup.url" into "lookup.url".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "gt", "gte", "lt", "lte":
		return fmt.Sprintf("must be %s %s", fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/querychart/internal/core"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Load builds the configuration from the environment, fills in tag defaults
// and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadFields(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// loadFields walks the config groups and assigns every field that carries
// an env tag.
func loadFields(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf, fv := t.Field(i), v.Field(i)
		if !fv.CanSet() {
			continue
		}
		if sf.Type.Kind() == reflect.Struct {
			if err := loadFields(fv); err != nil {
				return err
			}
			continue
		}

		name, raw, err := envValue(sf.Tag)
		if err != nil {
			return err
		}
		if raw == "" {
			continue
		}
		if err := assign(fv, raw); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", name, raw, err)
		}
	}
	return nil
}

// envValue resolves a field's raw value: env, then envAlt, then default.
func envValue(tag reflect.StructTag) (name, raw string, err error) {
	name = tag.Get("env")
	if name == "" {
		return "", "", nil
	}
	raw = os.Getenv(name)
	if alt := tag.Get("envAlt"); raw == "" && alt != "" {
		raw = os.Getenv(alt)
	}
	if raw != "" {
		return name, raw, nil
	}
	if tag.Get("required") == "true" {
		return name, "", fmt.Errorf("required environment variable %s is not set", name)
	}
	return name, tag.Get("default"), nil
}

// assign parses raw into the field's type.
func assign(fv reflect.Value, raw string) error {
	if fv.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}
		fv.SetInt(int64(d))
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		fv.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		fv.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid number: %w", err)
		}
		fv.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		fv.SetBool(b)
	case reflect.Slice:
		if fv.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", fv.Type().Elem().Kind())
		}
		fv.Set(reflect.ValueOf(splitList(raw)))
	default:
		return fmt.Errorf("unsupported field type: %s", fv.Kind())
	}
	return nil
}

// splitList splits a comma-separated value, dropping blank entries.
func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("SERVER_PORT (%d) must be 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "SERVER_READ_TIMEOUT must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "SERVER_SHUTDOWN_TIMEOUT must be positive")
	}

	// Chart validation
	if _, err := core.ParseChartKind(c.Chart.DefaultKind); err != nil {
		errs = append(errs, fmt.Sprintf("CHART_DEFAULT_KIND (%q) must be one of: bar, line, pie, doughnut", c.Chart.DefaultKind))
	}
	if !core.HasScheme(c.Chart.DefaultScheme) {
		errs = append(errs, fmt.Sprintf("CHART_DEFAULT_SCHEME (%q) must be one of: %s",
			c.Chart.DefaultScheme, strings.Join(core.SchemeNames(), ", ")))
	}
	if _, err := core.ParseLocale(c.Chart.Locale); err != nil {
		errs = append(errs, fmt.Sprintf("CHART_LOCALE (%q) is not a valid language tag", c.Chart.Locale))
	}
	if c.Chart.MaxInputBytes <= 0 {
		errs = append(errs, "CHART_MAX_INPUT_BYTES must be positive")
	}
	if c.Chart.CacheSize <= 0 {
		errs = append(errs, "CHART_CACHE_SIZE must be positive")
	}

	// Render validation
	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Sprintf("RENDER_WIDTH and RENDER_HEIGHT (%dx%d) must be positive",
			c.Render.Width, c.Render.Height))
	}
	if c.Render.MaxConcurrent <= 0 {
		errs = append(errs, "RENDER_MAX_CONCURRENT must be positive")
	}
	if c.Render.MaxWaitTime <= 0 {
		errs = append(errs, "RENDER_MAX_WAIT_TIME must be positive")
	}
	if c.Render.CanvasIdleTimeout <= 0 {
		errs = append(errs, "CANVAS_IDLE_TIMEOUT must be positive")
	}
	if c.Render.SweepInterval <= 0 {
		errs = append(errs, "CANVAS_SWEEP_INTERVAL must be positive")
	}

	// Rate limit validation
	if c.Rate.Enabled && c.Rate.RequestsPerMinute <= 0 {
		errs = append(errs, "RATE_LIMIT_REQUESTS_PER_MINUTE must be positive when rate limiting is enabled")
	}
	if c.Rate.Enabled && c.Rate.RenderLimit <= 0 {
		errs = append(errs, "RATE_LIMIT_RENDER must be positive when rate limiting is enabled")
	}

	// Security validation
	if c.Security.RequireAPIKey && len(c.Security.APIKeys) == 0 {
		errs = append(errs, "REQUIRE_API_KEY is true but API_KEYS is empty; configure at least one API key or disable auth")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// API keys are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Chart: {DefaultKind: %q, DefaultScheme: %q, Locale: %q, CacheSize: %d}, ",
		c.Chart.DefaultKind, c.Chart.DefaultScheme, c.Chart.Locale, c.Chart.CacheSize))
	b.WriteString(fmt.Sprintf("Render: {Size: %dx%d, MaxConcurrent: %d}, ",
		c.Render.Width, c.Render.Height, c.Render.MaxConcurrent))
	b.WriteString(fmt.Sprintf("Rate: {Enabled: %v, RequestsPerMinute: %d}, ",
		c.Rate.Enabled, c.Rate.RequestsPerMinute))
	b.WriteString(fmt.Sprintf("Security: {RequireAPIKey: %v, APIKeys: [MASKED x%d]}, ",
		c.Security.RequireAPIKey, len(c.Security.APIKeys)))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}

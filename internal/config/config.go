package config

import (
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"io/fs"
	"strings"
	"time"
)

const (
	EnvHTTPAddr                 = "HTTP_ADDR"
	EnvSheetsWebhookURL         = "SHEETS_WEBHOOK_URL"
	EnvSheetsFallbackWebhookURL = "SHEETS_FALLBACK_WEBHOOK_URL"
	EnvDriveWebhookURL          = "DRIVE_WEBHOOK_URL"
	EnvDriveFallbackWebhookURL  = "DRIVE_FALLBACK_WEBHOOK_URL"
	EnvRedisAddr                = "REDIS_ADDR"
	EnvOtelExporter             = "OTEL_EXPORTER"
	EnvOtelEndpoint             = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvHTTPClientTimeout        = "HTTP_CLIENT_TIMEOUT"
	EnvLogLevel                 = "LOG_LEVEL"
)

// MissingEnvError is returned when a request needs a setting that was not
// provided. Start-up does not fail on it.
type MissingEnvError struct {
	Name string
}

func (e *MissingEnvError) Error() string {
	return "Missing env: " + e.Name
}

type Config struct {
	HTTPAddr string

	SheetsWebhookURL         string
	SheetsFallbackWebhookURL string
	DriveWebhookURL          string
	DriveFallbackWebhookURL  string

	// empty means the in-memory bus
	RedisAddr string

	OtelExporter string
	OtelEndpoint string

	HTTPClientTimeout time.Duration
	LogLevel          logrus.Level
}

// New registers defaults and env bindings on v. Flags bound to v by the
// caller take precedence over the environment.
func New(v *viper.Viper) *viper.Viper {
	v.SetDefault(EnvHTTPAddr, ":8080")
	v.SetDefault(EnvOtelExporter, "none")
	v.SetDefault(EnvHTTPClientTimeout, 10*time.Second)
	v.SetDefault(EnvLogLevel, "info")

	for _, key := range []string{
		EnvHTTPAddr,
		EnvSheetsWebhookURL,
		EnvSheetsFallbackWebhookURL,
		EnvDriveWebhookURL,
		EnvDriveFallbackWebhookURL,
		EnvRedisAddr,
		EnvOtelExporter,
		EnvOtelEndpoint,
		EnvHTTPClientTimeout,
		EnvLogLevel,
	} {
		_ = v.BindEnv(key)
	}

	return v
}

// LoadDotEnv reads .env files into the process environment. Missing files are
// not an error.
func LoadDotEnv(files ...string) error {
	err := godotenv.Load(files...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

func Load(v *viper.Viper) (Config, error) {
	level, err := logrus.ParseLevel(v.GetString(EnvLogLevel))
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
	}

	exporter := strings.ToLower(strings.TrimSpace(v.GetString(EnvOtelExporter)))
	switch exporter {
	case "", "none", "stdout", "otlp":
	default:
		return Config{}, fmt.Errorf("invalid %s %q, expected none, stdout or otlp", EnvOtelExporter, exporter)
	}

	timeout := v.GetDuration(EnvHTTPClientTimeout)
	if timeout <= 0 {
		return Config{}, fmt.Errorf("invalid %s: must be positive", EnvHTTPClientTimeout)
	}

	return Config{
		HTTPAddr:                 v.GetString(EnvHTTPAddr),
		SheetsWebhookURL:         strings.TrimSpace(v.GetString(EnvSheetsWebhookURL)),
		SheetsFallbackWebhookURL: strings.TrimSpace(v.GetString(EnvSheetsFallbackWebhookURL)),
		DriveWebhookURL:          strings.TrimSpace(v.GetString(EnvDriveWebhookURL)),
		DriveFallbackWebhookURL:  strings.TrimSpace(v.GetString(EnvDriveFallbackWebhookURL)),
		RedisAddr:                strings.TrimSpace(v.GetString(EnvRedisAddr)),
		OtelExporter:             exporter,
		OtelEndpoint:             v.GetString(EnvOtelEndpoint),
		HTTPClientTimeout:        timeout,
		LogLevel:                 level,
	}, nil
}

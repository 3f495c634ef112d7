package main

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"finanzas/ocr"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// devJWTSecret is only accepted outside release mode
const devJWTSecret = "finanzas-dev-secret"

// Config holds every runtime setting
type Config struct {
	Port         int
	DatabaseURL  string
	DBRetries    int
	JWTSecret    string
	JWTExpiresIn time.Duration
	Vision       ocr.Config
	UploadDir    string
	MaxUploadMB  int
	CORSOrigins  []string
	PublicAPIURL string
	LogLevel     string
	LogFormat    string
	GinMode      string
}

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("port", 3001)
	v.SetDefault("database_url", "")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "password")
	v.SetDefault("db.name", "finanzas")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.retries", 30)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expires_in", "168h")
	v.SetDefault("vision.provider", ocr.ProviderGemini)
	v.SetDefault("vision.api_key", "")
	v.SetDefault("vision.model", "")
	v.SetDefault("vision.base_url", "")
	v.SetDefault("vision.timeout", "60s")
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("max_upload_mb", 10)
	v.SetDefault("cors.origins", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("public_api_url", "http://localhost:3001/api")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("gin_mode", "debug")
}

// loadConfig reads .env, an optional config file and the environment.
// Environment names are the keys upper-cased with dots replaced by
// underscores, e.g. vision.api_key is VISION_API_KEY.
func loadConfig(v *viper.Viper, configFile string) (Config, error) {
	_ = godotenv.Load()

	setConfigDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}

	expiresIn, err := parseExpiry(v.GetString("jwt.expires_in"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid JWT_EXPIRES_IN: %w", err)
	}
	visionTimeout, err := time.ParseDuration(v.GetString("vision.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid VISION_TIMEOUT: %w", err)
	}

	cfg := Config{
		Port:         v.GetInt("port"),
		DatabaseURL:  v.GetString("database_url"),
		DBRetries:    v.GetInt("db.retries"),
		JWTSecret:    v.GetString("jwt.secret"),
		JWTExpiresIn: expiresIn,
		Vision: ocr.Config{
			Provider: v.GetString("vision.provider"),
			APIKey:   v.GetString("vision.api_key"),
			Model:    v.GetString("vision.model"),
			BaseURL:  v.GetString("vision.base_url"),
			Timeout:  visionTimeout,
		},
		UploadDir:    v.GetString("upload.dir"),
		MaxUploadMB:  v.GetInt("max_upload_mb"),
		CORSOrigins:  splitList(v.GetString("cors.origins")),
		PublicAPIURL: v.GetString("public_api_url"),
		LogLevel:     strings.ToLower(v.GetString("log.level")),
		LogFormat:    strings.ToLower(v.GetString("log.format")),
		GinMode:      v.GetString("gin_mode"),
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = buildDatabaseURL(v)
	}
	if cfg.JWTSecret == "" && cfg.GinMode != "release" {
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}

// Validate reports every invalid setting at once
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required in release mode"))
	}
	if c.JWTExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	switch strings.ToLower(c.Vision.Provider) {
	case "", ocr.ProviderGemini, ocr.ProviderOpenAI:
	default:
		errs = append(errs, fmt.Errorf("unknown VISION_PROVIDER %q", c.Vision.Provider))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_MB must be positive"))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("UPLOAD_DIR is required"))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

func (c Config) maxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

func buildDatabaseURL(v *viper.Viper) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(v.GetString("db.user"), v.GetString("db.password")),
		Host:     fmt.Sprintf("%s:%d", v.GetString("db.host"), v.GetInt("db.port")),
		Path:     "/" + v.GetString("db.name"),
		RawQuery: "sslmode=" + url.QueryEscape(v.GetString("db.sslmode")),
	}
	return u.String()
}

// parseExpiry accepts Go durations plus a day suffix, e.g. "7d"
func parseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

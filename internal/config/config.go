package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	ClientURL              string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	NATSSubjectPrefix      string
	JWTSecret              string
	JWTRefreshSecret       string
	AccessTokenTTL         time.Duration
	RefreshTokenTTL        time.Duration
	BcryptCost             int
	AuthRateLimit          int
	AuthRateWindow         time.Duration
	AIProvider             string
	OpenAIAPIKey           string
	OpenAIModel            string
	AnthropicAPIKey        string
	AnthropicModel         string
	UploadDir              string
	MaxUploadMB            int
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsProduction reports whether the service runs with production hardening (secure cookies, terse errors).
func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// CloudinaryEnabled reports whether remote note storage credentials are present.
func (c Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CAMPUSPREP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "CampusPrep API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "4000")
	v.SetDefault("app.client_url", "http://localhost:5173")
	v.SetDefault("nats.subject_prefix", "campusprep")
	v.SetDefault("jwt.access_ttl", "15m")
	v.SetDefault("jwt.refresh_ttl", "168h")
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.rate_limit", 5)
	v.SetDefault("auth.rate_window", "1m")
	v.SetDefault("ai.provider", "openai")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("anthropic_model", "claude-3-5-haiku-latest")
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.max_mb", 10)
	v.SetDefault("cloudinary.folder", "campusprep/notes")

	accessTTL, err := parseDuration(v, "jwt.access_ttl")
	if err != nil {
		return Config{}, err
	}
	refreshTTL, err := parseDuration(v, "jwt.refresh_ttl")
	if err != nil {
		return Config{}, err
	}
	rateWindow, err := parseDuration(v, "auth.rate_window")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 strings.ToLower(v.GetString("app.env")),
		AppPort:                v.GetString("app.port"),
		ClientURL:              v.GetString("app.client_url"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		NATSSubjectPrefix:      v.GetString("nats.subject_prefix"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTRefreshSecret:       v.GetString("jwt.refresh_secret"),
		AccessTokenTTL:         accessTTL,
		RefreshTokenTTL:        refreshTTL,
		BcryptCost:             v.GetInt("auth.bcrypt_cost"),
		AuthRateLimit:          v.GetInt("auth.rate_limit"),
		AuthRateWindow:         rateWindow,
		AIProvider:             strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:           v.GetString("openai_api_key"),
		OpenAIModel:            v.GetString("openai_model"),
		AnthropicAPIKey:        v.GetString("anthropic_api_key"),
		AnthropicModel:         v.GetString("anthropic_model"),
		UploadDir:              v.GetString("upload.dir"),
		MaxUploadMB:            v.GetInt("upload.max_mb"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
	}

	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return Config{}, fmt.Errorf("jwt secrets must be provided")
	}

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("database url must be provided")
	}

	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= cfg.AccessTokenTTL {
		return Config{}, fmt.Errorf("refresh token ttl must exceed access token ttl")
	}

	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return Config{}, fmt.Errorf("invalid bcrypt cost %d", cfg.BcryptCost)
	}

	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = 10
	}

	if cfg.AuthRateLimit <= 0 {
		cfg.AuthRateLimit = 5
	}

	return cfg, nil
}

func parseDuration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}

package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string         `validate:"required"`
	Port        string         `validate:"required,numeric"`
	Logging     LoggingConfig
	Response    ResponseConfig
	Server      ServerConfig
	JWT         JWTConfig
}

// LoggingConfig holds logrus configuration
type LoggingConfig struct {
	Level  string `validate:"required,oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"required,oneof=text json"`
}

// ResponseConfig holds the header rewrite applied to every custom response
type ResponseConfig struct {
	HeaderOverrides map[string]string `validate:"dive,keys,header_name,endkeys"`
	HeadersToRemove []string          `validate:"dive,header_name"`
}

// ServerConfig holds limits for the local web function server
type ServerConfig struct {
	RateLimitRPS    float64 `validate:"gt=0"`
	RateLimitBurst  int     `validate:"gt=0"`
	MaxRequestBytes int64   `validate:"gt=0"`
}

// JWTConfig holds optional bearer authentication settings. An empty secret disables auth.
type JWTConfig struct {
	Secret string
	Issuer string
}

// Default values
const (
	DefaultPort            = "9000"
	DefaultMaxRequestBytes = 6 * 1024 * 1024
	DefaultIssuer          = "apigw-custom-response"

	// Placeholder rewrites meant to be replaced per deployment
	DefaultHeaderOverrides = `{"header1":"header1"}`
	DefaultHeadersToRemove = "X-Api-Serviceid"
)

// HTTP header field names are RFC 7230 tokens
var headerNameRegex = regexp.MustCompile("^[!#$%&'*+.^_|~0-9A-Za-z`-]+$")

// Load loads configuration from environment variables, an optional .env file and an optional config file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", DefaultPort)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("RESPONSE_HEADER_OVERRIDES", DefaultHeaderOverrides)
	v.SetDefault("RESPONSE_HEADERS_TO_REMOVE", DefaultHeadersToRemove)
	v.SetDefault("RATE_LIMIT_RPS", 50)
	v.SetDefault("RATE_LIMIT_BURST", 100)
	v.SetDefault("MAX_REQUEST_BYTES", DefaultMaxRequestBytes)
	v.SetDefault("JWT_ISSUER", DefaultIssuer)

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	overrides, err := cast.ToStringMapStringE(v.Get("RESPONSE_HEADER_OVERRIDES"))
	if err != nil {
		return nil, fmt.Errorf("invalid RESPONSE_HEADER_OVERRIDES: %w", err)
	}

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		Logging: LoggingConfig{
			Level:  strings.ToLower(v.GetString("LOG_LEVEL")),
			Format: strings.ToLower(v.GetString("LOG_FORMAT")),
		},
		Response: ResponseConfig{
			HeaderOverrides: overrides,
			HeadersToRemove: headerList(v.Get("RESPONSE_HEADERS_TO_REMOVE")),
		},
		Server: ServerConfig{
			RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
			RateLimitBurst:  v.GetInt("RATE_LIMIT_BURST"),
			MaxRequestBytes: v.GetInt64("MAX_REQUEST_BYTES"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			Issuer: v.GetString("JWT_ISSUER"),
		},
	}

	if err := Validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks a configuration against its struct rules
func Validate(config *Config) error {
	validate := validator.New()
	if err := validate.RegisterValidation("header_name", isHeaderName); err != nil {
		return fmt.Errorf("failed to register header_name validation: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsProduction reports whether the configuration targets production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func isHeaderName(fl validator.FieldLevel) bool {
	return headerNameRegex.MatchString(fl.Field().String())
}

// headerList accepts a comma separated string from the environment or a list from a config file
func headerList(value interface{}) []string {
	var raw []string
	if s, ok := value.(string); ok {
		raw = strings.Split(s, ",")
	} else {
		raw = cast.ToStringSlice(value)
	}

	names := make([]string, 0, len(raw))
	for _, name := range raw {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

var configEnvVars = []string{
	"ENVIRONMENT",
	"PORT",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"RESPONSE_HEADER_OVERRIDES",
	"RESPONSE_HEADERS_TO_REMOVE",
	"RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST",
	"MAX_REQUEST_BYTES",
	"JWT_SECRET",
	"JWT_ISSUER",
	"CONFIG_FILE",
}

// clearConfigEnv unsets every variable Load reads and restores them after the test
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnvVars {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr string
		check   func(t *testing.T, cfg *Config)
	}{
		{
			name:    "default configuration",
			envVars: map[string]string{},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Environment != "development" {
					t.Errorf("Expected default environment development, got %s", cfg.Environment)
				}
				if cfg.Port != DefaultPort {
					t.Errorf("Expected default port %s, got %s", DefaultPort, cfg.Port)
				}
				if cfg.Response.HeaderOverrides["header1"] != "header1" || len(cfg.Response.HeaderOverrides) != 1 {
					t.Errorf("Unexpected default header overrides %v", cfg.Response.HeaderOverrides)
				}
				if len(cfg.Response.HeadersToRemove) != 1 || cfg.Response.HeadersToRemove[0] != "X-Api-Serviceid" {
					t.Errorf("Unexpected default headers to remove %v", cfg.Response.HeadersToRemove)
				}
				if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
					t.Errorf("Unexpected default logging %+v", cfg.Logging)
				}
				if cfg.Server.MaxRequestBytes != DefaultMaxRequestBytes {
					t.Errorf("Expected default max request bytes %d, got %d", DefaultMaxRequestBytes, cfg.Server.MaxRequestBytes)
				}
				if cfg.JWT.Secret != "" {
					t.Error("Expected auth to be disabled by default")
				}
			},
		},
		{
			name: "header rewrite from environment",
			envVars: map[string]string{
				"RESPONSE_HEADER_OVERRIDES":  `{"X-Powered-By":"scf","Cache-Control":"no-store"}`,
				"RESPONSE_HEADERS_TO_REMOVE": " Server , X-Api-Serviceid,,",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Response.HeaderOverrides["X-Powered-By"] != "scf" {
					t.Errorf("Expected X-Powered-By scf, got %v", cfg.Response.HeaderOverrides)
				}
				if cfg.Response.HeaderOverrides["Cache-Control"] != "no-store" {
					t.Errorf("Expected Cache-Control no-store, got %v", cfg.Response.HeaderOverrides)
				}
				want := []string{"Server", "X-Api-Serviceid"}
				if strings.Join(cfg.Response.HeadersToRemove, "|") != strings.Join(want, "|") {
					t.Errorf("Expected %v, got %v", want, cfg.Response.HeadersToRemove)
				}
			},
		},
		{
			name: "malformed header overrides",
			envVars: map[string]string{
				"RESPONSE_HEADER_OVERRIDES": `{"X-Broken":`,
			},
			wantErr: "RESPONSE_HEADER_OVERRIDES",
		},
		{
			name: "invalid header name to remove",
			envVars: map[string]string{
				"RESPONSE_HEADERS_TO_REMOVE": "X Bad Header",
			},
			wantErr: "invalid configuration",
		},
		{
			name: "invalid header override name",
			envVars: map[string]string{
				"RESPONSE_HEADER_OVERRIDES": `{"Bad:Name":"x"}`,
			},
			wantErr: "invalid configuration",
		},
		{
			name: "invalid log level",
			envVars: map[string]string{
				"LOG_LEVEL": "loud",
			},
			wantErr: "invalid configuration",
		},
		{
			name: "non numeric port",
			envVars: map[string]string{
				"PORT": "http",
			},
			wantErr: "invalid configuration",
		},
		{
			name: "server limits and auth",
			envVars: map[string]string{
				"RATE_LIMIT_RPS":    "2.5",
				"RATE_LIMIT_BURST":  "5",
				"MAX_REQUEST_BYTES": "1024",
				"JWT_SECRET":        "secret",
				"LOG_LEVEL":         "DEBUG",
			},
			check: func(t *testing.T, cfg *Config) {
				if cfg.Server.RateLimitRPS != 2.5 || cfg.Server.RateLimitBurst != 5 {
					t.Errorf("Unexpected rate limits %+v", cfg.Server)
				}
				if cfg.Server.MaxRequestBytes != 1024 {
					t.Errorf("Expected max request bytes 1024, got %d", cfg.Server.MaxRequestBytes)
				}
				if cfg.JWT.Secret != "secret" || cfg.JWT.Issuer != DefaultIssuer {
					t.Errorf("Unexpected JWT config %+v", cfg.JWT)
				}
				if cfg.Logging.Level != "debug" {
					t.Errorf("Expected lower-cased log level, got %s", cfg.Logging.Level)
				}
			},
		},
		{
			name: "zero burst is rejected",
			envVars: map[string]string{
				"RATE_LIMIT_BURST": "0",
			},
			wantErr: "invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := Load()
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "response.yaml")
	content := `
response_header_overrides:
  x-served-by: gateway
response_headers_to_remove:
  - X-Api-Serviceid
  - Server
log_format: json
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Response.HeaderOverrides["x-served-by"] != "gateway" {
		t.Errorf("Expected x-served-by override from file, got %v", cfg.Response.HeaderOverrides)
	}
	if len(cfg.Response.HeadersToRemove) != 2 || cfg.Response.HeadersToRemove[1] != "Server" {
		t.Errorf("Expected headers to remove from file, got %v", cfg.Response.HeadersToRemove)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected environment to win over file, got format %s", cfg.Logging.Format)
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := Load(); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestDetectServerless(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		wantPlatform string
		wantFunction string
		wantStage    string
	}{
		{
			name:         "plain process",
			env:          map[string]string{},
			wantPlatform: PlatformNone,
			wantStage:    "dev",
		},
		{
			name: "aws lambda",
			env: map[string]string{
				"AWS_LAMBDA_FUNCTION_NAME": "custom-response",
				"AWS_REGION":               "ap-southeast-2",
				"STAGE":                    "prod",
			},
			wantPlatform: PlatformLambda,
			wantFunction: "custom-response",
			wantStage:    "prod",
		},
		{
			name: "tencent scf",
			env: map[string]string{
				"SCF_FUNCTIONNAME":    "apigw-custom-response",
				"TENCENTCLOUD_REGION": "ap-guangzhou",
			},
			wantPlatform: PlatformSCF,
			wantFunction: "apigw-custom-response",
			wantStage:    "dev",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := DetectServerless(func(key string) string { return tt.env[key] })
			if sc.Platform != tt.wantPlatform {
				t.Errorf("Expected platform %q, got %q", tt.wantPlatform, sc.Platform)
			}
			if sc.IsServerless != (tt.wantPlatform != PlatformNone) {
				t.Errorf("Unexpected IsServerless %v", sc.IsServerless)
			}
			if sc.FunctionName != tt.wantFunction {
				t.Errorf("Expected function %q, got %q", tt.wantFunction, sc.FunctionName)
			}
			if sc.Stage != tt.wantStage {
				t.Errorf("Expected stage %q, got %q", tt.wantStage, sc.Stage)
			}
		})
	}
}

func TestAdaptConfigForServerless(t *testing.T) {
	clearConfigEnv(t)

	cfg := &Config{Environment: "development", Logging: LoggingConfig{Level: "info", Format: "text"}}
	AdaptConfigForServerless(context.Background(), cfg, &ServerlessConfig{})
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected format untouched outside serverless, got %s", cfg.Logging.Format)
	}

	AdaptConfigForServerless(context.Background(), cfg, &ServerlessConfig{IsServerless: true, Stage: "release"})
	if cfg.Logging.Format != "json" {
		t.Errorf("Expected json logging in serverless mode, got %s", cfg.Logging.Format)
	}
	if cfg.Environment != "release" {
		t.Errorf("Expected environment from stage, got %s", cfg.Environment)
	}
}

func TestConfigureLogging(t *testing.T) {
	logger, err := ConfigureLogging(LoggingConfig{Level: "warn", Format: "json"})
	if err != nil {
		t.Fatalf("ConfigureLogging() error = %v", err)
	}
	defer logger.SetLevel(logrus.InfoLevel)

	if logger.GetLevel() != logrus.WarnLevel {
		t.Errorf("Expected warn level, got %s", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.JSONFormatter); !ok {
		t.Errorf("Expected JSON formatter, got %T", logger.Formatter)
	}

	if _, err := ConfigureLogging(LoggingConfig{Level: "loud", Format: "text"}); err == nil {
		t.Error("Expected error for invalid level")
	}
}

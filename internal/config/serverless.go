package config

import (
	"context"
	"os"
	"sync"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsServerless bool
	Platform     string
	FunctionName string
	Region       string
	Stage        string
}

// Serverless platforms the function knows how to detect
const (
	PlatformLambda = "lambda"
	PlatformSCF    = "scf"
	PlatformNone   = ""
)

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration detected at first use
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = DetectServerless(os.Getenv)
	})
	return serverlessConfig
}

// DetectServerless inspects the runtime environment through getenv
func DetectServerless(getenv func(string) string) *ServerlessConfig {
	cfg := &ServerlessConfig{Stage: "dev"}
	if stage := getenv("STAGE"); stage != "" {
		cfg.Stage = stage
	}

	switch {
	case getenv("AWS_LAMBDA_FUNCTION_NAME") != "":
		cfg.IsServerless = true
		cfg.Platform = PlatformLambda
		cfg.FunctionName = getenv("AWS_LAMBDA_FUNCTION_NAME")
		cfg.Region = getenv("AWS_REGION")
	case getenv("SCF_FUNCTIONNAME") != "":
		cfg.IsServerless = true
		cfg.Platform = PlatformSCF
		cfg.FunctionName = getenv("SCF_FUNCTIONNAME")
		cfg.Region = getenv("TENCENTCLOUD_REGION")
	}

	return cfg
}

// IsServerlessMode returns true if running inside a function runtime
func IsServerlessMode() bool {
	return GetServerlessConfig().IsServerless
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless modifies configuration for serverless deployment
func AdaptConfigForServerless(ctx context.Context, config *Config, sc *ServerlessConfig) *Config {
	if sc == nil || !sc.IsServerless {
		return config
	}

	// Function runtimes ship stdout to a log service that indexes JSON
	if os.Getenv("LOG_FORMAT") == "" {
		config.Logging.Format = "json"
	}

	if config.Environment == "development" {
		config.Environment = GetEnv("ENVIRONMENT", sc.Stage)
	}

	return config
}

// GetOptimizedConfig returns configuration optimized for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	// Apply serverless adaptations if needed
	config = AdaptConfigForServerless(context.Background(), config, GetServerlessConfig())

	return config, nil
}

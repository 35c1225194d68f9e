package server

import (
	"fmt"

	"apigw-custom-response/internal/config"
	"apigw-custom-response/internal/middleware"
	"apigw-custom-response/internal/services"

	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logrus.Logger
	Composer    *services.ComposerService
	AuthService *middleware.AuthService
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger, err := config.ConfigureLogging(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	composer, err := services.NewComposerService(&services.ComposerConfig{
		HeaderOverrides: cfg.Response.HeaderOverrides,
		HeadersToRemove: cfg.Response.HeadersToRemove,
	}, logger.WithField("component", "composer"))
	if err != nil {
		return nil, fmt.Errorf("failed to create composer: %w", err)
	}

	container := &Container{
		Config:   cfg,
		Logger:   logger,
		Composer: composer,
	}

	if cfg.JWT.Secret != "" {
		container.AuthService = middleware.NewAuthService(&middleware.AuthConfig{
			JWTSecret: cfg.JWT.Secret,
			Issuer:    cfg.JWT.Issuer,
		})
	}

	logger.WithFields(logrus.Fields{
		"environment":       cfg.Environment,
		"deployment_mode":   config.GetDeploymentMode(),
		"header_overrides":  len(cfg.Response.HeaderOverrides),
		"headers_to_remove": len(cfg.Response.HeadersToRemove),
		"auth_enabled":      container.AuthService != nil,
	}).Debug("Container initialized")

	return container, nil
}

// Close cleans up all resources
func (c *Container) Close() error {
	c.Logger.Debug("Container closed")
	return nil
}

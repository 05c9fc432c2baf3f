package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/logger"
	"github.com/spigell/resume-screener/internal/screener"
	"github.com/spigell/resume-screener/internal/secrets"
)

// setup builds the logger, reads the config and prepares a ranking service client.
func setup() (*zap.Logger, *Config, *screener.Client) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	client, err := newClient(config.Service, logger)
	if err != nil {
		logger.Fatal(
			"creating a ranking service client",
			zap.Error(err),
			zap.String("hint", "set SCREENER_TOKEN_FILE environment variable or the 'service.token-file' key in the configuration file"),
		)
	}

	return logger, config, client
}

func newClient(cfg *ServiceConfig, logger *zap.Logger) (*screener.Client, error) {
	token, err := secrets.Load(secrets.Source{
		Name:     "ranking service token",
		Value:    cfg.Token,
		File:     cfg.TokenFile,
		Optional: true,
	})
	if err != nil {
		return nil, err
	}

	client := screener.New(logger, cfg.URL, token)

	if cfg.UserAgent != "" {
		client.UserAgent = cfg.UserAgent
	}

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("service.timeout must not be negative, got %s", cfg.Timeout)
	}
	client.HTTPClient.Timeout = cfg.Timeout

	return client, nil
}

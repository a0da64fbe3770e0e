package config

import (
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/billingstack/namesilo/internal/logger"
	"github.com/billingstack/namesilo/internal/tracing"
)

type Config struct {
	AppConfig             *AppConfig
	Logger                *logger.Config
	Tracing               *tracing.JaegerConfig
	BillingDatabaseConfig *BillingDatabaseConfig
	NamesiloConfig        *NamesiloConfig
	DefaultContactConfig  *DefaultContactConfig
}

func InitConfig() (*Config, error) {
	config := &Config{
		AppConfig:             &AppConfig{},
		Logger:                &logger.Config{},
		Tracing:               &tracing.JaegerConfig{},
		BillingDatabaseConfig: &BillingDatabaseConfig{},
		NamesiloConfig:        &NamesiloConfig{},
		DefaultContactConfig:  &DefaultContactConfig{},
	}

	err := godotenv.Load()
	if err != nil {
		log.Print("Unable to load .env file")
	}

	err = env.Parse(config)
	if err != nil {
		log.Fatalf("Error loading namesilo module config: %v", err)
	}

	return config, nil
}

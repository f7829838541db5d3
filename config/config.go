package config

import (
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `validate:"required,numeric"`
	Env      string `validate:"required,oneof=development production test"`
	DBPath   string `validate:"required"`
	LogLevel string `validate:"required,oneof=debug info warn error"`
}

var AppConfig *Config

func Load() {
	_ = godotenv.Load()

	AppConfig = &Config{
		Port:     GetEnv("PORT", "3000"),
		Env:      GetEnv("ENV", "development"),
		DBPath:   GetEnv("DB_PATH", "./data/recordbase.db"),
		LogLevel: GetEnv("LOG_LEVEL", "info"),
	}

	if err := validator.New().Struct(AppConfig); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

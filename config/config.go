package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL            string
	JWTSecretKey           string
	ServerPort             int
	TimerAutoResumeSeconds int
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := os.Getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := os.Getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	// Пауза после выбывания с автоподъёмом таймера; 0 отключает.
	autoResumeStr := os.Getenv("TIMER_AUTO_RESUME_SECONDS")
	autoResume := 60
	if autoResumeStr != "" {
		autoResume, err = strconv.Atoi(autoResumeStr)
		if err != nil || autoResume < 0 {
			return nil, fmt.Errorf("invalid TIMER_AUTO_RESUME_SECONDS environment variable: %q", autoResumeStr)
		}
	}

	return &Config{
		DatabaseURL:            dbURL,
		JWTSecretKey:           jwtKey,
		ServerPort:             port,
		TimerAutoResumeSeconds: autoResume,
	}, nil
}

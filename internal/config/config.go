package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	PredictorAPIURL string
	ServerPort      string
	LogLevel        string
	DBPath          string
	AssetsBase      string
	PublicDir       string
	TeamsFile       string
	MusicVolume     float64
	DefaultHome     string
	DefaultAway     string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	volume, err := strconv.ParseFloat(getEnv("MUSIC_VOLUME", "0.3"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MUSIC_VOLUME: %w", err)
	}

	cfg := &Config{
		PredictorAPIURL: strings.TrimSuffix(getEnv("PREDICTOR_API_URL", "http://localhost:5000"), "/"),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DBPath:          getEnv("DB_PATH", "predictions.db"),
		AssetsBase:      getEnv("ASSETS_BASE", "/img/"),
		PublicDir:       getEnv("PUBLIC_DIR", "public"),
		TeamsFile:       getEnv("TEAMS_FILE", ""),
		MusicVolume:     volume,
		DefaultHome:     getEnv("DEFAULT_HOME", "Emelec"),
		DefaultAway:     getEnv("DEFAULT_AWAY", "Barcelona SC"),
	}

	if cfg.DefaultHome == cfg.DefaultAway {
		return nil, fmt.Errorf("DEFAULT_HOME and DEFAULT_AWAY must differ, both are %q", cfg.DefaultHome)
	}

	logger.Info().
		Str("predictor_api_url", cfg.PredictorAPIURL).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("db_path", cfg.DBPath).
		Float64("music_volume", cfg.MusicVolume).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

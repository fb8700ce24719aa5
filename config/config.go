package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr         string
	RecommenderBaseURL string
	TMDBBaseURL        string
	TMDBAPIKey         string
	Language           string
	DataDir            string
	RequestTimeout     time.Duration
	LogFile            string
}

func Load() *Config {
	return &Config{
		ListenAddr:         env("LISTEN_ADDR", ":5050"),
		RecommenderBaseURL: env("RECOMMENDER_URL", "http://localhost:5000"),
		TMDBBaseURL:        env("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		TMDBAPIKey:         env("TMDB_API_KEY", ""),
		Language:           env("TMDB_LANGUAGE", "en-US"),
		DataDir:            env("DATA_DIR", "./data"),
		RequestTimeout:     time.Duration(envInt("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
		LogFile:            env("LOG_FILE", ""),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

package config

import (
	"os"
	"strings"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr         string
	DatabaseURL  string
	Redis        RedisConfig
	KafkaBrokers []string
	Civic        CivicConfig

	// UserDataTTL bounds how old a user's provider data may get before a
	// refresh is triggered on the next turn.
	UserDataTTL time.Duration
	// ElectionIndexTTL bounds the age of the division election index.
	ElectionIndexTTL time.Duration
	// ChoicesTTL bounds how long a disambiguation context stays applicable.
	ChoicesTTL time.Duration
}

// RedisConfig holds connection settings for the choices store.
type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// CivicConfig holds upstream election-data provider settings.
type CivicConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("BALLOTGUIDE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	civicBase := os.Getenv("CIVIC_API_URL")
	if civicBase == "" {
		civicBase = "https://www.googleapis.com/civicinfo/v2"
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = strings.Split(v, ",")
	}

	return Server{
		Addr:        addr,
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		KafkaBrokers: brokers,
		Civic: CivicConfig{
			BaseURL: civicBase,
			APIKey:  os.Getenv("CIVIC_API_KEY"),
			Timeout: 10 * time.Second,
		},
		UserDataTTL:      12 * time.Hour,
		ElectionIndexTTL: 3 * time.Hour,
		ChoicesTTL:       2 * time.Minute,
	}
}

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the service settings read from the environment.
type Config struct {
	WebListen     string
	MetricsListen string
	ProxyProtocol bool

	LogLevel     logrus.Level
	LokiURL      string
	LokiUsername string
	LokiPassword string

	ServiceName    string
	ServiceVersion string

	DB DBConfig

	AMQPURL   string
	AMQPQueue string

	ReferenceSeed uint8
}

// DBConfig describes the Postgres database used for segment records.
type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Enabled reports whether segment records should be stored.
func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

func (c DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", c.User, c.Password, c.Host, c.Port, c.Name)
}

// LoadConfig loads .env (if present) and then reads the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load() // .env is optional
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		WebListen:      getenv("WEB_LISTEN"),
		MetricsListen:  getenv("METRICS_LISTEN"),
		ProxyProtocol:  strings.ToLower(getenv("HAPROXY_PROXY_PROTOCOL")) == "true",
		LogLevel:       logrus.InfoLevel,
		LokiURL:        getenv("LOKI_URL"),
		LokiUsername:   getenv("LOKI_USERNAME"),
		LokiPassword:   getenv("LOKI_PASSWORD"),
		ServiceName:    getenv("SERVICE_NAME"),
		ServiceVersion: getenv("SERVICE_VERSION"),
		DB: DBConfig{
			Host:     getenv("DB_HOST"),
			Port:     getenv("DB_PORT"),
			User:     getenv("DB_USER"),
			Password: getenv("DB_PASSWORD"),
			Name:     getenv("DB_NAME"),
		},
		AMQPURL:   getenv("AMQP_URL"),
		AMQPQueue: getenv("AMQP_QUEUE"),
	}

	if cfg.WebListen == "" {
		cfg.WebListen = "0.0.0.0:8080"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "SMS Splitter API"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.DB.Port == "" {
		cfg.DB.Port = "5432"
	}
	if cfg.AMQPQueue == "" {
		cfg.AMQPQueue = "sms_segments"
	}

	if lvl := getenv("LOG_LEVEL"); lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			return cfg, fmt.Errorf("invalid LOG_LEVEL: %w", err)
		}
		cfg.LogLevel = level
	}

	if seed := getenv("REFERENCE_SEED"); seed != "" {
		v, err := strconv.ParseUint(seed, 10, 8)
		if err != nil {
			return cfg, fmt.Errorf("invalid REFERENCE_SEED %q: must be 0-255: %w", seed, err)
		}
		cfg.ReferenceSeed = uint8(v)
	}

	return cfg, nil
}

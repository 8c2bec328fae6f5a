package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"technocare"`
	ServerPort  int    `env:"SERVER_PORT"  envDefault:"5001"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`

	Storage Storage

	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	Redis RateLimit

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`
}

type Storage struct {
	Driver        string `env:"STORAGE_DRIVER" envDefault:"mongo"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"technocare"`
	DatabaseURL   string `env:"DATABASE_URL"`
}

type RateLimit struct {
	Addr      string `env:"REDIS_ADDR"`
	Password  string `env:"REDIS_PASSWORD"`
	PerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"0"`
}

// Load reads an optional .env file, then the process environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Storage.Driver = strings.ToLower(cfg.Storage.Driver)
	cfg.KafkaBrokers = CSV(strings.Join(cfg.KafkaBrokers, ","))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMongo:
		return NonEmpty(c.Storage.MongoURI, "MONGO_URI")
	case DriverPostgres, DriverSQLite:
		return NonEmpty(c.Storage.DatabaseURL, "DATABASE_URL")
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q (supported: mongo, postgres, sqlite)", c.Storage.Driver)
	}
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

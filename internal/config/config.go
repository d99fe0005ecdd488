package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/fjod/go_storefront/internal/repository"
)

type Config struct {
	App struct {
		HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
		RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	}
	Log struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Pretty bool   `env:"LOG_PRETTY" envDefault:"false"`
	}
	Catalog struct {
		BaseURL    string        `env:"CATALOG_BASE_URL" envDefault:"https://fakestoreapi.com"`
		Timeout    time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`
		Revalidate time.Duration `env:"CATALOG_REVALIDATE" envDefault:"120s"`
	}
	Payment struct {
		Delay time.Duration `env:"PAYMENT_DELAY" envDefault:"2s"`
	}
	Storage struct {
		Driver        string        `env:"STORAGE_DRIVER" envDefault:"sqlite"`
		Timeout       time.Duration `env:"STORAGE_TIMEOUT" envDefault:"5s"`
		SQLitePath    string        `env:"SQLITE_PATH" envDefault:"storefront.db"`
		RedisAddr     string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
		RedisPassword string        `env:"REDIS_PASSWORD"`
		RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
		MongoURI      string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
		MongoDBName   string        `env:"MONGO_DB_NAME" envDefault:"storefront"`
	}
}

// Load reads an optional .env file at path and then the process environment.
// Variables already set in the environment take precedence over the file.
func Load(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case repository.DriverMemory, repository.DriverSQLite, repository.DriverRedis, repository.DriverMongo:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Payment.Delay < 0 {
		return errors.New("PAYMENT_DELAY must not be negative")
	}
	// A request that times out before the charge finishes would still place the order.
	if c.App.RequestTimeout <= c.Payment.Delay {
		return fmt.Errorf("REQUEST_TIMEOUT (%s) must exceed PAYMENT_DELAY (%s)", c.App.RequestTimeout, c.Payment.Delay)
	}
	if c.Catalog.Revalidate < 0 {
		return errors.New("CATALOG_REVALIDATE must not be negative")
	}
	return nil
}

// RepositoryOptions maps the storage block onto repository.Options.
func (c *Config) RepositoryOptions() repository.Options {
	return repository.Options{
		Driver:        c.Storage.Driver,
		SQLitePath:    c.Storage.SQLitePath,
		RedisAddr:     c.Storage.RedisAddr,
		RedisPassword: c.Storage.RedisPassword,
		RedisDB:       c.Storage.RedisDB,
		MongoURI:      c.Storage.MongoURI,
		MongoDBName:   c.Storage.MongoDBName,
	}
}

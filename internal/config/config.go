// Package config holds runtime settings for the API server and the
// background worker, with defaults overridable from the environment.
package config

import (
	"fmt"
	"os"
	"time"
)

// Config holds runtime settings shared by both binaries.
//
// Fields:
//   - Port / MetricsPort: bind ports for the API and the metrics endpoint.
//   - DBHost / DBPort / DBName: MongoDB location for user and file records.
//   - RedisAddr: Redis instance backing sessions and the job queues.
//   - FolderPath: root directory for blob storage, created lazily.
//   - SessionTTL: lifetime of a login token.
//   - DequeueTimeout: how long the worker blocks waiting for a job.
//   - ShutdownTimeout: grace period for draining on shutdown.
type Config struct {
	Port            string
	MetricsPort     string
	DBHost          string
	DBPort          string
	DBName          string
	RedisAddr       string
	FolderPath      string
	SessionTTL      time.Duration
	DequeueTimeout  time.Duration
	ShutdownTimeout time.Duration
	Dev             bool
}

// LoadDefaults populates Config with development defaults.
// NOTE: Override these in any real deployment.
func (c *Config) LoadDefaults() {
	c.Port = "5000"
	c.MetricsPort = "9090"
	c.DBHost = "localhost"
	c.DBPort = "27017"
	c.DBName = "files_manager"
	c.RedisAddr = "localhost:6379"
	c.FolderPath = "/tmp/files_manager"
	c.SessionTTL = 24 * time.Hour
	c.DequeueTimeout = 2 * time.Second
	c.ShutdownTimeout = 10 * time.Second
}

// Load builds a Config by applying defaults and overlaying environment
// variables.
func Load() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	cfg.fromEnv()
	return cfg
}

func (c *Config) fromEnv() {
	overlay(&c.Port, "PORT")
	overlay(&c.MetricsPort, "METRICS_PORT")
	overlay(&c.DBHost, "DB_HOST")
	overlay(&c.DBPort, "DB_PORT")
	overlay(&c.DBName, "DB_DATABASE")
	overlay(&c.RedisAddr, "REDIS_ADDR")
	overlay(&c.FolderPath, "FOLDER_PATH")
	if os.Getenv("DEV") != "" {
		c.Dev = true
	}
}

func overlay(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// MongoURI renders the connection string for the metadata store.
func (c *Config) MongoURI() string {
	return fmt.Sprintf("mongodb://%s:%s", c.DBHost, c.DBPort)
}

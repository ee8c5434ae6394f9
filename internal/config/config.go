// Package config loads the service configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Port      string // PORT - HTTP port to listen on
	DBUser    string // DBUSER - database username
	DBPwd     string // DBPWD - database password (may be empty)
	DBHost    string // DBHOST - database host address
	DBName    string // DBNAME - database name, defaults to "chatapp"
	JWTSecret string // JWT_SECRET - secret the identity provider signs tokens with
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present. Missing required
// variables end the program with a fatal log message.
func Load() Config {
	_ = godotenv.Load()
	cfg := Config{
		Port:      must("PORT"),
		DBUser:    must("DBUSER"),
		DBPwd:     os.Getenv("DBPWD"),
		DBHost:    must("DBHOST"),
		DBName:    os.Getenv("DBNAME"),
		JWTSecret: must("JWT_SECRET"),
	}
	if cfg.DBName == "" {
		cfg.DBName = "chatapp"
	}
	return cfg
}

// DSN builds the MySQL data source name. parseTime makes the driver scan
// DATETIME columns into time.Time values.
func (c Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true",
		c.DBUser, c.DBPwd, c.DBHost, c.DBName)
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

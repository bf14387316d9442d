// Package config provides functionality for managing configuration options
// for the application using command-line flags, environment variables,
// an optional JSON config file and an optional .env file.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Options holds the configuration values for the application.
type Options struct {
	// Addr defines the HTTP server's listening address (ip:port).
	Addr string

	// DatabaseDSN selects the Postgres key-value backend when non-empty.
	DatabaseDSN string

	// StoragePath is the JSON file used as key-value storage when no DSN is set.
	StoragePath string

	// RosterPath points to the JSON list of users allowed to log in.
	RosterPath string

	// CatalogPath points to the JSON dish catalog.
	CatalogPath string

	// ImageDir holds bundled dish images, matched by file name.
	ImageDir string

	// FallbackImage is shown when no image could be resolved for a dish.
	FallbackImage string

	// LogLevel is passed to the zap logger.
	LogLevel string

	// Config is the path to the Config file.
	Config string
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.Addr, "a", "localhost:8080", "run on ip:port server")
	flag.StringVar(&options.DatabaseDSN, "d", "", "db address")
	flag.StringVar(&options.StoragePath, "s", "storage.json", "path to local key-value storage file")
	flag.StringVar(&options.RosterPath, "users", "data/users.json", "path to user roster")
	flag.StringVar(&options.CatalogPath, "dishes", "data/dishes.json", "path to dish catalog")
	flag.StringVar(&options.ImageDir, "images", "assets/dishes", "directory with bundled dish images")
	flag.StringVar(&options.FallbackImage, "fallback-image", "/assets/dishes/default-dish.jpg", "image used when none resolves")
	flag.StringVar(&options.LogLevel, "l", "info", "log level")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse parses the command-line flags and environment variables to set
// configuration values. It returns a pointer to the Options struct containing
// the parsed configuration values.
func Parse() *Options {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	flag.Parse()

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if err := loadFile(options, options.Config); err != nil {
		log.Fatalf("error while loading config file: %v", err)
	}

	applyEnv(options)

	return options
}

// loadFile merges a JSON config file into o. A missing file is not an error.
func loadFile(o *Options, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, o); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// applyEnv lets environment variables win over flags and the config file.
func applyEnv(o *Options) {
	if serverAddress := os.Getenv("SERVER_ADDRESS"); serverAddress != "" {
		o.Addr = serverAddress
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		o.DatabaseDSN = dsn
	}
	if path := os.Getenv("STORAGE_PATH"); path != "" {
		o.StoragePath = path
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		o.LogLevel = level
	}
}

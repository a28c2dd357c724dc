// Package config loads service settings from the environment. Command-line
// flags are layered on top by the commands in cmd/.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings shared by the wishlist commands.
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	Source   string `env:"SOURCE" envDefault:"./public/data.json"`
	BasePath string `env:"BASE_PATH" envDefault:"/"`

	// Frontend build and image assets served next to the API
	StaticDir string `env:"STATIC_DIR" envDefault:"../frontend/dist"`
	ImagesDir string `env:"IMAGES_DIR" envDefault:"./public/images"`

	DBPath string `env:"DB_PATH" envDefault:"./wishlist.db"`

	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:*"`

	S3 S3Config `envPrefix:"S3_"`

	OTelEndpoint string `env:"OTEL_ENDPOINT"`
}

// S3Config configures datasets hosted on S3 or MinIO.
type S3Config struct {
	Region    string `env:"REGION" envDefault:"us-east-1"`
	Endpoint  string `env:"ENDPOINT"`
	PathStyle bool   `env:"PATH_STYLE"`
}

// Prefix is prepended to every variable name.
const Prefix = "WISHLIST_"

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{Prefix: Prefix})
}

// LoadFrom reads the configuration from the given variables instead of the
// process environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Prefix: Prefix, Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/"
	}
	return cfg, nil
}

// Addr returns the listen address for Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

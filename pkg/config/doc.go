// Package config loads typed configuration from the environment.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11: the
// default .env file is loaded once per process (missing files are fine),
// then environment variables are parsed into any struct via `env` field
// tags. Each configuration type is parsed at most once and cached for the
// process lifetime, so packages can cheaply load their own Config structs
// at construction time.
//
// # Usage
//
//	type Config struct {
//	    BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:3000"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// MustLoad panics on failure for configuration the process cannot start
// without. Reset clears the cache, which tests use between environment
// changes.
package config

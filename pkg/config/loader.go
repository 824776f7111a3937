package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu      sync.Mutex
	cache   = make(map[string]any)
	envOnce sync.Once
)

// Load populates v from the environment. The default .env file is loaded
// first (once per process; its absence is not an error), then `env` tags on
// v's fields drive the parse. A successfully parsed type is cached: later
// Load calls for the same type return the cached copy without touching the
// environment again.
func Load[T any](v *T) error {
	envOnce.Do(func() {
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	key := typeName[T]()

	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache[key]; ok {
		*v = cached.(T)
		return nil
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	// Cache a copy so callers cannot mutate what later loads observe.
	cache[key] = *v
	return nil
}

// MustLoad works like Load but panics on failure. Use it for configuration
// the process cannot run without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: loading %s: %v", typeName[T](), err))
	}
}

// Reset drops all cached configuration so the next Load re-reads the
// environment. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cache = make(map[string]any)
}

func typeName[T any]() string {
	var zero T
	if t := reflect.TypeOf(zero); t != nil {
		return t.String()
	}
	return fmt.Sprintf("%T", *new(T))
}

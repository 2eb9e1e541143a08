package config

import (
	"errors"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// configCache stores parsed configuration structs keyed by type name.
type configCache struct {
	mu     sync.RWMutex
	values map[string]any
	onces  map[string]*sync.Once
}

var (
	globalCache = &configCache{
		values: make(map[string]any),
		onces:  make(map[string]*sync.Once),
	}

	defaultEnvLoaded sync.Once
)

// LoadEnv loads the given .env files into the process environment. Later
// files override earlier ones; variables already set in the environment are
// overridden too. Without arguments it loads ./.env.
func LoadEnv(paths ...string) error {
	defaultEnvLoaded.Do(func() {})
	if err := godotenv.Overload(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

// Load parses environment variables into v. Each configuration type is
// parsed once per process; later calls are served from the cache.
//
// On first use Load reads ./.env if it exists. Variables already present in
// the environment take precedence over the file.
//
//	var cfg apiclient.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// A missing .env file is fine.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	typeName := getTypeName[T]()

	if loadCached(typeName, v) {
		return nil
	}

	globalCache.mu.Lock()
	once, exists := globalCache.onces[typeName]
	if !exists {
		once = new(sync.Once)
		globalCache.onces[typeName] = once
	}
	globalCache.mu.Unlock()

	var err error
	once.Do(func() {
		err = parseInto(typeName, v)
	})
	if err != nil {
		// Allow a later attempt once the environment is fixed.
		globalCache.mu.Lock()
		delete(globalCache.onces, typeName)
		globalCache.mu.Unlock()
		return err
	}

	if loadCached(typeName, v) {
		return nil
	}
	return ErrConfigNotLoaded
}

// ForceReload parses v again, replacing the cached value.
func ForceReload[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	return parseInto(getTypeName[T](), v)
}

// ResetCache forgets every cached configuration. Intended for tests.
func ResetCache() {
	globalCache.mu.Lock()
	defer globalCache.mu.Unlock()
	globalCache.values = make(map[string]any)
	globalCache.onces = make(map[string]*sync.Once)
}

func parseInto[T any](typeName string, v *T) error {
	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	globalCache.mu.Lock()
	globalCache.values[typeName] = parsed
	globalCache.mu.Unlock()
	*v = parsed
	return nil
}

func loadCached[T any](typeName string, v *T) bool {
	globalCache.mu.RLock()
	defer globalCache.mu.RUnlock()
	cached, ok := globalCache.values[typeName]
	if ok {
		*v = cached.(T)
	}
	return ok
}

func getTypeName[T any]() string {
	t := reflect.TypeFor[T]()
	return t.PkgPath() + "." + t.String()
}

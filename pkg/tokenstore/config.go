package tokenstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/hrportal/pkg/secrets"
)

// Supported drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Config selects and configures a store.
type Config struct {
	Driver  string        `env:"TOKEN_STORE_DRIVER" envDefault:"file"`
	Path    string        `env:"TOKEN_STORE_PATH"`                       // file driver; defaults to <user config dir>/hrportal/<profile>.json
	Profile string        `env:"TOKEN_STORE_PROFILE" envDefault:"default"` // isolates independent logins
	Key     string        `env:"TOKEN_STORE_KEY"`                        // base64 32-byte key; enables encryption at rest
	TTL     time.Duration `env:"TOKEN_STORE_TTL" envDefault:"0s"`        // redis driver only
}

// Codec returns the codec implied by the configuration.
func (c Config) Codec() (Codec, error) {
	if c.Key == "" {
		return JSONCodec{}, nil
	}
	key, err := secrets.ParseKey(c.Key)
	if err != nil {
		return nil, err
	}
	return NewSealedCodec(key, c.profile())
}

// FilePath returns the file path used by the file driver.
func (c Config) FilePath() (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Join(fmt.Errorf("tokenstore: resolve config dir"), err)
	}
	return filepath.Join(dir, "hrportal", c.profile()+".json"), nil
}

func (c Config) profile() string {
	if c.Profile == "" {
		return "default"
	}
	return c.Profile
}

// Open builds the configured store. rdb is required only for the redis driver.
func Open(cfg Config, rdb redis.UniversalClient) (Store, error) {
	codec, err := cfg.Codec()
	if err != nil {
		return nil, err
	}

	switch cfg.Driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverFile, "":
		path, err := cfg.FilePath()
		if err != nil {
			return nil, err
		}
		fs, err := NewFileStore(path, WithCodec(codec))
		if err != nil {
			return nil, err
		}
		return fs, nil
	case DriverRedis:
		if rdb == nil {
			return nil, ErrNoRedisClient
		}
		return NewRedisStore(rdb, cfg.profile(), WithCodec(codec), WithTTL(cfg.TTL)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

package app

import (
	"errors"

	"github.com/dmitrymomot/hrportal/pkg/apiclient"
	"github.com/dmitrymomot/hrportal/pkg/config"
	"github.com/dmitrymomot/hrportal/pkg/guard"
	"github.com/dmitrymomot/hrportal/pkg/httpserver"
	"github.com/dmitrymomot/hrportal/pkg/logger"
	"github.com/dmitrymomot/hrportal/pkg/redis"
	"github.com/dmitrymomot/hrportal/pkg/tokenstore"
)

// Config gathers the configuration of every component.
type Config struct {
	Logger     logger.Config
	API        apiclient.Config
	TokenStore tokenstore.Config
	Redis      redis.Config
	Guard      guard.Config
	HTTP       httpserver.Config
}

// LoadConfig reads every component configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	err := errors.Join(
		config.Load(&cfg.Logger),
		config.Load(&cfg.API),
		config.Load(&cfg.TokenStore),
		config.Load(&cfg.Redis),
		config.Load(&cfg.Guard),
		config.Load(&cfg.HTTP),
	)
	return cfg, err
}

// ReloadConfig is LoadConfig bypassing the cache. Use it after the process
// environment changed, e.g. once an explicit .env file was loaded.
func ReloadConfig() (Config, error) {
	var cfg Config
	err := errors.Join(
		config.ForceReload(&cfg.Logger),
		config.ForceReload(&cfg.API),
		config.ForceReload(&cfg.TokenStore),
		config.ForceReload(&cfg.Redis),
		config.ForceReload(&cfg.Guard),
		config.ForceReload(&cfg.HTTP),
	)
	return cfg, err
}

// Package config loads configuration structs from environment variables.
//
// Structs are annotated with caarlos0/env tags and parsed once per type;
// later calls to Load are served from a process-wide cache. A ./.env file is
// read on first use when present, and LoadEnv loads explicit files (later
// files win) through joho/godotenv.
//
//	var cfg tokenstore.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// ForceReload reparses a type after the environment changed, for example
// once LoadEnv read an explicit file. ResetCache is for tests.
package config

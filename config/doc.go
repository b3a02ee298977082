// Package config loads command configuration with Viper.
//
// Values come from a YAML file found in the standard locations
// (./cmd/<name>/config.yml, ./<name>.yml, ./config.yml), then a .env file
// loaded with godotenv, then the process environment. Environment variables
// address nested keys by underscores: BATCH_INTERVAL sets batch.interval.
//
//	var cfg Config
//	err := config.LoadConfig("batchctl", &cfg, config.WithConfigFile(path))
package config

// Package configuration defines a configuration engine for the entire app.
//
// The configuration features:
//   - automatically loads the environment variables files.
//   - allows setting default variables if user didn't define them.
//
// Packages don't read the engine on their own. Each package exposes
// its DefaultConfig and a constructor that converts the engine into
// the package's own typed configuration at startup.
package configuration

import (
	"fmt"

	"github.com/blocklords/soulbound/configuration/env"
	"github.com/blocklords/soulbound/log"
	"github.com/spf13/viper"
)

// Config Configuration Engine based on viper.Viper
type Config struct {
	viper  *viper.Viper // used to keep default values
	logger *log.Logger  // debug purpose only
}

// New creates a global configuration for the entire application.
//
// The envPaths are the .env files passed as the command line arguments.
// Loads them into the environment variables.
func New(parent *log.Logger, envPaths []string) (*Config, error) {
	logger := parent.Child("configuration")

	logger.Info("Loading environment files passed as app arguments", "paths", envPaths)
	err := env.LoadAnyEnv(envPaths)
	if err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	logger.Info("Starting Viper with environment variables")

	conf := Config{
		viper:  viper.New(),
		logger: logger,
	}
	conf.viper.AutomaticEnv()

	return &conf, nil
}

// SetDefaults sets the default configuration parameters.
// The nil parameters are required from the user, they are skipped.
func (config *Config) SetDefaults(defaultConfig DefaultConfig) {
	for name, value := range defaultConfig.Parameters {
		if value == nil {
			continue
		}
		// already set, don't use the default
		if config.viper.IsSet(name) {
			continue
		}
		config.logger.Info("Set default for "+defaultConfig.Title, name, value)
		config.SetDefault(name, value)
	}
}

// SetDefault sets the default configuration name to the value
func (config *Config) SetDefault(name string, value interface{}) {
	config.viper.SetDefault(name, value)
}

// Set overrides the configuration parameter.
// Used for the command line flags that replace the environment variables.
func (config *Config) Set(name string, value interface{}) {
	config.viper.Set(name, value)
}

// Exist Checks whether the configuration variable exists or not
// If the configuration exists or its default value exists, then returns true.
func (config *Config) Exist(name string) bool {
	value := config.viper.GetString(name)
	return len(value) > 0
}

// GetString Returns the configuration parameter as a string
func (config *Config) GetString(name string) string {
	value := config.viper.GetString(name)
	return value
}

// GetUint64 Returns the configuration parameter as an unsigned 64-bit number
func (config *Config) GetUint64(name string) uint64 {
	value := config.viper.GetUint64(name)
	return value
}

// GetBool Returns the configuration parameter as a boolean
func (config *Config) GetBool(name string) bool {
	value := config.viper.GetBool(name)
	return value
}

// Package env was created for one purpose only: LoadAnyEnv
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Default is the environment file in the folder from where the app is called.
// It's loaded automatically when it exists.
const Default = ".env"

// LoadAnyEnv loads the .env files passed as the command line arguments
// to the application's environment variables.
// The .env file in the working directory is loaded as well if it exists.
//
// Variables that are already set in the environment are not overwritten.
// The values later will be available via configuration.Config.
func LoadAnyEnv(paths []string) error {
	opts := make([]string, 0, len(paths)+1)
	opts = append(opts, paths...)

	_, err := os.Stat(Default)
	if err == nil {
		opts = append(opts, Default)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("os.Stat(%s): %w", Default, err)
	}

	if len(opts) == 0 {
		return nil
	}

	err = godotenv.Load(opts...)
	if err != nil {
		return fmt.Errorf("godotenv.Load for paths %v: %w", opts, err)
	}
	return nil
}

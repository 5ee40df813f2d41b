package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvFileVar names the variable that overrides the env file path.
const EnvFileVar = "ENV_FILE"

// LoadEnvFile loads variables from the local environment file into the
// process environment. Variables already set are not overridden. A missing
// file is not an error; it returns false.
func LoadEnvFile() (string, bool, error) {
	path := os.Getenv(EnvFileVar)
	if path == "" {
		path = DefaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, false, nil
		}
		return path, false, fmt.Errorf("load env file %s: %w", path, err)
	}

	return path, true, nil
}

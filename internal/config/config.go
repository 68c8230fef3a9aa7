package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var (
	envOnce sync.Once
	envErr  error
)

// LoadEnv loads a .env file from the working directory or its parent, once
// per process. Variables already present in the environment win. A file
// that cannot be parsed is reported on every call.
func LoadEnv() error {
	envOnce.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}
		if err := godotenv.Load(envFile); err != nil {
			envErr = fmt.Errorf("error loading %s: %w", envFile, err)
		}
	})
	return envErr
}

package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is prepended to every variable name, e.g. LIBADMIN_API_BASE_URL.
const EnvPrefix = "LIBADMIN"

// DotEnvFile is read before the environment overlay. Variables already set
// in the process environment win over the file.
var DotEnvFile = ".env"

// loadDotEnv exports the variables of path into the process environment.
// A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// parseEnv overlays cfg with LIBADMIN_* variables. Unset variables keep the
// current value. It panics on malformed values.
func parseEnv(cfg *Config) {
	if err := loadDotEnv(DotEnvFile); err != nil {
		panic(err)
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		panic(err)
	}
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Dir is the default config directory, relative to the repository root.
const Dir = "infra/config"

// Load loads the config for the given key from <dir>/<key>.json
func Load(dir, key string, v interface{}) error {

	b, err := os.ReadFile(filepath.Join(dir, fmt.Sprintf("%s.json", key)))
	if err != nil {
		return fmt.Errorf("could not load config for %s: %w", key, err)
	}

	err = json.Unmarshal(b, v)
	if err != nil {
		return fmt.Errorf("could not unmarshal the config for %s: %w", key, err)
	}

	log.Info().Str("dir", dir).Str("config", key).Msg("loaded config")

	return nil
}

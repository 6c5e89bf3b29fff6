package store

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"schoolctl/models"
)

// ConfigStore persists the CLI configuration. Reads accept YAML as well
// as JSON so a hand-edited config.yaml keeps working; writes always go
// to config.json.
type ConfigStore interface {
	Load() (*models.Config, error)
	Save(*models.Config) error
}

type RealConfigStore struct {
	*Store
}

func NewConfigStore(s *Store) *RealConfigStore {
	return &RealConfigStore{Store: s}
}

// Load returns the configuration, or a zero value when none exists.
func (c *RealConfigStore) Load() (*models.Config, error) {
	for _, name := range []string{configFile, "config.yaml", "config.yml"} {
		data, err := afero.ReadFile(c.Fs, filepath.Join(c.Dir, name))
		if err != nil {
			continue
		}
		var cfg models.Config
		if yerr := yaml.Unmarshal(data, &cfg); yerr != nil {
			if jerr := json.Unmarshal(data, &cfg); jerr != nil {
				continue
			}
		}
		return &cfg, nil
	}
	return &models.Config{}, nil
}

func (c *RealConfigStore) Save(cfg *models.Config) error {
	return c.writeRecord(configFile, cfg)
}

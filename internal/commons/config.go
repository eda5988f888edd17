package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"entrepot/internal/config"
)

// LoadConfig reads a YAML config file over the environment-driven
// defaults. When the file does not exist, the env config is used as is.
func LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading env config: %w", err)
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if len(cfg.Pricing.ZoneRates) == 0 {
		cfg.Pricing.ZoneRates = config.DefaultZoneRates()
	}

	return cfg, nil
}

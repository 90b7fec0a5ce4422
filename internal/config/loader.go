package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load arma la Config en capas, de menor a mayor precedencia:
//  1. defaults (New)
//  2. archivo YAML si PETS_CONFIG está seteado
//  3. env con prefijo PETS_ (PETS_BUS_URL -> bus_url, etc.)
func Load() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("PETS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Claves planas con underscore para matchear los tags koanf.
	envProvider := env.Provider("PETS_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "pets_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.LitterConfThreshold < 0 || cfg.LitterConfThreshold > 1 {
		return nil, errors.New("litter_conf_threshold must be in [0,1]")
	}
	if cfg.LitterDurationThreshold < 0 {
		return nil, errors.New("litter_duration_threshold must be >= 0")
	}
	return &cfg, nil
}

package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const DefaultListen = ":8000"

type Config struct {
	Listen   string   `yaml:"listen"`
	Gamesys  string   `yaml:"gamesys"`
	Mission  string   `yaml:"mission"`
	Songs    []string `yaml:"songs"`
	Encoding string   `yaml:"encoding"`
	// Seed of the selection generator, 0 picks one from the clock.
	Seed int64 `yaml:"seed"`
	// StrictProperties turns skipped property records into load errors.
	StrictProperties bool   `yaml:"strict_properties"`
	Snapshot         string `yaml:"snapshot"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "loading config")
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Config{Listen: DefaultListen}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "loading config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "loading config")
	}
	return &cfg, nil
}

func (cfg *Config) Validate() error {
	if strings.TrimSpace(cfg.Listen) == "" {
		return errors.New("listen address is required")
	}
	if strings.TrimSpace(cfg.Mission) == "" && strings.TrimSpace(cfg.Gamesys) == "" {
		return errors.New("mission or gamesys path is required")
	}
	if cfg.Encoding != "" && !strings.EqualFold(cfg.Encoding, "utf-8") {
		if _, err := lookupCharmap(cfg.Encoding); err != nil {
			return err
		}
	}
	for i, s := range cfg.Songs {
		if strings.TrimSpace(s) == "" {
			return errors.Errorf("song %d has empty path", i)
		}
	}
	return nil
}

// Apply pushes process-wide settings (text encoding) into effect.
func (cfg *Config) Apply() error {
	return SetEncoding(cfg.Encoding)
}

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds service settings loaded from an optional YAML file.
// Flags and environment variables override file values in main.
type Config struct {
	Port        int    `yaml:"port"`
	DBPath      string `yaml:"db_path"`
	CompanyName string `yaml:"company_name"`
}

func defaultConfig() Config {
	return Config{
		Port:        9100,
		DBPath:      "cabops.db",
		CompanyName: "Your Cabinet Shop",
	}
}

// loadConfig reads the YAML config file at path. A missing file is not an
// error; defaults apply.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Port == 0 {
		cfg.Port = defaultConfig().Port
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultConfig().DBPath
	}
	return cfg, nil
}

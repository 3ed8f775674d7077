package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"project-service/pkg/config"
)

type Config struct {
	Env       string
	Server    config.ServerConfig `yaml:"server"`
	DB        config.DBConfig     `yaml:"db"`
	Redis     config.RedisConfig  `yaml:"redis"`
	MQ        config.MQConfig     `yaml:"mq"`
	JWT       config.JWTConfig    `yaml:"jwt"`
	TechStack TechStackConfig     `yaml:"techstack"`
}

// TechStackConfig carries the static compatibility table: technology name to
// the set of names it is known compatible with. Injected configuration, not a
// package-level global, so tests can swap it.
type TechStackConfig struct {
	Compatibility map[string][]string `yaml:"compatibility"`
}

// Load reads config/base.yaml, overlays the environment-specific file if one
// exists, then applies environment variable overrides on top.
func Load() (*Config, error) {
	env := config.GetConfigEnv()
	configDir := config.GetEnv("CONFIG_DIR", "config")

	cfg := &Config{Env: env}

	if err := loadYAML(filepath.Join(configDir, "base.yaml"), cfg); err != nil {
		return nil, fmt.Errorf("failed to load base.yaml: %w", err)
	}

	envFile := filepath.Join(configDir, fmt.Sprintf("%s.yaml", env))
	if _, err := os.Stat(envFile); err == nil {
		if err := loadYAML(envFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load %s.yaml: %w", env, err)
		}
	}

	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideDBFromEnv(&cfg.DB)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideMQFromEnv(&cfg.MQ)
	config.OverrideJWTFromEnv(&cfg.JWT)

	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

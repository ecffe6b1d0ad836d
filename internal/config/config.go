package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslmode"`
	} `yaml:"database"`

	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		TLS  struct {
			Enabled  bool   `yaml:"enabled"`
			CertFile string `yaml:"cert_file"`
			KeyFile  string `yaml:"key_file"`
		} `yaml:"tls"`
	} `yaml:"server"`

	Elasticsearch struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"elasticsearch"`

	Mongo struct {
		URI        string `yaml:"uri"`
		Database   string `yaml:"database"`
		Collection string `yaml:"collection"`
	} `yaml:"mongo"`

	Migrations struct {
		Dir string `yaml:"dir"`
	} `yaml:"migrations"`
}

func Load() (*Config, error) {
	// Look for config in multiple locations
	configPaths := []string{
		"./configs/config.yaml",
		"../configs/config.yaml",
		"/etc/gestion-salud/config.yaml",
	}

	var config Config
	for _, path := range configPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}

		configFile, err := os.ReadFile(absPath)
		if err != nil {
			continue
		}

		if err := yaml.Unmarshal(configFile, &config); err != nil {
			return nil, err
		}
		config.applyDefaults()

		return &config, nil
	}

	return nil, fmt.Errorf("no configuration file found")
}

// LoadFile reads a single explicit config file. Used by the CLIs.
func LoadFile(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(raw, &config); err != nil {
		return nil, err
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Migrations.Dir == "" {
		c.Migrations.Dir = "./migrations"
	}
	if c.Mongo.Collection == "" {
		c.Mongo.Collection = "documentos_soporte"
	}
}

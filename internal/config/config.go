// Package config loads scf command settings from YAML files.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bsm/scf"
	"github.com/bsm/scf/internal/logger"
	"gopkg.in/yaml.v3"
)

// Config holds the command settings.
type Config struct {
	Log         logger.Config `yaml:"log"`
	Compression Compression   `yaml:"compression"`
}

// Compression selects the codec used by encode.
type Compression struct {
	Algorithm string `yaml:"algorithm"`
	Level     string `yaml:"level"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Log: logger.DefaultConfig(),
		Compression: Compression{
			Algorithm: scf.ZlibCompression.String(),
			Level:     scf.DefaultLevel.String(),
		},
	}
}

// Load reads a YAML file and merges it over the defaults. ${VAR} references
// are substituted from the environment before parsing.
func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal([]byte(substituteEnvVars(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks all names.
func (c *Config) Validate() error {
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if _, _, err := c.Compression.Parse(); err != nil {
		return fmt.Errorf("compression: %w", err)
	}
	return nil
}

// Parse resolves algorithm and level names.
func (c Compression) Parse() (scf.Compression, scf.CompressionLevel, error) {
	algo, err := scf.ParseCompression(c.Algorithm)
	if err != nil {
		return 0, 0, err
	}
	level, err := scf.ParseCompressionLevel(c.Level)
	if err != nil {
		return 0, 0, err
	}
	return algo, level, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values
func substituteEnvVars(content string) string {
	var sb strings.Builder
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			break
		}
		end := strings.IndexByte(content[start:], '}')
		if end == -1 {
			break
		}
		end += start

		sb.WriteString(content[:start])
		sb.WriteString(os.Getenv(content[start+2 : end]))
		content = content[end+1:]
	}
	sb.WriteString(content)
	return sb.String()
}

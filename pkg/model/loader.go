package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseJSON decodes a configuration document from JSON and validates it.
func ParseJSON(data []byte) (CalculatorConfig, error) {
	var cfg CalculatorConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return CalculatorConfig{}, fmt.Errorf("parse calculator config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return CalculatorConfig{}, err
	}
	return cfg, nil
}

// ParseYAML decodes a configuration document from YAML and validates it.
func ParseYAML(data []byte) (CalculatorConfig, error) {
	var cfg CalculatorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CalculatorConfig{}, fmt.Errorf("parse calculator config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return CalculatorConfig{}, err
	}
	return cfg, nil
}

// LoadFile reads a configuration document from disk, choosing the decoder by
// file extension (.json, .yaml, .yml).
func LoadFile(path string) (CalculatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CalculatorConfig{}, fmt.Errorf("read calculator config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return CalculatorConfig{}, fmt.Errorf("load calculator config: unsupported extension %q", filepath.Ext(path))
	}
}

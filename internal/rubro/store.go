package rubro

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"gastos-csv/internal/logging"
)

// mappingsFile is the on-disk YAML shape of a keyword table override.
type mappingsFile struct {
	Rubros []Mapping `yaml:"rubros"`
}

// Store resolves and loads a keyword table override from YAML.
type Store struct {
	// File is the configured override path; empty means "rubros.yaml".
	File   string
	logger logging.Logger
}

// NewStore creates a store for rubro mappings.
func NewStore(file string, logger logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Store{File: file, logger: logger}
}

// findConfigFile looks for the mappings file in the standard locations:
// the path itself, the working directory, ./config and ~/.config/gastos-csv.
func (s *Store) findConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		configPath := filepath.Join(homeDir, ".config", "gastos-csv", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadMappings loads the keyword table from YAML. A missing file is not an
// error: the built-in table applies.
func (s *Store) LoadMappings() ([]Mapping, error) {
	filename := s.File
	if filename == "" {
		filename = "rubros.yaml"
	}

	path, err := s.findConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("Rubro mappings file not found, using defaults",
				logging.F("file", filename))
			return DefaultMappings(), nil
		}
		return nil, fmt.Errorf("error resolving rubro mappings file: %w", err)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- resolved from known config locations
	if err != nil {
		return nil, fmt.Errorf("error reading rubro mappings file: %w", err)
	}

	var f mappingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing rubro mappings file: %w", err)
	}
	if len(f.Rubros) == 0 {
		s.logger.Warn("Rubro mappings file is empty, using defaults",
			logging.F("file", path))
		return DefaultMappings(), nil
	}

	s.logger.Info("Loaded rubro mappings",
		logging.F("file", path),
		logging.F("count", len(f.Rubros)))
	return f.Rubros, nil
}

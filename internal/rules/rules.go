// Package rules loads and saves the category rule set used to classify
// transactions at ingestion time.
package rules

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"fjacquet/budgify/internal/config"
	"fjacquet/budgify/internal/models"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Store manages loading and saving of the category rule file.
type Store struct {
	CategoriesFile string
}

// NewStore creates a rule store backed by the given file. An empty filename
// falls back to categories.yaml resolved through the standard locations.
func NewStore(categoriesFile string) *Store {
	return &Store{CategoriesFile: categoriesFile}
}

// FindConfigFile looks for a configuration file in standard locations.
func (s *Store) FindConfigFile(filename string) (string, error) {
	// Check if it's an absolute path
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	// Common locations to check for config files
	locations := []string{
		filename,                          // Current directory
		filepath.Join("config", filename), // ./config/ directory
		filepath.Join("data", filename),   // ./data/ directory
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	// If still not found, check in user's home directory under .config/budgify/
	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "budgify", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// Load reads the category rules from the YAML file. A missing file yields an
// empty rule set, not an error: ingestion without rules simply leaves rows
// uncategorized. Rule order in the file is match precedence.
func (s *Store) Load() (models.CategoryRules, error) {
	filename := s.CategoriesFile
	if filename == "" {
		filename = "categories.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warnf("Categories file not found: %s", filename)
			return models.CategoryRules{}, nil
		}
		return nil, fmt.Errorf("error resolving categories file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	// Preferred structure carries the top-level "categories:" key.
	var file models.RulesFile
	if err := yaml.Unmarshal(data, &file); err == nil && len(file.Categories) > 0 {
		log.Debugf("Loaded %d category rules from %s", len(file.Categories), filePath)
		return file.Categories, nil
	}

	// Fallback: a bare list of rules without the top-level key.
	var bare models.CategoryRules
	if err := yaml.Unmarshal(data, &bare); err == nil && len(bare) > 0 {
		log.Debugf("Loaded %d category rules from %s using direct array", len(bare), filePath)
		return bare, nil
	}

	log.Warnf("Categories file %s contains no rules", filePath)
	return models.CategoryRules{}, nil
}

// Save writes the rule set back to the YAML file in the preferred structure,
// creating parent directories as needed.
func (s *Store) Save(rules models.CategoryRules) error {
	filename := s.CategoriesFile
	if filename == "" {
		filename = "categories.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("error resolving categories file: %w", err)
		}
		filePath = filename
	}

	dir := filepath.Dir(filePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	data, err := yaml.Marshal(models.RulesFile{Categories: rules})
	if err != nil {
		return fmt.Errorf("error marshaling category rules: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return fmt.Errorf("error writing category rules: %w", err)
	}

	log.Debugf("Saved %d category rules to %s", len(rules), filePath)
	return nil
}

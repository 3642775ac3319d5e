package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// AppConfig represents the YAML configuration structure
type AppConfig struct {
	Version string        `yaml:"version"`
	General GeneralConfig `yaml:"general"`
	Auth    AuthConfig    `yaml:"auth"`
	Output  OutputConfig  `yaml:"output"`
	Filters FilterConfig  `yaml:"filters"`
}

// GeneralConfig holds general execution settings
type GeneralConfig struct {
	MaxWorkers int    `yaml:"max_workers"` // Upper bound on concurrent workers
	LogLevel   string `yaml:"log_level"`   // Log level: silent, normal, verbose, debug
	Progress   bool   `yaml:"progress"`    // Progress bar display
}

// AuthConfig holds credential resolution settings
type AuthConfig struct {
	Profile    string `yaml:"profile"`     // OCI config profile name
	ConfigFile string `yaml:"config_file"` // OCI config file path (empty = ~/.oci/config)
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format string `yaml:"format"` // Output format: text, json, csv
	File   string `yaml:"file"`   // Output file path (empty = stdout)
}

// defaultMaxWorkers matches the original scripts' thread-pool default
const defaultMaxWorkers = 4

// getDefaultConfig returns the built-in configuration defaults
func getDefaultConfig() *AppConfig {
	return &AppConfig{
		Version: "1.0",
		General: GeneralConfig{
			MaxWorkers: defaultMaxWorkers,
			LogLevel:   "normal",
			Progress:   false,
		},
		Auth: AuthConfig{
			Profile:    "DEFAULT",
			ConfigFile: "",
		},
		Output: OutputConfig{
			Format: "text",
			File:   "",
		},
		Filters: FilterConfig{
			IncludeCompartments: []string{},
			ExcludeCompartments: []string{},
			NamePattern:         "",
			ExcludeNamePattern:  "",
		},
	}
}

// getConfigPaths returns configuration file search paths in priority order
func getConfigPaths() []string {
	paths := []string{}

	// 1. Environment variable
	if configFile := os.Getenv("OCI_TENANCY_REPORT_CONFIG"); configFile != "" {
		paths = append(paths, configFile)
	}

	// 2. Current directory
	paths = append(paths, "./oci-tenancy-report.yaml")

	// 3. Home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(homeDir, ".oci-tenancy-report.yaml"))
	}

	// 4. System directory
	paths = append(paths, "/etc/oci-tenancy-report.yaml")

	return paths
}

// LoadConfig loads configuration from the first YAML file found on the
// search path, falling back to defaults when none exists
func LoadConfig() (*AppConfig, error) {
	config := getDefaultConfig()

	for _, path := range getConfigPaths() {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse configuration file %s: %w", path, err)
			}
			break // Use first found configuration file
		}
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}

// validateConfig validates the loaded configuration
func validateConfig(config *AppConfig) error {
	if _, err := ParseLogLevel(config.General.LogLevel); err != nil {
		return &ConfigurationError{Field: "general.log_level", Reason: err.Error()}
	}

	validFormats := []string{"text", "json", "csv"}
	if !stringInSlice(config.Output.Format, validFormats) {
		return &ConfigurationError{
			Field:  "output.format",
			Reason: fmt.Sprintf("invalid format %q, must be one of: %v", config.Output.Format, validFormats),
		}
	}

	if config.General.MaxWorkers <= 0 {
		return &ConfigurationError{
			Field:  "general.max_workers",
			Reason: fmt.Sprintf("must be positive, got: %d", config.General.MaxWorkers),
		}
	}

	if err := ValidateFilterConfig(config.Filters); err != nil {
		return &ConfigurationError{Field: "filters", Reason: err.Error()}
	}

	return nil
}

// SaveConfig saves the current configuration to a YAML file
func SaveConfig(config *AppConfig, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	return nil
}

// GenerateDefaultConfigFile creates a default configuration file
func GenerateDefaultConfigFile(filename string) error {
	return SaveConfig(getDefaultConfig(), filename)
}

// CLIOverrides carries the flag values that may override file settings.
// Nil fields were not set on the command line.
type CLIOverrides struct {
	MaxWorkers *int
	LogLevel   *string
	Profile    *string
	ConfigFile *string
	Format     *string
	OutputFile *string
	Progress   *bool
}

// MergeWithCLIArgs applies non-nil CLI overrides onto a loaded config
func MergeWithCLIArgs(config *AppConfig, overrides CLIOverrides) {
	if overrides.MaxWorkers != nil {
		config.General.MaxWorkers = *overrides.MaxWorkers
	}
	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		config.General.LogLevel = *overrides.LogLevel
	}
	if overrides.Profile != nil && *overrides.Profile != "" {
		config.Auth.Profile = *overrides.Profile
	}
	if overrides.ConfigFile != nil && *overrides.ConfigFile != "" {
		config.Auth.ConfigFile = *overrides.ConfigFile
	}
	if overrides.Format != nil && *overrides.Format != "" {
		config.Output.Format = *overrides.Format
	}
	if overrides.OutputFile != nil && *overrides.OutputFile != "" {
		config.Output.File = *overrides.OutputFile
	}
	if overrides.Progress != nil {
		config.General.Progress = *overrides.Progress
	}
}

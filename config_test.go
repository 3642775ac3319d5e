package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestGetDefaultConfig verifies the built-in defaults
func TestGetDefaultConfig(t *testing.T) {
	config := getDefaultConfig()

	if config.General.MaxWorkers != defaultMaxWorkers {
		t.Errorf("MaxWorkers = %d, want %d", config.General.MaxWorkers, defaultMaxWorkers)
	}
	if config.General.LogLevel != "normal" {
		t.Errorf("LogLevel = %q, want %q", config.General.LogLevel, "normal")
	}
	if config.Auth.Profile != "DEFAULT" {
		t.Errorf("Profile = %q, want %q", config.Auth.Profile, "DEFAULT")
	}
	if config.Output.Format != "text" {
		t.Errorf("Format = %q, want %q", config.Output.Format, "text")
	}

	if err := validateConfig(config); err != nil {
		t.Errorf("default config failed validation: %v", err)
	}
}

// TestValidateConfig covers the validation rules
func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{
			name:    "valid_defaults",
			mutate:  func(c *AppConfig) {},
			wantErr: false,
		},
		{
			name:    "invalid_log_level",
			mutate:  func(c *AppConfig) { c.General.LogLevel = "chatty" },
			wantErr: true,
		},
		{
			name:    "invalid_format",
			mutate:  func(c *AppConfig) { c.Output.Format = "xml" },
			wantErr: true,
		},
		{
			name:    "zero_workers",
			mutate:  func(c *AppConfig) { c.General.MaxWorkers = 0 },
			wantErr: true,
		},
		{
			name:    "negative_workers",
			mutate:  func(c *AppConfig) { c.General.MaxWorkers = -3 },
			wantErr: true,
		},
		{
			name:    "bad_filter_regex",
			mutate:  func(c *AppConfig) { c.Filters.NamePattern = "[unclosed" },
			wantErr: true,
		},
		{
			name:    "bad_compartment_ocid",
			mutate:  func(c *AppConfig) { c.Filters.IncludeCompartments = []string{"not-an-ocid"} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := getDefaultConfig()
			tt.mutate(config)

			err := validateConfig(config)
			if tt.wantErr {
				var confErr *ConfigurationError
				if !errors.As(err, &confErr) {
					t.Errorf("got %v, want ConfigurationError", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// TestLoadConfig_FromEnvPath verifies the env-var config path wins
func TestLoadConfig_FromEnvPath(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.yaml")
	contents := `version: "1.0"
general:
  max_workers: 8
  log_level: verbose
  progress: true
auth:
  profile: PROD
output:
  format: json
`
	if err := os.WriteFile(configPath, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("OCI_TENANCY_REPORT_CONFIG", configPath)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	if config.General.MaxWorkers != 8 {
		t.Errorf("MaxWorkers = %d, want 8", config.General.MaxWorkers)
	}
	if config.General.LogLevel != "verbose" {
		t.Errorf("LogLevel = %q, want %q", config.General.LogLevel, "verbose")
	}
	if config.Auth.Profile != "PROD" {
		t.Errorf("Profile = %q, want %q", config.Auth.Profile, "PROD")
	}
	if config.Output.Format != "json" {
		t.Errorf("Format = %q, want %q", config.Output.Format, "json")
	}
	if !config.General.Progress {
		t.Error("Progress = false, want true")
	}
}

// TestLoadConfig_InvalidYAML verifies parse failures surface
func TestLoadConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(configPath, []byte("general: [not: a: mapping"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("OCI_TENANCY_REPORT_CONFIG", configPath)

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() succeeded on invalid YAML")
	}
}

// TestSaveConfig_Roundtrip verifies save and reload preserve settings
func TestSaveConfig_Roundtrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "saved.yaml")

	original := getDefaultConfig()
	original.General.MaxWorkers = 12
	original.Auth.Profile = "STAGING"

	if err := SaveConfig(original, configPath); err != nil {
		t.Fatalf("SaveConfig() returned error: %v", err)
	}

	t.Setenv("OCI_TENANCY_REPORT_CONFIG", configPath)
	reloaded, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() returned error: %v", err)
	}

	if reloaded.General.MaxWorkers != 12 {
		t.Errorf("MaxWorkers = %d, want 12", reloaded.General.MaxWorkers)
	}
	if reloaded.Auth.Profile != "STAGING" {
		t.Errorf("Profile = %q, want %q", reloaded.Auth.Profile, "STAGING")
	}
}

// TestMergeWithCLIArgs verifies flag priority over the config file
func TestMergeWithCLIArgs(t *testing.T) {
	config := getDefaultConfig()

	maxWorkers := 16
	logLevel := "debug"
	profile := "OPS"
	format := "csv"
	outputFile := "report.csv"
	progress := true

	MergeWithCLIArgs(config, CLIOverrides{
		MaxWorkers: &maxWorkers,
		LogLevel:   &logLevel,
		Profile:    &profile,
		Format:     &format,
		OutputFile: &outputFile,
		Progress:   &progress,
	})

	if config.General.MaxWorkers != 16 {
		t.Errorf("MaxWorkers = %d, want 16", config.General.MaxWorkers)
	}
	if config.General.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", config.General.LogLevel, "debug")
	}
	if config.Auth.Profile != "OPS" {
		t.Errorf("Profile = %q, want %q", config.Auth.Profile, "OPS")
	}
	if config.Output.Format != "csv" {
		t.Errorf("Format = %q, want %q", config.Output.Format, "csv")
	}
	if config.Output.File != "report.csv" {
		t.Errorf("File = %q, want %q", config.Output.File, "report.csv")
	}
	if !config.General.Progress {
		t.Error("Progress = false, want true")
	}
}

// TestMergeWithCLIArgs_NilOverrides verifies nothing changes without overrides
func TestMergeWithCLIArgs_NilOverrides(t *testing.T) {
	config := getDefaultConfig()
	want := *config

	MergeWithCLIArgs(config, CLIOverrides{})

	if config.General != want.General {
		t.Errorf("General changed: %+v, want %+v", config.General, want.General)
	}
	if config.Auth != want.Auth {
		t.Errorf("Auth changed: %+v, want %+v", config.Auth, want.Auth)
	}
	if config.Output != want.Output {
		t.Errorf("Output changed: %+v, want %+v", config.Output, want.Output)
	}
}

// TestGenerateDefaultConfigFile verifies the generated file loads cleanly
func TestGenerateDefaultConfigFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "generated.yaml")

	if err := GenerateDefaultConfigFile(configPath); err != nil {
		t.Fatalf("GenerateDefaultConfigFile() returned error: %v", err)
	}

	t.Setenv("OCI_TENANCY_REPORT_CONFIG", configPath)
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("generated config failed to load: %v", err)
	}
	if err := validateConfig(config); err != nil {
		t.Errorf("generated config failed validation: %v", err)
	}
}

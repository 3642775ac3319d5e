package main

import (
	"os"
	"path/filepath"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/common/auth"
)

// ambientMarkerEnv is the environment signal that the process is running
// inside OCI-managed compute, where an instance principal is available
const ambientMarkerEnv = "OCI_RESOURCE_PRINCIPAL_VERSION"

// CredentialResolver resolves a usable authentication context: an
// instance principal when the ambient marker is present, otherwise a
// named profile from the OCI config file.
//
// Instance-principal failure is best effort and falls back to the file
// exactly once; file failure is final. Resolution never makes a network
// call beyond the instance-principal construction itself - profile
// validation is a pure read of the parsed file.
type CredentialResolver struct {
	ConfigPath string // empty = ~/.oci/config
	Profile    string // empty = DEFAULT

	// ambientProvider constructs the instance-principal provider. It is
	// a field so tests can observe the single fallback attempt without
	// an OCI metadata endpoint.
	ambientProvider func() (common.ConfigurationProvider, error)

	log *Logger
}

// NewCredentialResolver creates a resolver for the given config path and profile
func NewCredentialResolver(configPath, profile string, log *Logger) *CredentialResolver {
	return &CredentialResolver{
		ConfigPath:      configPath,
		Profile:         profile,
		ambientProvider: auth.InstancePrincipalConfigurationProvider,
		log:             log,
	}
}

// defaultOCIConfigPath returns the conventional ~/.oci/config location
func defaultOCIConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".oci/config"
	}
	return filepath.Join(homeDir, ".oci", "config")
}

// Resolve establishes the credentials for this run.
//
// When the ambient marker is set, an instance principal is attempted
// first and returned on success. On ambient failure (or marker absent)
// the config file is the final word: a missing file is
// CredentialError{NotFound}, an unreadable profile is
// CredentialError{Invalid}.
func (r *CredentialResolver) Resolve() (*Credentials, error) {
	if os.Getenv(ambientMarkerEnv) != "" {
		creds, err := r.resolveAmbient()
		if err == nil {
			r.log.Info("Resolved credentials via instance principal")
			return creds, nil
		}
		// Best effort: fall through to the config file
		r.log.Warn("Instance principal authentication failed, falling back to config file: %v", err)
	}

	return r.resolveFromFile()
}

// resolveAmbient attempts to construct an instance-principal identity
func (r *CredentialResolver) resolveAmbient() (*Credentials, error) {
	provider, err := r.ambientProvider()
	if err != nil {
		return nil, err
	}

	tenancyID, err := provider.TenancyOCID()
	if err != nil {
		return nil, err
	}

	return &Credentials{
		Provider:  provider,
		Source:    SourceInstancePrincipal,
		TenancyID: tenancyID,
	}, nil
}

// resolveFromFile loads and validates the named profile from the config file
func (r *CredentialResolver) resolveFromFile() (*Credentials, error) {
	configPath := r.ConfigPath
	if configPath == "" {
		configPath = defaultOCIConfigPath()
	}
	profile := r.Profile
	if profile == "" {
		profile = "DEFAULT"
	}

	if _, err := os.Stat(configPath); err != nil {
		return nil, &CredentialError{Kind: CredentialNotFound, Path: configPath, Profile: profile, Err: err}
	}

	provider, err := common.ConfigurationProviderFromFileWithProfile(configPath, profile, "")
	if err != nil {
		return nil, &CredentialError{Kind: CredentialInvalid, Path: configPath, Profile: profile, Err: err}
	}

	// A profile without a readable tenancy OCID is unusable; surface that
	// now rather than on the first API call
	tenancyID, err := provider.TenancyOCID()
	if err != nil {
		return nil, &CredentialError{Kind: CredentialInvalid, Path: configPath, Profile: profile, Err: err}
	}

	r.log.Info("Resolved credentials from %s (profile %s)", configPath, profile)
	return &Credentials{
		Provider:  provider,
		Source:    SourceConfigFile,
		TenancyID: tenancyID,
		Profile:   profile,
	}, nil
}

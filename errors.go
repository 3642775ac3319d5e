package main

import "fmt"

// CredentialErrorKind distinguishes the fatal credential failure modes
type CredentialErrorKind int

const (
	CredentialNotFound CredentialErrorKind = iota // no config file and no ambient identity
	CredentialInvalid                             // config file present but profile unusable
)

// String returns the string representation of the error kind
func (k CredentialErrorKind) String() string {
	switch k {
	case CredentialNotFound:
		return "not_found"
	case CredentialInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// CredentialError is a fatal failure to establish a usable authentication
// context. It aborts the run before any discovery call is made.
type CredentialError struct {
	Kind    CredentialErrorKind
	Path    string
	Profile string
	Err     error
}

// Error implements the error interface
func (e *CredentialError) Error() string {
	switch e.Kind {
	case CredentialNotFound:
		return fmt.Sprintf("credentials not found: no OCI config file at %s", e.Path)
	case CredentialInvalid:
		return fmt.Sprintf("invalid credentials: profile %s in %s: %v", e.Profile, e.Path, e.Err)
	default:
		return fmt.Sprintf("credential error: %v", e.Err)
	}
}

// Unwrap returns the underlying error
func (e *CredentialError) Unwrap() error {
	return e.Err
}

// ConfigurationError is a fatal setup error (invalid concurrency bound,
// bad flag combination). It fails before any worker runs.
type ConfigurationError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// DiscoveryError is a fatal failure of the initial listing call that
// produces the work list. With nothing to fan out, the run aborts.
type DiscoveryError struct {
	Op  string
	Err error
}

// Error implements the error interface
func (e *DiscoveryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("discovery failed: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("discovery failed: %s returned no data", e.Op)
}

// Unwrap returns the underlying error
func (e *DiscoveryError) Unwrap() error {
	return e.Err
}

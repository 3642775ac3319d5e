package main

import (
	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/oracle/oci-go-sdk/v65/identity"
	"github.com/oracle/oci-go-sdk/v65/loganalytics"
	"github.com/oracle/oci-go-sdk/v65/resourcesearch"
)

// CredentialSource identifies how the active credentials were obtained
type CredentialSource int

const (
	SourceInstancePrincipal CredentialSource = iota // ambient identity inside OCI compute
	SourceConfigFile                                // named profile from ~/.oci/config
)

// String returns the string representation of the credential source
func (s CredentialSource) String() string {
	switch s {
	case SourceInstancePrincipal:
		return "instance_principal"
	case SourceConfigFile:
		return "config_file"
	default:
		return "unknown"
	}
}

// Credentials is the resolved authentication context for a run.
// It is constructed once by the CredentialResolver and reused, read-only,
// for every client construction.
type Credentials struct {
	Provider  common.ConfigurationProvider
	Source    CredentialSource
	TenancyID string
	Profile   string
}

// OCIClients holds all OCI service clients used by the subcommands
type OCIClients struct {
	ComputeClient      core.ComputeClient
	IdentityClient     identity.IdentityClient
	SearchClient       resourcesearch.ResourceSearchClient
	LogAnalyticsClient loganalytics.LogAnalyticsClient
	CompartmentCache   *CompartmentNameCache
}

// ReportRow is one (name, detail) pair inside a report group
type ReportRow struct {
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

// WorkResult is the outcome of processing a single work item.
// A successful result carries a group key and one or more rows; a failure
// marker carries the item's identity and the error instead.
type WorkResult struct {
	GroupKey string
	Rows     []ReportRow
	Item     string
	Err      error
}

// Failed reports whether the result is a failure marker
func (r WorkResult) Failed() bool {
	return r.Err != nil
}

// ReportGroup is an ordered list of rows sharing a group key
type ReportGroup struct {
	Key  string      `json:"group"`
	Rows []ReportRow `json:"rows"`
}

// AggregatedReport is the deterministic, grouped view of a fan-out run.
// Groups are sorted ascending by key; rows keep the order in which their
// results were collected.
type AggregatedReport struct {
	Groups   []ReportGroup `json:"groups"`
	Failures int           `json:"failures"`
}

// TotalRows returns the number of rows across all groups
func (r AggregatedReport) TotalRows() int {
	total := 0
	for _, g := range r.Groups {
		total += len(g.Rows)
	}
	return total
}

package main

import (
	"fmt"

	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/oracle/oci-go-sdk/v65/identity"
	"github.com/oracle/oci-go-sdk/v65/loganalytics"
	"github.com/oracle/oci-go-sdk/v65/resourcesearch"
)

// initOCIClients initializes all required OCI service clients from the
// resolved credentials. The clients share one configuration provider and
// are safe for concurrent use by the fan-out workers.
func initOCIClients(creds *Credentials, log *Logger) (*OCIClients, error) {
	clients := &OCIClients{}

	// Initialize Compute client
	computeClient, err := core.NewComputeClientWithConfigurationProvider(creds.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute client: %w", err)
	}
	clients.ComputeClient = computeClient

	// Initialize Identity client
	identityClient, err := identity.NewIdentityClientWithConfigurationProvider(creds.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity client: %w", err)
	}
	clients.IdentityClient = identityClient

	// Initialize Resource Search client
	searchClient, err := resourcesearch.NewResourceSearchClientWithConfigurationProvider(creds.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource search client: %w", err)
	}
	clients.SearchClient = searchClient

	// Initialize Log Analytics client
	laClient, err := loganalytics.NewLogAnalyticsClientWithConfigurationProvider(creds.Provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create log analytics client: %w", err)
	}
	clients.LogAnalyticsClient = laClient

	clients.CompartmentCache = NewCompartmentNameCache(identityClient, log)

	return clients, nil
}

package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/identity"
)

// CompartmentNameCache provides thread-safe caching for compartment name
// resolution. Fan-out workers share one cache so each compartment is
// looked up at most once per run.
type CompartmentNameCache struct {
	mu     sync.RWMutex
	cache  map[string]string // OCID -> Name mapping
	client identity.IdentityClient
	log    *Logger
}

// NewCompartmentNameCache creates a new compartment name cache instance
func NewCompartmentNameCache(identityClient identity.IdentityClient, log *Logger) *CompartmentNameCache {
	return &CompartmentNameCache{
		cache:  make(map[string]string),
		client: identityClient,
		log:    log,
	}
}

// GetCompartmentName retrieves the compartment name for a given OCID with caching
func (c *CompartmentNameCache) GetCompartmentName(ctx context.Context, compartmentOCID string) string {
	c.mu.RLock()
	if name, exists := c.cache[compartmentOCID]; exists {
		c.mu.RUnlock()
		return name
	}
	c.mu.RUnlock()

	name := c.fetchCompartmentName(ctx, compartmentOCID)

	c.mu.Lock()
	c.cache[compartmentOCID] = name
	c.mu.Unlock()

	return name
}

// fetchCompartmentName retrieves a compartment name from the OCI API
func (c *CompartmentNameCache) fetchCompartmentName(ctx context.Context, compartmentOCID string) string {
	// Handle root compartment (tenancy)
	if compartmentOCID == "" {
		return "root"
	}

	request := identity.GetCompartmentRequest{
		CompartmentId: common.String(compartmentOCID),
	}

	response, err := c.client.GetCompartment(ctx, request)
	if err != nil {
		c.log.Debug("Failed to get compartment name for OCID %s: %v", compartmentOCID, err)
		// Short OCID keeps the report readable when the lookup fails
		return formatShortOCID(compartmentOCID)
	}

	if response.Name != nil {
		return *response.Name
	}

	return formatShortOCID(compartmentOCID)
}

// Preload seeds the cache with every compartment in the tenancy, cutting
// per-item GetCompartment calls during the fan-out stage
func (c *CompartmentNameCache) Preload(tenancyOCID string, compartments []identity.Compartment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, compartment := range compartments {
		if compartment.Id != nil && compartment.Name != nil {
			c.cache[*compartment.Id] = *compartment.Name
		}
	}

	// Root compartment is the tenancy itself
	c.cache[tenancyOCID] = "root"

	c.log.Verbose("Preloaded %d compartment names into cache", len(c.cache))
}

// Size returns the number of cached entries
func (c *CompartmentNameCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

// formatShortOCID creates a short, readable version of an OCID for fallback display
func formatShortOCID(ocid string) string {
	if ocid == "" {
		return "unknown"
	}
	if len(ocid) <= 17 {
		return ocid
	}
	return fmt.Sprintf("%s...%s", ocid[:10], ocid[len(ocid)-7:])
}

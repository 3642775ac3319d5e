package main

import (
	"context"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/oracle/oci-go-sdk/v65/identity"
	"github.com/oracle/oci-go-sdk/v65/resourcesearch"
)

// runningInstancesQuery is the structured search for live compute instances
const runningInstancesQuery = "query instance resources where lifeCycleState = 'RUNNING'"

// instanceRef identifies one instance to enrich: the work item of the
// search fan-out
type instanceRef struct {
	InstanceID    string
	CompartmentID string
}

// String returns a short identity for logs and failure markers
func (r instanceRef) String() string {
	return formatShortOCID(r.InstanceID)
}

// compartmentRef identifies one compartment to list: the work item of the
// per-compartment fan-out
type compartmentRef struct {
	ID   string
	Name string
}

// String returns a short identity for logs and failure markers
func (r compartmentRef) String() string {
	if r.Name != "" {
		return r.Name
	}
	return formatShortOCID(r.ID)
}

// searchRunningInstances queries the tenancy-wide resource search service
// for RUNNING compute instances and returns the full, page-exhausted list
// of work items. An empty result set is a DiscoveryError: there is
// nothing to fan out.
func searchRunningInstances(ctx context.Context, clients *OCIClients, log *Logger) ([]instanceRef, error) {
	var refs []instanceRef

	details := resourcesearch.StructuredSearchDetails{
		Query:               common.String(runningInstancesQuery),
		MatchingContextType: resourcesearch.SearchDetailsMatchingContextTypeNone,
	}

	var page *string
	pageCount := 0
	for {
		pageCount++
		log.Debug("Fetching search results page %d", pageCount)
		req := resourcesearch.SearchResourcesRequest{
			SearchDetails: details,
			Page:          page,
		}

		resp, err := clients.SearchClient.SearchResources(ctx, req)
		if err != nil {
			return nil, &DiscoveryError{Op: "search running instances", Err: err}
		}

		for _, item := range resp.Items {
			if item.Identifier == nil || item.CompartmentId == nil {
				continue
			}
			refs = append(refs, instanceRef{
				InstanceID:    *item.Identifier,
				CompartmentID: *item.CompartmentId,
			})
		}

		if resp.OpcNextPage == nil {
			break
		}
		page = resp.OpcNextPage
	}

	if len(refs) == 0 {
		return nil, &DiscoveryError{Op: "search running instances"}
	}

	log.Info("Found %d running instances", len(refs))
	return refs, nil
}

// listAllCompartments lists every accessible compartment in the tenancy
// subtree, with the root compartment prepended, exhausting pagination
// before returning
func listAllCompartments(ctx context.Context, clients *OCIClients, tenancyID string, log *Logger) ([]identity.Compartment, error) {
	var compartments []identity.Compartment

	req := identity.ListCompartmentsRequest{
		CompartmentId:          common.String(tenancyID),
		AccessLevel:            identity.ListCompartmentsAccessLevelAccessible,
		CompartmentIdInSubtree: common.Bool(true),
	}

	pageCount := 0
	for {
		pageCount++
		log.Debug("Fetching compartments page %d", pageCount)
		resp, err := clients.IdentityClient.ListCompartments(ctx, req)
		if err != nil {
			return nil, &DiscoveryError{Op: "list compartments", Err: err}
		}

		compartments = append(compartments, resp.Items...)

		if resp.OpcNextPage == nil {
			break
		}
		req.Page = resp.OpcNextPage
	}

	// Include root compartment
	root := identity.Compartment{
		Id:             common.String(tenancyID),
		Name:           common.String("root"),
		CompartmentId:  common.String(tenancyID),
		LifecycleState: identity.CompartmentLifecycleStateActive,
	}
	compartments = append([]identity.Compartment{root}, compartments...)

	log.Info("Found %d compartments", len(compartments))
	return compartments, nil
}

// activeCompartmentRefs converts compartments into work items, keeping
// only ACTIVE ones
func activeCompartmentRefs(compartments []identity.Compartment) []compartmentRef {
	var refs []compartmentRef
	for _, compartment := range compartments {
		if compartment.LifecycleState != identity.CompartmentLifecycleStateActive {
			continue
		}
		if compartment.Id == nil {
			continue
		}
		ref := compartmentRef{ID: *compartment.Id}
		if compartment.Name != nil {
			ref.Name = *compartment.Name
		}
		refs = append(refs, ref)
	}
	return refs
}

// getInstanceDetails fetches display name and shape for one instance
func getInstanceDetails(ctx context.Context, clients *OCIClients, instanceID string) (name, shape string, err error) {
	req := core.GetInstanceRequest{
		InstanceId: common.String(instanceID),
	}

	resp, err := clients.ComputeClient.GetInstance(ctx, req)
	if err != nil {
		return "", "", err
	}

	if resp.DisplayName != nil {
		name = *resp.DisplayName
	}
	if resp.Shape != nil {
		shape = *resp.Shape
	}
	return name, shape, nil
}

// listComputeInstances lists all non-terminated compute instances in a
// compartment, exhausting pagination
func listComputeInstances(ctx context.Context, clients *OCIClients, compartmentID string, log *Logger) ([]core.Instance, error) {
	var instances []core.Instance

	var page *string
	pageCount := 0
	for {
		pageCount++
		log.Debug("Fetching instances page %d for compartment: %s", pageCount, formatShortOCID(compartmentID))
		req := core.ListInstancesRequest{
			CompartmentId: common.String(compartmentID),
			Page:          page,
		}

		resp, err := clients.ComputeClient.ListInstances(ctx, req)
		if err != nil {
			return nil, err
		}

		for _, instance := range resp.Items {
			if instance.LifecycleState != core.InstanceLifecycleStateTerminated {
				instances = append(instances, instance)
			}
		}

		if resp.OpcNextPage == nil {
			break
		}
		page = resp.OpcNextPage
	}

	return instances, nil
}

// runStatus maps an instance lifecycle state to the report's status text
func runStatus(state core.InstanceLifecycleStateEnum) string {
	switch state {
	case core.InstanceLifecycleStateRunning:
		return "Running"
	case core.InstanceLifecycleStateStarting:
		return "Starting"
	case core.InstanceLifecycleStateStopping:
		return "Stopping"
	default:
		return "Not Running"
	}
}

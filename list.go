package main

import (
	"context"

	"github.com/spf13/cobra"
)

// newListCmd builds the per-compartment instance listing command
func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List compute instances in every compartment of the tenancy in parallel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), a)
		},
	}
}

// runList discovers the tenancy's compartments, fans the instance listing
// out across them, and prints the grouped report of name and run status
func runList(ctx context.Context, a *app) error {
	creds, clients, err := a.connect()
	if err != nil {
		return err
	}

	a.log.Info("Fetching compartments")
	compartments, err := listAllCompartments(ctx, clients, creds.TenancyID, a.log)
	if err != nil {
		return err
	}
	clients.CompartmentCache.Preload(creds.TenancyID, compartments)

	refs := ApplyCompartmentFilter(activeCompartmentRefs(compartments), a.cfg.Filters)
	if len(refs) == 0 {
		return &DiscoveryError{Op: "list compartments (after filters)"}
	}
	a.log.Info("Processing %d compartments", len(refs))

	compiledFilters, err := CompileFilters(a.cfg.Filters)
	if err != nil {
		return &ConfigurationError{Field: "filters", Reason: err.Error()}
	}

	breaker := newRemoteCallBreaker("instance-listing")
	tracker := NewProgressTracker(a.cfg.General.Progress, len(refs))
	tracker.Start()
	defer tracker.Stop()

	worker := func(ctx context.Context, ref compartmentRef) WorkResult {
		var rows []ReportRow
		err := callRemote(ctx, breaker, "list instances in "+ref.String(), a.log, func() error {
			instances, opErr := listComputeInstances(ctx, clients, ref.ID, a.log)
			if opErr != nil {
				return opErr
			}
			rows = rows[:0]
			for _, instance := range instances {
				name := ""
				if instance.DisplayName != nil {
					name = *instance.DisplayName
				}
				if !ApplyNameFilter(name, compiledFilters) {
					continue
				}
				rows = append(rows, ReportRow{Name: name, Detail: runStatus(instance.LifecycleState)})
			}
			return nil
		})
		if err != nil {
			a.log.Error("Error listing instances in compartment %s: %v", ref.String(), err)
			return WorkResult{Item: ref.String(), Err: err}
		}

		a.log.Verbose("Compartment %s: %d instances", ref.String(), len(rows))
		return WorkResult{
			GroupKey: ref.String(),
			Rows:     rows,
			Item:     ref.String(),
		}
	}

	results, err := runFanout(ctx, refs, worker, a.cfg.General.MaxWorkers, tracker, a.log)
	if err != nil {
		return err
	}

	report := aggregateResults(results)
	if report.Failures > 0 {
		a.log.Info("Listing completed with %d failed compartments", report.Failures)
	}
	a.log.Info("Listed %d instances across %d compartments", report.TotalRows(), len(report.Groups))

	return writeReport(report, a.cfg.Output.Format, a.cfg.Output.File, "Compute Instances by Compartment:")
}

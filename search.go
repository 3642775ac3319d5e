package main

import (
	"context"

	"github.com/spf13/cobra"
)

// newSearchCmd builds the tenancy-wide running-instance search command
func newSearchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "search",
		Short: "Search for running compute instances across the tenancy and report name and shape by compartment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.Context(), a)
		},
	}
}

// runSearch discovers running instances, enriches them in parallel with
// instance details and compartment names, and prints the grouped report
func runSearch(ctx context.Context, a *app) error {
	_, clients, err := a.connect()
	if err != nil {
		return err
	}

	a.log.Info("Searching for running compute instances")
	refs, err := searchRunningInstances(ctx, clients, a.log)
	if err != nil {
		return err
	}

	compiledFilters, err := CompileFilters(a.cfg.Filters)
	if err != nil {
		return &ConfigurationError{Field: "filters", Reason: err.Error()}
	}

	breaker := newRemoteCallBreaker("instance-search")
	tracker := NewProgressTracker(a.cfg.General.Progress, len(refs))
	tracker.Start()
	defer tracker.Stop()

	worker := func(ctx context.Context, ref instanceRef) WorkResult {
		var name, shape string
		err := callRemote(ctx, breaker, "get instance "+ref.String(), a.log, func() error {
			var opErr error
			name, shape, opErr = getInstanceDetails(ctx, clients, ref.InstanceID)
			return opErr
		})
		if err != nil {
			a.log.Error("Error processing instance %s: %v", ref.String(), err)
			return WorkResult{Item: ref.String(), Err: err}
		}

		compartmentName := clients.CompartmentCache.GetCompartmentName(ctx, ref.CompartmentID)
		a.log.Debug("Processed instance %s in compartment %s", name, compartmentName)

		return WorkResult{
			GroupKey: compartmentName,
			Rows:     []ReportRow{{Name: name, Detail: shape}},
			Item:     ref.String(),
		}
	}

	results, err := runFanout(ctx, refs, worker, a.cfg.General.MaxWorkers, tracker, a.log)
	if err != nil {
		return err
	}

	// Drop rows excluded by the name filters before aggregation
	for i, res := range results {
		if res.Failed() {
			continue
		}
		kept := res.Rows[:0]
		for _, row := range res.Rows {
			if ApplyNameFilter(row.Name, compiledFilters) {
				kept = append(kept, row)
			}
		}
		results[i].Rows = kept
	}

	report := aggregateResults(results)
	if report.Failures > 0 {
		a.log.Info("Search completed with %d failed items", report.Failures)
	}

	return writeReport(report, a.cfg.Output.Format, a.cfg.Output.File, "Running Compute Instances by Compartment:")
}

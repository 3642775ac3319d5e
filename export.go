package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/loganalytics"
	"github.com/spf13/cobra"
)

// exportTimeLayout is the ISO layout accepted for --start-time/--end-time
const exportTimeLayout = "2006-01-02T15:04:05"

// exportMaxTotalCount caps the number of exported records per query
const exportMaxTotalCount = 1_000_000

// exportOptions holds the export command's flag values
type exportOptions struct {
	compartmentOCID string
	namespace       string
	query           string
	startTime       string
	endTime         string
}

// newExportCmd builds the Log Analytics export command
func newExportCmd(a *app) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a Log Analytics query result to a CSV file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), a, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.compartmentOCID, "compartment-ocid", "c", "", "Target compartment OCID")
	flags.StringVarP(&opts.namespace, "namespace", "n", "", "Log Analytics namespace")
	flags.StringVarP(&opts.query, "query", "q", "", "Log Analytics query string - verify in the UI first")
	flags.StringVarP(&opts.startTime, "start-time", "s", "", "Query start time (ISO format: YYYY-MM-DDTHH:MM:SS, default 1h ago)")
	flags.StringVarP(&opts.endTime, "end-time", "e", "", "Query end time (ISO format: YYYY-MM-DDTHH:MM:SS, default now)")
	cmd.MarkFlagRequired("compartment-ocid")
	cmd.MarkFlagRequired("namespace")
	cmd.MarkFlagRequired("query")

	return cmd
}

// parseExportWindow turns the flag values into a validated UTC time range
func parseExportWindow(startFlag, endFlag string, now time.Time) (start, end time.Time, err error) {
	end = now.UTC()
	if endFlag != "" {
		end, err = time.Parse(exportTimeLayout, endFlag)
		if err != nil {
			return start, end, &ConfigurationError{Field: "end-time", Reason: err.Error()}
		}
	}

	start = end.Add(-1 * time.Hour)
	if startFlag != "" {
		start, err = time.Parse(exportTimeLayout, startFlag)
		if err != nil {
			return start, end, &ConfigurationError{Field: "start-time", Reason: err.Error()}
		}
	}

	if !start.Before(end) {
		return start, end, &ConfigurationError{Field: "start-time", Reason: "must be before end-time"}
	}

	return start, end, nil
}

// runExport issues the export query and streams the CSV response to the
// output file under an advisory lock
func runExport(ctx context.Context, a *app, opts *exportOptions) error {
	start, end, err := parseExportWindow(opts.startTime, opts.endTime, time.Now())
	if err != nil {
		return err
	}

	_, clients, err := a.connect()
	if err != nil {
		return err
	}

	outputPath := a.cfg.Output.File
	if outputPath == "" {
		outputPath = "export.csv"
	}

	// Advisory lock keeps concurrent runs from interleaving writes
	fileLock := flock.New(outputPath)
	locked, err := fileLock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to lock output file %s: %w", outputPath, err)
	}
	if !locked {
		return fmt.Errorf("output file %s is locked by another process", outputPath)
	}
	defer fileLock.Unlock()

	a.log.Info("Exporting query results from %s to %s for compartment %s",
		start.Format(exportTimeLayout), end.Format(exportTimeLayout), formatShortOCID(opts.compartmentOCID))

	details := loganalytics.ExportDetails{
		CompartmentId:        common.String(opts.compartmentOCID),
		QueryString:          common.String(opts.query),
		SubSystem:            loganalytics.SubSystemNameLog,
		OutputFormat:         loganalytics.ExportDetailsOutputFormatCsv,
		MaxTotalCount:        common.Int(exportMaxTotalCount),
		ShouldIncludeColumns: common.Bool(true),
		TimeFilter: &loganalytics.TimeRange{
			TimeStart: &common.SDKTime{Time: start},
			TimeEnd:   &common.SDKTime{Time: end},
			TimeZone:  common.String("UTC"),
		},
	}

	queryStart := time.Now()
	resp, err := clients.LogAnalyticsClient.ExportQueryResult(ctx, loganalytics.ExportQueryResultRequest{
		NamespaceName: common.String(opts.namespace),
		ExportDetails: details,
	})
	if err != nil {
		return fmt.Errorf("export query failed: %w", err)
	}
	defer resp.Content.Close()
	a.log.Info("Query completed in %v", time.Since(queryStart))

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	writeStart := time.Now()
	written, err := io.Copy(file, resp.Content)
	if err != nil {
		return fmt.Errorf("failed to write export data: %w", err)
	}

	a.log.Info("Data written to %s (size: %d bytes, write time: %v)", outputPath, written, time.Since(writeStart))
	return nil
}

package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// renderText writes the report as grouped text:
//
//	Compartment X:
//	  name: value
func renderText(w io.Writer, report AggregatedReport, title string) error {
	if _, err := fmt.Fprintf(w, "%s\n", title); err != nil {
		return err
	}

	for _, group := range report.Groups {
		if _, err := fmt.Fprintf(w, "Compartment %s:\n", group.Key); err != nil {
			return err
		}
		for _, row := range group.Rows {
			if _, err := fmt.Fprintf(w, "  %s: %s\n", row.Name, row.Detail); err != nil {
				return err
			}
		}
	}

	if report.Failures > 0 {
		if _, err := fmt.Fprintf(w, "(%d items failed)\n", report.Failures); err != nil {
			return err
		}
	}

	return nil
}

// renderJSON writes the report as pretty-printed JSON
func renderJSON(w io.Writer, report AggregatedReport) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// renderCSV writes the report as one row per (group, name, detail)
func renderCSV(w io.Writer, report AggregatedReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"Compartment", "Name", "Detail"}); err != nil {
		return err
	}

	for _, res := range flattenReport(report) {
		for _, row := range res.Rows {
			if err := writer.Write([]string{res.GroupKey, row.Name, row.Detail}); err != nil {
				return err
			}
		}
	}

	return nil
}

// writeReport routes the report to the requested format and destination
func writeReport(report AggregatedReport, format, filename, title string) error {
	var w io.Writer = os.Stdout
	if filename != "" {
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		w = file
	}

	switch format {
	case "text":
		return renderText(w, report, title)
	case "json":
		return renderJSON(w, report)
	case "csv":
		return renderCSV(w, report)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

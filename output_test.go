package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sampleReport() AggregatedReport {
	return AggregatedReport{
		Groups: []ReportGroup{
			{Key: "Alpha", Rows: []ReportRow{
				{Name: "inst1", Detail: "VM.Standard2.1"},
				{Name: "inst2", Detail: "VM.Standard2.2"},
			}},
			{Key: "Beta", Rows: []ReportRow{
				{Name: "inst3", Detail: "VM.Standard2.4"},
			}},
		},
	}
}

// TestRenderText verifies the grouped text layout
func TestRenderText(t *testing.T) {
	var buf bytes.Buffer
	if err := renderText(&buf, sampleReport(), "Running Compute Instances by Compartment:"); err != nil {
		t.Fatalf("renderText() returned error: %v", err)
	}

	want := `Running Compute Instances by Compartment:
Compartment Alpha:
  inst1: VM.Standard2.1
  inst2: VM.Standard2.2
Compartment Beta:
  inst3: VM.Standard2.4
`
	if buf.String() != want {
		t.Errorf("renderText output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

// TestRenderText_FailureSummary verifies failed items are surfaced
func TestRenderText_FailureSummary(t *testing.T) {
	report := sampleReport()
	report.Failures = 2

	var buf bytes.Buffer
	if err := renderText(&buf, report, "Title:"); err != nil {
		t.Fatalf("renderText() returned error: %v", err)
	}

	if !strings.Contains(buf.String(), "(2 items failed)") {
		t.Errorf("output missing failure summary:\n%s", buf.String())
	}
}

// TestRenderJSON verifies the JSON rendering round-trips
func TestRenderJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderJSON(&buf, sampleReport()); err != nil {
		t.Fatalf("renderJSON() returned error: %v", err)
	}

	var decoded AggregatedReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Groups) != 2 {
		t.Errorf("decoded %d groups, want 2", len(decoded.Groups))
	}
	if decoded.Groups[0].Key != "Alpha" {
		t.Errorf("first group = %q, want Alpha", decoded.Groups[0].Key)
	}
}

// TestRenderCSV verifies one row per (group, name, detail)
func TestRenderCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := renderCSV(&buf, sampleReport()); err != nil {
		t.Fatalf("renderCSV() returned error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d CSV lines, want 4 (header + 3 rows)", len(lines))
	}
	if lines[0] != "Compartment,Name,Detail" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "Alpha,inst1,VM.Standard2.1" {
		t.Errorf("first row = %q", lines[1])
	}
	if lines[3] != "Beta,inst3,VM.Standard2.4" {
		t.Errorf("last row = %q", lines[3])
	}
}

// TestWriteReport_ToFile verifies file output
func TestWriteReport_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")

	if err := writeReport(sampleReport(), "text", path, "Title:"); err != nil {
		t.Fatalf("writeReport() returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}
	if !strings.Contains(string(data), "Compartment Alpha:") {
		t.Errorf("file output missing group header:\n%s", data)
	}
}

// TestWriteReport_UnsupportedFormat verifies the format guard
func TestWriteReport_UnsupportedFormat(t *testing.T) {
	if err := writeReport(sampleReport(), "xml", "", "Title:"); err == nil {
		t.Error("writeReport() accepted unsupported format")
	}
}

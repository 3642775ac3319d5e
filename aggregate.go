package main

import "sort"

// aggregateResults partitions successful results by group key and emits
// groups sorted ascending by key. Rows within a group keep the order in
// which their results were collected, which reflects completion order of
// the fan-out stage. Failure markers are excluded from the groups and
// surfaced through the Failures count.
func aggregateResults(results []WorkResult) AggregatedReport {
	report := AggregatedReport{}
	byKey := make(map[string]int) // group key -> index into report.Groups

	for _, res := range results {
		if res.Failed() {
			report.Failures++
			continue
		}

		idx, exists := byKey[res.GroupKey]
		if !exists {
			report.Groups = append(report.Groups, ReportGroup{Key: res.GroupKey})
			idx = len(report.Groups) - 1
			byKey[res.GroupKey] = idx
		}
		report.Groups[idx].Rows = append(report.Groups[idx].Rows, res.Rows...)
	}

	sort.Slice(report.Groups, func(i, j int) bool {
		return report.Groups[i].Key < report.Groups[j].Key
	})

	return report
}

// flattenReport converts a report back into one result per row. Useful
// for re-aggregation and for the CSV rendering.
func flattenReport(report AggregatedReport) []WorkResult {
	var results []WorkResult
	for _, group := range report.Groups {
		for _, row := range group.Rows {
			results = append(results, WorkResult{
				GroupKey: group.Key,
				Rows:     []ReportRow{row},
			})
		}
	}
	return results
}

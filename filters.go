package main

import (
	"fmt"
	"regexp"
	"strings"
)

// FilterConfig narrows which compartments are fanned out and which
// resource names make it into the report
type FilterConfig struct {
	IncludeCompartments []string `yaml:"include_compartments"`
	ExcludeCompartments []string `yaml:"exclude_compartments"`
	NamePattern         string   `yaml:"name_pattern"`
	ExcludeNamePattern  string   `yaml:"exclude_name_pattern"`
}

// CompiledFilters holds pre-compiled regex patterns for name matching
type CompiledFilters struct {
	NameRegex        *regexp.Regexp
	ExcludeNameRegex *regexp.Regexp
}

// ValidateFilterConfig validates the filter configuration
func ValidateFilterConfig(filter FilterConfig) error {
	for _, ocid := range filter.IncludeCompartments {
		if !isValidCompartmentOCID(ocid) {
			return fmt.Errorf("invalid compartment OCID format: %s", ocid)
		}
	}
	for _, ocid := range filter.ExcludeCompartments {
		if !isValidCompartmentOCID(ocid) {
			return fmt.Errorf("invalid compartment OCID format: %s", ocid)
		}
	}

	if filter.NamePattern != "" {
		if _, err := regexp.Compile(filter.NamePattern); err != nil {
			return fmt.Errorf("invalid regex pattern '%s': %v", filter.NamePattern, err)
		}
	}
	if filter.ExcludeNamePattern != "" {
		if _, err := regexp.Compile(filter.ExcludeNamePattern); err != nil {
			return fmt.Errorf("invalid regex pattern '%s': %v", filter.ExcludeNamePattern, err)
		}
	}

	return nil
}

// CompileFilters compiles regex patterns for efficient matching
func CompileFilters(filter FilterConfig) (*CompiledFilters, error) {
	compiled := &CompiledFilters{}

	if filter.NamePattern != "" {
		regex, err := regexp.Compile(filter.NamePattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile name pattern '%s': %v", filter.NamePattern, err)
		}
		compiled.NameRegex = regex
	}

	if filter.ExcludeNamePattern != "" {
		regex, err := regexp.Compile(filter.ExcludeNamePattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile exclude name pattern '%s': %v", filter.ExcludeNamePattern, err)
		}
		compiled.ExcludeNameRegex = regex
	}

	return compiled, nil
}

// ApplyCompartmentFilter filters compartment work items against the
// include/exclude OCID lists
func ApplyCompartmentFilter(refs []compartmentRef, filter FilterConfig) []compartmentRef {
	if len(filter.IncludeCompartments) == 0 && len(filter.ExcludeCompartments) == 0 {
		return refs // No filtering
	}

	var filtered []compartmentRef

	for _, ref := range refs {
		if len(filter.IncludeCompartments) > 0 {
			if !stringInSlice(ref.ID, filter.IncludeCompartments) {
				continue
			}
		}

		if len(filter.ExcludeCompartments) > 0 {
			if stringInSlice(ref.ID, filter.ExcludeCompartments) {
				continue
			}
		}

		filtered = append(filtered, ref)
	}

	return filtered
}

// ApplyNameFilter checks if a resource name matches the filter criteria
func ApplyNameFilter(resourceName string, compiled *CompiledFilters) bool {
	if compiled.NameRegex != nil {
		if !compiled.NameRegex.MatchString(resourceName) {
			return false
		}
	}

	if compiled.ExcludeNameRegex != nil {
		if compiled.ExcludeNameRegex.MatchString(resourceName) {
			return false
		}
	}

	return true
}

// isValidCompartmentOCID validates the OCID format for compartments.
// The tenancy root is a valid target too.
func isValidCompartmentOCID(ocid string) bool {
	return strings.HasPrefix(ocid, "ocid1.compartment.oc1..") ||
		strings.HasPrefix(ocid, "ocid1.tenancy.oc1..")
}

// stringInSlice checks if a string exists in a slice
func stringInSlice(str string, slice []string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}

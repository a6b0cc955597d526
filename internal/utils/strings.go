package utils

import "strings"

// ParseCSV splits a comma-separated string and returns trimmed non-empty values.
// Returns nil for empty/whitespace-only input.
func ParseCSV(s string) []string {
	if s == "" {
		return nil
	}

	var result []string
	for _, v := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	if len(result) == 0 {
		return nil
	}

	return result
}

// ParseCSVValues flattens repeated query values that may themselves be
// comma-separated, so ?type=fire&type=flying and ?type=fire,flying agree.
func ParseCSVValues(values ...string) []string {
	var result []string
	for _, v := range values {
		result = append(result, ParseCSV(v)...)
	}
	return result
}

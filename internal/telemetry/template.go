package telemetry

import (
	"strconv"
	"strings"
)

// ResolveQuery substitutes ${key} placeholders in a query template.
// Unresolved placeholders are left verbatim; only the exact braced
// token is replaced, so a "h" variable never clips "${hours}".
func ResolveQuery(template string, vars map[string]string) string {
	query := template
	for key, value := range vars {
		query = strings.ReplaceAll(query, "${"+key+"}", value)
	}
	return query
}

// QueryVars builds the substitution set for a dashboard request.
func QueryVars(sourceID string, hours int) map[string]string {
	return map[string]string{
		"source": sourceID,
		"hours":  strconv.Itoa(hours),
	}
}

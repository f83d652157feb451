package stream

import (
	"strings"

	"aquamonitor/internal/models"
)

// probeSet is the set of probes known to have data for one
// (source, window) pair. Lookup is by full (type, name) equality.
type probeSet map[models.ProbeDescriptor]struct{}

func newProbeSet(descriptors []models.ProbeDescriptor) probeSet {
	set := make(probeSet, len(descriptors))
	for _, d := range descriptors {
		set[d] = struct{}{}
	}
	return set
}

func (s probeSet) hasType(probeType string) bool {
	for d := range s {
		if d.ProbeType == probeType {
			return true
		}
	}
	return false
}

// extractTagValue scans a query for a "tag"='value' predicate and
// returns the value. The tag predicates embedded in widget queries
// double as availability keys.
func extractTagValue(query, tag string) (string, bool) {
	pattern := `"` + tag + `"='`
	start := strings.Index(query, pattern)
	if start < 0 {
		return "", false
	}
	rest := query[start+len(pattern):]
	end := strings.IndexByte(rest, '\'')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// probeAvailable applies the availability decision table to a widget
// query. predicated is false when no probe_type predicate could be
// extracted at all; the caller then fails open and includes the
// widget speculatively.
func probeAvailable(query string, probes probeSet) (available, predicated bool) {
	probeType, okType := extractTagValue(query, "probe_type")
	if !okType {
		return true, false
	}
	name, okName := extractTagValue(query, "name")
	if !okName {
		return probes.hasType(probeType), true
	}
	_, ok := probes[models.ProbeDescriptor{ProbeType: probeType, Name: name}]
	return ok, true
}

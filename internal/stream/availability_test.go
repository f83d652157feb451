package stream

import (
	"testing"

	"aquamonitor/internal/models"
)

func TestExtractTagValue(t *testing.T) {
	query := `SELECT last(value) FROM apex_probe WHERE "probe_type"='temp' AND "name"='Tank1' AND host='${source}'`

	if got, ok := extractTagValue(query, "probe_type"); !ok || got != "temp" {
		t.Errorf("probe_type = %q, %v", got, ok)
	}
	if got, ok := extractTagValue(query, "name"); !ok || got != "Tank1" {
		t.Errorf("name = %q, %v", got, ok)
	}
	if _, ok := extractTagValue(query, "missing"); ok {
		t.Error("found a tag that is not there")
	}
	if _, ok := extractTagValue(`"probe_type"='unterminated`, "probe_type"); ok {
		t.Error("found a value with no closing quote")
	}
}

func TestProbeAvailable(t *testing.T) {
	probes := newProbeSet([]models.ProbeDescriptor{
		{ProbeType: "temp", Name: "Tank1"},
		{ProbeType: "ph", Name: "Sump"},
	})

	cases := []struct {
		name           string
		query          string
		wantAvailable  bool
		wantPredicated bool
	}{
		{
			name:           "exact match",
			query:          `... "probe_type"='temp' AND "name"='Tank1' ...`,
			wantAvailable:  true,
			wantPredicated: true,
		},
		{
			name:           "type and name, wrong name",
			query:          `... "probe_type"='temp' AND "name"='Sump' ...`,
			wantAvailable:  false,
			wantPredicated: true,
		},
		{
			name:           "type only, type exists",
			query:          `... "probe_type"='ph' ...`,
			wantAvailable:  true,
			wantPredicated: true,
		},
		{
			name:           "type only, type absent",
			query:          `... "probe_type"='orp' ...`,
			wantAvailable:  false,
			wantPredicated: true,
		},
		{
			name:           "no predicate fails open",
			query:          `SELECT mean(value) FROM apex_probe WHERE host='reef'`,
			wantAvailable:  true,
			wantPredicated: false,
		},
		{
			name:           "name without type fails open",
			query:          `... "name"='Tank1' ...`,
			wantAvailable:  true,
			wantPredicated: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			available, predicated := probeAvailable(tc.query, probes)
			if available != tc.wantAvailable || predicated != tc.wantPredicated {
				t.Errorf("probeAvailable = (%v, %v); want (%v, %v)",
					available, predicated, tc.wantAvailable, tc.wantPredicated)
			}
		})
	}
}

func TestProbeAvailableEmptySet(t *testing.T) {
	probes := newProbeSet(nil)
	if available, _ := probeAvailable(`"probe_type"='temp'`, probes); available {
		t.Error("typed widget available against empty probe set")
	}
	if available, _ := probeAvailable(`no predicates here`, probes); !available {
		t.Error("unpredicated widget should fail open")
	}
}

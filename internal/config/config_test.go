package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const validConfig = `
addr: ":9090"
influx:
  host: http://localhost:8086
  token: secret
widgets:
  tiles:
    - id: tile-temp
      title: Temperature
      unit: "°C"
      precision: 1
      query: SELECT last(value) FROM apex_probe WHERE "probe_type"='temp' AND host='${source}'
  charts:
    - id: chart-temp
      title: Temperature
      kind: line
      y_min: 20
      y_max: 30
      series:
        - id: series-a
          name: Tank 1
          color: "#ff8800"
          query: SELECT value FROM apex_probe WHERE "probe_type"='temp' AND host='${source}' AND time >= now() - ${hours}h
`

func TestLoadValid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Addr)
	}
	if cfg.Influx.Host != "http://localhost:8086" {
		t.Errorf("host = %q", cfg.Influx.Host)
	}
	// Unset fields fall back to defaults.
	if cfg.Influx.Database != "telemetry" || cfg.Influx.RetentionPolicy != "autogen" {
		t.Errorf("influx defaults not applied: %+v", cfg.Influx)
	}
	if len(cfg.Widgets.Tiles) != 1 || len(cfg.Widgets.Charts) != 1 {
		t.Fatalf("widgets = %+v", cfg.Widgets)
	}
	chart := cfg.Widgets.Charts[0]
	if chart.YMin == nil || *chart.YMin != 20 {
		t.Errorf("y_min = %v", chart.YMin)
	}
	if chart.Unit != nil {
		t.Errorf("unit should be unset, got %v", *chart.Unit)
	}
	if len(chart.Series) != 1 || chart.Series[0].Color == nil {
		t.Errorf("series = %+v", chart.Series)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadMissingInfluxHost(t *testing.T) {
	if _, err := Load(writeConfig(t, "addr: ':8080'\n")); err == nil {
		t.Fatal("expected error for missing influx host")
	}
}

func TestLoadTileWithoutQuery(t *testing.T) {
	content := `
influx:
  host: http://localhost:8086
widgets:
  tiles:
    - id: broken
      title: Broken
`
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Fatal("expected error for tile without query")
	}
}

func TestLoadChartWithoutSeries(t *testing.T) {
	content := `
influx:
  host: http://localhost:8086
widgets:
  charts:
    - id: empty-chart
      title: Empty
      kind: line
`
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Fatal("expected error for chart without series")
	}
}

func TestLoadDefaultAddr(t *testing.T) {
	cfg, err := Load(writeConfig(t, "influx:\n  host: http://localhost:8086\n"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("addr = %q; want default", cfg.Addr)
	}
}

package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aquamonitor/internal/models"
)

// InfluxRepository talks InfluxQL to an InfluxDB 1.x endpoint over
// HTTP. It is safe for concurrent use; the embedded http.Client pools
// connections across requests.
type InfluxRepository struct {
	host            string
	token           string
	database        string
	retentionPolicy string
	client          *http.Client
}

// NewInfluxRepository creates a repository for the given InfluxDB
// endpoint. A trailing slash on host is tolerated.
func NewInfluxRepository(host, token, database, retentionPolicy string) *InfluxRepository {
	return &InfluxRepository{
		host:            strings.TrimRight(host, "/"),
		token:           token,
		database:        database,
		retentionPolicy: retentionPolicy,
		client:          &http.Client{Timeout: 30 * time.Second},
	}
}

type influxResponse struct {
	Results []influxResult `json:"results"`
}

type influxResult struct {
	Series []influxSeries `json:"series"`
	Error  string         `json:"error"`
}

type influxSeries struct {
	Name    string            `json:"name"`
	Columns []string          `json:"columns"`
	Values  [][]any           `json:"values"`
	Tags    map[string]string `json:"tags"`
}

func (r *InfluxRepository) execute(ctx context.Context, query string) (*influxResponse, error) {
	endpoint := fmt.Sprintf("%s/query?db=%s&rp=%s&q=%s",
		r.host,
		url.QueryEscape(r.database),
		url.QueryEscape(r.retentionPolicy),
		url.QueryEscape(query),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build influx request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+r.token)
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("influx request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("influx query failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var data influxResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("parse influx response: %w", err)
	}
	if len(data.Results) > 0 && data.Results[0].Error != "" {
		return nil, fmt.Errorf("influx query error: %s", data.Results[0].Error)
	}
	return &data, nil
}

// ListSourceIDs implements Repository using the host tag values of
// the probe measurement.
func (r *InfluxRepository) ListSourceIDs(ctx context.Context) ([]string, error) {
	resp, err := r.execute(ctx, `SHOW TAG VALUES FROM apex_probe WITH KEY = host`)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, result := range resp.Results {
		for _, series := range result.Series {
			for _, row := range series.Values {
				// SHOW TAG VALUES rows are [key, value].
				if len(row) < 2 {
					continue
				}
				if id, ok := row[1].(string); ok {
					ids = append(ids, id)
				}
			}
		}
	}
	return ids, nil
}

// ProbeDescriptors implements Repository with a single GROUP BY query
// so only probes that actually have data in the window are returned.
// "name" is a reserved word in InfluxQL and must stay quoted.
func (r *InfluxRepository) ProbeDescriptors(ctx context.Context, sourceID string, hours int) ([]models.ProbeDescriptor, error) {
	query := fmt.Sprintf(
		`SELECT value FROM apex_probe WHERE host = '%s' AND time >= now() - %dh GROUP BY probe_type, "name" LIMIT 1`,
		sourceID, hours,
	)
	resp, err := r.execute(ctx, query)
	if err != nil {
		return nil, err
	}

	var descriptors []models.ProbeDescriptor
	for _, result := range resp.Results {
		for _, series := range result.Series {
			probeType, okType := series.Tags["probe_type"]
			name, okName := series.Tags["name"]
			if okType && okName {
				descriptors = append(descriptors, models.ProbeDescriptor{ProbeType: probeType, Name: name})
			}
		}
	}
	return descriptors, nil
}

// SingleValue implements Repository. It returns nil without error
// when the query matched no rows.
func (r *InfluxRepository) SingleValue(ctx context.Context, query string) (*float64, error) {
	resp, err := r.execute(ctx, query)
	if err != nil {
		return nil, err
	}

	for _, result := range resp.Results {
		for _, series := range result.Series {
			if len(series.Values) == 0 {
				continue
			}
			row := series.Values[0]
			idx := valueColumnIndex(series.Columns)
			if idx >= len(row) {
				continue
			}
			if value, ok := row[idx].(float64); ok {
				return &value, nil
			}
		}
	}
	return nil, nil
}

// TimeSeries implements Repository. Rows with unparsable timestamps
// are skipped; oversized results are downsampled to maxPoints.
func (r *InfluxRepository) TimeSeries(ctx context.Context, query string, maxPoints int) ([]models.TimeSeriesPoint, error) {
	resp, err := r.execute(ctx, query)
	if err != nil {
		return nil, err
	}

	var points []models.TimeSeriesPoint
	for _, result := range resp.Results {
		for _, series := range result.Series {
			timeIdx := columnIndex(series.Columns, "time", 0)
			valueIdx := columnIndex(series.Columns, "value", 1)
			for _, row := range series.Values {
				if timeIdx >= len(row) || valueIdx >= len(row) {
					continue
				}
				timeStr, okTime := row[timeIdx].(string)
				value, okValue := row[valueIdx].(float64)
				if !okTime || !okValue {
					continue
				}
				ts, err := time.Parse(time.RFC3339, timeStr)
				if err != nil {
					continue
				}
				points = append(points, models.TimeSeriesPoint{TimeMS: ts.UnixMilli(), Value: value})
			}
		}
	}
	return Downsample(points, maxPoints), nil
}

// valueColumnIndex picks the column carrying the scalar result:
// aggregation queries name it mean/last, raw selects name it value.
func valueColumnIndex(columns []string) int {
	for i, column := range columns {
		if column == "mean" || column == "last" || column == "value" {
			return i
		}
	}
	return 1
}

func columnIndex(columns []string, name string, fallback int) int {
	for i, column := range columns {
		if column == name {
			return i
		}
	}
	return fallback
}

// Package telemetrytest provides a configurable in-memory Repository
// for tests.
package telemetrytest

import (
	"context"

	"aquamonitor/internal/models"
)

// Repo implements telemetry.Repository from canned data. Queries are
// matched by their fully resolved text. Unmatched queries return
// empty results, mirroring an upstream with no data.
type Repo struct {
	SourceIDs []string
	SourceErr error

	Probes    []models.ProbeDescriptor
	ProbesErr error

	Values    map[string]float64
	ValueErrs map[string]error

	Series     map[string][]models.TimeSeriesPoint
	SeriesErrs map[string]error

	// Hooks replace the canned behavior entirely when set.
	SingleValueFunc func(ctx context.Context, query string) (*float64, error)
	TimeSeriesFunc  func(ctx context.Context, query string, maxPoints int) ([]models.TimeSeriesPoint, error)
}

func (r *Repo) ListSourceIDs(_ context.Context) ([]string, error) {
	return r.SourceIDs, r.SourceErr
}

func (r *Repo) ProbeDescriptors(_ context.Context, _ string, _ int) ([]models.ProbeDescriptor, error) {
	return r.Probes, r.ProbesErr
}

func (r *Repo) SingleValue(ctx context.Context, query string) (*float64, error) {
	if r.SingleValueFunc != nil {
		return r.SingleValueFunc(ctx, query)
	}
	if err, ok := r.ValueErrs[query]; ok {
		return nil, err
	}
	if value, ok := r.Values[query]; ok {
		v := value
		return &v, nil
	}
	return nil, nil
}

func (r *Repo) TimeSeries(ctx context.Context, query string, maxPoints int) ([]models.TimeSeriesPoint, error) {
	if r.TimeSeriesFunc != nil {
		return r.TimeSeriesFunc(ctx, query, maxPoints)
	}
	if err, ok := r.SeriesErrs[query]; ok {
		return nil, err
	}
	return r.Series[query], nil
}

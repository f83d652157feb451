package telemetry

import (
	"context"

	"aquamonitor/internal/models"
)

// Repository is the upstream query capability. One implementation is
// constructed at startup and shared read-only by every request; test
// code swaps in a fake.
type Repository interface {
	// ListSourceIDs returns every known source id.
	ListSourceIDs(ctx context.Context) ([]string, error)

	// ProbeDescriptors returns all (probe_type, name) pairs that have
	// data for the source within the last hours, in one round trip.
	ProbeDescriptors(ctx context.Context, sourceID string, hours int) ([]models.ProbeDescriptor, error)

	// SingleValue runs a resolved scalar query. A nil result means the
	// query succeeded but matched no rows.
	SingleValue(ctx context.Context, query string) (*float64, error)

	// TimeSeries runs a resolved range query, bounded to at most
	// maxPoints points (downsampled when the result is larger).
	TimeSeries(ctx context.Context, query string, maxPoints int) ([]models.TimeSeriesPoint, error)
}

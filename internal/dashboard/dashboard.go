// Package dashboard builds complete single-shot dashboards: the same
// data shape the stream delivers progressively, fetched sequentially
// and returned as one document.
package dashboard

import (
	"context"
	"fmt"
	"log"

	"aquamonitor/internal/models"
	"aquamonitor/internal/telemetry"
)

const maxPointsPerSeries = 150

// Service resolves every widget of the catalog for one request.
type Service struct {
	repo   telemetry.Repository
	tiles  []models.TileTemplate
	charts []models.ChartTemplate
	logger *log.Logger
}

// New creates a dashboard service over the shared repository.
func New(repo telemetry.Repository, tiles []models.TileTemplate, charts []models.ChartTemplate, logger *log.Logger) *Service {
	return &Service{repo: repo, tiles: tiles, charts: charts, logger: logger}
}

// Build fetches all widgets for (sourceID, hours). Widgets whose
// queries fail or return nothing are omitted; the dashboard is
// partial rather than an error.
func (s *Service) Build(ctx context.Context, sourceID string, hours int) models.Dashboard {
	vars := telemetry.QueryVars(sourceID, hours)
	title := fmt.Sprintf("%s Telemetry (last %dh)", models.DisplayName(sourceID), hours)
	return models.Dashboard{
		Title:  title,
		Tiles:  s.fetchTiles(ctx, vars),
		Charts: s.fetchCharts(ctx, vars),
	}
}

func (s *Service) fetchTiles(ctx context.Context, vars map[string]string) []models.TileData {
	tiles := make([]models.TileData, 0, len(s.tiles))
	for _, tile := range s.tiles {
		query := telemetry.ResolveQuery(tile.Query, vars)
		value, err := s.repo.SingleValue(ctx, query)
		if err != nil {
			s.logger.Printf("tile %s query: %v", tile.ID, err)
			continue
		}
		if value == nil {
			continue
		}
		tiles = append(tiles, models.TileData{
			ID:        tile.ID,
			Title:     tile.Title,
			Unit:      tile.Unit,
			Value:     *value,
			Precision: tile.Precision,
		})
	}
	return tiles
}

func (s *Service) fetchCharts(ctx context.Context, vars map[string]string) []models.ChartData {
	charts := make([]models.ChartData, 0, len(s.charts))
	for _, chart := range s.charts {
		var series []models.SeriesData
		for _, tmpl := range chart.Series {
			query := telemetry.ResolveQuery(tmpl.Query, vars)
			points, err := s.repo.TimeSeries(ctx, query, maxPointsPerSeries)
			if err != nil {
				s.logger.Printf("series %s query: %v", tmpl.ID, err)
				continue
			}
			if len(points) == 0 {
				continue
			}
			series = append(series, models.SeriesData{
				ID:     tmpl.ID,
				Name:   tmpl.Name,
				Color:  tmpl.Color,
				Points: telemetry.Downsample(points, maxPointsPerSeries),
			})
		}
		if len(series) == 0 {
			continue
		}
		charts = append(charts, models.ChartData{
			ID:             chart.ID,
			Title:          chart.Title,
			Unit:           chart.Unit,
			Kind:           models.ParseChartKind(chart.Kind),
			YMin:           chart.YMin,
			YMax:           chart.YMax,
			FractionDigits: chart.FractionDigits,
			Series:         series,
		})
	}
	return charts
}

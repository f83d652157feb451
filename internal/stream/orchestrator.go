package stream

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"aquamonitor/internal/metrics"
	"aquamonitor/internal/models"
	"aquamonitor/internal/telemetry"
)

const (
	// maxPointsPerSeries caps every chart series; larger upstream
	// results are downsampled before they hit the wire.
	maxPointsPerSeries = 150

	// channelCapacity bounds the shared update channel. A slow
	// consumer backpressures every producer through this buffer.
	channelCapacity = 100

	// completionTimeout is the soft fence: if query workers are
	// still running when it elapses, Complete is sent anyway and
	// their late updates are dropped.
	completionTimeout = 5 * time.Second
)

// Orchestrator turns one dashboard request into a progressive stream:
// skeleton first, then concurrent per-widget updates in completion
// order, then a completion event.
type Orchestrator struct {
	repo   telemetry.Repository
	tiles  []models.TileTemplate
	charts []models.ChartTemplate
	logger *log.Logger
}

// New creates an orchestrator over the shared repository and the
// configured widget catalog.
func New(repo telemetry.Repository, tiles []models.TileTemplate, charts []models.ChartTemplate, logger *log.Logger) *Orchestrator {
	return &Orchestrator{repo: repo, tiles: tiles, charts: charts, logger: logger}
}

// session is the per-request shared state: the output channel and the
// fence flag workers consult before delivering an update.
type session struct {
	ctx    context.Context
	ch     chan models.StreamMessage
	fenced atomic.Bool
}

// emit delivers one update unless the completion fence already fired
// or the consumer is gone. Dropped updates are never an error.
func (s *session) emit(msg models.StreamMessage) {
	if s.fenced.Load() {
		return
	}
	select {
	case s.ch <- msg:
	case <-s.ctx.Done():
	}
}

// Stream starts a dashboard stream for (sourceID, hours). The
// skeleton message is already buffered when Stream returns, so the
// consumer observes structure strictly before any data. The channel
// closes after the completion event once all workers have returned;
// cancel ctx to abort.
func (o *Orchestrator) Stream(ctx context.Context, sourceID string, hours int) <-chan models.StreamMessage {
	start := time.Now()
	sess := &session{ctx: ctx, ch: make(chan models.StreamMessage, channelCapacity)}
	metrics.ActiveStreams.Inc()

	probes, err := o.repo.ProbeDescriptors(ctx, sourceID, hours)
	if err != nil {
		// Proceed with an empty probe set: typed widgets drop out,
		// unpredicated ones still stream.
		o.logger.Printf("probe descriptors for %s: %v", sourceID, err)
		metrics.QueryErrors.Inc()
	}
	set := newProbeSet(probes)

	skeleton := o.buildSkeleton(sourceID, set)
	totalWidgets := len(skeleton.Tiles) + len(skeleton.Charts)
	sess.ch <- models.StreamMessage{Type: models.MessageSkeleton, Skeleton: skeleton}

	vars := telemetry.QueryVars(sourceID, hours)
	var wg sync.WaitGroup
	for _, tile := range o.tiles {
		if !o.available(tile.Query, set) {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.streamTile(sess, tile, vars)
		}()
	}
	for _, chart := range o.charts {
		for _, series := range chart.Series {
			if !o.available(series.Query, set) {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				o.streamSeries(sess, chart.ID, series, vars)
			}()
		}
	}

	go o.finish(sess, &wg, totalWidgets, start)
	return sess.ch
}

// finish emits the completion event once all workers are done or the
// soft fence elapses, whichever comes first, then closes the channel
// after the last worker has returned.
func (o *Orchestrator) finish(sess *session, wg *sync.WaitGroup, totalWidgets int, start time.Time) {
	defer metrics.ActiveStreams.Dec()

	workersDone := make(chan struct{})
	go func() {
		wg.Wait()
		close(workersDone)
	}()

	select {
	case <-workersDone:
	case <-time.After(completionTimeout):
		sess.fenced.Store(true)
	case <-sess.ctx.Done():
		sess.fenced.Store(true)
	}

	complete := models.StreamMessage{
		Type: models.MessageComplete,
		Complete: &models.CompletionEvent{
			TotalWidgets: totalWidgets,
			DurationMS:   time.Since(start).Milliseconds(),
		},
	}
	select {
	case sess.ch <- complete:
	case <-sess.ctx.Done():
	}

	<-workersDone
	close(sess.ch)
}

func (o *Orchestrator) streamTile(sess *session, tile models.TileTemplate, vars map[string]string) {
	query := telemetry.ResolveQuery(tile.Query, vars)
	value, err := o.repo.SingleValue(sess.ctx, query)
	if err != nil {
		o.logger.Printf("tile %s query: %v", tile.ID, err)
		metrics.QueryErrors.Inc()
		return
	}
	if value == nil {
		// No rows is indistinguishable from a failed widget on the
		// wire: nothing is emitted either way.
		return
	}
	sess.emit(models.StreamMessage{
		Type: models.MessageTileUpdate,
		Tile: &models.TileUpdate{ID: tile.ID, Value: *value},
	})
}

func (o *Orchestrator) streamSeries(sess *session, chartID string, series models.SeriesTemplate, vars map[string]string) {
	query := telemetry.ResolveQuery(series.Query, vars)
	points, err := o.repo.TimeSeries(sess.ctx, query, maxPointsPerSeries)
	if err != nil {
		o.logger.Printf("series %s query: %v", series.ID, err)
		metrics.QueryErrors.Inc()
		return
	}
	if len(points) == 0 {
		return
	}
	// Repositories downsample at source when they can; this is the
	// fallback for ones that return the raw result.
	points = telemetry.Downsample(points, maxPointsPerSeries)
	sess.emit(models.StreamMessage{
		Type: models.MessageChartUpdate,
		Chart: &models.ChartUpdate{
			ID:     chartID,
			Series: []models.SeriesUpdate{{ID: series.ID, Points: points}},
		},
	})
}

// buildSkeleton filters the catalog through the probe set. The same
// availability check gates worker dispatch, so the skeleton's id set
// and the dispatched queries are consistent by construction.
func (o *Orchestrator) buildSkeleton(sourceID string, probes probeSet) *models.DashboardSkeleton {
	skeleton := &models.DashboardSkeleton{
		SourceID: sourceID,
		Tiles:    []models.TileSkeleton{},
		Charts:   []models.ChartSkeleton{},
	}

	for _, tile := range o.tiles {
		if !o.available(tile.Query, probes) {
			continue
		}
		skeleton.Tiles = append(skeleton.Tiles, models.TileSkeleton{
			ID:        tile.ID,
			Title:     tile.Title,
			Unit:      tile.Unit,
			Precision: tile.Precision,
		})
	}

	for _, chart := range o.charts {
		var series []models.SeriesSkeleton
		for _, s := range chart.Series {
			if !o.available(s.Query, probes) {
				continue
			}
			series = append(series, models.SeriesSkeleton{ID: s.ID, Name: s.Name, Color: s.Color})
		}
		if len(series) == 0 {
			continue
		}
		skeleton.Charts = append(skeleton.Charts, models.ChartSkeleton{
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
	return skeleton
}

func (o *Orchestrator) available(query string, probes probeSet) bool {
	available, predicated := probeAvailable(query, probes)
	if !predicated {
		o.logger.Printf("warning: no probe_type predicate in query, including widget speculatively: %s", query)
	}
	return available
}

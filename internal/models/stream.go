package models

// StreamMessageType tags the variant carried by a StreamMessage.
type StreamMessageType uint8

const (
	MessageSkeleton    StreamMessageType = 1
	MessageTileUpdate  StreamMessageType = 2
	MessageChartUpdate StreamMessageType = 3
	MessageComplete    StreamMessageType = 4
)

// StreamMessage is one unit of the progressive dashboard stream.
// Exactly one payload field is populated, matching Type.
type StreamMessage struct {
	Type     StreamMessageType  `cbor:"1,keyasint"`
	Skeleton *DashboardSkeleton `cbor:"2,keyasint,omitempty"`
	Tile     *TileUpdate        `cbor:"3,keyasint,omitempty"`
	Chart    *ChartUpdate       `cbor:"4,keyasint,omitempty"`
	Complete *CompletionEvent   `cbor:"5,keyasint,omitempty"`
}

// DashboardSkeleton announces the widget structure before any data.
// The id set it carries is immutable for the rest of the stream:
// later updates only attach data to ids already listed here.
type DashboardSkeleton struct {
	SourceID string          `cbor:"1,keyasint"`
	Tiles    []TileSkeleton  `cbor:"2,keyasint"`
	Charts   []ChartSkeleton `cbor:"3,keyasint"`
}

// TileSkeleton is the structural half of a tile: everything except
// its value.
type TileSkeleton struct {
	ID        string `cbor:"1,keyasint"`
	Title     string `cbor:"2,keyasint"`
	Unit      string `cbor:"3,keyasint"`
	Precision int    `cbor:"4,keyasint"`
}

// SeriesSkeleton is the structural half of a chart series.
type SeriesSkeleton struct {
	ID    string  `cbor:"1,keyasint"`
	Name  string  `cbor:"2,keyasint"`
	Color *string `cbor:"3,keyasint,omitempty"`
}

// ChartSkeleton is the structural half of a chart.
type ChartSkeleton struct {
	ID             string           `cbor:"1,keyasint"`
	Title          string           `cbor:"2,keyasint"`
	Unit           *string          `cbor:"3,keyasint,omitempty"`
	Kind           ChartKind        `cbor:"4,keyasint"`
	YMin           *float64         `cbor:"5,keyasint,omitempty"`
	YMax           *float64         `cbor:"6,keyasint,omitempty"`
	FractionDigits *int             `cbor:"7,keyasint,omitempty"`
	Series         []SeriesSkeleton `cbor:"8,keyasint"`
}

// TileUpdate attaches a value to a tile announced in the skeleton.
type TileUpdate struct {
	ID    string  `cbor:"1,keyasint"`
	Value float64 `cbor:"2,keyasint"`
}

// SeriesUpdate carries the points for one series.
type SeriesUpdate struct {
	ID     string            `cbor:"1,keyasint"`
	Points []TimeSeriesPoint `cbor:"2,keyasint"`
}

// ChartUpdate attaches data to a chart announced in the skeleton.
// The streaming path always sends exactly one series per update.
type ChartUpdate struct {
	ID     string         `cbor:"1,keyasint"`
	Series []SeriesUpdate `cbor:"2,keyasint"`
}

// CompletionEvent closes out a stream: how many widgets the skeleton
// announced and how long the request has been running.
type CompletionEvent struct {
	TotalWidgets int   `cbor:"1,keyasint"`
	DurationMS   int64 `cbor:"2,keyasint"`
}

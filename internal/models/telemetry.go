package models

// ProbeDescriptor identifies a sensor feed by its (type, name) pair.
// Two descriptors are the same probe only when both fields match.
type ProbeDescriptor struct {
	ProbeType string `cbor:"1,keyasint" json:"probe_type"`
	Name      string `cbor:"2,keyasint" json:"name"`
}

// TimeSeriesPoint is one sample of a series, millisecond epoch time.
type TimeSeriesPoint struct {
	TimeMS int64   `cbor:"1,keyasint" json:"time_ms"`
	Value  float64 `cbor:"2,keyasint" json:"value"`
}

// TileData is a fully resolved scalar widget for the single-shot
// dashboard path.
type TileData struct {
	ID        string  `cbor:"1,keyasint" json:"id"`
	Title     string  `cbor:"2,keyasint" json:"title"`
	Unit      string  `cbor:"3,keyasint" json:"unit"`
	Value     float64 `cbor:"4,keyasint" json:"value"`
	Precision int     `cbor:"5,keyasint" json:"precision"`
}

// SeriesData is one resolved series of a chart.
type SeriesData struct {
	ID     string            `cbor:"1,keyasint" json:"id"`
	Name   string            `cbor:"2,keyasint" json:"name"`
	Color  *string           `cbor:"3,keyasint,omitempty" json:"color,omitempty"`
	Points []TimeSeriesPoint `cbor:"4,keyasint" json:"points"`
}

// ChartData is a fully resolved time-series widget.
type ChartData struct {
	ID             string       `cbor:"1,keyasint" json:"id"`
	Title          string       `cbor:"2,keyasint" json:"title"`
	Unit           *string      `cbor:"3,keyasint,omitempty" json:"unit,omitempty"`
	Kind           ChartKind    `cbor:"4,keyasint" json:"kind"`
	YMin           *float64     `cbor:"5,keyasint,omitempty" json:"y_min,omitempty"`
	YMax           *float64     `cbor:"6,keyasint,omitempty" json:"y_max,omitempty"`
	FractionDigits *int         `cbor:"7,keyasint,omitempty" json:"fraction_digits,omitempty"`
	Series         []SeriesData `cbor:"8,keyasint" json:"series"`
}

// Dashboard is the single-shot response: every widget resolved up
// front, no streaming.
type Dashboard struct {
	Title  string      `cbor:"1,keyasint" json:"title"`
	Tiles  []TileData  `cbor:"2,keyasint" json:"tiles"`
	Charts []ChartData `cbor:"3,keyasint" json:"charts"`
}

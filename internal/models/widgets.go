package models

// ChartKind selects how a chart renders its series.
type ChartKind uint8

const (
	ChartKindLine      ChartKind = 1
	ChartKindMultiLine ChartKind = 2
)

// ParseChartKind maps the configuration spelling to a ChartKind.
// Anything that is not "line" renders as a multi-line chart.
func ParseChartKind(kind string) ChartKind {
	if kind == "line" {
		return ChartKindLine
	}
	return ChartKindMultiLine
}

// TileTemplate defines a scalar widget in the catalog. The query is a
// template: ${source} and ${hours} are substituted per request.
type TileTemplate struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Unit      string `yaml:"unit"`
	Precision int    `yaml:"precision"`
	Query     string `yaml:"query"`
}

// SeriesTemplate defines one series of a chart widget.
type SeriesTemplate struct {
	ID    string  `yaml:"id"`
	Name  string  `yaml:"name"`
	Color *string `yaml:"color"`
	Query string  `yaml:"query"`
}

// ChartTemplate defines a time-series widget in the catalog.
type ChartTemplate struct {
	ID             string           `yaml:"id"`
	Title          string           `yaml:"title"`
	Unit           *string          `yaml:"unit"`
	Kind           string           `yaml:"kind"`
	YMin           *float64         `yaml:"y_min"`
	YMax           *float64         `yaml:"y_max"`
	FractionDigits *int             `yaml:"fraction_digits"`
	Series         []SeriesTemplate `yaml:"series"`
}

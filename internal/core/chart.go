package core

// chart.go turns a Table into a renderer-agnostic ChartSpec.
//
// Build is a pure function of its inputs: the same table, params and locale
// always produce a structurally equal spec, and every returned spec owns its
// slices, so rebuilding never touches a spec handed out earlier.

import (
	"strings"

	"golang.org/x/text/language"
)

// ChartKind is the type of chart to draw.
type ChartKind string

const (
	KindBar      ChartKind = "bar"
	KindLine     ChartKind = "line"
	KindPie      ChartKind = "pie"
	KindDoughnut ChartKind = "doughnut"
)

// DefaultTitle is used when no title is given.
const DefaultTitle = "Data Visualization"

// ChartKinds lists the supported kinds in display order.
var ChartKinds = []ChartKind{KindBar, KindLine, KindPie, KindDoughnut}

// ParseChartKind parses a kind name. Empty means bar.
func ParseChartKind(s string) (ChartKind, error) {
	switch ChartKind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindBar:
		return KindBar, nil
	case KindLine:
		return KindLine, nil
	case KindPie:
		return KindPie, nil
	case KindDoughnut:
		return KindDoughnut, nil
	}
	return "", &UnsupportedKindError{Kind: s}
}

// Circular reports whether the kind shows proportions (pie, doughnut).
func (k ChartKind) Circular() bool {
	return k == KindPie || k == KindDoughnut
}

// TooltipFormat selects how a data point's tooltip is rendered.
type TooltipFormat string

const (
	TooltipIndexedNumber TooltipFormat = "indexed-number"
	TooltipPercentage    TooltipFormat = "percentage-of-total"
)

// Series is one dataset of a chart with its styling.
type Series struct {
	Name         string    `json:"name" yaml:"name"`
	Values       []float64 `json:"values" yaml:"values"`
	FillColors   []string  `json:"fillColors" yaml:"fill_colors"`
	StrokeColors []string  `json:"strokeColors" yaml:"stroke_colors"`
	StrokeWidth  int       `json:"strokeWidth" yaml:"stroke_width"`
}

// AxisTitles holds the axis captions of cartesian charts.
type AxisTitles struct {
	X string `json:"x" yaml:"x"`
	Y string `json:"y" yaml:"y"`
}

// LineStyle carries the extra styling of line charts.
type LineStyle struct {
	Tension     float64 `json:"tension" yaml:"tension"`
	Fill        bool    `json:"fill" yaml:"fill"`
	PointRadius int     `json:"pointRadius" yaml:"point_radius"`
	HoverRadius int     `json:"hoverRadius" yaml:"hover_radius"`
}

// ChartSpec describes a chart's data, styling and tooltips.
type ChartSpec struct {
	Kind          ChartKind     `json:"kind" yaml:"kind"`
	Title         string        `json:"title" yaml:"title"`
	Labels        []string      `json:"labels" yaml:"labels"`
	Series        []Series      `json:"series" yaml:"series"`
	AxisTitles    *AxisTitles   `json:"axisTitles,omitempty" yaml:"axis_titles,omitempty"`
	TooltipFormat TooltipFormat `json:"tooltipFormat" yaml:"tooltip_format"`
	Tooltips      []string      `json:"tooltips" yaml:"tooltips"`
	Percentages   []int         `json:"percentages,omitempty" yaml:"percentages,omitempty"`
	Legend        bool          `json:"legend" yaml:"legend"`
	BeginAtZero   bool          `json:"beginAtZero" yaml:"begin_at_zero"`
	Line          *LineStyle    `json:"lineStyle,omitempty" yaml:"line_style,omitempty"`
}

// Clone returns a deep copy of the spec.
func (s *ChartSpec) Clone() *ChartSpec {
	if s == nil {
		return nil
	}
	out := *s
	out.Labels = cloneStrings(s.Labels)
	out.Tooltips = cloneStrings(s.Tooltips)
	if s.Percentages != nil {
		out.Percentages = append([]int(nil), s.Percentages...)
	}
	if s.AxisTitles != nil {
		at := *s.AxisTitles
		out.AxisTitles = &at
	}
	if s.Line != nil {
		ls := *s.Line
		out.Line = &ls
	}
	out.Series = make([]Series, len(s.Series))
	for i, sr := range s.Series {
		out.Series[i] = Series{
			Name:         sr.Name,
			Values:       append([]float64(nil), sr.Values...),
			FillColors:   cloneStrings(sr.FillColors),
			StrokeColors: cloneStrings(sr.StrokeColors),
			StrokeWidth:  sr.StrokeWidth,
		}
	}
	return &out
}

// Values returns the first series' values, or nil.
func (s *ChartSpec) Values() []float64 {
	if s == nil || len(s.Series) == 0 {
		return nil
	}
	return s.Series[0].Values
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// BuildParams are the user's chart choices.
type BuildParams struct {
	Kind   ChartKind `json:"kind"`
	Scheme string    `json:"scheme"`
	Title  string    `json:"title"`
	XField string    `json:"x_field"`
	YField string    `json:"y_field"`
}

// Builder builds chart specs for a locale.
type Builder struct {
	locale language.Tag
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLocale sets the locale used for tooltip number formatting.
func WithLocale(tag language.Tag) BuilderOption {
	return func(b *Builder) {
		b.locale = tag
	}
}

// DefaultLocale formats tooltip numbers when no locale is configured.
var DefaultLocale = language.AmericanEnglish

// NewBuilder creates a Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{locale: DefaultLocale}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Locale returns the builder's locale.
func (b *Builder) Locale() language.Tag { return b.locale }

// ParseLocale parses a BCP 47 tag such as "fr-FR".
func ParseLocale(s string) (language.Tag, error) {
	if strings.TrimSpace(s) == "" {
		return DefaultLocale, nil
	}
	return language.Parse(s)
}

var defaultBuilder = NewBuilder()

// Build builds a chart spec with the default locale.
func Build(t *Table, p BuildParams) (*ChartSpec, error) {
	return defaultBuilder.Build(t, p)
}

// Build resolves the axes, extracts labels and numeric values, and applies
// the kind's colour, axis and tooltip rules.
func (b *Builder) Build(t *Table, p BuildParams) (*ChartSpec, error) {
	kind, err := ParseChartKind(string(p.Kind))
	if err != nil {
		return nil, err
	}

	axes, err := ResolveAxes(t, p.XField, p.YField)
	if err != nil {
		return nil, err
	}

	labels, values, err := extractSeries(t, axes)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(p.Title)
	if title == "" {
		title = DefaultTitle
	}

	spec := &ChartSpec{
		Kind:   kind,
		Title:  title,
		Labels: labels,
		Series: []Series{styleSeries(kind, axes.Y, values, ColorsFor(p.Scheme))},
	}

	if kind.Circular() {
		spec.Legend = true
		spec.TooltipFormat = TooltipPercentage
		spec.Percentages = Percentages(values)
		spec.Tooltips = percentTooltips(labels, values, spec.Percentages)
	} else {
		spec.AxisTitles = &AxisTitles{X: axes.X, Y: axes.Y}
		spec.BeginAtZero = true
		spec.TooltipFormat = TooltipIndexedNumber
		spec.Tooltips = indexedTooltips(axes.Y, values, b.locale)
	}

	if kind == KindLine {
		spec.Line = &LineStyle{Tension: 0.3, Fill: false, PointRadius: 4, HoverRadius: 6}
	}

	return spec, nil
}

// extractSeries reads labels from the X field and numbers from the Y field.
// String cells that satisfy the numeric grammar count as numbers; anything
// else in the value column fails the build.
func extractSeries(t *Table, axes Axes) ([]string, []float64, error) {
	xs, _ := t.Column(axes.X)
	ys, _ := t.Column(axes.Y)

	labels := make([]string, len(xs))
	values := make([]float64, len(ys))
	for i := range xs {
		labels[i] = xs[i].String()

		cell := ys[i]
		if f, ok := cell.Float(); ok {
			values[i] = f
			continue
		}
		if cell.Kind() == CellString {
			if f, ok := ParseNumber(cell.String()); ok {
				values[i] = f
				continue
			}
		}
		shown := cell.String()
		if cell.IsMissing() {
			shown = "<missing>"
		}
		return nil, nil, &DataTypeError{Field: axes.Y, Row: i + 1, Value: shown}
	}
	return labels, values, nil
}

// styleSeries applies the palette. Bar, pie and doughnut colour each point,
// wrapping around the palette; line uses the first colour for the whole
// series and a thicker stroke.
func styleSeries(kind ChartKind, name string, values []float64, palette []string) Series {
	s := Series{Name: name, Values: values}

	if kind == KindLine {
		s.FillColors = []string{palette[0]}
		s.StrokeColors = []string{palette[0]}
		s.StrokeWidth = 2
		return s
	}

	s.FillColors = make([]string, len(values))
	s.StrokeColors = make([]string, len(values))
	for i := range values {
		c := palette[i%len(palette)]
		s.FillColors[i] = c
		s.StrokeColors[i] = c
	}
	s.StrokeWidth = 1
	return s
}

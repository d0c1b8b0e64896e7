// Package render draws chart specs as images and spreadsheets.
//
// A [Renderer] turns a [core.ChartSpec] into SVG or PNG with go-chart.
// [ExportXLSX] writes the same spec as a workbook with a native chart.
// A [Canvas] holds at most one drawn chart at a time and a [Registry]
// keeps canvases by id for the web layer.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/JonMunkholm/querychart/internal/core"
	colorful "github.com/lucasb-eyer/go-colorful"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	// ErrNothingToDraw is returned for specs without drawable values.
	ErrNothingToDraw = errors.New("nothing to draw")
	// ErrRenderFailed wraps failures of the drawing library.
	ErrRenderFailed = errors.New("render failed")
)

// Format is an image output format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat parses an image format name. Empty means SVG.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unsupported image format %q (must be svg or png)", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatPNG {
		return chart.PNG
	}
	return chart.SVG
}

// Defaults for NewRenderer.
const (
	DefaultWidth  = 800
	DefaultHeight = 450
)

// Renderer draws chart specs. It is safe for concurrent use.
type Renderer struct {
	width   int
	height  int
	limiter *Limiter
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(r *Renderer) {
		if width > 0 {
			r.width = width
		}
		if height > 0 {
			r.height = height
		}
	}
}

// WithLimiter bounds concurrent renders.
func WithLimiter(l *Limiter) Option {
	return func(r *Renderer) {
		r.limiter = l
	}
}

// NewRenderer creates a Renderer.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{width: DefaultWidth, height: DefaultHeight}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Limiter returns the render limiter, or nil.
func (r *Renderer) Limiter() *Limiter { return r.limiter }

// Size returns the image size in pixels.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Render draws spec in the given format to w.
func (r *Renderer) Render(ctx context.Context, spec *core.ChartSpec, f Format, w io.Writer) error {
	if spec == nil || len(spec.Labels) == 0 || len(spec.Series) == 0 {
		return ErrNothingToDraw
	}
	if f != FormatSVG && f != FormatPNG {
		return fmt.Errorf("unsupported image format %q", f)
	}

	var (
		c   renderable
		err error
	)
	switch spec.Kind {
	case core.KindBar:
		c = r.barChart(spec)
	case core.KindLine:
		c = r.lineChart(spec)
	case core.KindPie, core.KindDoughnut:
		c, err = r.circularChart(spec)
	default:
		err = &core.UnsupportedKindError{Kind: string(spec.Kind)}
	}
	if err != nil {
		return err
	}

	if r.limiter != nil {
		if err := r.limiter.Acquire(ctx); err != nil {
			return err
		}
		defer r.limiter.Release()
	}

	if err := c.Render(f.provider(), w); err != nil {
		return fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	return nil
}

func (r *Renderer) barChart(spec *core.ChartSpec) renderable {
	s := spec.Series[0]
	bars := make([]chart.Value, len(s.Values))
	for i, v := range s.Values {
		bars[i] = chart.Value{
			Label: labelAt(spec.Labels, i),
			Value: v,
			Style: chart.Style{
				FillColor:   colorAt(s.FillColors, i),
				StrokeColor: colorAt(s.StrokeColors, i),
				StrokeWidth: float64(s.StrokeWidth),
			},
		}
	}

	lo, hi := valueRange(s.Values, spec.BeginAtZero)
	barWidth, spacing := barLayout(len(bars), r.width)

	return chart.BarChart{
		Title:      spec.Title,
		Width:      r.width,
		Height:     r.height,
		BarWidth:   barWidth,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10}},
		YAxis: chart.YAxis{
			Name:  axisTitle(spec, false),
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Bars: bars,
	}
}

func (r *Renderer) lineChart(spec *core.ChartSpec) renderable {
	s := spec.Series[0]
	n := len(s.Values)

	xs := make([]float64, n)
	ticks := make([]chart.Tick, 0, n+2)
	for i := range xs {
		xs[i] = float64(i)
		ticks = append(ticks, chart.Tick{Value: float64(i), Label: labelAt(spec.Labels, i)})
	}
	// A single point needs empty ticks on both sides to give the x axis a range.
	if n == 1 {
		ticks = []chart.Tick{{Value: -1}, ticks[0], {Value: 1}}
	}

	stroke := colorAt(s.StrokeColors, 0)
	style := chart.Style{
		StrokeColor: stroke,
		StrokeWidth: float64(s.StrokeWidth),
		DotColor:    stroke,
	}
	if spec.Line != nil {
		style.DotWidth = float64(spec.Line.PointRadius)
		if spec.Line.Fill {
			style.FillColor = colorAt(s.FillColors, 0).WithAlpha(64)
		}
	}

	lo, hi := valueRange(s.Values, spec.BeginAtZero)
	c := chart.Chart{
		Title:      spec.Title,
		Width:      r.width,
		Height:     r.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10}},
		XAxis: chart.XAxis{
			Name:  axisTitle(spec, true),
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  axisTitle(spec, false),
			Range: &chart.ContinuousRange{Min: lo, Max: hi},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    s.Name,
				Style:   style,
				XValues: xs,
				YValues: s.Values,
			},
		},
	}
	c.Elements = []chart.Renderable{chart.Legend(&c)}
	return c
}

// circularChart draws pie and doughnut charts. Slices must be positive, so
// zero and negative values are left out.
func (r *Renderer) circularChart(spec *core.ChartSpec) (renderable, error) {
	s := spec.Series[0]
	values := make([]chart.Value, 0, len(s.Values))
	for i, v := range s.Values {
		if !(v > 0) || math.IsInf(v, 0) {
			continue
		}
		label := labelAt(spec.Labels, i)
		if i < len(spec.Percentages) {
			label = fmt.Sprintf("%s (%d%%)", label, spec.Percentages[i])
		}
		values = append(values, chart.Value{
			Label: label,
			Value: v,
			Style: chart.Style{
				FillColor:   colorAt(s.FillColors, i),
				StrokeColor: colorAt(s.StrokeColors, i),
				StrokeWidth: float64(s.StrokeWidth),
			},
		})
	}
	if len(values) == 0 {
		return nil, ErrNothingToDraw
	}

	if spec.Kind == core.KindDoughnut {
		return chart.DonutChart{
			Title:  spec.Title,
			Width:  r.width,
			Height: r.height,
			Values: values,
		}, nil
	}
	return chart.PieChart{
		Title:  spec.Title,
		Width:  r.width,
		Height: r.height,
		Values: values,
	}, nil
}

// valueRange returns a non-empty y range covering values.
func valueRange(values []float64, beginAtZero bool) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		lo, hi = 0, 0
	}
	if beginAtZero {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	if hi-lo <= 0 {
		hi = lo + 1
	}
	return lo, hi
}

// barLayout splits the plot width between bars and gaps.
func barLayout(n, width int) (barWidth, spacing int) {
	if n <= 0 {
		return 0, 0
	}
	slot := (width - 120) / n
	if slot < 3 {
		slot = 3
	}
	barWidth = slot * 2 / 3
	spacing = slot - barWidth
	if barWidth > 80 {
		spacing += barWidth - 80
		barWidth = 80
	}
	return barWidth, spacing
}

func axisTitle(spec *core.ChartSpec, x bool) string {
	if spec.AxisTitles == nil {
		return ""
	}
	if x {
		return spec.AxisTitles.X
	}
	return spec.AxisTitles.Y
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}

// colorAt picks the i-th colour, cycling. Unknown colours fall back to the
// library default.
func colorAt(hexes []string, i int) drawing.Color {
	if len(hexes) == 0 {
		return drawing.Color{}
	}
	return toColor(hexes[i%len(hexes)])
}

func toColor(hex string) drawing.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return drawing.Color{}
	}
	r, g, b := c.RGB255()
	return drawing.Color{R: r, G: g, B: b, A: 255}
}

package render

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/JonMunkholm/querychart/internal/core"
	"github.com/xuri/excelize/v2"
)

// DataSheet is the worksheet holding the chart data in exported workbooks.
const DataSheet = "Data"

// XLSXContentType is the MIME type of exported workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var xlsxChartTypes = map[core.ChartKind]excelize.ChartType{
	core.KindBar:      excelize.Col,
	core.KindLine:     excelize.Line,
	core.KindPie:      excelize.Pie,
	core.KindDoughnut: excelize.Doughnut,
}

// ExportXLSX writes spec as a workbook: the labels and values on the Data
// sheet and a native chart of the same kind next to them.
func ExportXLSX(spec *core.ChartSpec, w io.Writer) error {
	if spec == nil || len(spec.Labels) == 0 || len(spec.Series) == 0 {
		return ErrNothingToDraw
	}
	chartType, ok := xlsxChartTypes[spec.Kind]
	if !ok {
		return &core.UnsupportedKindError{Kind: string(spec.Kind)}
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DataSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	s := spec.Series[0]
	labelHeader := "label"
	if spec.AxisTitles != nil && spec.AxisTitles.X != "" {
		labelHeader = spec.AxisTitles.X
	}
	header := []any{labelHeader, s.Name}
	withPct := spec.Kind.Circular() && len(spec.Percentages) == len(spec.Labels)
	if withPct {
		header = append(header, "percent")
	}
	if err := f.SetSheetRow(DataSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, label := range spec.Labels {
		row := []any{label, valueAt(s.Values, i)}
		if withPct {
			row = append(row, spec.Percentages[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(DataSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	last := len(spec.Labels) + 1
	series := excelize.ChartSeries{
		Name:       fmt.Sprintf("'%s'!$B$1", DataSheet),
		Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", DataSheet, last),
		Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", DataSheet, last),
	}

	c := &excelize.Chart{
		Type:      chartType,
		Title:     []excelize.RichTextRun{{Text: spec.Title}},
		Dimension: excelize.ChartDimension{Width: 640, Height: 360},
	}

	if spec.Kind.Circular() {
		c.Legend = excelize.ChartLegend{Position: "right"}
		c.PlotArea = excelize.ChartPlotArea{ShowPercent: true}
		if spec.Kind == core.KindDoughnut {
			c.HoleSize = 50
		}
	} else {
		varyColors := false
		c.VaryColors = &varyColors
		c.Legend = excelize.ChartLegend{Position: "none"}
		if spec.AxisTitles != nil {
			c.XAxis.Title = []excelize.RichTextRun{{Text: spec.AxisTitles.X}}
			c.YAxis.Title = []excelize.RichTextRun{{Text: spec.AxisTitles.Y}}
		}
		if spec.BeginAtZero {
			zero := 0.0
			c.YAxis.Minimum = &zero
		}
		color := xlsxColor(firstColor(s))
		if spec.Kind == core.KindLine {
			series.Line = excelize.ChartLine{
				Width:  float64(s.StrokeWidth),
				Smooth: spec.Line != nil && spec.Line.Tension > 0,
				Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			}
			series.Marker = excelize.ChartMarker{Symbol: "circle", Size: 5}
		} else {
			series.Fill = excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
		}
	}
	c.Series = []excelize.ChartSeries{series}

	if err := f.AddChart(DataSheet, "E2", c); err != nil {
		return fmt.Errorf("add chart: %w", err)
	}
	if spec.Kind != core.KindLine {
		if err := setPointFills(f, s, len(spec.Labels)); err != nil {
			return err
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   spec.Title,
		Creator: "querychart",
	}); err != nil {
		return fmt.Errorf("set properties: %w", err)
	}

	return f.Write(w)
}

// chartPart is the package path of the single chart in an exported workbook.
const chartPart = "xl/charts/chart1.xml"

var dataPointPattern = regexp.MustCompile(`(?s)<dPt>.*?</dPt>`)

// setPointFills gives every data point of the chart its own fill from the
// series palette. excelize only styles whole series (and pie points with
// theme colours), so the dPt elements are written into the stored chart part.
func setPointFills(f *excelize.File, s core.Series, points int) error {
	v, ok := f.Pkg.Load(chartPart)
	if !ok {
		return fmt.Errorf("set point fills: %s not found", chartPart)
	}
	data, ok := v.([]byte)
	if !ok {
		return fmt.Errorf("set point fills: unexpected %T for %s", v, chartPart)
	}

	chartXML := dataPointPattern.ReplaceAllString(string(data), "")
	start := strings.Index(chartXML, "<ser>")
	if start < 0 {
		return fmt.Errorf("set point fills: no series in %s", chartPart)
	}
	at := -1
	for _, tag := range []string{"<dLbls>", "<marker>", "<invertIfNegative", "<cat>"} {
		if i := strings.Index(chartXML[start:], tag); i >= 0 && (at < 0 || start+i < at) {
			at = start + i
		}
	}
	if at < 0 {
		return fmt.Errorf("set point fills: no category data in %s", chartPart)
	}

	var b strings.Builder
	for i := 0; i < points; i++ {
		fmt.Fprintf(&b,
			`<dPt><idx val="%d"></idx><bubble3D val="false"></bubble3D><spPr><a:solidFill><a:srgbClr val="%s"></a:srgbClr></a:solidFill></spPr></dPt>`,
			i, xlsxColor(pointColor(s, i)))
	}

	f.Pkg.Store(chartPart, []byte(chartXML[:at]+b.String()+chartXML[at:]))
	return nil
}

// pointColor is the fill of data point i, cycling through the series fills.
func pointColor(s core.Series, i int) string {
	if len(s.FillColors) > 0 {
		return s.FillColors[i%len(s.FillColors)]
	}
	return firstColor(s)
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func firstColor(s core.Series) string {
	if len(s.FillColors) > 0 {
		return s.FillColors[0]
	}
	if len(s.StrokeColors) > 0 {
		return s.StrokeColors[0]
	}
	return "#4E79A7"
}

// xlsxColor turns "#rrggbb" into the "RRGGBB" form excelize expects.
func xlsxColor(hex string) string {
	return strings.ToUpper(strings.TrimPrefix(hex, "#"))
}

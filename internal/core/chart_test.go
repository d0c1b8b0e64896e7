package core

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"golang.org/x/text/language"
)

const salesCSV = "region,sales\nNorth,1200\nSouth,800\nEast,0"

func mustParse(t *testing.T, raw string) *Table {
	t.Helper()
	tbl, err := ParseTable(raw)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	return tbl
}

func TestParseChartKind(t *testing.T) {
	tests := []struct {
		input   string
		want    ChartKind
		wantErr bool
	}{
		{"", KindBar, false},
		{"bar", KindBar, false},
		{"LINE", KindLine, false},
		{" pie ", KindPie, false},
		{"doughnut", KindDoughnut, false},
		{"radar", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseChartKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseChartKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseChartKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuild_Bar(t *testing.T) {
	spec, err := Build(mustParse(t, salesCSV), BuildParams{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if spec.Kind != KindBar {
		t.Errorf("Kind = %q, want bar", spec.Kind)
	}
	if spec.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", spec.Title, DefaultTitle)
	}
	if want := []string{"North", "South", "East"}; !reflect.DeepEqual(spec.Labels, want) {
		t.Errorf("Labels = %v, want %v", spec.Labels, want)
	}
	if len(spec.Series) != 1 {
		t.Fatalf("len(Series) = %d, want 1", len(spec.Series))
	}

	s := spec.Series[0]
	if s.Name != "sales" {
		t.Errorf("Series.Name = %q, want sales", s.Name)
	}
	if want := []float64{1200, 800, 0}; !reflect.DeepEqual(s.Values, want) {
		t.Errorf("Values = %v, want %v", s.Values, want)
	}
	if want := []string{"#4e79a7", "#f28e2c", "#e15759"}; !reflect.DeepEqual(s.FillColors, want) {
		t.Errorf("FillColors = %v, want %v", s.FillColors, want)
	}
	if !reflect.DeepEqual(s.StrokeColors, s.FillColors) || s.StrokeWidth != 1 {
		t.Errorf("stroke = %v width %d, want fill colours width 1", s.StrokeColors, s.StrokeWidth)
	}
	if spec.AxisTitles == nil || *spec.AxisTitles != (AxisTitles{X: "region", Y: "sales"}) {
		t.Errorf("AxisTitles = %+v, want {region sales}", spec.AxisTitles)
	}
	if spec.TooltipFormat != TooltipIndexedNumber {
		t.Errorf("TooltipFormat = %q, want %q", spec.TooltipFormat, TooltipIndexedNumber)
	}
	if want := []string{"sales: 1,200", "sales: 800", "sales: 0"}; !reflect.DeepEqual(spec.Tooltips, want) {
		t.Errorf("Tooltips = %v, want %v", spec.Tooltips, want)
	}
	if spec.Percentages != nil || spec.Legend || !spec.BeginAtZero || spec.Line != nil {
		t.Errorf("bar extras = pct %v legend %v zero %v line %v", spec.Percentages, spec.Legend, spec.BeginAtZero, spec.Line)
	}
}

func TestBuild_Line(t *testing.T) {
	spec, err := Build(mustParse(t, salesCSV), BuildParams{Kind: KindLine, Scheme: "vibrant", Title: "Sales"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	s := spec.Series[0]
	if want := []string{"#1f77b4"}; !reflect.DeepEqual(s.FillColors, want) || !reflect.DeepEqual(s.StrokeColors, want) {
		t.Errorf("colours = %v / %v, want single %v", s.FillColors, s.StrokeColors, want)
	}
	if s.StrokeWidth != 2 {
		t.Errorf("StrokeWidth = %d, want 2", s.StrokeWidth)
	}
	if spec.Title != "Sales" {
		t.Errorf("Title = %q, want Sales", spec.Title)
	}
	want := LineStyle{Tension: 0.3, Fill: false, PointRadius: 4, HoverRadius: 6}
	if spec.Line == nil || *spec.Line != want {
		t.Errorf("Line = %+v, want %+v", spec.Line, want)
	}
	if spec.AxisTitles == nil {
		t.Error("AxisTitles = nil, want axis titles for line charts")
	}
}

func TestBuild_Circular(t *testing.T) {
	for _, kind := range []ChartKind{KindPie, KindDoughnut} {
		t.Run(string(kind), func(t *testing.T) {
			spec, err := Build(mustParse(t, salesCSV), BuildParams{Kind: kind})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if spec.AxisTitles != nil {
				t.Errorf("AxisTitles = %+v, want nil", spec.AxisTitles)
			}
			if !spec.Legend || spec.BeginAtZero {
				t.Errorf("Legend = %v BeginAtZero = %v, want true/false", spec.Legend, spec.BeginAtZero)
			}
			if spec.TooltipFormat != TooltipPercentage {
				t.Errorf("TooltipFormat = %q, want %q", spec.TooltipFormat, TooltipPercentage)
			}
			if want := []int{60, 40, 0}; !reflect.DeepEqual(spec.Percentages, want) {
				t.Errorf("Percentages = %v, want %v", spec.Percentages, want)
			}
			want := []string{"North: 1200 (60%)", "South: 800 (40%)", "East: 0 (0%)"}
			if !reflect.DeepEqual(spec.Tooltips, want) {
				t.Errorf("Tooltips = %v, want %v", spec.Tooltips, want)
			}
			if got := len(spec.Series[0].FillColors); got != 3 {
				t.Errorf("len(FillColors) = %d, want one per point", got)
			}
		})
	}
}

func TestBuild_PaletteWraps(t *testing.T) {
	raw := "n,v\na,1\nb,2\nc,3\nd,4\ne,5\nf,6\ng,7\nh,8\ni,9\nj,10\nk,11\nl,12"
	spec, err := Build(mustParse(t, raw), BuildParams{Kind: KindBar, Scheme: "pastel"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	fills := spec.Series[0].FillColors
	palette := ColorsFor("pastel")
	if fills[10] != palette[0] || fills[11] != palette[1] {
		t.Errorf("FillColors[10:12] = %v, want %v", fills[10:12], palette[:2])
	}
}

func TestBuild_ValueCells(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		want      []float64
		wantField string
		wantRow   int
		wantValue string
	}{
		{
			name: "numeric json strings accepted",
			raw:  `[{"label":"A","value":"12.5"},{"label":"B","value":3}]`,
			want: []float64{12.5, 3},
		},
		{
			name:      "text in value column",
			raw:       "name,val\nA,1\nB,x",
			wantField: "val",
			wantRow:   2,
			wantValue: "x",
		},
		{
			name:      "missing value",
			raw:       "name,val\nA,1\nB",
			wantField: "val",
			wantRow:   2,
			wantValue: "<missing>",
		},
		{
			name:      "json null value",
			raw:       `[{"label":null,"value":null}]`,
			wantField: "value",
			wantRow:   1,
			wantValue: "<missing>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Build(mustParse(t, tt.raw), BuildParams{})
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Build() error = %v", err)
				}
				if !reflect.DeepEqual(spec.Values(), tt.want) {
					t.Errorf("Values() = %v, want %v", spec.Values(), tt.want)
				}
				return
			}

			var dte *DataTypeError
			if !errors.As(err, &dte) {
				t.Fatalf("Build() error = %v, want *DataTypeError", err)
			}
			if dte.Field != tt.wantField || dte.Row != tt.wantRow || dte.Value != tt.wantValue {
				t.Errorf("DataTypeError = %+v, want field %q row %d value %q", dte, tt.wantField, tt.wantRow, tt.wantValue)
			}
			if !errors.Is(err, ErrDataType) {
				t.Error("errors.Is(err, ErrDataType) = false")
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	if _, err := Build(mustParse(t, salesCSV), BuildParams{Kind: "radar"}); !errors.Is(err, ErrUnsupportedKind) {
		t.Errorf("Build(radar) error = %v, want ErrUnsupportedKind", err)
	}
	if _, err := Build(NewTable([]string{"a"}, nil), BuildParams{}); !errors.Is(err, ErrUnresolvableAxes) {
		t.Errorf("Build(empty) error = %v, want ErrUnresolvableAxes", err)
	}
}

func TestBuild_RequestedAxes(t *testing.T) {
	raw := "region,year,sales\nNorth,2023,10\nSouth,2024,20"
	spec, err := Build(mustParse(t, raw), BuildParams{XField: "year", YField: "sales"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if want := []string{"2023", "2024"}; !reflect.DeepEqual(spec.Labels, want) {
		t.Errorf("Labels = %v, want %v", spec.Labels, want)
	}
	if want := []float64{10, 20}; !reflect.DeepEqual(spec.Values(), want) {
		t.Errorf("Values() = %v, want %v", spec.Values(), want)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	tbl := mustParse(t, salesCSV)
	p := BuildParams{Kind: KindDoughnut, Scheme: "corporate", Title: "Share"}

	first, err := Build(tbl, p)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	second, err := Build(tbl, p)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("Build() not deterministic:\n%s\n%s", a, b)
	}

	first.Labels[0] = "changed"
	first.Series[0].FillColors[0] = "#000000"
	if second.Labels[0] != "North" || second.Series[0].FillColors[0] != "#003f5c" {
		t.Error("mutating one spec changed another")
	}
}

func TestChartSpec_Clone(t *testing.T) {
	spec, err := Build(mustParse(t, salesCSV), BuildParams{Kind: KindLine})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	clone := spec.Clone()
	if !reflect.DeepEqual(spec, clone) {
		t.Fatal("Clone() differs from original")
	}

	clone.Series[0].Values[0] = -1
	clone.Tooltips[0] = "changed"
	clone.AxisTitles.X = "changed"
	clone.Line.Tension = 1

	if spec.Series[0].Values[0] != 1200 || spec.Tooltips[0] == "changed" ||
		spec.AxisTitles.X == "changed" || spec.Line.Tension != 0.3 {
		t.Error("mutating the clone changed the original")
	}

	var nilSpec *ChartSpec
	if nilSpec.Clone() != nil {
		t.Error("nil Clone() != nil")
	}
}

func TestBuilder_Locale(t *testing.T) {
	tbl := mustParse(t, "k,v\na,1234.5\nb,-2")

	tests := []struct {
		name string
		tag  language.Tag
		want []string
	}{
		{"english", language.AmericanEnglish, []string{"v: 1,234.5", "v: -2"}},
		{"german", language.German, []string{"v: 1.234,5", "v: -2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := NewBuilder(WithLocale(tt.tag)).Build(tbl, BuildParams{})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if !reflect.DeepEqual(spec.Tooltips, tt.want) {
				t.Errorf("Tooltips = %v, want %v", spec.Tooltips, tt.want)
			}
		})
	}
}

func TestParseLocale(t *testing.T) {
	if tag, err := ParseLocale(""); err != nil || tag != DefaultLocale {
		t.Errorf("ParseLocale(\"\") = (%v, %v), want default", tag, err)
	}
	if tag, err := ParseLocale("fr-FR"); err != nil || tag.String() != "fr-FR" {
		t.Errorf("ParseLocale(fr-FR) = (%v, %v)", tag, err)
	}
	if _, err := ParseLocale("not a locale!"); err == nil {
		t.Error("ParseLocale(invalid) error = nil, want error")
	}
}

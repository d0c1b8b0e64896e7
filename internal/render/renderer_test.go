package render

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/querychart/internal/core"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatSVG, false},
		{"svg", FormatSVG, false},
		{" PNG ", FormatPNG, false},
		{"gif", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if err != nil && core.MapError(err).Code != "REQ004" {
				t.Errorf("MapError code = %q, want REQ004", core.MapError(err).Code)
			}
		})
	}
}

func TestFormat_ContentType(t *testing.T) {
	if got := FormatSVG.ContentType(); got != "image/svg+xml" {
		t.Errorf("svg ContentType = %q", got)
	}
	if got := FormatPNG.ContentType(); got != "image/png" {
		t.Errorf("png ContentType = %q", got)
	}
}

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer(WithSize(640, 360))

	tests := []struct {
		name   string
		raw    string
		kind   core.ChartKind
		format Format
	}{
		{"bar svg", salesCSV, core.KindBar, FormatSVG},
		{"line svg", salesCSV, core.KindLine, FormatSVG},
		{"pie svg", salesCSV, core.KindPie, FormatSVG},
		{"doughnut svg", salesCSV, core.KindDoughnut, FormatSVG},
		{"bar png", salesCSV, core.KindBar, FormatPNG},
		{"single point line", "x,y\na,5", core.KindLine, FormatSVG},
		{"flat bar", "x,y\na,2\nb,2", core.KindBar, FormatSVG},
		{"negative bar", "x,y\na,-2\nb,3", core.KindBar, FormatSVG},
		{"pie skips zero slice", "x,y\na,0\nb,3", core.KindPie, FormatSVG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := buildSpec(t, tt.raw, tt.kind)
			var buf bytes.Buffer
			if err := r.Render(context.Background(), spec, tt.format, &buf); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			switch tt.format {
			case FormatSVG:
				if !strings.Contains(buf.String(), "<svg") {
					t.Errorf("output is not svg: %.60q", buf.String())
				}
			case FormatPNG:
				if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
					t.Errorf("output is not png: % x", buf.Bytes()[:min(8, buf.Len())])
				}
			}
		})
	}
}

func TestRenderer_RenderErrors(t *testing.T) {
	r := NewRenderer()
	ctx := context.Background()

	t.Run("nil spec", func(t *testing.T) {
		if err := r.Render(ctx, nil, FormatSVG, &bytes.Buffer{}); !errors.Is(err, ErrNothingToDraw) {
			t.Errorf("Render(nil) = %v, want ErrNothingToDraw", err)
		}
	})

	t.Run("pie without positive values", func(t *testing.T) {
		spec := buildSpec(t, "x,y\na,0\nb,-1", core.KindPie)
		err := r.Render(ctx, spec, FormatSVG, &bytes.Buffer{})
		if !errors.Is(err, ErrNothingToDraw) {
			t.Errorf("Render() = %v, want ErrNothingToDraw", err)
		}
		if got := core.MapError(err).Code; got != "RND002" {
			t.Errorf("MapError code = %q, want RND002", got)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		spec := buildSpec(t, salesCSV, core.KindBar)
		spec.Kind = "radar"
		if err := r.Render(ctx, spec, FormatSVG, &bytes.Buffer{}); !errors.Is(err, core.ErrUnsupportedKind) {
			t.Errorf("Render() = %v, want ErrUnsupportedKind", err)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		spec := buildSpec(t, salesCSV, core.KindBar)
		if err := r.Render(ctx, spec, "gif", &bytes.Buffer{}); err == nil {
			t.Error("Render(gif) error = nil")
		}
	})
}

func TestRenderer_Busy(t *testing.T) {
	limiter := NewLimiter(1, 50*time.Millisecond)
	r := NewRenderer(WithLimiter(limiter))
	spec := buildSpec(t, salesCSV, core.KindBar)

	if !limiter.TryAcquire() {
		t.Fatal("TryAcquire() = false")
	}
	err := r.Render(context.Background(), spec, FormatSVG, &bytes.Buffer{})
	limiter.Release()

	if !errors.Is(err, ErrTooManyRenders) {
		t.Fatalf("Render() while busy = %v, want ErrTooManyRenders", err)
	}
	if got := core.MapError(err).Code; got != "RND001" {
		t.Errorf("MapError code = %q, want RND001", got)
	}

	if err := r.Render(context.Background(), spec, FormatSVG, &bytes.Buffer{}); err != nil {
		t.Errorf("Render() after release = %v", err)
	}
}

func TestValueRange(t *testing.T) {
	tests := []struct {
		name        string
		values      []float64
		beginAtZero bool
		wantLo      float64
		wantHi      float64
	}{
		{"positive from zero", []float64{3, 7}, true, 0, 7},
		{"positive tight", []float64{3, 7}, false, 3, 7},
		{"negative from zero", []float64{-4, -1}, true, -4, 0},
		{"flat", []float64{2, 2}, false, 2, 3},
		{"all zero", []float64{0, 0}, true, 0, 1},
		{"empty", nil, true, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lo, hi := valueRange(tt.values, tt.beginAtZero)
			if lo != tt.wantLo || hi != tt.wantHi {
				t.Errorf("valueRange() = (%v, %v), want (%v, %v)", lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}
}

func TestToColor(t *testing.T) {
	c := toColor("#4e79a7")
	if c.R != 0x4e || c.G != 0x79 || c.B != 0xa7 || c.A != 255 {
		t.Errorf("toColor() = %+v", c)
	}
	if got := toColor("nope"); !got.IsZero() {
		t.Errorf("toColor(invalid) = %+v, want zero", got)
	}
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/querychart/internal/core"
)

const salesCSV = "region,sales\nNorth,1200\nSouth,800\nEast,300"

// run executes chartctl with args and stdin, using a config path inside a
// temp dir unless args name one.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	hasConfig := false
	for _, a := range args {
		if strings.HasPrefix(a, "--config") {
			hasConfig = true
		}
	}
	if !hasConfig {
		args = append(args, "--config", filepath.Join(t.TempDir(), "missing.toml"))
	}

	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestSpecCmd(t *testing.T) {
	out, err := run(t, salesCSV, "spec", "--kind", "pie", "--title", "Sales")
	if err != nil {
		t.Fatalf("spec error = %v", err)
	}

	var spec core.ChartSpec
	if err := json.Unmarshal([]byte(out), &spec); err != nil {
		t.Fatalf("decode spec: %v\n%s", err, out)
	}
	if spec.Kind != core.KindPie {
		t.Errorf("Kind = %q, want pie", spec.Kind)
	}
	if spec.Title != "Sales" {
		t.Errorf("Title = %q, want Sales", spec.Title)
	}
	if got := strings.Join(spec.Labels, ","); got != "North,South,East" {
		t.Errorf("Labels = %s, want North,South,East", got)
	}
}

func TestSpecCmd_YAMLFromFile(t *testing.T) {
	path := writeFile(t, "data.csv", salesCSV)

	out, err := run(t, "", "spec", path, "-o", "yaml", "--kind", "line")
	if err != nil {
		t.Fatalf("spec error = %v", err)
	}
	for _, want := range []string{"kind: line", "labels:", "- North", "line_style:"} {
		if !strings.Contains(out, want) {
			t.Errorf("yaml output missing %q:\n%s", want, out)
		}
	}
}

func TestSpecCmd_ConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "chartctl.toml", "[chart]\nkind = \"doughnut\"\nscheme = \"pastel\"\n")

	tests := []struct {
		name     string
		args     []string
		wantKind core.ChartKind
	}{
		{"file value used", nil, core.KindDoughnut},
		{"flag wins over file", []string{"--kind", "bar"}, core.KindBar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"spec", "--config", cfgPath}, tt.args...)
			out, err := run(t, salesCSV, args...)
			if err != nil {
				t.Fatalf("spec error = %v", err)
			}
			var spec core.ChartSpec
			if err := json.Unmarshal([]byte(out), &spec); err != nil {
				t.Fatalf("decode spec: %v", err)
			}
			if spec.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", spec.Kind, tt.wantKind)
			}
			if got := spec.Series[0].FillColors[0]; got != core.ColorsFor("pastel")[0] {
				t.Errorf("first colour = %q, want pastel scheme", got)
			}
		})
	}
}

func TestRenderCmd(t *testing.T) {
	t.Run("svg to stdout", func(t *testing.T) {
		out, err := run(t, salesCSV, "render")
		if err != nil {
			t.Fatalf("render error = %v", err)
		}
		if !strings.Contains(out, "<svg") {
			t.Errorf("output is not svg: %.80s", out)
		}
	})

	t.Run("png to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "chart.png")
		if _, err := run(t, salesCSV, "render", "--format", "png", "--out", path, "--width", "320", "--height", "200"); err != nil {
			t.Fatalf("render error = %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Errorf("file is not a png")
		}
	})

	t.Run("bad format", func(t *testing.T) {
		if _, err := run(t, salesCSV, "render", "--format", "gif"); err == nil {
			t.Error("render error = nil, want unsupported format")
		}
	})
}

func TestExportCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.xlsx")
	if _, err := run(t, salesCSV, "export", "--out", path); err != nil {
		t.Fatalf("export error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte("PK")) {
		t.Errorf("file is not a zip archive")
	}
}

func TestFieldsCmd(t *testing.T) {
	out, err := run(t, salesCSV, "fields")
	if err != nil {
		t.Fatalf("fields error = %v", err)
	}
	var res core.FieldsResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode fields: %v", err)
	}
	if got := strings.Join(res.Fields, ","); got != "region,sales" {
		t.Errorf("Fields = %s, want region,sales", got)
	}
	if res.Rows != 3 {
		t.Errorf("Rows = %d, want 3", res.Rows)
	}
}

func TestDiffCmd(t *testing.T) {
	original := writeFile(t, "original.sql", "SELECT a FROM t")
	corrected := writeFile(t, "corrected.sql", "SELECT b FROM t")
	same := writeFile(t, "same.sql", "SELECT a FROM t")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"text output", []string{"diff", original, corrected}, `Replaced "a" with "b"`},
		{"no changes", []string{"diff", original, same}, "No changes"},
		{"json output", []string{"diff", original, corrected, "-o", "json"}, `"kind": "modified"`},
		{"aligned mode", []string{"diff", original, corrected, "--mode", "aligned", "-o", "yaml"}, "mode: aligned"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, "", tt.args...)
			if err != nil {
				t.Fatalf("diff error = %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want it to contain %q", out, tt.want)
			}
		})
	}
}

func TestSchemesCmd(t *testing.T) {
	out, err := run(t, "", "schemes")
	if err != nil {
		t.Fatalf("schemes error = %v", err)
	}
	for _, name := range core.SchemeNames() {
		if !strings.Contains(out, name) {
			t.Errorf("output missing scheme %q", name)
		}
	}
}

func TestCommandErrors(t *testing.T) {
	badCfg := writeFile(t, "bad.toml", "[chart]\ncolour = \"red\"\n")

	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{"unknown kind", salesCSV, []string{"spec", "--kind", "radar"}},
		{"empty input", "", []string{"spec"}},
		{"non-numeric values", "a,b\nx,y", []string{"spec"}},
		{"unknown config key", salesCSV, []string{"spec", "--config", badCfg}},
		{"bad output encoding", salesCSV, []string{"spec", "-o", "xml"}},
		{"missing diff file", "", []string{"diff", "nope.sql", "nope2.sql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, tt.stdin, tt.args...); err == nil {
				t.Error("Execute() error = nil, want error")
			}
		})
	}
}

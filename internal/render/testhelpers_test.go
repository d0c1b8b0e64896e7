package render

import (
	"testing"

	"github.com/JonMunkholm/querychart/internal/core"
)

const salesCSV = "region,sales\nNorth,1200\nSouth,800\nEast,300"

func buildSpec(t *testing.T, raw string, kind core.ChartKind) *core.ChartSpec {
	t.Helper()
	tbl, err := core.ParseTable(raw)
	if err != nil {
		t.Fatalf("ParseTable() error = %v", err)
	}
	spec, err := core.Build(tbl, core.BuildParams{Kind: kind})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return spec
}

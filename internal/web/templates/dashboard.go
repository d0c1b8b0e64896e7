package templates

import (
	"context"

	"github.com/JonMunkholm/querychart/internal/core"
	"github.com/a-h/templ"
)

// HTMX is loaded from a CDN; HTMXOrigin must be allowed by the CSP.
const (
	HTMXOrigin = "https://unpkg.com"
	HTMXScript = HTMXOrigin + "/htmx.org@2.0.4"
)

// DashboardData feeds the dashboard page.
type DashboardData struct {
	Kinds         []core.ChartKind
	Schemes       []core.ColorScheme
	DefaultKind   string
	DefaultScheme string
}

// Dashboard renders the chart workbench: a paste area, chart options and
// targets for the chart, field and diff fragments.
func Dashboard(d DashboardData) templ.Component {
	return component(func(ctx context.Context, hw *htmlWriter) {
		hw.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<title>querychart</title>`)
		hw.rawf(`<script src="%s"></script>`, templ.EscapeString(HTMXScript))
		hw.raw(`</head><body><main class="container">`)
		hw.raw(`<h1>querychart</h1>`)

		hw.raw(`<form id="chart-form" hx-post="/api/chart" hx-target="#chart" hx-swap="innerHTML">`)
		hw.raw(`<label for="data">Query results</label>`)
		hw.raw(`<textarea id="data" name="data" rows="10" placeholder="region,sales&#10;North,120" required></textarea>`)

		hw.raw(`<div class="options">`)
		hw.raw(`<label for="kind">Chart type</label><select id="kind" name="kind">`)
		for _, k := range d.Kinds {
			option(hw, string(k), string(k), string(k) == d.DefaultKind)
		}
		hw.raw(`</select>`)

		hw.raw(`<label for="scheme">Colours</label><select id="scheme" name="scheme">`)
		for _, s := range d.Schemes {
			option(hw, s.Name, s.Name, s.Name == d.DefaultScheme)
		}
		hw.raw(`</select>`)

		hw.raw(`<label for="title">Title</label><input id="title" name="title" type="text">`)
		hw.raw(`<label for="x_field">Label field</label><input id="x_field" name="x_field" type="text">`)
		hw.raw(`<label for="y_field">Value field</label><input id="y_field" name="y_field" type="text">`)
		hw.raw(`</div>`)

		hw.raw(`<button type="submit">Draw chart</button>`)
		hw.raw(`<button type="button" hx-post="/api/fields" hx-include="#data" hx-target="#fields">Detect fields</button>`)
		hw.raw(`</form>`)

		hw.raw(`<section id="fields" aria-live="polite"></section>`)
		hw.raw(`<section id="chart" aria-live="polite"></section>`)

		hw.raw(`<h2>Compare query texts</h2>`)
		hw.raw(`<form id="diff-form" hx-post="/api/diff" hx-target="#diff" hx-swap="innerHTML">`)
		hw.raw(`<label for="original">Original</label><textarea id="original" name="original" rows="3"></textarea>`)
		hw.raw(`<label for="corrected">Corrected</label><textarea id="corrected" name="corrected" rows="3"></textarea>`)
		hw.raw(`<select name="mode"><option value="positional" selected>Word by word</option><option value="aligned">Aligned</option></select>`)
		hw.raw(`<button type="submit">Compare</button>`)
		hw.raw(`</form>`)
		hw.raw(`<section id="diff" aria-live="polite"></section>`)

		hw.raw(`</main></body></html>`)
	})
}

func option(hw *htmlWriter, value, label string, selected bool) {
	hw.rawf(`<option value="%s"`, templ.EscapeString(value))
	if selected {
		hw.raw(` selected`)
	}
	hw.raw(`>`)
	hw.text(label)
	hw.raw(`</option>`)
}

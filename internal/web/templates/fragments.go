package templates

import (
	"context"
	"strconv"

	"github.com/JonMunkholm/querychart/internal/core"
	"github.com/a-h/templ"
)

// ChartFragment shows a drawn chart: the inline SVG and a table of its
// tooltips.
func ChartFragment(spec *core.ChartSpec, svg []byte) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.rawf(`<figure class="chart chart-%s">`, templ.EscapeString(string(spec.Kind)))
		// The SVG comes from the renderer, not from user input.
		hw.raw(string(svg))
		hw.raw(`<figcaption>`)
		hw.text(spec.Title)
		hw.raw(`</figcaption></figure>`)

		hw.raw(`<table class="chart-data"><tbody>`)
		for i, tip := range spec.Tooltips {
			hw.raw(`<tr><th scope="row">`)
			if i < len(spec.Labels) {
				hw.text(spec.Labels[i])
			}
			hw.raw(`</th><td>`)
			hw.text(tip)
			hw.raw(`</td></tr>`)
		}
		hw.raw(`</tbody></table>`)
	})
}

// FieldsFragment lists detected fields and the axes a chart would use.
func FieldsFragment(res *core.FieldsResult) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<div class="fields"><p>`)
		hw.text(strconv.Itoa(res.Rows))
		hw.raw(` rows, fields: `)
		for i, name := range res.Fields {
			if i > 0 {
				hw.raw(`, `)
			}
			hw.raw(`<code>`)
			hw.text(name)
			hw.raw(`</code>`)
		}
		hw.raw(`</p><p>Labels from <strong>`)
		hw.text(res.Axes.X)
		hw.raw(`</strong>, values from <strong>`)
		hw.text(res.Axes.Y)
		hw.raw(`</strong></p>`)
		if res.Suggestion.Title != "" {
			hw.raw(`<p class="suggested-title">`)
			hw.text(res.Suggestion.Title)
			hw.raw(`</p>`)
		}
		hw.raw(`</div>`)
	})
}

// DiffFragment lists word changes between two query texts.
func DiffFragment(res core.DiffResult) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		if res.Empty() {
			hw.raw(`<p class="diff-empty">No changes</p>`)
			return
		}
		hw.raw(`<ul class="diff">`)
		for _, e := range res.Entries {
			hw.rawf(`<li class="diff-%s">`, templ.EscapeString(string(e.Kind)))
			hw.text(e.Describe())
			hw.raw(`</li>`)
		}
		hw.raw(`</ul>`)
		if text := res.OverflowText(); text != "" {
			hw.raw(`<p class="diff-more">`)
			hw.text(text)
			hw.raw(`</p>`)
		}
	})
}

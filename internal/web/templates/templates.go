// Package templates holds the HTML components of the web UI.
//
// Components are templ.Component values, so handlers render full pages and
// HTMX fragments the same way. All dynamic text goes through
// templ.EscapeString.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter writes markup and remembers the first write error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) rawf(format string, args ...any) {
	if hw.err != nil {
		return
	}
	_, hw.err = fmt.Fprintf(hw.w, format, args...)
}

// text writes s escaped.
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// component wraps a render function as a templ.Component.
func component(fn func(ctx context.Context, hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		fn(ctx, hw)
		return hw.err
	})
}

// ErrorAlert renders a user-facing error with its action and support code.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(_ context.Context, hw *htmlWriter) {
		hw.raw(`<div class="alert alert-error" role="alert">`)
		hw.raw(`<p class="alert-message">`)
		hw.text(message)
		hw.raw(`</p>`)
		if action != "" {
			hw.raw(`<p class="alert-action">`)
			hw.text(action)
			hw.raw(`</p>`)
		}
		if code != "" {
			hw.raw(`<p class="alert-code">Code: `)
			hw.text(code)
			hw.raw(`</p>`)
		}
		hw.raw(`</div>`)
	})
}

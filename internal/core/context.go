package core

import (
	"context"

	"golang.org/x/text/language"
)

type contextKey string

const ctxKeyLocale contextKey = "chart_locale"

// ContextWithLocale sets the locale used for chart tooltips in this request.
func ContextWithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKeyLocale, tag)
}

// LocaleFromContext extracts the request locale, if any.
func LocaleFromContext(ctx context.Context) (language.Tag, bool) {
	tag, ok := ctx.Value(ctxKeyLocale).(language.Tag)
	return tag, ok
}

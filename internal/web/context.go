package web

import (
	"net"
	"net/http"

	"github.com/JonMunkholm/querychart/internal/core"
	"golang.org/x/text/language"
)

// withLocale stores the request locale for tooltip formatting. A "locale"
// query parameter wins over Accept-Language; requests with neither use the
// service default.
func withLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tag, ok := requestLocale(r); ok {
			r = r.WithContext(core.ContextWithLocale(r.Context(), tag))
		}
		next.ServeHTTP(w, r)
	})
}

func requestLocale(r *http.Request) (language.Tag, bool) {
	if q := r.URL.Query().Get("locale"); q != "" {
		if tag, err := language.Parse(q); err == nil {
			return tag, true
		}
	}
	if h := r.Header.Get("Accept-Language"); h != "" {
		tags, _, err := language.ParseAcceptLanguage(h)
		if err == nil && len(tags) > 0 && tags[0] != language.Und {
			return tags[0], true
		}
	}
	return language.Und, false
}

// clientIP returns the client address without the port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

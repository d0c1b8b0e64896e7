package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/language"
)

// ErrInputTooLarge is returned when pasted data exceeds the size limit.
var ErrInputTooLarge = errors.New("input too large")

// Defaults for NewService.
const (
	DefaultMaxInputBytes = 5 << 20
	DefaultCacheSize     = 256
)

// Service is the entry point used by the web and CLI layers. It parses
// pasted data, builds chart specs and remembers recent builds.
//
// Specs are cached by a hash of the raw input, the build params and the
// locale. Concurrent builds of the same key run once. Callers always get
// their own copy of a cached spec.
type Service struct {
	builder       *Builder
	maxInputBytes int
	cache         *lru.Cache[string, *ChartSpec]
	group         singleflight.Group
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithBuilder sets the chart builder (and with it the locale).
func WithBuilder(b *Builder) ServiceOption {
	return func(s *Service) {
		s.builder = b
	}
}

// WithMaxInputBytes caps the size of raw input. Zero or less disables the cap.
func WithMaxInputBytes(n int) ServiceOption {
	return func(s *Service) {
		s.maxInputBytes = n
	}
}

// NewService creates a Service with an LRU of cacheSize specs.
func NewService(cacheSize int, opts ...ServiceOption) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, *ChartSpec](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create spec cache: %w", err)
	}

	s := &Service{
		builder:       NewBuilder(),
		maxInputBytes: DefaultMaxInputBytes,
		cache:         cache,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Builder returns the service's chart builder.
func (s *Service) Builder() *Builder { return s.builder }

// CacheLen returns the number of cached specs.
func (s *Service) CacheLen() int { return s.cache.Len() }

func (s *Service) checkSize(raw string) error {
	if s.maxInputBytes > 0 && len(raw) > s.maxInputBytes {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(raw), s.maxInputBytes)
	}
	return nil
}

// ParseTable parses raw data after checking its size.
func (s *Service) ParseTable(ctx context.Context, raw string) (*Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.checkSize(raw); err != nil {
		return nil, err
	}
	return ParseTable(raw)
}

// FieldsResult describes the fields of pasted data.
type FieldsResult struct {
	Fields     []string        `json:"fields"`
	Rows       int             `json:"rows"`
	Axes       Axes            `json:"axes"`
	Suggestion FieldSuggestion `json:"suggestion"`
}

// Fields parses raw data and reports its fields, the axes a build would use
// and a suggested title.
func (s *Service) Fields(ctx context.Context, raw string) (*FieldsResult, error) {
	t, err := s.ParseTable(ctx, raw)
	if err != nil {
		return nil, err
	}
	axes, err := ResolveAxes(t, "", "")
	if err != nil {
		return nil, err
	}
	names := t.Fields().Names()
	return &FieldsResult{
		Fields:     names,
		Rows:       t.Len(),
		Axes:       axes,
		Suggestion: SuggestAxes(names),
	}, nil
}

// BuildChart parses raw data and builds a chart spec, using the cache when
// the same input was built before.
func (s *Service) BuildChart(ctx context.Context, raw string, p BuildParams) (*ChartSpec, error) {
	if err := s.checkSize(raw); err != nil {
		return nil, err
	}

	b := s.builderFor(ctx)
	key := cacheKey(b.Locale(), raw, p)
	if spec, ok := s.cache.Get(key); ok {
		return spec.Clone(), nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		t, err := ParseTable(raw)
		if err != nil {
			return nil, err
		}
		spec, err := b.Build(t, p)
		if err != nil {
			return nil, err
		}
		s.cache.Add(key, spec)
		return spec, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*ChartSpec).Clone(), nil
	}
}

// builderFor returns a builder for the request locale, or the service's own.
func (s *Service) builderFor(ctx context.Context) *Builder {
	if tag, ok := LocaleFromContext(ctx); ok && tag != s.builder.Locale() {
		return NewBuilder(WithLocale(tag))
	}
	return s.builder
}

// Diff compares an original and a corrected text.
func (s *Service) Diff(original, corrected string, opts DiffOptions) DiffResult {
	return DiffWith(original, corrected, opts)
}

// cacheKey hashes every build input with length prefixes so that no two
// distinct inputs share a key.
func cacheKey(locale language.Tag, raw string, p BuildParams) string {
	h := sha256.New()
	for _, part := range []string{
		locale.String(),
		string(p.Kind),
		p.Scheme,
		p.Title,
		p.XField,
		p.YField,
		raw,
	} {
		io.WriteString(h, strconv.Itoa(len(part)))
		io.WriteString(h, ":")
		io.WriteString(h, part)
	}
	return hex.EncodeToString(h.Sum(nil))
}

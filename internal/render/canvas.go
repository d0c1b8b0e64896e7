package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/JonMunkholm/querychart/internal/core"
	"github.com/google/uuid"
)

var (
	// ErrCanvasNotFound is returned for unknown or deleted canvas ids.
	ErrCanvasNotFound = errors.New("canvas not found")
	// ErrReleased is returned when a released handle is drawn from.
	ErrReleased = errors.New("chart released")
)

// Handle is one chart drawn on a canvas. Rendered images are kept until the
// handle is released.
type Handle struct {
	mu       sync.Mutex
	spec     *core.ChartSpec
	images   map[Format][]byte
	released bool
	created  time.Time
}

func newHandle(spec *core.ChartSpec) *Handle {
	return &Handle{
		spec:    spec.Clone(),
		images:  make(map[Format][]byte),
		created: time.Now(),
	}
}

// Spec returns a copy of the drawn spec, or nil once released.
func (h *Handle) Spec() *core.ChartSpec {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil
	}
	return h.spec.Clone()
}

// Image renders the chart in format f, reusing an earlier rendering.
func (h *Handle) Image(ctx context.Context, r *Renderer, f Format) ([]byte, error) {
	h.mu.Lock()
	if h.released {
		h.mu.Unlock()
		return nil, ErrReleased
	}
	if img, ok := h.images[f]; ok {
		h.mu.Unlock()
		return img, nil
	}
	spec := h.spec
	h.mu.Unlock()

	var buf bytes.Buffer
	if err := r.Render(ctx, spec, f, &buf); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	// Released while rendering: the bytes are not kept.
	if h.released {
		return nil, ErrReleased
	}
	h.images[f] = buf.Bytes()
	return h.images[f], nil
}

// Release drops the spec and any rendered images. Safe to call more than once.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.released = true
	h.spec = nil
	h.images = nil
}

// Released reports whether Release was called.
func (h *Handle) Released() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.released
}

// Canvas holds at most one live chart.
type Canvas struct {
	id       string
	renderer *Renderer

	mu       sync.Mutex
	current  *Handle
	draws    int
	lastUsed time.Time
}

// NewCanvas creates an empty canvas.
func NewCanvas(id string, r *Renderer) *Canvas {
	return &Canvas{id: id, renderer: r, lastUsed: time.Now()}
}

// ID returns the canvas id.
func (c *Canvas) ID() string { return c.id }

// Draw installs spec as the canvas chart, releasing the previous one first.
func (c *Canvas) Draw(spec *core.ChartSpec) *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.Release()
	}
	c.current = newHandle(spec)
	c.draws++
	c.lastUsed = time.Now()
	return c.current
}

// Current returns the live chart, if any.
func (c *Canvas) Current() (*Handle, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUsed = time.Now()
	return c.current, c.current != nil
}

// Image renders the live chart.
func (c *Canvas) Image(ctx context.Context, f Format) ([]byte, error) {
	h, ok := c.Current()
	if !ok {
		return nil, ErrNothingToDraw
	}
	return h.Image(ctx, c.renderer, f)
}

// Release releases the live chart and leaves the canvas empty.
func (c *Canvas) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.Release()
		c.current = nil
	}
}

// CanvasInfo describes a canvas for API responses.
type CanvasInfo struct {
	ID       string          `json:"id"`
	Draws    int             `json:"draws"`
	LastUsed time.Time       `json:"last_used"`
	Spec     *core.ChartSpec `json:"spec,omitempty"`
}

// Info returns a snapshot of the canvas.
func (c *Canvas) Info() CanvasInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	info := CanvasInfo{ID: c.id, Draws: c.draws, LastUsed: c.lastUsed}
	if c.current != nil {
		info.Spec = c.current.Spec()
	}
	return info
}

func (c *Canvas) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed
}

// Registry keeps canvases by id.
type Registry struct {
	renderer *Renderer

	mu       sync.RWMutex
	canvases map[string]*Canvas
}

// NewRegistry creates an empty registry whose canvases draw with r.
func NewRegistry(r *Renderer) *Registry {
	return &Registry{renderer: r, canvases: make(map[string]*Canvas)}
}

// Create adds a canvas with a fresh id.
func (reg *Registry) Create() *Canvas {
	c := NewCanvas(uuid.NewString(), reg.renderer)
	reg.mu.Lock()
	reg.canvases[c.id] = c
	reg.mu.Unlock()
	return c
}

// Get looks up a canvas.
func (reg *Registry) Get(id string) (*Canvas, error) {
	reg.mu.RLock()
	c, ok := reg.canvases[id]
	reg.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCanvasNotFound, id)
	}
	return c, nil
}

// Delete releases a canvas and forgets it.
func (reg *Registry) Delete(id string) error {
	reg.mu.Lock()
	c, ok := reg.canvases[id]
	delete(reg.canvases, id)
	reg.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrCanvasNotFound, id)
	}
	c.Release()
	return nil
}

// Len returns the number of canvases.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.canvases)
}

// ReleaseAll releases and forgets every canvas.
func (reg *Registry) ReleaseAll() {
	reg.mu.Lock()
	canvases := reg.canvases
	reg.canvases = make(map[string]*Canvas)
	reg.mu.Unlock()
	for _, c := range canvases {
		c.Release()
	}
}

// Sweep deletes canvases unused for longer than maxIdle and returns how many
// were removed.
func (reg *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	reg.mu.Lock()
	var stale []*Canvas
	for id, c := range reg.canvases {
		if c.idleSince().Before(cutoff) {
			stale = append(stale, c)
			delete(reg.canvases, id)
		}
	}
	reg.mu.Unlock()

	for _, c := range stale {
		c.Release()
	}
	return len(stale)
}

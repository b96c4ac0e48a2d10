package plugin

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// ErrDuplicatePath is returned when two pages claim the same path.
var ErrDuplicatePath = errors.New("plugin: duplicate page path")

// Page binds a route path to a plugin.
type Page struct {
	Path   string
	Plugin Plugin
}

// Name returns the plugin's display name.
func (p Page) Name() string { return p.Plugin.Name() }

// Registry holds the shell's pages in registration order.
type Registry struct {
	mu      sync.RWMutex
	ctx     *Context
	pages   []Page
	current int
	failed  map[string]error
}

// NewRegistry creates an empty registry.
func NewRegistry(ctx *Context) *Registry {
	return &Registry{ctx: ctx, failed: make(map[string]error)}
}

// Register initializes p and mounts it at path. A plugin whose Init fails
// is recorded and skipped; the error is returned for logging.
func (r *Registry) Register(path string, p Plugin) error {
	path = normalizePath(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, pg := range r.pages {
		if pg.Path == path {
			return fmt.Errorf("%w: %s", ErrDuplicatePath, path)
		}
	}

	if err := p.Init(r.ctx); err != nil {
		r.failed[p.ID()] = err
		r.ctx.Log().Warn("plugin init failed", "plugin", p.ID(), "error", err)
		return fmt.Errorf("init %s: %w", p.ID(), err)
	}
	r.pages = append(r.pages, Page{Path: path, Plugin: p})
	return nil
}

// Pages returns the mounted pages in order.
func (r *Registry) Pages() []Page {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Page, len(r.pages))
	copy(out, r.pages)
	return out
}

// Plugins returns the mounted plugins in page order.
func (r *Registry) Plugins() []Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Plugin, len(r.pages))
	for i, pg := range r.pages {
		out[i] = pg.Plugin
	}
	return out
}

// Failed returns plugins whose Init failed, keyed by ID.
func (r *Registry) Failed() map[string]error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]error, len(r.failed))
	for k, v := range r.failed {
		out[k] = v
	}
	return out
}

// Current returns the active page. ok is false when nothing is mounted.
func (r *Registry) Current() (Page, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.pages) == 0 {
		return Page{}, false
	}
	return r.pages[r.current], true
}

// CurrentIndex returns the index of the active page.
func (r *Registry) CurrentIndex() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Navigate makes the page at path active and returns it. An unknown path
// resolves to the first page.
func (r *Registry) Navigate(path string) (Page, bool) {
	path = normalizePath(path)

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pages) == 0 {
		return Page{}, false
	}
	r.current = 0
	for i, pg := range r.pages {
		if pg.Path == path {
			r.current = i
			break
		}
	}
	return r.pages[r.current], true
}

// Select makes the page at index i active. Out of range indexes are ignored.
func (r *Registry) Select(i int) (Page, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= len(r.pages) {
		return Page{}, false
	}
	r.current = i
	return r.pages[i], true
}

// Cycle moves the active page by delta, wrapping around.
func (r *Registry) Cycle(delta int) (Page, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := len(r.pages)
	if n == 0 {
		return Page{}, false
	}
	r.current = ((r.current+delta)%n + n) % n
	return r.pages[r.current], true
}

// Stop stops every mounted plugin.
func (r *Registry) Stop() {
	for _, p := range r.Plugins() {
		p.Stop()
		r.ctx.Log().Debug("plugin stopped", slog.String("plugin", p.ID()))
	}
}

func normalizePath(path string) string {
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}

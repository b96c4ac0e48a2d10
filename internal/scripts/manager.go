// Package scripts manages the durable collection of named scripts.
//
// Manager is the only owner of the collection: every mutation goes through
// Create, Update or Delete and is followed by a full write of the collection
// to the backing kv.Store. The collection is read once, by Load.
package scripts

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marcus/workbench/internal/kv"
)

// Manager is the state holder for the script collection.
type Manager struct {
	mu      sync.RWMutex
	store   kv.Store
	scripts Collection
	loaded  bool

	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides script ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) { m.newID = fn }
}

// WithLogger sets the logger for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// New creates a manager over store. Call Load before mutating.
func New(store kv.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		scripts: make(Collection),
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load reads the persisted collection. A missing or corrupt document yields
// an empty collection; only store failures are returned.
func (m *Manager) Load(ctx context.Context) error {
	data, ok, err := m.store.Get(ctx, StorageKey)
	if err != nil {
		return fmt.Errorf("loading scripts: %w", err)
	}

	scripts := make(Collection)
	if ok && len(data) > 0 {
		if err := json.Unmarshal(data, &scripts); err != nil {
			m.logger.Warn("scripts: stored collection is corrupt, starting empty", "error", err)
			scripts = make(Collection)
		}
	}
	for id, s := range scripts {
		s.ID = id
		scripts[id] = s
	}

	m.mu.Lock()
	m.scripts = scripts
	m.loaded = true
	m.mu.Unlock()

	m.logger.Debug("scripts: loaded", "count", len(scripts))
	return nil
}

// Loaded reports whether Load has completed.
func (m *Manager) Loaded() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loaded
}

// Create adds a new script and persists the collection.
func (m *Manager) Create(ctx context.Context, name, content string) (Script, error) {
	if err := validate(name, content); err != nil {
		return Script{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return Script{}, ErrNotLoaded
	}

	now := m.now()
	s := Script{
		ID:        m.newID(),
		Name:      strings.TrimSpace(name),
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	next := m.scripts.Clone()
	next[s.ID] = s
	if err := m.persistLocked(ctx, next); err != nil {
		return Script{}, err
	}
	return s, nil
}

// Update replaces the name and content of an existing script. CreatedAt is
// preserved and UpdatedAt is refreshed.
func (m *Manager) Update(ctx context.Context, id, name, content string) (Script, error) {
	if err := validate(name, content); err != nil {
		return Script{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return Script{}, ErrNotLoaded
	}

	existing, ok := m.scripts[id]
	if !ok {
		return Script{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	existing.Name = strings.TrimSpace(name)
	existing.Content = content
	existing.UpdatedAt = m.now()

	next := m.scripts.Clone()
	next[id] = existing
	if err := m.persistLocked(ctx, next); err != nil {
		return Script{}, err
	}
	return existing, nil
}

// Delete removes a script. Confirmation is the caller's responsibility.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.loaded {
		return ErrNotLoaded
	}
	if _, ok := m.scripts[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	next := m.scripts.Clone()
	delete(next, id)
	return m.persistLocked(ctx, next)
}

// Get returns the script with id.
func (m *Manager) Get(id string) (Script, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scripts[id]
	return s, ok
}

// List returns all scripts ordered by creation time, then ID.
func (m *Manager) List() []Script {
	m.mu.RLock()
	out := make([]Script, 0, len(m.scripts))
	for _, s := range m.scripts {
		out = append(out, s)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Len returns the number of scripts.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.scripts)
}

// persistLocked writes next and, on success, makes it the current collection.
// The in-memory state is left untouched when the write fails.
func (m *Manager) persistLocked(ctx context.Context, next Collection) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encoding scripts: %w", err)
	}
	if err := m.store.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("saving scripts: %w", err)
	}
	m.scripts = next
	return nil
}

func validate(name, content string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	return nil
}

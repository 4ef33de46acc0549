package assets

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/meshgraph/internal/engine/gpu"
	"github.com/Faultbox/meshgraph/internal/engine/scene"
	"github.com/Faultbox/meshgraph/internal/logger"
	"github.com/Faultbox/meshgraph/pkg/formats"
	"github.com/Faultbox/meshgraph/pkg/mesh"
)

// Registry errors.
var (
	ErrDuplicateName = errors.New("mesh name already registered")
	ErrNotFound      = errors.New("mesh not registered")
)

// Loader parses a mesh file. The second result lists material libraries that
// could not be found.
type Loader func(path string) (*mesh.Data, []string, error)

// Entry is one registered mesh.
type Entry struct {
	Name     string
	Path     string
	Mesh     *scene.Mesh
	LoadedAt time.Time
}

// Registry owns compiled meshes by name. Meshes keep their load order, which
// is also the order they are drawn in. GPU work happens inside Load, Reload
// and Unload, so those must run on the thread that owns the device.
type Registry struct {
	dev   gpu.Device
	load  Loader
	cache *Cache
	log   *zap.Logger

	mu     sync.RWMutex
	order  []*Entry
	byName map[string]*Entry
}

// NewRegistry creates a registry that uploads to dev. A nil load uses
// formats.Load.
func NewRegistry(dev gpu.Device, load Loader) *Registry {
	if load == nil {
		load = formats.Load
	}
	return &Registry{
		dev:    dev,
		load:   load,
		cache:  NewCache(),
		log:    logger.Named("assets"),
		byName: make(map[string]*Entry),
	}
}

// NameFor derives a registry name from a file path: the base name without
// its extension.
func NameFor(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Load parses and compiles path and registers it as name.
func (r *Registry) Load(name, path string) (*scene.Mesh, error) {
	r.mu.RLock()
	_, exists := r.byName[name]
	r.mu.RUnlock()
	if exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}

	m, err := r.compile(path, true)
	if err != nil {
		return nil, fmt.Errorf("loading %q from %s: %w", name, path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		m.Destroy(r.dev)
		return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
	}
	e := &Entry{Name: name, Path: path, Mesh: m, LoadedAt: time.Now()}
	r.order = append(r.order, e)
	r.byName[name] = e

	stats := m.Stats()
	r.log.Info("mesh loaded",
		zap.String("mesh", name),
		zap.String("path", path),
		zap.Int("batches", stats.Batches),
		zap.Int("faces", stats.Faces))
	return m, nil
}

// LoadAll registers every path under NameFor(path). It keeps going after a
// failure and returns all errors combined.
func (r *Registry) LoadAll(paths []string) error {
	var errs error
	for _, p := range paths {
		if _, err := r.Load(NameFor(p), p); err != nil {
			r.log.Error("mesh load failed", zap.String("path", p), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

// compile parses path, using the cache when allowed, and compiles it.
func (r *Registry) compile(path string, useCache bool) (*scene.Mesh, error) {
	var data *mesh.Data
	if useCache {
		data, _ = r.cache.Get(path)
	}
	if data == nil {
		d, missing, err := r.load(path)
		if err != nil {
			return nil, err
		}
		for _, lib := range missing {
			r.log.Warn("material library not found", zap.String("path", path), zap.String("library", lib))
		}
		data = d
		r.cache.Set(path, data)
	}

	r.log.Debug("compiling mesh", zap.String("path", path), zap.Int("faces", data.FaceCount()))
	return scene.Compile(data, r.dev)
}

// Get returns the mesh registered as name.
func (r *Registry) Get(name string) (*scene.Mesh, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return e.Mesh, true
}

// Names returns registered names in load order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.order))
	for i, e := range r.order {
		names[i] = e.Name
	}
	return names
}

// Paths returns the distinct source files of registered meshes.
func (r *Registry) Paths() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool, len(r.order))
	var paths []string
	for _, e := range r.order {
		if !seen[e.Path] {
			seen[e.Path] = true
			paths = append(paths, e.Path)
		}
	}
	return paths
}

// Len returns the number of registered meshes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Each calls fn for every mesh in load order. fn must not call back into
// the registry.
func (r *Registry) Each(fn func(name string, m *scene.Mesh)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.order {
		fn(e.Name, e.Mesh)
	}
}

// Bounds returns the union of all registered mesh bounds.
func (r *Registry) Bounds() scene.Bounds {
	b := scene.EmptyBounds()
	r.Each(func(_ string, m *scene.Mesh) {
		b.Union(m.Root.Bounds)
	})
	return b
}

// Reload re-reads and recompiles name. On failure the current mesh stays
// registered and untouched.
func (r *Registry) Reload(name string) error {
	r.mu.RLock()
	e, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	r.cache.Invalidate(e.Path)
	return r.recompile(e, false)
}

// ReloadPath reloads every mesh loaded from path. The file is parsed once
// and shared by all names registered from it.
func (r *Registry) ReloadPath(path string) error {
	var entries []*Entry
	r.mu.RLock()
	for _, e := range r.order {
		if samePath(e.Path, path) {
			entries = append(entries, e)
		}
	}
	r.mu.RUnlock()

	if len(entries) == 0 {
		return fmt.Errorf("%w: no mesh from %s", ErrNotFound, path)
	}

	for _, e := range entries {
		r.cache.Invalidate(e.Path)
	}

	var errs error
	for _, e := range entries {
		errs = multierr.Append(errs, r.recompile(e, true))
	}
	return errs
}

// recompile compiles e's file and swaps the result in, keeping the current
// mesh on failure.
func (r *Registry) recompile(e *Entry, useCache bool) error {
	m, err := r.compile(e.Path, useCache)
	if err != nil {
		r.log.Warn("reload failed, keeping previous mesh", zap.String("mesh", e.Name), zap.Error(err))
		return fmt.Errorf("reloading %q: %w", e.Name, err)
	}

	r.mu.Lock()
	old := e.Mesh
	e.Mesh = m
	e.LoadedAt = time.Now()
	r.mu.Unlock()

	old.Destroy(r.dev)
	r.log.Info("mesh reloaded", zap.String("mesh", e.Name), zap.Int("batches", len(m.Batches)))
	return nil
}

// Unload destroys and forgets name.
func (r *Registry) Unload(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(r.byName, name)
	for i, o := range r.order {
		if o == e {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	e.Mesh.Destroy(r.dev)
	return nil
}

// UnloadAll destroys every registered mesh.
func (r *Registry) UnloadAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.order {
		e.Mesh.Destroy(r.dev)
	}
	r.log.Info("meshes unloaded", zap.Int("count", len(r.order)))
	r.order = nil
	r.byName = make(map[string]*Entry)
	r.cache.Clear()
}

func samePath(a, b string) bool {
	if a == b {
		return true
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

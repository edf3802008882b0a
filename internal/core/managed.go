package core

import (
	"errors"
	"sync"

	"Forge3D/internal/logger"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var ErrAlreadyInitialized = errors.New("core: already initialized")

// Resource is implemented by every type that owns a GPU-side handle.
type Resource interface {
	Entity
	Init() error
	Free() error
	IsInitialized() bool
}

// Handle identifies a registry entry. Entries are keyed by handle rather than
// by address so a resource can be copied or moved without patching the registry.
type Handle uint64

// Report is the summary returned by DumpReport and ForceRelease. Total counts
// registered (initialized) resources.
type Report struct {
	Total       int
	Initialized int
}

type entry struct {
	handle Handle
	owner  Resource
}

// Registry tracks every initialized resource in init order.
type Registry struct {
	mu      sync.Mutex
	entries []entry
	next    Handle
}

// DefaultRegistry is the process-wide registry used by resources that were
// not given one explicitly.
var DefaultRegistry = NewRegistry()

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) add(owner Resource) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.entries = append(r.entries, entry{handle: r.next, owner: owner})
	return r.next
}

func (r *Registry) remove(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.handle == h {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry) snapshot() []entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered resources.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// ForceRelease frees every resource still initialized. Each Free removes its
// own entry, so the walk runs over a snapshot taken up front.
func (r *Registry) ForceRelease() (Report, error) {
	var errs error
	for _, e := range r.snapshot() {
		if !e.owner.IsInitialized() {
			r.remove(e.handle)
			continue
		}
		logger.Log.Debug("Releasing resource",
			zap.String("name", e.owner.Name()),
			zap.Uint32("id", e.owner.ID()))
		if err := e.owner.Free(); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return r.DumpReport(), errs
}

// DumpReport logs and returns the registry counts. Total is the number of
// registered resources, and a resource is registered only while initialized,
// so Total equals Initialized except in the middle of a ForceRelease sweep.
func (r *Registry) DumpReport() Report {
	var rep Report
	for _, e := range r.snapshot() {
		rep.Total++
		if e.owner.IsInitialized() {
			rep.Initialized++
		}
	}
	logger.Log.Info("Managed resources",
		zap.Int("total", rep.Total),
		zap.Int("initialized", rep.Initialized))
	return rep
}

// Managed carries the init/free state machine for a resource. Types embed it
// and call Init and Free from their own Init and Free methods.
type Managed struct {
	initialized bool
	handle      Handle
	registry    *Registry
}

// SetRegistry selects the registry used on the next Init. It has no effect
// while initialized.
func (m *Managed) SetRegistry(r *Registry) {
	if !m.initialized {
		m.registry = r
	}
}

func (m *Managed) reg() *Registry {
	if m.registry == nil {
		return DefaultRegistry
	}
	return m.registry
}

// Init marks the resource initialized and registers owner. It fails on a
// second call without an intervening Free.
func (m *Managed) Init(owner Resource) error {
	if m.initialized {
		logger.Log.Error("Resource already initialized",
			zap.String("name", owner.Name()),
			zap.Uint32("id", owner.ID()))
		return ErrAlreadyInitialized
	}
	m.handle = m.reg().add(owner)
	m.initialized = true
	return nil
}

// Free unregisters the resource. Freeing an uninitialized resource is a no-op.
func (m *Managed) Free() error {
	if !m.initialized {
		return nil
	}
	m.reg().remove(m.handle)
	m.handle = 0
	m.initialized = false
	return nil
}

func (m *Managed) IsInitialized() bool {
	return m.initialized
}

// ForceRelease frees every resource in the default registry.
func ForceRelease() (Report, error) {
	return DefaultRegistry.ForceRelease()
}

// DumpReport reports on the default registry.
func DumpReport() Report {
	return DefaultRegistry.DumpReport()
}

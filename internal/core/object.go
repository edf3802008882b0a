package core

import (
	"errors"
	"sync/atomic"

	"Forge3D/internal/logger"

	"go.uber.org/zap"
)

const (
	// NoneName is carried by objects that were never named.
	NoneName = "[none]"
	// EmptyName is carried by sentinel objects.
	EmptyName = "[empty]"
)

var ErrReservedName = errors.New("core: empty or reserved name")

var (
	nextID      atomic.Uint32
	liveObjects atomic.Int64
)

// Entity is anything with an engine identity. Lookups return it and callers
// type-assert to the concrete kind they expect.
type Entity interface {
	ID() uint32
	Name() string
}

// Object is the identity shared by every engine entity: a unique id, a
// display name and a dirty flag for derived state that must be rebuilt.
type Object struct {
	name   string
	id     uint32
	dirty  bool
	live   bool
	static bool
}

// Empty is the sentinel returned by lookups that found nothing.
var Empty = NewStatic(EmptyName)

// NewObject returns an object with a fresh id, counted as live until Destroy.
func NewObject() Object {
	liveObjects.Add(1)
	return Object{name: NoneName, id: nextID.Add(1), dirty: true, live: true}
}

// NewStatic returns an object for process-lifetime values such as sentinels.
// It gets an id but does not count toward NrOfObjects, and its name may be reserved.
func NewStatic(name string) *Object {
	return &Object{name: name, id: nextID.Add(1), dirty: true, static: true}
}

// NewStaticObject is the value form of NewStatic for embedding.
func NewStaticObject(name string) Object {
	return *NewStatic(name)
}

func (o *Object) ID() uint32 {
	return o.id
}

func (o *Object) Name() string {
	return o.name
}

// SetName renames the object. Empty and reserved names are refused and leave
// the current name untouched.
func (o *Object) SetName(name string) error {
	if name == "" || name == NoneName || name == EmptyName {
		logger.Log.Error("Invalid object name", zap.String("name", name), zap.Uint32("id", o.id))
		return ErrReservedName
	}
	o.name = name
	return nil
}

func (o *Object) IsDirty() bool {
	return o.dirty
}

func (o *Object) SetDirty(dirty bool) {
	o.dirty = dirty
}

// IsStatic reports whether the object is a sentinel or process-lifetime value.
func (o *Object) IsStatic() bool {
	return o.static
}

// Destroy ends the object's life for leak accounting. Repeated calls are ignored.
func (o *Object) Destroy() {
	if o.live {
		o.live = false
		liveObjects.Add(-1)
	}
}

// NrOfObjects returns the number of objects created with NewObject and not yet destroyed.
func NrOfObjects() int64 {
	return liveObjects.Load()
}

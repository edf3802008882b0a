package core

// Releasable is a resource whose identity can be ended after its GPU side is freed.
type Releasable interface {
	Free() error
	Destroy()
}

// Release frees r and ends its identity. The identity is ended even when Free fails.
func Release(r Releasable) error {
	err := r.Free()
	r.Destroy()
	return err
}

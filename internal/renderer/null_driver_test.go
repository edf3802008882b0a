package renderer

import "testing"

// useNullDriver installs a fresh NullDriver for the duration of the test.
func useNullDriver(t *testing.T) *NullDriver {
	t.Helper()
	prev := CurrentDriver()
	null := NewNullDriver()
	SetDriver(null)
	t.Cleanup(func() { SetDriver(prev) })
	return null
}

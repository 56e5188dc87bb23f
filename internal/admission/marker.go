package admission

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// ErrRegistryFrozen is returned when registration is attempted after Freeze.
var ErrRegistryFrozen = errors.New("admission registry is frozen")

// MarkerRegistry maps handler identifiers to the "requires JSON admission" flag.
//
// It is written only during bootstrap and frozen before the server accepts
// traffic. After Freeze the map is never written again, so lookups need no lock.
// A handler that was never marked has flag = false.
type MarkerRegistry struct {
	marks  map[HandlerID]bool
	frozen atomic.Bool
}

// NewMarkerRegistry creates an empty, unfrozen registry.
func NewMarkerRegistry() *MarkerRegistry {
	return &MarkerRegistry{marks: make(map[HandlerID]bool)}
}

// Mark sets the flag for id. Marking twice has the same effect as once.
func (m *MarkerRegistry) Mark(id HandlerID) error {
	if m.frozen.Load() {
		return errors.Wrapf(ErrRegistryFrozen, "mark %q", id)
	}
	m.marks[id] = true
	return nil
}

// RequiresJSON reports the flag for id.
func (m *MarkerRegistry) RequiresJSON(id HandlerID) bool {
	return m.marks[id]
}

// Len returns the number of marked handlers.
func (m *MarkerRegistry) Len() int {
	return len(m.marks)
}

// Freeze makes the registry read-only. It is safe to call more than once.
func (m *MarkerRegistry) Freeze() {
	m.frozen.Store(true)
}

// Frozen reports whether Freeze has been called.
func (m *MarkerRegistry) Frozen() bool {
	return m.frozen.Load()
}

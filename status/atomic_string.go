package status

import (
	"sync/atomic"
)

// MaxStringLen bounds stored strings so HUD columns stay fixed-width
const MaxStringLen = 20

// AtomicString provides atomic string access with fixed max length
type AtomicString struct {
	ptr atomic.Pointer[string]
}

// Store sets the value, truncating to MaxStringLen bytes
func (s *AtomicString) Store(val string) {
	if len(val) > MaxStringLen {
		val = val[:MaxStringLen]
	}
	s.ptr.Store(&val)
}

func (s *AtomicString) Load() string {
	if p := s.ptr.Load(); p != nil {
		return *p
	}
	return ""
}

package augment

import (
	"fmt"
	"sync"
)

// Identity is what a rendered view depends on. An augmentation pass is only
// needed when it changes.
type Identity struct {
	Key      string
	Theme    string
	Revision uint64
}

func (id Identity) String() string {
	return fmt.Sprintf("%s@%s#%d", id.Key, id.Theme, id.Revision)
}

// Hook runs a post-commit function once per distinct Identity.
type Hook struct {
	mu   sync.Mutex
	last Identity
	done bool
	runs int
}

// Run calls fn unless the previous successful run had the same identity.
// It reports whether fn was called.
func (h *Hook) Run(id Identity, fn func() error) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.done && h.last == id {
		return false, nil
	}
	h.runs++
	if err := fn(); err != nil {
		h.done = false
		return true, err
	}
	h.last, h.done = id, true
	return true, nil
}

// Reset makes the next Run call fn regardless of identity.
func (h *Hook) Reset() {
	h.mu.Lock()
	h.done = false
	h.mu.Unlock()
}

// Runs returns how many times fn has been invoked.
func (h *Hook) Runs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runs
}

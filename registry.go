package anyskema

import "sync"

// The global adapter registry is an ordered list with most-specific-first
// priority: later registrations are consulted first. Registration is expected
// to happen at process startup (typically from adapter package init or early
// in main) before any lookup; the mutex makes individual operations safe but
// the register-everything-then-read pattern is a documented precondition.
var (
	registryMu sync.RWMutex
	registry   []Adapter
)

// Register inserts the adapter at the front of the global registry. The
// adapter is completed through DefineAdapter first, so partial records are
// fine. No uniqueness constraint applies to Vendor: two adapters may claim
// the same vendor name (dual-major-version libraries) and are told apart
// solely by Match.
func Register(a Adapter) {
	a = DefineAdapter(a)
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append([]Adapter{a}, registry...)
}

// Find returns the first registered adapter whose Match claims v, in registry
// order. It reports false for nil values and when nothing matches.
func Find(v any) (Adapter, bool) {
	if v == nil {
		return Adapter{}, false
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	for _, a := range registry {
		if a.Match(v) {
			return a, true
		}
	}
	return Adapter{}, false
}

// Adapters returns a read-only snapshot of the registry for introspection.
func Adapters() []Adapter {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Adapter, len(registry))
	copy(out, registry)
	return out
}

// resetRegistry clears the registry. Test hook only.
func resetRegistry() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = nil
}

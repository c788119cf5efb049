package typecheck

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/vtool/pkg/core"
)

// Factory creates a checker.
type Factory func() Checker

// Registry maps data type names to checker factories. Names are matched
// case-insensitively. A Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry holding the built-in checkers.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(TypeInteger, NewInteger)
	r.Register(TypeNonDecimal, NewNonDecimal)
	r.Register(TypeReal, NewReal)
	r.Register(TypeCharacter, NewCharacter)
	r.Register(TypeIdentifier, NewIdentifier)
	r.Register(TypeAlphabet, NewAlphabet)
	r.Register(TypeAlphanumeric, NewAlphanumeric)
	r.Register(TypeContextDependent, NewContextDependent)
	r.Register(TypeDate, NewDate)
	r.Register(TypeTime, NewTime)
	return r
}

// Register adds or replaces the factory for a data type.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[normalize(name)] = factory
}

// Lookup returns a checker for the data type, or a *core.UnsupportedTypeError.
func (r *Registry) Lookup(name string) (Checker, error) {
	r.mu.RLock()
	f, ok := r.factories[normalize(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, &core.UnsupportedTypeError{Type: name}
	}
	return f(), nil
}

// Types returns the registered data type names (sorted).
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// Format renders a cast value as text that casts back to the same value.
func Format(v any) string {
	switch x := v.(type) {
	case Number:
		return x.String()
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}

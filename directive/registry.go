package directive

import (
	"fmt"
	"reflect"
	"sort"
)

// TypeRegistry associates stable names with reflect types so declarative
// configuration (YAML) can refer to types by name.
type TypeRegistry struct {
	byName map[string]reflect.Type
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{byName: make(map[string]reflect.Type)}
}

// Register associates a name with a type. Re-registering the same pair is a
// no-op; associating an existing name with a different type is an error.
func (r *TypeRegistry) Register(name string, t reflect.Type) error {
	if name == "" || t == nil {
		return fmt.Errorf("type registration requires a name and a type")
	}

	if prev, ok := r.byName[name]; ok && prev != t {
		return fmt.Errorf("type name %q already registered for %s", name, prev)
	}

	r.byName[name] = t

	return nil
}

// Lookup returns the type registered under name.
func (r *TypeRegistry) Lookup(name string) (reflect.Type, bool) {
	t, ok := r.byName[name]

	return t, ok
}

// Names returns all registered names, sorted, for diagnostics.
func (r *TypeRegistry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// RegisterName is the generic convenience form of Register, naming a type
// after its own unqualified name when name is empty.
func RegisterName[T any](r *TypeRegistry, name string) error {
	t := reflect.TypeFor[T]()
	if name == "" {
		name = t.Name()
	}

	return r.Register(name, t)
}

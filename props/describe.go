package props

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

const (
	getterPrefix = "Get"
	setterPrefix = "Set"
)

// reservedNames are accessor-derived names that describe the type itself
// (fmt and error protocol methods), never user data. They are excluded from
// every description.
var reservedNames = map[string]struct{}{
	"String":   {},
	"GoString": {},
	"Error":    {},
}

var describeCache sync.Map // reflect.Type -> []Property

// Describe returns the mappable properties of t in a stable order: declared
// fields first, then method-derived properties in method-set order. The
// result is computed once per type and shared; callers must not mutate it.
func Describe(t reflect.Type) ([]Property, error) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%s is not a struct type", t)
	}

	if cached, ok := describeCache.Load(t); ok {
		return cached.([]Property), nil
	}

	list := describe(t)
	describeCache.Store(t, list)

	return list, nil
}

// Lookup finds a property of t by name, or returns nil.
func Lookup(t reflect.Type, name string) (*Property, error) {
	list, err := Describe(t)
	if err != nil {
		return nil, err
	}

	return Find(list, name), nil
}

// Find returns the property with the given name from a description, or nil.
func Find(list []Property, name string) *Property {
	for i := range list {
		if list[i].Name == name {
			return &list[i]
		}
	}

	return nil
}

func describe(t reflect.Type) []Property {
	var list []Property

	byName := make(map[string]int)

	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || f.PkgPath != "" {
			continue
		}

		if promotedThroughPointer(t, f.Index) {
			continue
		}

		if _, reserved := reservedNames[f.Name]; reserved {
			continue
		}

		byName[f.Name] = len(list)
		list = append(list, Property{
			Name:  f.Name,
			Type:  f.Type,
			Tag:   f.Tag.Get("asm"),
			index: f.Index,
		})
	}

	// Accessor methods complement fields: a field-backed property keeps its
	// direct access, method-derived properties fill the remaining names.
	pt := reflect.PointerTo(t)
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)

		name, getter, ok := accessorName(m)
		if !ok {
			continue
		}

		if _, reserved := reservedNames[name]; reserved {
			continue
		}

		if j, exists := byName[name]; exists {
			// Field-backed properties keep direct access; a split accessor
			// pair merges into one property when the types agree.
			p := &list[j]
			if p.index == nil && p.Type == accessorType(m, getter) {
				if getter && p.getter == "" {
					p.getter = m.Name
				}
				if !getter && p.setter == "" {
					p.setter = m.Name
				}
			}

			continue
		}

		p := Property{Name: name, Type: accessorType(m, getter)}
		if getter {
			p.getter = m.Name
		} else {
			p.setter = m.Name
		}

		byName[name] = len(list)
		list = append(list, p)
	}

	return list
}

func accessorType(m reflect.Method, getter bool) reflect.Type {
	if getter {
		return m.Type.Out(0)
	}

	return m.Type.In(1)
}

// accessorName extracts the property name from a GetX/SetX method, validating
// the accessor shape. The second result distinguishes getters from setters.
func accessorName(m reflect.Method) (string, bool, bool) {
	switch {
	case strings.HasPrefix(m.Name, getterPrefix) && len(m.Name) > len(getterPrefix):
		// func (T) GetX() V
		if m.Type.NumIn() != 1 || m.Type.NumOut() != 1 {
			return "", false, false
		}

		return m.Name[len(getterPrefix):], true, true

	case strings.HasPrefix(m.Name, setterPrefix) && len(m.Name) > len(setterPrefix):
		// func (T) SetX(V)
		if m.Type.NumIn() != 2 || m.Type.NumOut() != 0 {
			return "", false, false
		}

		return m.Name[len(setterPrefix):], false, true
	}

	return "", false, false
}

// promotedThroughPointer reports whether a promoted field is reached through
// an embedded pointer, which cannot be safely addressed on a fresh instance.
func promotedThroughPointer(t reflect.Type, index []int) bool {
	cur := t
	for _, i := range index[:len(index)-1] {
		f := cur.Field(i)
		if f.Type.Kind() == reflect.Ptr {
			return true
		}

		cur = f.Type
	}

	return false
}

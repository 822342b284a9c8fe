package props

import (
	"fmt"
	"reflect"
)

// Property is a single named, typed slot on a struct type. It is either
// backed by an exported field (index is non-nil) or by accessor methods.
type Property struct {
	Name string
	Type reflect.Type

	// Tag holds the raw `asm` struct tag value for field-backed properties.
	// Method-derived properties have no tag.
	Tag string

	index  []int
	getter string
	setter string
}

// CanRead reports whether the property has a read path.
func (p *Property) CanRead() bool {
	return p.index != nil || p.getter != ""
}

// CanWrite reports whether the property has a write path.
func (p *Property) CanWrite() bool {
	return p.index != nil || p.setter != ""
}

// FieldBacked reports whether the property is backed by a declared field.
func (p *Property) FieldBacked() bool {
	return p.index != nil
}

// Index returns the backing field's index path, or nil for accessor-backed
// properties. Callers must not mutate it.
func (p *Property) Index() []int {
	return p.index
}

// Read returns the property value from owner. The owner may be a struct
// value, a pointer to struct, or an interface wrapping either.
func (p *Property) Read(owner reflect.Value) (reflect.Value, error) {
	owner = unwrap(owner)
	if !p.CanRead() {
		return reflect.Value{}, fmt.Errorf("property %s has no read path", p.Name)
	}

	if p.index != nil {
		s := owner
		if s.Kind() == reflect.Ptr {
			if s.IsNil() {
				return reflect.Value{}, fmt.Errorf("reading %s from nil %s", p.Name, s.Type())
			}
			s = s.Elem()
		}

		return s.FieldByIndexErr(p.index)
	}

	m := methodOn(owner, p.getter)
	if !m.IsValid() {
		return reflect.Value{}, fmt.Errorf("getter %s is not in the method set of %s", p.getter, owner.Type())
	}

	return m.Call(nil)[0], nil
}

// Write stores v into the property on owner. The owner must be a pointer to
// struct (or an interface wrapping one) so that field writes are addressable.
func (p *Property) Write(owner reflect.Value, v reflect.Value) error {
	owner = unwrap(owner)
	if !p.CanWrite() {
		return fmt.Errorf("property %s has no write path", p.Name)
	}

	if p.index != nil {
		s := owner
		if s.Kind() == reflect.Ptr {
			if s.IsNil() {
				return fmt.Errorf("writing %s to nil %s", p.Name, s.Type())
			}
			s = s.Elem()
		}

		f, err := s.FieldByIndexErr(p.index)
		if err != nil {
			return err
		}

		if !f.CanSet() {
			return fmt.Errorf("field %s of %s is not settable", p.Name, s.Type())
		}

		if !v.Type().AssignableTo(f.Type()) {
			return fmt.Errorf("cannot assign %s to field %s of type %s", v.Type(), p.Name, f.Type())
		}

		f.Set(v)

		return nil
	}

	m := methodOn(owner, p.setter)
	if !m.IsValid() {
		return fmt.Errorf("setter %s is not in the method set of %s", p.setter, owner.Type())
	}

	if !v.Type().AssignableTo(m.Type().In(0)) {
		return fmt.Errorf("cannot pass %s to setter %s(%s)", v.Type(), p.setter, m.Type().In(0))
	}

	m.Call([]reflect.Value{v})

	return nil
}

// unwrap strips an interface wrapper so callers see the dynamic value.
func unwrap(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Interface && !v.IsNil() {
		return v.Elem()
	}

	return v
}

// methodOn resolves a method by name, promoting a non-pointer owner to an
// addressable copy so pointer-receiver accessors are reachable.
func methodOn(owner reflect.Value, name string) reflect.Value {
	if m := owner.MethodByName(name); m.IsValid() {
		return m
	}

	if owner.Kind() != reflect.Ptr {
		pv := reflect.New(owner.Type())
		pv.Elem().Set(owner)

		return pv.MethodByName(name)
	}

	return reflect.Value{}
}

package autoasm

import (
	"fmt"
	"reflect"

	"github.com/roc-wong/auto-assembler/directive"
	"github.com/roc-wong/auto-assembler/props"
)

// readHandler is one stage of the value resolution chain. It either resolves
// a value for the named property, reports absence so the next stage runs, or
// fails the whole operation.
type readHandler interface {
	read(a *Assembler, dir directive.Field, owner reflect.Value, prop *props.Property) (reflect.Value, bool, error)
}

// readValue runs the chain. A stage resolving an explicit null counts as
// absence and the chain keeps going.
func (a *Assembler) readValue(chain []readHandler, dir directive.Field, owner reflect.Value, prop *props.Property) (reflect.Value, bool, error) {
	for _, h := range chain {
		v, ok, err := h.read(a, dir, owner, prop)
		if err != nil {
			return reflect.Value{}, false, err
		}

		if !ok || isNilish(v) {
			continue
		}

		return v, true, nil
	}

	return reflect.Value{}, false, nil
}

// fieldDirectiveAssemble resolves const and from-path directives declared on
// the target property.
type fieldDirectiveAssemble struct{}

func (fieldDirectiveAssemble) read(a *Assembler, dir directive.Field, owner reflect.Value, prop *props.Property) (reflect.Value, bool, error) {
	switch dir.Kind {
	case directive.KindConst:
		return reflect.ValueOf(dir.Value), true, nil

	case directive.KindFrom:
		v, found, err := walkRead(owner, dir.Path)
		if err != nil {
			return reflect.Value{}, false, fmt.Errorf("%w: path %s for property %s: %v", ErrConfiguration, dir.Path, prop.Name, err)
		}

		return v, found, nil
	}

	return reflect.Value{}, false, nil
}

// reflectiveRead resolves the same-named property on the other side.
type reflectiveRead struct{}

func (reflectiveRead) read(a *Assembler, dir directive.Field, owner reflect.Value, prop *props.Property) (reflect.Value, bool, error) {
	ot := indirectType(owner)
	if ot.Kind() != reflect.Struct {
		return reflect.Value{}, false, nil
	}

	other, err := props.Lookup(ot, prop.Name)
	if err != nil {
		return reflect.Value{}, false, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if other == nil || !other.CanRead() {
		return reflect.Value{}, false, nil
	}

	v, err := other.Read(unwrapInterface(owner))
	if err != nil {
		return reflect.Value{}, false, fmt.Errorf("%w: property %s of %s: %v", ErrPropertyAccess, prop.Name, ot, err)
	}

	return v, true, nil
}

// fieldDirectiveDisassemble supplies a declared constant when the reflective
// pass found nothing, so round-tripped values keep their declared defaults.
type fieldDirectiveDisassemble struct{}

func (fieldDirectiveDisassemble) read(a *Assembler, dir directive.Field, owner reflect.Value, prop *props.Property) (reflect.Value, bool, error) {
	if dir.Kind != directive.KindConst {
		return reflect.Value{}, false, nil
	}

	return reflect.ValueOf(dir.Value), true, nil
}

package autoasm

import (
	"fmt"
	"reflect"

	"github.com/roc-wong/auto-assembler/directive"
	"github.com/roc-wong/auto-assembler/props"
)

// locate finds the destination property for one disassembled value. A
// from-path directive walks into the instance, allocating nil pointers along
// the way; otherwise the same-named property is used. An absent destination
// means the value has nowhere to go and is skipped.
func (a *Assembler) locate(inst reflect.Value, dir directive.Field, name string) (reflect.Value, *props.Property, bool, error) {
	if dir.Kind == directive.KindFrom {
		return a.walkWrite(inst, dir.Path)
	}

	base := inst.Type().Elem()

	prop, err := props.Lookup(base, name)
	if err != nil {
		return reflect.Value{}, nil, false, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if prop == nil || !prop.CanWrite() {
		return reflect.Value{}, nil, false, nil
	}

	return inst, prop, true, nil
}

// walkRead follows a dotted path through readable properties. A nil link
// makes the whole path absent rather than an error.
func walkRead(owner reflect.Value, path directive.Path) (reflect.Value, bool, error) {
	cur := owner

	for _, seg := range path {
		cur = unwrapInterface(cur)
		if isNilish(cur) {
			return reflect.Value{}, false, nil
		}

		t := indirectType(cur)
		if t.Kind() != reflect.Struct {
			return reflect.Value{}, false, fmt.Errorf("segment %s addresses non-struct %s", seg, t)
		}

		prop, err := props.Lookup(t, seg)
		if err != nil {
			return reflect.Value{}, false, err
		}

		if prop == nil || !prop.CanRead() {
			return reflect.Value{}, false, fmt.Errorf("segment %s is not a readable property of %s", seg, t)
		}

		next, err := prop.Read(cur)
		if err != nil {
			return reflect.Value{}, false, err
		}

		cur = next
	}

	if isNilish(cur) {
		return reflect.Value{}, false, nil
	}

	return cur, true, nil
}

// walkWrite follows all but the last path segment, allocating intermediate
// nil pointers, and returns the final owner plus its writable property.
func (a *Assembler) walkWrite(inst reflect.Value, path directive.Path) (reflect.Value, *props.Property, bool, error) {
	if len(path) == 0 {
		return reflect.Value{}, nil, false, fmt.Errorf("%w: empty destination path", ErrConfiguration)
	}

	cur := inst

	for _, seg := range path[:len(path)-1] {
		for cur.Kind() == reflect.Ptr {
			if cur.IsNil() {
				if !cur.CanSet() {
					return reflect.Value{}, nil, false, fmt.Errorf("%w: path %s crosses an unsettable nil link at %s", ErrConfiguration, path, seg)
				}

				cur.Set(reflect.New(cur.Type().Elem()))
			}

			cur = cur.Elem()
		}

		if cur.Kind() != reflect.Struct {
			return reflect.Value{}, nil, false, fmt.Errorf("%w: path %s, segment %s addresses non-struct %s", ErrConfiguration, path, seg, cur.Type())
		}

		prop, err := props.Lookup(cur.Type(), seg)
		if err != nil {
			return reflect.Value{}, nil, false, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}

		if prop == nil {
			return reflect.Value{}, nil, false, fmt.Errorf("%w: path %s, segment %s is not a property of %s", ErrConfiguration, path, seg, cur.Type())
		}

		if !prop.FieldBacked() {
			return reflect.Value{}, nil, false, fmt.Errorf("%w: path %s, segment %s is accessor-backed and cannot be traversed for writing", ErrConfiguration, path, seg)
		}

		if !cur.CanAddr() {
			return reflect.Value{}, nil, false, fmt.Errorf("%w: path %s crosses unaddressable value %s", ErrConfiguration, path, cur.Type())
		}

		next := cur.FieldByIndex(prop.Index())
		cur = next
	}

	for cur.Kind() == reflect.Ptr {
		if cur.IsNil() {
			if !cur.CanSet() {
				return reflect.Value{}, nil, false, fmt.Errorf("%w: path %s ends at an unsettable nil link", ErrConfiguration, path)
			}

			cur.Set(reflect.New(cur.Type().Elem()))
		}

		cur = cur.Elem()
	}

	if cur.Kind() != reflect.Struct {
		return reflect.Value{}, nil, false, fmt.Errorf("%w: path %s does not end at a struct", ErrConfiguration, path)
	}

	last := path[len(path)-1]

	prop, err := props.Lookup(cur.Type(), last)
	if err != nil {
		return reflect.Value{}, nil, false, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if prop == nil || !prop.CanWrite() {
		return reflect.Value{}, nil, false, nil
	}

	if !cur.CanAddr() {
		return reflect.Value{}, nil, false, fmt.Errorf("%w: path %s ends at unaddressable value %s", ErrConfiguration, path, cur.Type())
	}

	return cur.Addr(), prop, true, nil
}

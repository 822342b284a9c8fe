package autoasm

import (
	"fmt"
	"reflect"
)

// convertAssemble coerces a resolved source value to the target property
// type. The steps are tried in a fixed order: direct assignment, a registered
// converter, recursion when the target type carries the convertible marker,
// variant dispatch, then pointer adaptation. The first applicable step
// decides the outcome.
func (a *Assembler) convertAssemble(raw reflect.Value, dst reflect.Type, name string) (reflect.Value, error) {
	raw = unwrapInterface(raw)

	if raw.Type().AssignableTo(dst) {
		return raw, nil
	}

	if fn, ok := a.converters.Find(raw.Type(), dst); ok {
		return a.applyConverter(fn, raw, dst, name)
	}

	if cfg := a.directives.Config(derefType(dst)); cfg != nil && cfg.Convertible {
		out, err := a.assembleValue(raw, dst)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("property %s: %w", name, err)
		}

		return out, nil
	}

	if dst.Kind() == reflect.Interface {
		if out, handled, err := a.dispatchVariant(raw, dst, name); handled {
			return out, err
		}
	}

	return a.adaptPointer(raw, dst, name, a.convertAssemble)
}

// convertDisassemble coerces a value read off the assembled target back to
// the source property type. Recursion keys off the target-side declared
// property type, and there is no variant dispatch: a value assembled through
// an interface does not know its way back.
func (a *Assembler) convertDisassemble(raw reflect.Value, declared, dst reflect.Type, name string) (reflect.Value, error) {
	raw = unwrapInterface(raw)

	if raw.Type().AssignableTo(dst) {
		return raw, nil
	}

	if fn, ok := a.converters.Find(raw.Type(), dst); ok {
		return a.applyConverter(fn, raw, dst, name)
	}

	if cfg := a.directives.Config(derefType(declared)); cfg != nil && cfg.Convertible {
		out, err := a.disassembleValue(raw, dst)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("property %s: %w", name, err)
		}

		return out, nil
	}

	return a.adaptPointer(raw, dst, name, func(v reflect.Value, d reflect.Type, n string) (reflect.Value, error) {
		return a.convertDisassemble(v, declared, d, n)
	})
}

// applyConverter runs a registered converter and validates its result. A nil
// result stands for the zero value of a nilable destination; for any other
// destination it is a configuration error.
func (a *Assembler) applyConverter(fn func(any) (any, error), raw reflect.Value, dst reflect.Type, name string) (reflect.Value, error) {
	out, err := fn(raw.Interface())
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: property %s: converting %s to %s: %v", ErrTypeMismatch, name, raw.Type(), dst, err)
	}

	ov := reflect.ValueOf(out)
	if !ov.IsValid() {
		if nilable(dst.Kind()) {
			return reflect.Zero(dst), nil
		}

		return reflect.Value{}, fmt.Errorf("%w: property %s: converter for %s to %s produced nil", ErrConfiguration, name, raw.Type(), dst)
	}

	if !ov.Type().AssignableTo(dst) {
		return reflect.Value{}, fmt.Errorf("%w: property %s: converter for %s to %s produced %s", ErrConfiguration, name, raw.Type(), dst, ov.Type())
	}

	return ov, nil
}

// dispatchVariant resolves an interface-typed target property by scanning
// the registered variants in declaration order and assembling into the first
// one declaring a source type the value is assignable to.
func (a *Assembler) dispatchVariant(raw reflect.Value, dst reflect.Type, name string) (reflect.Value, bool, error) {
	cfg := a.directives.Config(dst)
	if cfg == nil || len(cfg.Variants) == 0 {
		return reflect.Value{}, false, nil
	}

	for _, variant := range cfg.Variants {
		vcfg := a.directives.Config(variant)
		if vcfg == nil || vcfg.MappedFrom == nil {
			return reflect.Value{}, true, fmt.Errorf("%w: variant %s of %s declares no source type", ErrConfiguration, variant, dst)
		}

		if !raw.Type().AssignableTo(vcfg.MappedFrom) {
			continue
		}

		out, err := a.assembleValue(raw, variant)
		if err != nil {
			return reflect.Value{}, true, fmt.Errorf("property %s: %w", name, err)
		}

		if out.Type().AssignableTo(dst) {
			return out, true, nil
		}

		// The value form may only satisfy the interface through a pointer.
		if pv := reflect.New(out.Type()); pv.Type().AssignableTo(dst) {
			pv.Elem().Set(out)

			return pv, true, nil
		}

		return reflect.Value{}, true, fmt.Errorf("%w: variant %s does not implement %s", ErrConfiguration, variant, dst)
	}

	return reflect.Value{}, true, fmt.Errorf("%w: property %s: no variant of %s accepts %s", ErrTypeMismatch, name, dst, raw.Type())
}

// adaptPointer bridges one level of pointer indirection on either side, then
// gives up with a mismatch.
func (a *Assembler) adaptPointer(raw reflect.Value, dst reflect.Type, name string, retry func(reflect.Value, reflect.Type, string) (reflect.Value, error)) (reflect.Value, error) {
	if raw.Kind() == reflect.Ptr && !raw.IsNil() {
		return retry(raw.Elem(), dst, name)
	}

	if dst.Kind() == reflect.Ptr && raw.Kind() != reflect.Ptr {
		inner, err := retry(raw, dst.Elem(), name)
		if err != nil {
			return reflect.Value{}, err
		}

		pv := reflect.New(dst.Elem())
		pv.Elem().Set(inner)

		return pv, nil
	}

	return reflect.Value{}, fmt.Errorf("%w: property %s: cannot place %s into %s", ErrTypeMismatch, name, raw.Type(), dst)
}

package autoasm

import (
	"fmt"
	"reflect"

	"github.com/roc-wong/auto-assembler/convert"
	"github.com/roc-wong/auto-assembler/directive"
	"github.com/roc-wong/auto-assembler/props"
)

// Assembler transforms values between two struct shapes. Configure it once
// with New; afterwards it holds no per-call state and may be shared freely.
type Assembler struct {
	converters *convert.Registry
	directives *directive.Table

	assembleRead    []readHandler
	disassembleRead []readHandler
}

// Option configures an Assembler under construction.
type Option func(*Assembler)

// WithConverters replaces the default converter registry.
func WithConverters(r *convert.Registry) Option {
	return func(a *Assembler) { a.converters = r }
}

// WithDirectives supplies the table of type and field declarations.
func WithDirectives(t *directive.Table) Option {
	return func(a *Assembler) { a.directives = t }
}

// New builds an Assembler. Without options it uses the default converter
// seed set and an empty directive table.
func New(opts ...Option) *Assembler {
	a := &Assembler{}

	for _, opt := range opts {
		opt(a)
	}

	if a.converters == nil {
		a.converters = convert.Default(convert.CategoryDefault)
	}

	if a.directives == nil {
		a.directives = directive.NewTable()
	}

	// On the way in an explicit declaration on the target field wins over
	// default name matching. On the way out the declaration decides where a
	// value is written, not how it is read, so the reflective pass goes first.
	a.assembleRead = []readHandler{fieldDirectiveAssemble{}, reflectiveRead{}}
	a.disassembleRead = []readHandler{reflectiveRead{}, fieldDirectiveDisassemble{}}

	return a
}

// Assemble constructs a new instance of targetType and populates it from
// matching properties of source. Properties that resolve to no value stay at
// their default; a value no rule can convert aborts the whole call.
func (a *Assembler) Assemble(source any, targetType reflect.Type) (any, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: nil source", ErrTypeMismatch)
	}

	out, err := a.assembleValue(reflect.ValueOf(source), targetType)
	if err != nil {
		return nil, err
	}

	return out.Interface(), nil
}

// AssembleAs is the generic form of Assemble.
func AssembleAs[T any](a *Assembler, source any) (T, error) {
	var zero T

	out, err := a.Assemble(source, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}

	return out.(T), nil
}

// Disassemble constructs a new instance of sourceType and populates it from
// the readable properties of target, the inverse of Assemble.
func (a *Assembler) Disassemble(target any, sourceType reflect.Type) (any, error) {
	if target == nil {
		return nil, fmt.Errorf("%w: nil target", ErrTypeMismatch)
	}

	out, err := a.disassembleValue(reflect.ValueOf(target), sourceType)
	if err != nil {
		return nil, err
	}

	return out.Interface(), nil
}

// DisassembleAs is the generic form of Disassemble.
func DisassembleAs[S any](a *Assembler, target any) (S, error) {
	var zero S

	out, err := a.Disassemble(target, reflect.TypeFor[S]())
	if err != nil {
		return zero, err
	}

	return out.(S), nil
}

// assembleValue builds a value of exactly targetType from src.
func (a *Assembler) assembleValue(src reflect.Value, targetType reflect.Type) (reflect.Value, error) {
	base, wantPtr := targetType, false
	if base.Kind() == reflect.Ptr {
		base, wantPtr = base.Elem(), true
	}

	if base.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %s has no parameterless construction path", ErrConstruction, targetType)
	}

	inst := reflect.New(base)

	list, err := props.Describe(base)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if err := a.checkOverrides(base, list); err != nil {
		return reflect.Value{}, err
	}

	for i := range list {
		prop := &list[i]
		if !prop.CanWrite() {
			continue
		}

		dir, err := a.directiveFor(base, prop)
		if err != nil {
			return reflect.Value{}, err
		}

		raw, ok, err := a.readValue(a.assembleRead, dir, src, prop)
		if err != nil {
			return reflect.Value{}, err
		}

		if !ok {
			continue
		}

		converted, err := a.convertAssemble(raw, prop.Type, prop.Name)
		if err != nil {
			return reflect.Value{}, err
		}

		if err := prop.Write(inst, converted); err != nil {
			return reflect.Value{}, fmt.Errorf("%w: property %s of %s: %v", ErrPropertyAccess, prop.Name, base, err)
		}
	}

	if wantPtr {
		return inst, nil
	}

	return inst.Elem(), nil
}

// disassembleValue builds a value of exactly sourceType from the readable
// properties of target's runtime type.
func (a *Assembler) disassembleValue(target reflect.Value, sourceType reflect.Type) (reflect.Value, error) {
	base, wantPtr := sourceType, false
	if base.Kind() == reflect.Ptr {
		base, wantPtr = base.Elem(), true
	}

	if base.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %s has no parameterless construction path", ErrConstruction, sourceType)
	}

	inst := reflect.New(base)

	tt := indirectType(target)
	if tt.Kind() == reflect.Struct {
		if err := a.disassembleInto(target, tt, inst); err != nil {
			return reflect.Value{}, err
		}
	}

	if wantPtr {
		return inst, nil
	}

	return inst.Elem(), nil
}

func (a *Assembler) disassembleInto(target reflect.Value, tt reflect.Type, inst reflect.Value) error {
	list, err := props.Describe(tt)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	if err := a.checkOverrides(tt, list); err != nil {
		return err
	}

	for i := range list {
		prop := &list[i]
		if !prop.CanRead() {
			continue
		}

		dir, err := a.directiveFor(tt, prop)
		if err != nil {
			return err
		}

		raw, ok, err := a.readValue(a.disassembleRead, dir, target, prop)
		if err != nil {
			return err
		}

		if !ok {
			continue
		}

		owner, sp, found, err := a.locate(inst, dir, prop.Name)
		if err != nil {
			return err
		}

		if !found {
			continue
		}

		converted, err := a.convertDisassemble(raw, prop.Type, sp.Type, prop.Name)
		if err != nil {
			return err
		}

		if err := sp.Write(owner, converted); err != nil {
			return fmt.Errorf("%w: property %s of %s: %v", ErrPropertyAccess, sp.Name, owner.Type(), err)
		}
	}

	return nil
}

// directiveFor resolves a property's directive: a programmatic table entry
// wins, otherwise the declared field's `asm` tag.
func (a *Assembler) directiveFor(owner reflect.Type, prop *props.Property) (directive.Field, error) {
	if f, ok := a.directives.FieldFor(owner, prop.Name); ok {
		return f, nil
	}

	if prop.FieldBacked() && prop.Tag != "" {
		f, err := directive.ParseTag(prop.Tag)
		if err != nil {
			return directive.Field{}, fmt.Errorf("%w: property %s of %s: %v", ErrConfiguration, prop.Name, owner, err)
		}

		return f, nil
	}

	return directive.Field{}, nil
}

// checkOverrides rejects table entries naming properties the type does not
// have. The mistake is static, but surfaces only when the type is first used.
func (a *Assembler) checkOverrides(owner reflect.Type, list []props.Property) error {
	cfg := a.directives.Config(owner)
	if cfg == nil {
		return nil
	}

	for name := range cfg.Fields {
		if props.Find(list, name) == nil {
			return fmt.Errorf("%w: directive for unknown property %s of %s", ErrConfiguration, name, owner)
		}
	}

	return nil
}

// unwrapInterface strips an interface wrapper so the dynamic value shows.
func unwrapInterface(v reflect.Value) reflect.Value {
	if v.Kind() == reflect.Interface && !v.IsNil() {
		return v.Elem()
	}

	return v
}

// indirectType returns the base struct-or-other type behind interfaces and
// pointers.
func indirectType(v reflect.Value) reflect.Type {
	return derefType(unwrapInterface(v).Type())
}

func derefType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	return t
}

// nilable reports whether values of a kind can hold nil.
func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

// isNilish reports whether a resolved value is an explicit null: present on
// the owner but carrying nothing. Such values are treated as absent.
func isNilish(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	return nilable(v.Kind()) && v.IsNil()
}

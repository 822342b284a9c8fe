package directive

import (
	"reflect"
)

// Config collects every declaration attached to one type.
type Config struct {
	// Convertible marks the type as a valid destination for recursive
	// transformation when no direct converter applies.
	Convertible bool

	// Variants is the closed, ordered set of concrete subtypes an abstract
	// (interface) property of this type may resolve to.
	Variants []reflect.Type

	// MappedFrom is the concrete source type this variant corresponds to.
	// Required on every type listed in some Variants set.
	MappedFrom reflect.Type

	// Fields holds per-property directives registered programmatically.
	// They take precedence over `asm` struct tags.
	Fields map[string]Field
}

// Option mutates a Config during registration.
type Option func(*Config)

// WithConvertible marks the registered type as recursively transformable.
func WithConvertible() Option {
	return func(c *Config) { c.Convertible = true }
}

// WithVariants declares the ordered closed set of concrete subtypes the
// registered abstract type resolves to. Order is significant: the first
// variant whose mapped source type matches wins.
func WithVariants(subtypes ...reflect.Type) Option {
	return func(c *Config) { c.Variants = append(c.Variants, subtypes...) }
}

// WithMappedFrom declares which concrete source type the registered variant
// corresponds to.
func WithMappedFrom(src reflect.Type) Option {
	return func(c *Config) { c.MappedFrom = src }
}

// WithConst attaches a constant literal directive to a property of the
// registered type. The property's value on assembly is the literal,
// converted to the property type, regardless of source content.
func WithConst(property, literal string) Option {
	return WithField(property, Field{Kind: KindConst, Value: literal})
}

// WithSource attaches an alternate source path directive to a property of
// the registered type. Panics on a syntactically invalid path: the path is a
// code-level literal, not runtime data.
func WithSource(property, path string) Option {
	p, err := ParsePath(path)
	if err != nil {
		panic("directive: " + err.Error())
	}

	return WithField(property, Field{Kind: KindFrom, Path: p})
}

// WithField attaches an already-built directive to a property.
func WithField(property string, f Field) Option {
	return func(c *Config) {
		if c.Fields == nil {
			c.Fields = make(map[string]Field)
		}

		c.Fields[property] = f
	}
}

// Table is the side table of type declarations an assembler consults.
// Populate it fully before sharing; lookups take no lock.
type Table struct {
	types map[reflect.Type]*Config
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{types: make(map[reflect.Type]*Config)}
}

// Register attaches declarations to a type, merging into any earlier
// registration of the same type. It returns the table for chaining.
func (t *Table) Register(typ reflect.Type, opts ...Option) *Table {
	cfg, ok := t.types[typ]
	if !ok {
		cfg = &Config{}
		t.types[typ] = cfg
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return t
}

// RegisterFor is the generic convenience form of Register.
func RegisterFor[T any](t *Table, opts ...Option) *Table {
	return t.Register(reflect.TypeFor[T](), opts...)
}

// Config returns the declarations for a type, or nil when none exist.
func (t *Table) Config(typ reflect.Type) *Config {
	return t.types[typ]
}

// FieldFor returns the programmatic directive for a property of typ, if any.
func (t *Table) FieldFor(typ reflect.Type, property string) (Field, bool) {
	cfg := t.types[typ]
	if cfg == nil {
		return Field{}, false
	}

	f, ok := cfg.Fields[property]

	return f, ok
}

// Package directive declares how individual properties and whole types
// deviate from plain name-matched assembly.
//
// Field-level directives come from `asm` struct tags (`asm:"const=342"`,
// `asm:"from=Customer.Email"`) or from per-property entries registered in a
// Table. Type-level markers live only in the Table: a Convertible marker
// allows recursive transformation into the type, a Variants list declares the
// closed set of concrete subtypes an interface property may resolve to, and
// MappedFrom ties a concrete variant to its corresponding source type.
//
// A Table can be populated programmatically with the With* options or loaded
// from a YAML document resolved against a TypeRegistry.
package directive

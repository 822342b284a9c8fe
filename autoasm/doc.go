// Package autoasm transforms object graphs between two struct shapes without
// per-field mapping code: Assemble populates a new target instance from
// same-named source properties, Disassemble reconstructs the source shape.
//
// Each target property is resolved through an ordered chain of read
// strategies (declared directive first on the way in, reflective name match
// first on the way out), then converted by a fixed decision chain: identity,
// registered converter, recursive transformation for convertible-marked
// types, and closed-world variant dispatch for polymorphic targets.
//
// An Assembler is immutable after New and safe for concurrent use; the
// registry and directive table it holds must not be mutated once shared.
// Transformation walks the object graph by plain recursion, so a convertible
// cycle between two types must be broken by a registered converter.
package autoasm

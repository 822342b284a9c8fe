// Package props describes the mappable properties of a struct type.
//
// A property is either an exported struct field (readable and writable) or
// derived from accessor methods: GetName for reads, SetName for writes. A
// bare Name method is not recognized, to avoid capturing arbitrary methods.
// Method-derived properties may therefore be read-only or write-only.
//
// Descriptions are computed once per type, cached, and returned in a stable
// order: declared fields first, then method-derived properties in method-set
// order.
package props

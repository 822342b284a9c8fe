package autoasm

import "errors"

var (
	// ErrConfiguration marks a structurally invalid declaration: a directive
	// naming a property the type does not have, an unparsable tag, or a
	// variant missing its mapped source type. Detected at first use.
	ErrConfiguration = errors.New("invalid assembler configuration")

	// ErrConstruction marks a type with no parameterless construction path.
	ErrConstruction = errors.New("cannot construct instance")

	// ErrTypeMismatch marks a value no decision-chain step could convert.
	// The whole transformation aborts; there is no partial result.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrPropertyAccess marks a failed property read or write, a programming
	// defect rather than a data condition.
	ErrPropertyAccess = errors.New("property access failed")
)

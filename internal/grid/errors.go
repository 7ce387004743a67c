package grid

import "errors"

var (
	// ErrInvalidName indicates an attribute name that is empty or contains a separator.
	ErrInvalidName = errors.New("grid: invalid attribute name")

	// ErrDuplicateAttribute indicates two attributes declared with the same name.
	ErrDuplicateAttribute = errors.New("grid: duplicate attribute")

	// ErrEmptyAttribute indicates an attribute without candidate values.
	ErrEmptyAttribute = errors.New("grid: attribute has no values")

	// ErrDuplicateValue indicates two candidate values with the same string form.
	ErrDuplicateValue = errors.New("grid: duplicate attribute value")

	// ErrSpaceTooLarge indicates the combination count overflows int.
	ErrSpaceTooLarge = errors.New("grid: combination count overflows")

	// ErrSpaceExhausted indicates every combination has already been sampled.
	ErrSpaceExhausted = errors.New("grid: search space exhausted")

	// ErrUnknownAttribute indicates a lookup of a name the choice does not carry.
	ErrUnknownAttribute = errors.New("grid: unknown attribute")

	// ErrTypeMismatch indicates a value that cannot be converted to the requested type.
	ErrTypeMismatch = errors.New("grid: value type mismatch")
)

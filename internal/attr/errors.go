package attr

import "errors"

var (
	// ErrType is returned when a value of the wrong Go type is assigned.
	ErrType = errors.New("attr: wrong value type")
	// ErrRange is returned when a number falls outside the attribute bounds.
	ErrRange = errors.New("attr: value out of range")
	// ErrValue is returned when a token is not one of the allowed values.
	ErrValue = errors.New("attr: value not allowed")
)

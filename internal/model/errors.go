package model

import "errors"

// Common errors.
var (
	ErrUnsupportedVersion = errors.New("unsupported schema version")
	ErrMissingIdentifier  = errors.New("buffer does not carry the MODL identifier")
	ErrDuplicateNodeID    = errors.New("duplicate node id")
	ErrShapeMismatch      = errors.New("constant data length does not match shape product")
	ErrInputOutOfRange    = errors.New("operator input index out of range")
	ErrAttrsMismatch      = errors.New("attribute record does not match operator type")
	ErrNoGraph            = errors.New("model has no graph")
)

package ml

import "errors"

var (
	ErrInvalidModel      = errors.New("invalid model")
	ErrNotFitted         = errors.New("model is not fitted")
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
	ErrUnknownKind       = errors.New("unknown artifact kind")
)

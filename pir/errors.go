package pir

import "errors"

// Sentinel errors returned by query generation, response evaluation and
// extraction. Callers compare with errors.Is; server.ErrorBodyFor maps
// ErrVersionMismatch, ErrMalformedQuery and ErrDecryptFailure to stable
// ErrorBody.Code values. A missing lane surfaces as lane.ErrNotLoaded,
// not ErrLaneNotLoaded; any other error maps to InternalError.
var (
	ErrVersionMismatch = errors.New("pir: version mismatch")
	ErrMalformedQuery  = errors.New("pir: malformed query")
	ErrLaneNotLoaded   = errors.New("pir: lane not loaded")
	ErrDecryptFailure  = errors.New("pir: decrypt failure")
	ErrIndexOutOfRange = errors.New("pir: index out of range")
)

package server

import (
	"errors"

	"github.com/blocklane/pir/lane"
	"github.com/blocklane/pir/pir"
)

// ErrorBodyFor maps an error returned by Lifecycle.Handle to the
// structured, transport-facing object of spec.md §6 — the `default`
// case deliberately drops err's text so an unanticipated internal
// failure never surfaces raw crypto or file-path state to a client.
func ErrorBodyFor(err error) ErrorBody {
	switch {
	case errors.Is(err, pir.ErrVersionMismatch):
		return ErrorBody{Error: err.Error(), Code: "VersionMismatch"}
	case errors.Is(err, lane.ErrNotLoaded):
		return ErrorBody{Error: err.Error(), Code: "LaneNotLoaded"}
	case errors.Is(err, pir.ErrMalformedQuery):
		return ErrorBody{Error: err.Error(), Code: "MalformedQuery"}
	case errors.Is(err, pir.ErrDecryptFailure):
		return ErrorBody{Error: err.Error(), Code: "DecryptFailure"}
	default:
		return ErrorBody{Error: "internal error", Code: "InternalError"}
	}
}

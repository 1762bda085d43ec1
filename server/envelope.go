// Package server implements the per-request query lifecycle (spec.md
// §4.7): parse the envelope, route to a lane, enforce the parameter
// version fence, decode and evaluate the query, and serialise the
// response — plus the reload discipline of §5.
package server

import "github.com/blocklane/pir/pir"

// Envelope is the decoded request boundary (spec.md §4.7 step 1, §6).
// The HTTP framing that produces one is out of scope; this is the
// stable contract it marshals into.
type Envelope struct {
	Lane       string
	Variant    pir.QueryVariant
	Packing    pir.PackingVariant
	Version    uint16
	QueryBytes []byte
}

// ErrorBody is the structured error object returned at the request
// boundary. It MUST NOT leak cryptographic state (spec.md §6).
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

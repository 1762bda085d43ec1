package pir

import "github.com/blocklane/pir/rlwe"

// Extract decrypts resp under state's secret key and returns the
// requested record's raw bytes (SPEC_FULL §4.3 "extract").
func Extract(state *QueryState, resp *Response) ([]byte, error) {
	params := state.Params
	dec := rlwe.NewDecryptor(params.Rlwe, state.SecretKey)

	switch resp.Packing {
	case OnePacking:
		if len(resp.Ciphertexts) != 1 {
			return nil, ErrMalformedQuery
		}
		pt := dec.DecryptNew(resp.Ciphertexts[0])
		coeffs := decodeCoeffs(params, pt)
		return UnpackRecord(params, coeffs, state.Col), nil

	case InspiRING:
		if len(resp.Ciphertexts) != 2 {
			return nil, ErrMalformedQuery
		}
		// maskPlaintextHalf keeps absolute coefficient offsets, so the
		// column index into whichever half-ciphertext holds it is
		// state.Col unchanged: only its containing ciphertext differs.
		half := params.D2 / 2
		ct := resp.Ciphertexts[0]
		if state.Col >= half {
			ct = resp.Ciphertexts[1]
		}
		pt := dec.DecryptNew(ct)
		coeffs := decodeCoeffs(params, pt)
		return UnpackRecord(params, coeffs, state.Col), nil

	default:
		return nil, ErrMalformedQuery
	}
}

package pir

import (
	"fmt"

	"github.com/blocklane/pir/ring"
	"github.com/blocklane/pir/rgsw"
	"github.com/blocklane/pir/rlwe"
	"github.com/blocklane/pir/utils/sampling"
)

// QueryState is the client-side state needed to extract a record from
// a Response: the secret key the query was encrypted under, and the
// grid coordinates of the requested record.
type QueryState struct {
	SecretKey *rlwe.SecretKey
	Row, Col  int
	Params    PirParams
}

// Query is a client's request for one record, in one of the three
// variants described by SPEC_FULL §4.3.
type Query struct {
	Variant QueryVariant

	// Baseline: one fresh ciphertext per row.
	RowCiphertexts []*rlwe.Ciphertext

	// Seeded: the shared seed plus each row's "b" component; the
	// uniform "a" component is re-derived from the seed by the server
	// (resolveRowCiphertexts), never transmitted.
	Seed sampling.Seed
	RowB []ring.Poly

	// Switched: one compressed ciphertext packing all D1 row bits as
	// coefficients, plus the galois keys needed to expand it.
	Compressed *rlwe.Ciphertext
	GaloisKeys map[uint64]*rlwe.GadgetCiphertext
}

// GaloisKey implements rlwe.GaloisKeySet over a Switched query's
// embedded keys, so rgsw.Expander can use the query itself as a key
// set without a separate per-client key registry.
func (q *Query) GaloisKey(galEl uint64) (*rlwe.GadgetCiphertext, bool) {
	gk, ok := q.GaloisKeys[galEl]
	return gk, ok
}

// GenerateQuery builds a client query for record index under variant,
// drawing randomness from source. It returns the wire-ready Query and
// the QueryState needed later to call Extract on the response.
func GenerateQuery(params PirParams, sk *rlwe.SecretKey, index int, variant QueryVariant, source *sampling.Source) (*Query, *QueryState, error) {
	if index < 0 || index >= params.NumRecords {
		return nil, nil, ErrIndexOutOfRange
	}
	row, col := params.RowIndex(index)
	state := &QueryState{SecretKey: sk, Row: row, Col: col, Params: params}

	switch variant {
	case Baseline:
		q, err := generateBaselineQuery(params, sk, row, source)
		return q, state, err
	case Seeded:
		q, err := generateSeededQuery(params, sk, row, source)
		return q, state, err
	case Switched:
		q, err := generateSwitchedQuery(params, sk, row, source)
		return q, state, err
	default:
		return nil, nil, fmt.Errorf("pir: unknown query variant %v", variant)
	}
}

func generateBaselineQuery(params PirParams, sk *rlwe.SecretKey, row int, source *sampling.Source) (*Query, error) {
	enc, err := rlwe.NewEncryptor(params.Rlwe, sk)
	if err != nil {
		return nil, err
	}

	cts := make([]*rlwe.Ciphertext, params.D1)
	for i := range cts {
		bit := uint64(0)
		if i == row {
			bit = 1
		}
		cts[i] = enc.EncryptNew(scalarPlaintext(params.Rlwe, bit), source)
	}
	return &Query{Variant: Baseline, RowCiphertexts: cts}, nil
}

func generateSeededQuery(params PirParams, sk *rlwe.SecretKey, row int, source *sampling.Source) (*Query, error) {
	enc, err := rlwe.NewEncryptor(params.Rlwe, sk)
	if err != nil {
		return nil, err
	}

	seed, err := sampling.NewSeed()
	if err != nil {
		return nil, err
	}
	base := sampling.NewSourceFromSeed(seed)
	r := params.Rlwe.Ring()
	uniform, err := ring.NewSampler(r, &ring.Uniform{})
	if err != nil {
		return nil, err
	}

	bs := make([]ring.Poly, params.D1)
	for i := range bs {
		bit := uint64(0)
		if i == row {
			bit = 1
		}
		a := r.NewPoly()
		uniform.Read(base.Fork(fmt.Sprintf("row-%d", i)), a)

		// Encrypt with fresh randomness from source, then move the
		// ciphertext onto the seed-derived a: b += (a_fresh - a)*s gives
		// b = -a*s + e + m with e never derived from the public seed.
		ct := enc.EncryptNew(scalarPlaintext(params.Rlwe, bit), source)
		r.Sub(ct.Value[1], a, ct.Value[1])
		r.MulCoeffsMontgomeryThenAdd(ct.Value[1], sk.Value, ct.Value[0])
		bs[i] = ct.Value[0]
	}
	return &Query{Variant: Seeded, Seed: seed, RowB: bs}, nil
}

func generateSwitchedQuery(params PirParams, sk *rlwe.SecretKey, row int, source *sampling.Source) (*Query, error) {
	enc, err := rlwe.NewEncryptor(params.Rlwe, sk)
	if err != nil {
		return nil, err
	}
	compressed := enc.EncryptNew(monomialPlaintext(params.Rlwe, row, params.LogFanout()), source)

	kg := rlwe.NewKeyGenerator(params.Rlwe)
	galEls := rgsw.GaloisElementsForExpansion(params.Rlwe.N(), params.LogFanout())

	keys := make(map[uint64]*rlwe.GadgetCiphertext, len(galEls))
	for _, galEl := range galEls {
		gk, err := kg.GenGaloisKey(sk, galEl, source)
		if err != nil {
			return nil, err
		}
		keys[galEl] = gk
	}

	return &Query{Variant: Switched, Compressed: compressed, GaloisKeys: keys}, nil
}

// resolveRowCiphertexts turns a wire-form Query back into the D1
// per-row ciphertexts the evaluation loop needs, re-deriving whatever
// the variant compresses away.
func resolveRowCiphertexts(params PirParams, q *Query) ([]*rlwe.Ciphertext, error) {
	switch q.Variant {
	case Baseline:
		if len(q.RowCiphertexts) != params.D1 {
			return nil, ErrMalformedQuery
		}
		return q.RowCiphertexts, nil

	case Seeded:
		if len(q.RowB) != params.D1 {
			return nil, ErrMalformedQuery
		}
		r := params.Rlwe.Ring()
		uniform, err := ring.NewSampler(r, &ring.Uniform{})
		if err != nil {
			return nil, err
		}

		base := sampling.NewSourceFromSeed(q.Seed)
		cts := make([]*rlwe.Ciphertext, params.D1)
		for i := range cts {
			rowSource := base.Fork(fmt.Sprintf("row-%d", i))
			a := r.NewPoly()
			uniform.Read(rowSource, a)
			cts[i] = &rlwe.Ciphertext{
				Value:    [2]ring.Poly{q.RowB[i], a},
				MetaData: &rlwe.MetaData{IsNTT: true, IsMontgomery: true},
			}
		}
		return cts, nil

	case Switched:
		if q.Compressed == nil {
			return nil, ErrMalformedQuery
		}
		expander := rgsw.NewExpander(params.Rlwe, q)
		return expander.Expand(q.Compressed, params.LogFanout())

	default:
		return nil, ErrMalformedQuery
	}
}

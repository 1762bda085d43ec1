package pir

import (
	"runtime"

	"github.com/blocklane/pir/rlwe"
	"github.com/blocklane/pir/utils/concurrency"
)

// RecordSource is what Respond needs from a lane's loaded database: the
// record count and, for each grid row, that row's packed plaintext.
// db.LaneSnapshot implements this; pir itself has no notion of shard
// files or mmap regions (SPEC_FULL §4.3/§4.4 component boundary).
type RecordSource interface {
	NumRecords() int
	RowPlaintext(row int) (*rlwe.Plaintext, error)
}

// Response is the server's answer to a Query: one ciphertext for
// OnePacking, two for InspiRING (SPEC_FULL §4.3).
type Response struct {
	Packing     PackingVariant
	Ciphertexts []*rlwe.Ciphertext
}

// rowPartial holds one worker's accumulation over its row range: "one"
// for OnePacking, "lo"/"hi" for InspiRING.
type rowPartial struct {
	one    *rlwe.Ciphertext
	lo, hi *rlwe.Ciphertext
}

// Respond evaluates q against records, returning a Response packed
// according to packing. It fans the per-row accumulation out across
// goroutines (SPEC_FULL §4.3, §5) and reduces partial sums in a fixed,
// deterministic worker order.
func Respond(params PirParams, records RecordSource, q *Query, packing PackingVariant) (*Response, error) {
	if records.NumRecords() != params.NumRecords {
		return nil, ErrMalformedQuery
	}

	rowCts, err := resolveRowCiphertexts(params, q)
	if err != nil {
		return nil, err
	}
	if len(rowCts) != params.D1 {
		return nil, ErrMalformedQuery
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > params.D1 {
		workers = params.D1
	}
	if workers < 1 {
		workers = 1
	}
	ranges := splitRows(params.D1, workers)
	partials := make([]rowPartial, len(ranges))

	evaluators := make([]*rlwe.Evaluator, len(ranges))
	for i := range evaluators {
		evaluators[i] = rlwe.NewEvaluator(params.Rlwe, nil)
	}
	rm := concurrency.NewRessourceManager(indices(len(ranges)))

	for i, rg := range ranges {
		i, rg := i, rg
		rm.Run(func(workerIdx int) error {
			ev := evaluators[workerIdx]
			p, err := accumulateRange(params, ev, records, rowCts, rg, packing)
			if err != nil {
				return err
			}
			partials[i] = p
			return nil
		})
	}
	if err := rm.Wait(); err != nil {
		return nil, err
	}

	switch packing {
	case OnePacking:
		acc := rlwe.NewCiphertext(params.Rlwe)
		ev := rlwe.NewEvaluator(params.Rlwe, nil)
		for _, p := range partials {
			if p.one == nil {
				continue
			}
			acc = ev.AddNew(acc, p.one)
		}
		return &Response{Packing: OnePacking, Ciphertexts: []*rlwe.Ciphertext{acc}}, nil

	case InspiRING:
		accLo := rlwe.NewCiphertext(params.Rlwe)
		accHi := rlwe.NewCiphertext(params.Rlwe)
		ev := rlwe.NewEvaluator(params.Rlwe, nil)
		for _, p := range partials {
			if p.lo != nil {
				accLo = ev.AddNew(accLo, p.lo)
			}
			if p.hi != nil {
				accHi = ev.AddNew(accHi, p.hi)
			}
		}
		return &Response{Packing: InspiRING, Ciphertexts: []*rlwe.Ciphertext{accLo, accHi}}, nil

	default:
		return nil, ErrMalformedQuery
	}
}

type rowRange struct{ start, end int }

// splitRows partitions [0, d1) into len(workers) contiguous,
// deterministically ordered chunks.
func splitRows(d1, workers int) []rowRange {
	ranges := make([]rowRange, 0, workers)
	chunk := d1 / workers
	rem := d1 % workers
	start := 0
	for i := 0; i < workers; i++ {
		size := chunk
		if i < rem {
			size++
		}
		if size == 0 {
			continue
		}
		ranges = append(ranges, rowRange{start: start, end: start + size})
		start += size
	}
	return ranges
}

func indices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func accumulateRange(params PirParams, ev *rlwe.Evaluator, records RecordSource, rowCts []*rlwe.Ciphertext, rg rowRange, packing PackingVariant) (rowPartial, error) {
	switch packing {
	case OnePacking:
		acc := rlwe.NewCiphertext(params.Rlwe)
		for row := rg.start; row < rg.end; row++ {
			pt, err := records.RowPlaintext(row)
			if err != nil {
				return rowPartial{}, err
			}
			ev.MulPlaintextThenAdd(rowCts[row], pt, acc)
		}
		return rowPartial{one: acc}, nil

	case InspiRING:
		half := params.D2 / 2
		splitAt := half * params.RecordWidthBytes
		accLo := rlwe.NewCiphertext(params.Rlwe)
		accHi := rlwe.NewCiphertext(params.Rlwe)
		for row := rg.start; row < rg.end; row++ {
			pt, err := records.RowPlaintext(row)
			if err != nil {
				return rowPartial{}, err
			}
			ptLo := maskPlaintextHalf(params, pt, 0, splitAt)
			ptHi := maskPlaintextHalf(params, pt, splitAt, params.Rlwe.N())
			ev.MulPlaintextThenAdd(rowCts[row], ptLo, accLo)
			ev.MulPlaintextThenAdd(rowCts[row], ptHi, accHi)
		}
		return rowPartial{lo: accLo, hi: accHi}, nil

	default:
		return rowPartial{}, ErrMalformedQuery
	}
}

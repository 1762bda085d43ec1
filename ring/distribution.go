package ring

import (
	"bufio"
	"encoding"
	"fmt"
	"io"

	"github.com/blocklane/pir/utils/buffer"
)

const (
	discreteGaussianType = 0
	ternaryType          = 1
	uniformType          = 2
	discreteGaussianName = "DiscreteGaussian"
	ternaryDistName      = "Ternary"
	uniformDistName      = "Uniform"
)

// DistributionParameters is an interface for the coefficient
// distributions used to sample RLWE secrets, noise and switched-query
// automorphism randomness (SPEC_FULL §4.1). There are three
// implementations:
//   - DiscreteGaussian, for the error distribution.
//   - Ternary, for the secret key distribution, either by density or
//     by exact Hamming weight.
//   - Uniform, for the public "a" component of a ciphertext.
type DistributionParameters interface {
	Equal(DistributionParameters) bool
	mustBeDist()
	BinarySize() int
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	io.WriterTo
	io.ReaderFrom
}

// DiscreteGaussian is a discretized Gaussian with standard deviation
// Sigma, rejecting samples beyond Bound.
type DiscreteGaussian struct {
	Sigma float64
	Bound float64
}

// Ternary samples coefficients from {-1, 0, 1}. Exactly one of P or H
// should be set: P gives each nonzero value probability P/2, H fixes
// the exact Hamming weight of the sampled polynomial.
type Ternary struct {
	P float64
	H int
}

// Uniform samples coefficients uniformly over [0, q).
type Uniform struct{}

func (d DiscreteGaussian) Equal(other DistributionParameters) bool {
	o, ok := other.(*DiscreteGaussian)
	return ok && d.Sigma == o.Sigma && d.Bound == o.Bound
}

func (d DiscreteGaussian) BinarySize() int { return 17 }

func (d DiscreteGaussian) WriteTo(w io.Writer) (n int64, err error) {
	bw, ok := w.(buffer.Writer)
	if !ok {
		return d.WriteTo(bufio.NewWriter(w))
	}
	var inc int64
	if inc, err = buffer.WriteUint8(bw, discreteGaussianType); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.WriteFloat64(bw, d.Sigma); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.WriteFloat64(bw, d.Bound); err != nil {
		return n + inc, err
	}
	n += inc
	return n, bw.Flush()
}

func (d *DiscreteGaussian) ReadFrom(r io.Reader) (n int64, err error) {
	br, ok := r.(buffer.Reader)
	if !ok {
		return d.ReadFrom(bufio.NewReader(r))
	}
	var inc int64
	var typ uint8
	if inc, err = buffer.ReadUint8(br, &typ); err != nil {
		return n + inc, err
	}
	n += inc
	if typ != discreteGaussianType {
		return n, fmt.Errorf("ring: invalid distribution type: expected %d, got %d", discreteGaussianType, typ)
	}
	if inc, err = buffer.ReadFloat64(br, &d.Sigma); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.ReadFloat64(br, &d.Bound); err != nil {
		return n + inc, err
	}
	n += inc
	return n, nil
}

func (d DiscreteGaussian) MarshalBinary() ([]byte, error) {
	buf := buffer.NewBufferSize(d.BinarySize())
	_, err := d.WriteTo(buf)
	return buf.Bytes(), err
}

func (d *DiscreteGaussian) UnmarshalBinary(p []byte) error {
	_, err := d.ReadFrom(buffer.NewBuffer(p))
	return err
}

func (d DiscreteGaussian) mustBeDist() {}

func (d Ternary) Equal(other DistributionParameters) bool {
	o, ok := other.(*Ternary)
	return ok && d.H == o.H && d.P == o.P
}

func (d Ternary) BinarySize() int { return 17 }

func (d Ternary) WriteTo(w io.Writer) (n int64, err error) {
	bw, ok := w.(buffer.Writer)
	if !ok {
		return d.WriteTo(bufio.NewWriter(w))
	}
	var inc int64
	if inc, err = buffer.WriteUint8(bw, ternaryType); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.WriteAsUint64(bw, d.H); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.WriteFloat64(bw, d.P); err != nil {
		return n + inc, err
	}
	n += inc
	return n, bw.Flush()
}

func (d *Ternary) ReadFrom(r io.Reader) (n int64, err error) {
	br, ok := r.(buffer.Reader)
	if !ok {
		return d.ReadFrom(bufio.NewReader(r))
	}
	var inc int64
	var typ uint8
	if inc, err = buffer.ReadUint8(br, &typ); err != nil {
		return n + inc, err
	}
	n += inc
	if typ != ternaryType {
		return n, fmt.Errorf("ring: invalid distribution type: expected %d, got %d", ternaryType, typ)
	}
	if inc, err = buffer.ReadAsUint64(br, &d.H); err != nil {
		return n + inc, err
	}
	n += inc
	if inc, err = buffer.ReadFloat64(br, &d.P); err != nil {
		return n + inc, err
	}
	n += inc
	return n, nil
}

func (d Ternary) MarshalBinary() ([]byte, error) {
	buf := buffer.NewBufferSize(d.BinarySize())
	_, err := d.WriteTo(buf)
	return buf.Bytes(), err
}

func (d *Ternary) UnmarshalBinary(p []byte) error {
	_, err := d.ReadFrom(buffer.NewBuffer(p))
	return err
}

func (d Ternary) mustBeDist() {}

func (d Uniform) Equal(other DistributionParameters) bool {
	_, ok := other.(*Uniform)
	return ok
}

func (d Uniform) BinarySize() int { return 1 }

func (d Uniform) WriteTo(w io.Writer) (n int64, err error) {
	bw, ok := w.(buffer.Writer)
	if !ok {
		return d.WriteTo(bufio.NewWriter(w))
	}
	n, err = buffer.WriteUint8(bw, uniformType)
	if err != nil {
		return n, err
	}
	return n, bw.Flush()
}

func (d *Uniform) ReadFrom(r io.Reader) (n int64, err error) {
	br, ok := r.(buffer.Reader)
	if !ok {
		return d.ReadFrom(bufio.NewReader(r))
	}
	var typ uint8
	n, err = buffer.ReadUint8(br, &typ)
	if err != nil {
		return n, err
	}
	if typ != uniformType {
		return n, fmt.Errorf("ring: invalid distribution type: expected %d, got %d", uniformType, typ)
	}
	return n, nil
}

func (d Uniform) MarshalBinary() ([]byte, error) {
	buf := buffer.NewBufferSize(d.BinarySize())
	_, err := d.WriteTo(buf)
	return buf.Bytes(), err
}

func (d *Uniform) UnmarshalBinary(p []byte) error {
	_, err := d.ReadFrom(buffer.NewBuffer(p))
	return err
}

func (d Uniform) mustBeDist() {}

// DistributionParametersFromMap builds a DistributionParameters from a
// decoded YAML/JSON map. The config package does not call it; lane
// parameters are read into rlwe.ParametersLiteral instead.
func DistributionParametersFromMap(distDef map[string]interface{}) (DistributionParameters, error) {
	distTypeVal, specified := distDef["Type"]
	if !specified {
		return nil, fmt.Errorf("ring: distribution map has no Type field")
	}
	distTypeStr, isString := distTypeVal.(string)
	if !isString {
		return nil, fmt.Errorf("ring: distribution Type must be a string")
	}
	switch distTypeStr {
	case uniformDistName:
		return &Uniform{}, nil
	case ternaryDistName:
		_, hasP := distDef["P"]
		_, hasH := distDef["H"]
		if hasP == hasH {
			return nil, fmt.Errorf("ring: exactly one of Ternary.P or Ternary.H must be set")
		}
		var p float64
		var h int
		var err error
		if hasP {
			if p, err = getFloatFromMap(distDef, "P"); err != nil {
				return nil, err
			}
		} else {
			if h, err = getIntFromMap(distDef, "H"); err != nil {
				return nil, err
			}
		}
		return &Ternary{P: p, H: h}, nil
	case discreteGaussianName:
		sigma, err := getFloatFromMap(distDef, "Sigma")
		if err != nil {
			return nil, err
		}
		bound, err := getFloatFromMap(distDef, "Bound")
		if err != nil {
			return nil, err
		}
		return &DiscreteGaussian{Sigma: sigma, Bound: bound}, nil
	default:
		return nil, fmt.Errorf("ring: unknown distribution type %q", distTypeStr)
	}
}

func getFloatFromMap(distDef map[string]interface{}, key string) (float64, error) {
	val, ok := distDef[key]
	if !ok {
		return 0, fmt.Errorf("ring: distribution map missing %q", key)
	}
	f, ok := val.(float64)
	if !ok {
		return 0, fmt.Errorf("ring: distribution map field %q must be a number", key)
	}
	return f, nil
}

func getIntFromMap(distDef map[string]interface{}, key string) (int, error) {
	f, err := getFloatFromMap(distDef, key)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

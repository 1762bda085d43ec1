package ring

// Literal is the YAML/JSON-serializable description of a Ring. Neither
// the lane configuration nor the CRS sidecar file embeds it; both carry
// rlwe.ParametersLiteral fields instead. It mirrors the teacher's
// ringParametersLiteral, minus the per-prime slice that RNS required.
type Literal struct {
	LogN    int    `yaml:"log_n" json:"log_n"`
	Modulus uint64 `yaml:"modulus" json:"modulus"`
}

// Ring builds the Ring described by l.
func (l Literal) Ring() (*Ring, error) {
	return NewRing(1<<l.LogN, l.Modulus)
}

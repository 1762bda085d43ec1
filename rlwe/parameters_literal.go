package rlwe

import "github.com/blocklane/pir/ring"

// ParametersLiteral is the YAML/JSON-serializable description of an
// RLWE parameter set, the form a lane's configuration file carries
// (SPEC_FULL §4.4, §9 Open Question 1 resolution: p=65537 as the
// default plaintext modulus). NewParametersFromLiteral turns this into
// a validated Parameters, rejecting any literal whose noise budget
// falls short of the target decryption failure probability.
type ParametersLiteral struct {
	LogN             int                   `yaml:"log_n" json:"log_n"`
	Q                uint64                `yaml:"q" json:"q"`
	PlaintextModulus uint64                `yaml:"plaintext_modulus" json:"plaintext_modulus"`
	Error            ring.DiscreteGaussian `yaml:"error" json:"error"`
	Secret           ring.Ternary          `yaml:"secret" json:"secret"`
	GadgetLog2Basis  int                   `yaml:"gadget_log2_basis" json:"gadget_log2_basis"`
}

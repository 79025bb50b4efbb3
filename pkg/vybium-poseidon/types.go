package vybiumposeidon

import (
	"github.com/vybium/vybium-poseidon/internal/vybium-poseidon/core"
	"github.com/vybium/vybium-poseidon/internal/vybium-poseidon/log"
	"github.com/vybium/vybium-poseidon/internal/vybium-poseidon/utils"
)

// Field represents a prime field
type Field = core.Field

// FieldElement represents an element in a prime field
type FieldElement = core.FieldElement

// Config represents the configuration of a Hasher
type Config = utils.Config

// Parameters is the permutation shape (t, r, RF, RP, α)
type Parameters = core.Parameters

// RoundConstants is indexed [round][position]
type RoundConstants = core.RoundConstants

// MDSMatrix is the t×t linear layer
type MDSMatrix = core.MDSMatrix

// ParameterSource produces round constants and the MDS matrix.
// Implement it to plug in vetted constants.
type ParameterSource = core.ParameterSource

// RoundKind distinguishes full and partial rounds
type RoundKind = core.RoundKind

// RoundObserver is invoked after every permutation round
type RoundObserver = core.RoundObserver

const (
	FullRound    = core.FullRound
	PartialRound = core.PartialRound
)

// Logger is the leveled key-value logger accepted by WithLogger
type Logger = log.Logger

// DefaultConfig returns the reference configuration
func DefaultConfig() *Config {
	return utils.DefaultConfig()
}

// LoadConfig reads a TOML configuration file
func LoadConfig(path string) (*Config, error) {
	return utils.LoadConfig(path)
}

// PlaceholderSource returns the insecure all-ones generator of the reference
func PlaceholderSource() ParameterSource { return core.PlaceholderSource{} }

// GrainSource returns the Grain LFSR constant generator with a Cauchy matrix
func GrainSource() ParameterSource { return core.GrainSource{} }

// XOFSource returns the SHAKE128 constant generator with a Cauchy matrix
func XOFSource() ParameterSource { return core.XOFSource{} }

package core

import (
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/sha3"
)

// xofDomain prefixes the SHAKE128 seed.
const xofDomain = "vybium-poseidon/xof"

// xofElementBytes is read per constant; the excess over the field size keeps
// the modular bias negligible.
const xofElementBytes = 64

// XOFSource expands SHAKE128 over the instance shape into round constants.
// The linear layer is the same Cauchy matrix as GrainSource.
type XOFSource struct{}

// Name implements ParameterSource.
func (XOFSource) Name() string { return "xof" }

// Generate implements ParameterSource.
func (XOFSource) Generate(field *Field, params Parameters) (RoundConstants, MDSMatrix, error) {
	xof := sha3.NewShake128()
	_, _ = xof.Write(xofSeed(field, params))

	buf := make([]byte, xofElementBytes)
	constants := make(RoundConstants, params.TotalRounds())
	for round := range constants {
		constants[round] = make([]*FieldElement, params.Width)
		for i := range constants[round] {
			if _, err := io.ReadFull(xof, buf); err != nil {
				return nil, nil, fmt.Errorf("xof: reading constant [%d][%d]: %w", round, i, err)
			}
			constants[round][i] = field.NewElementFromBytes(buf)
		}
	}

	mds, err := cauchyMatrix(field, params.Width)
	if err != nil {
		return nil, nil, fmt.Errorf("xof: %w", err)
	}
	return constants, mds, nil
}

func xofSeed(field *Field, params Parameters) []byte {
	seed := []byte(xofDomain)
	seed = binary.BigEndian.AppendUint32(seed, uint32(params.Width))
	seed = binary.BigEndian.AppendUint32(seed, uint32(params.RoundsFull))
	seed = binary.BigEndian.AppendUint32(seed, uint32(params.RoundsPartial))
	return append(seed, field.Modulus().Bytes()...)
}

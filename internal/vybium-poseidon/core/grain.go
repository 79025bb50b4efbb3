package core

import (
	"fmt"
	"math/big"
)

// GrainSource derives round constants from the Grain LFSR seeded with the
// instance shape, and uses a Cauchy matrix for the linear layer.
type GrainSource struct{}

// Name implements ParameterSource.
func (GrainSource) Name() string { return "grain" }

// Generate implements ParameterSource.
func (GrainSource) Generate(field *Field, params Parameters) (RoundConstants, MDSMatrix, error) {
	lfsr := NewGrainLFSR(field.Modulus().BitLen(), params)

	constants := make(RoundConstants, params.TotalRounds())
	for round := range constants {
		constants[round] = make([]*FieldElement, params.Width)
		for i := range constants[round] {
			constants[round][i] = lfsr.NextFieldElement(field)
		}
	}

	mds, err := cauchyMatrix(field, params.Width)
	if err != nil {
		return nil, nil, fmt.Errorf("grain: %w", err)
	}
	return constants, mds, nil
}

// GrainLFSR is the 80-bit self-shrinking Grain LFSR used to sample constants.
type GrainLFSR struct {
	state [80]bool
}

// NewGrainLFSR seeds the register with the field size and permutation shape.
func NewGrainLFSR(fieldBits int, params Parameters) *GrainLFSR {
	g := &GrainLFSR{}

	pos := 0
	put := func(value, bits int) {
		for i := bits - 1; i >= 0; i-- {
			g.state[pos] = (value>>i)&1 == 1
			pos++
		}
	}

	put(1, 2) // prime field
	put(0, 4) // x^alpha s-box
	put(fieldBits, 12)
	put(params.Width, 12)
	put(params.RoundsFull, 10)
	put(params.RoundsPartial, 10)
	for pos < len(g.state) {
		g.state[pos] = true
		pos++
	}

	for i := 0; i < 160; i++ {
		g.update()
	}
	return g
}

// update shifts in b[i+80] = b[i+62] ^ b[i+51] ^ b[i+38] ^ b[i+23] ^ b[i+13] ^ b[i]
// and returns the new bit.
func (g *GrainLFSR) update() bool {
	newBit := g.state[62] != g.state[51] != g.state[38] != g.state[23] != g.state[13] != g.state[0]

	copy(g.state[:79], g.state[1:])
	g.state[79] = newBit
	return newBit
}

// sampleBit returns the next output bit. Bits come in pairs and the second
// is kept only when the first is set.
func (g *GrainLFSR) sampleBit() bool {
	for {
		first := g.update()
		second := g.update()
		if first {
			return second
		}
	}
}

// NextFieldElement samples bits MSB first and rejects values >= p.
func (g *GrainLFSR) NextFieldElement(field *Field) *FieldElement {
	modulus := field.Modulus()
	bits := modulus.BitLen()

	for {
		value := new(big.Int)
		for i := 0; i < bits; i++ {
			value.Lsh(value, 1)
			if g.sampleBit() {
				value.SetBit(value, 0, 1)
			}
		}
		if value.Cmp(modulus) < 0 {
			return field.NewElement(value)
		}
	}
}

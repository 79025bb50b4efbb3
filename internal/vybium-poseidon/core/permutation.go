package core

import (
	"fmt"
	"math/big"
)

// RoundKind distinguishes full rounds from partial rounds.
type RoundKind int

const (
	// FullRound applies the S-box to every state element
	FullRound RoundKind = iota
	// PartialRound applies the S-box to the first state element only
	PartialRound
)

func (k RoundKind) String() string {
	switch k {
	case FullRound:
		return "full"
	case PartialRound:
		return "partial"
	default:
		return fmt.Sprintf("RoundKind(%d)", int(k))
	}
}

// RoundObserver is called after each round with the round index, its kind
// and the resulting state. The state must not be modified.
type RoundObserver func(round int, kind RoundKind, state []*FieldElement)

// Permutation is the Poseidon permutation over a fixed field and parameter set.
// It is immutable after construction and safe for concurrent use.
type Permutation struct {
	field  *Field
	params Parameters
	alpha  *big.Int

	roundConstants RoundConstants
	mdsMatrix      MDSMatrix

	observer RoundObserver
}

// PermutationOption configures optional behaviour of a Permutation.
type PermutationOption func(*Permutation)

// WithRoundObserver installs a hook invoked after every round.
func WithRoundObserver(observer RoundObserver) PermutationOption {
	return func(p *Permutation) {
		p.observer = observer
	}
}

// NewPermutation validates the parameters and tables and builds a permutation.
// The tables are copied.
func NewPermutation(field *Field, params Parameters, constants RoundConstants, mds MDSMatrix, opts ...PermutationOption) (*Permutation, error) {
	if field == nil {
		return nil, fmt.Errorf("%w: field is nil", ErrInvalidParameters)
	}
	resolved, err := params.resolve(field)
	if err != nil {
		return nil, err
	}
	if err := ValidateTables(resolved, constants, mds); err != nil {
		return nil, err
	}

	p := &Permutation{
		field:          field,
		params:         resolved,
		alpha:          big.NewInt(int64(resolved.SboxPower)),
		roundConstants: copyTable(field, constants),
		mdsMatrix:      MDSMatrix(copyTable(field, mds)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Field returns the field the permutation operates over
func (p *Permutation) Field() *Field {
	return p.field
}

// Parameters returns the resolved parameter set
func (p *Permutation) Parameters() Parameters {
	return p.params
}

// Width returns t
func (p *Permutation) Width() int {
	return p.params.Width
}

// Rounds returns RF + RP
func (p *Permutation) Rounds() int {
	return p.params.TotalRounds()
}

// RoundConstants returns a copy of the round constants
func (p *Permutation) RoundConstants() RoundConstants {
	return copyTable(p.field, p.roundConstants)
}

// MDSMatrix returns a copy of the linear layer
func (p *Permutation) MDSMatrix() MDSMatrix {
	return MDSMatrix(copyTable(p.field, p.mdsMatrix))
}

// Permute applies RF/2 full rounds, RP partial rounds and RF/2 full rounds
// and returns the new state. The input slice is not modified.
// It panics if the state does not have exactly t elements.
func (p *Permutation) Permute(state []*FieldElement) []*FieldElement {
	if len(state) != p.params.Width {
		panic(fmt.Sprintf("poseidon: state has %d elements, want %d", len(state), p.params.Width))
	}

	current := make([]*FieldElement, len(state))
	for i, s := range state {
		current[i] = p.field.NewElement(s.value)
	}

	halfFull := p.params.RoundsFull / 2
	partialEnd := halfFull + p.params.RoundsPartial

	for round := 0; round < p.params.TotalRounds(); round++ {
		kind := FullRound
		if round >= halfFull && round < partialEnd {
			kind = PartialRound
		}
		current = p.round(current, round, kind)
		if p.observer != nil {
			p.observer(round, kind, current)
		}
	}

	return current
}

// round adds the round constants, applies the S-box layer and mixes.
func (p *Permutation) round(state []*FieldElement, round int, kind RoundKind) []*FieldElement {
	for i := range state {
		state[i] = state[i].Add(p.roundConstants[round][i])
	}

	if kind == FullRound {
		for i := range state {
			state[i] = p.sbox(state[i])
		}
	} else {
		state[0] = p.sbox(state[0])
	}

	return p.applyMDSMatrix(state)
}

// sbox applies the S-box transformation x^α
func (p *Permutation) sbox(x *FieldElement) *FieldElement {
	return x.Exp(p.alpha)
}

// applyMDSMatrix computes M·state into a fresh vector.
func (p *Permutation) applyMDSMatrix(state []*FieldElement) []*FieldElement {
	modulus := p.field.modulus
	newState := make([]*FieldElement, len(state))

	sum := new(big.Int)
	term := new(big.Int)
	for i, row := range p.mdsMatrix {
		sum.SetInt64(0)
		for j, m := range row {
			term.Mul(m.value, state[j].value)
			sum.Add(sum, term)
		}
		newState[i] = &FieldElement{field: p.field, value: new(big.Int).Mod(sum, modulus)}
	}

	return newState
}

func copyTable(field *Field, table [][]*FieldElement) [][]*FieldElement {
	out := make([][]*FieldElement, len(table))
	for i, row := range table {
		out[i] = make([]*FieldElement, len(row))
		for j, v := range row {
			out[i][j] = field.NewElement(v.value)
		}
	}
	return out
}

package core

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// ErrInvalidParameters is returned when a permutation or sponge is configured
// with inconsistent dimensions or tables.
var ErrInvalidParameters = errors.New("invalid poseidon parameters")

// Parameters holds the fixed shape of a Poseidon instance.
type Parameters struct {
	Width         int // t: Width of the permutation
	Rate          int // r: Elements absorbed/squeezed per permutation
	RoundsFull    int // RF: Full rounds, split evenly around the partial rounds
	RoundsPartial int // RP: Partial rounds
	SboxPower     int // α: S-box exponent, 0 derives the smallest valid one
}

// ReferenceParameters returns t=3, r=2, RF=8, RP=56 with x^7.
func ReferenceParameters() Parameters {
	return Parameters{
		Width:         3,
		Rate:          2,
		RoundsFull:    8,
		RoundsPartial: 56,
		SboxPower:     7,
	}
}

// Capacity returns t - r.
func (p Parameters) Capacity() int {
	return p.Width - p.Rate
}

// TotalRounds returns RF + RP.
func (p Parameters) TotalRounds() int {
	return p.RoundsFull + p.RoundsPartial
}

// Validate checks the shape of the parameter set. Every violation is reported.
func (p Parameters) Validate() error {
	var result *multierror.Error
	if p.Width < 2 {
		result = multierror.Append(result, fmt.Errorf("width must be at least 2, got %d", p.Width))
	}
	if p.Rate < 1 {
		result = multierror.Append(result, fmt.Errorf("rate must be positive, got %d", p.Rate))
	}
	if p.Rate >= p.Width {
		result = multierror.Append(result, fmt.Errorf("rate (%d) must be less than width (%d)", p.Rate, p.Width))
	}
	if p.RoundsFull < 0 || p.RoundsFull%2 != 0 {
		result = multierror.Append(result, fmt.Errorf("full rounds must be even and non-negative, got %d", p.RoundsFull))
	}
	if p.RoundsPartial < 0 {
		result = multierror.Append(result, fmt.Errorf("partial rounds must be non-negative, got %d", p.RoundsPartial))
	}
	if p.SboxPower < 0 {
		result = multierror.Append(result, fmt.Errorf("sbox power must be non-negative, got %d", p.SboxPower))
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	return nil
}

// resolve fills in a derived S-box exponent and checks it against the field.
func (p Parameters) resolve(field *Field) (Parameters, error) {
	if err := p.Validate(); err != nil {
		return p, err
	}
	if p.SboxPower == 0 {
		p.SboxPower = field.SmallestSBoxExponent()
	}
	if !field.IsValidSBoxExponent(p.SboxPower) {
		return p, fmt.Errorf("%w: sbox power %d is not coprime with p-1", ErrInvalidParameters, p.SboxPower)
	}
	return p, nil
}

// RoundConstants is indexed [round][position].
type RoundConstants [][]*FieldElement

// MDSMatrix is a t×t matrix applied as the linear layer.
type MDSMatrix [][]*FieldElement

// ValidateTables checks that constants are [RF+RP][t] and the matrix is [t][t].
func ValidateTables(params Parameters, constants RoundConstants, mds MDSMatrix) error {
	var result *multierror.Error
	if len(constants) != params.TotalRounds() {
		result = multierror.Append(result, fmt.Errorf("round constants have %d rows, want %d", len(constants), params.TotalRounds()))
	}
	for round, row := range constants {
		if len(row) != params.Width {
			result = multierror.Append(result, fmt.Errorf("round constants row %d has %d entries, want %d", round, len(row), params.Width))
		}
		for i, c := range row {
			if c == nil {
				result = multierror.Append(result, fmt.Errorf("round constant [%d][%d] is nil", round, i))
			}
		}
	}
	if len(mds) != params.Width {
		result = multierror.Append(result, fmt.Errorf("mds matrix has %d rows, want %d", len(mds), params.Width))
	}
	for i, row := range mds {
		if len(row) != params.Width {
			result = multierror.Append(result, fmt.Errorf("mds row %d has %d entries, want %d", i, len(row), params.Width))
		}
		for j, m := range row {
			if m == nil {
				result = multierror.Append(result, fmt.Errorf("mds entry [%d][%d] is nil", i, j))
			}
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	return nil
}

// ParameterSource produces the round constants and MDS matrix for a given
// field and shape. Implementations must be deterministic.
type ParameterSource interface {
	Name() string
	Generate(field *Field, params Parameters) (RoundConstants, MDSMatrix, error)
}

// PlaceholderSource fills every constant and matrix entry with one.
//
// It reproduces the reference generator and is cryptographically broken:
// an all-ones matrix is singular and the rounds are indistinguishable.
type PlaceholderSource struct{}

// Name implements ParameterSource.
func (PlaceholderSource) Name() string { return "placeholder" }

// Generate implements ParameterSource.
func (PlaceholderSource) Generate(field *Field, params Parameters) (RoundConstants, MDSMatrix, error) {
	constants := make(RoundConstants, params.TotalRounds())
	for round := range constants {
		constants[round] = make([]*FieldElement, params.Width)
		for i := range constants[round] {
			constants[round][i] = field.One()
		}
	}

	mds := make(MDSMatrix, params.Width)
	for i := range mds {
		mds[i] = make([]*FieldElement, params.Width)
		for j := range mds[i] {
			mds[i][j] = field.One()
		}
	}
	return constants, mds, nil
}

// SourceByName returns the parameter source registered under name.
func SourceByName(name string) (ParameterSource, error) {
	switch name {
	case "", "placeholder":
		return PlaceholderSource{}, nil
	case "grain":
		return GrainSource{}, nil
	case "xof":
		return XOFSource{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown parameter source %q", ErrInvalidParameters, name)
	}
}

// cauchyMatrix builds M[i][j] = 1/(x_i + y_j) with x_i = i+1, y_j = j+t+1.
// Distinct x and y values make every square submatrix invertible.
func cauchyMatrix(field *Field, width int) (MDSMatrix, error) {
	matrix := make(MDSMatrix, width)

	for i := 0; i < width; i++ {
		matrix[i] = make([]*FieldElement, width)
		for j := 0; j < width; j++ {
			x := field.NewElementFromInt64(int64(i + 1))
			y := field.NewElementFromInt64(int64(j + width + 1))

			inv, err := x.Add(y).Inv()
			if err != nil {
				return nil, fmt.Errorf("failed to compute inverse for MDS matrix: %w", err)
			}
			matrix[i][j] = inv
		}
	}

	return matrix, nil
}

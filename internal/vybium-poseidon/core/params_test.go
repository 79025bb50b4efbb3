package core

import (
	"errors"
	"math/big"
	"testing"
)

// TestParametersValidate tests shape validation
func TestParametersValidate(t *testing.T) {
	tests := []struct {
		name      string
		params    Parameters
		expectErr bool
	}{
		{"reference", ReferenceParameters(), false},
		{"derived alpha", Parameters{Width: 5, Rate: 4, RoundsFull: 8, RoundsPartial: 60}, false},
		{"no partial rounds", Parameters{Width: 3, Rate: 2, RoundsFull: 8}, false},
		{"odd full rounds", Parameters{Width: 3, Rate: 2, RoundsFull: 7, RoundsPartial: 56, SboxPower: 7}, true},
		{"negative partial rounds", Parameters{Width: 3, Rate: 2, RoundsFull: 8, RoundsPartial: -1, SboxPower: 7}, true},
		{"zero rate", Parameters{Width: 3, Rate: 0, RoundsFull: 8, RoundsPartial: 56, SboxPower: 7}, true},
		{"width one", Parameters{Width: 1, Rate: 0, RoundsFull: 8, RoundsPartial: 56, SboxPower: 7}, true},
		{"negative sbox", Parameters{Width: 3, Rate: 2, RoundsFull: 8, RoundsPartial: 56, SboxPower: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.expectErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
			if err != nil && !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("Expected ErrInvalidParameters, got %v", err)
			}
		})
	}
}

// TestParametersRejectRateAtLeastWidth checks every r >= t is rejected
func TestParametersRejectRateAtLeastWidth(t *testing.T) {
	for width := 2; width <= 6; width++ {
		for rate := width; rate <= width+2; rate++ {
			p := Parameters{Width: width, Rate: rate, RoundsFull: 8, RoundsPartial: 56, SboxPower: 7}
			if err := p.Validate(); !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("t=%d r=%d: expected ErrInvalidParameters, got %v", width, rate, err)
			}
		}
	}
}

// TestParametersResolve tests S-box derivation and rejection
func TestParametersResolve(t *testing.T) {
	f := mustField(t, blsModulus())

	p := ReferenceParameters()
	p.SboxPower = 0
	resolved, err := p.resolve(f)
	if err != nil {
		t.Fatalf("resolve() failed: %v", err)
	}
	if resolved.SboxPower != 5 {
		t.Errorf("derived SboxPower = %d, want 5", resolved.SboxPower)
	}

	p.SboxPower = 3
	if _, err := p.resolve(f); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("alpha 3 should be rejected for BLS12-381 fr, got %v", err)
	}
}

// TestValidateTables tests table dimension checks
func TestValidateTables(t *testing.T) {
	f := mustField(t, big.NewInt(101))
	params := Parameters{Width: 3, Rate: 2, RoundsFull: 2, RoundsPartial: 1, SboxPower: 3}

	constants, mds, err := PlaceholderSource{}.Generate(f, params)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if err := ValidateTables(params, constants, mds); err != nil {
		t.Fatalf("ValidateTables() on generated tables: %v", err)
	}

	tests := []struct {
		name      string
		constants RoundConstants
		mds       MDSMatrix
	}{
		{"missing round", constants[:2], mds},
		{"short row", RoundConstants{constants[0], constants[1], constants[2][:2]}, mds},
		{"nil constant", RoundConstants{constants[0], constants[1], {f.One(), nil, f.One()}}, mds},
		{"short matrix", constants, mds[:2]},
		{"ragged matrix", constants, MDSMatrix{mds[0], mds[1], mds[2][:1]}},
		{"nil matrix entry", constants, MDSMatrix{mds[0], mds[1], {nil, f.One(), f.One()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateTables(params, tt.constants, tt.mds); !errors.Is(err, ErrInvalidParameters) {
				t.Errorf("Expected ErrInvalidParameters, got %v", err)
			}
		})
	}
}

// TestParameterSources tests shape, range and determinism of every source
func TestParameterSources(t *testing.T) {
	f := mustField(t, blsModulus())
	params := ReferenceParameters()

	for _, name := range []string{"placeholder", "grain", "xof"} {
		t.Run(name, func(t *testing.T) {
			source, err := SourceByName(name)
			if err != nil {
				t.Fatalf("SourceByName(%q) failed: %v", name, err)
			}
			if source.Name() != name {
				t.Errorf("Name() = %q, want %q", source.Name(), name)
			}

			constants, mds, err := source.Generate(f, params)
			if err != nil {
				t.Fatalf("Generate() failed: %v", err)
			}
			if err := ValidateTables(params, constants, mds); err != nil {
				t.Fatalf("generated tables are malformed: %v", err)
			}
			for _, row := range append(constants, mds...) {
				for _, v := range row {
					if v.Big().Sign() < 0 || v.Big().Cmp(f.Modulus()) >= 0 {
						t.Fatalf("value %v out of range", v)
					}
				}
			}

			again, mdsAgain, err := source.Generate(f, params)
			if err != nil {
				t.Fatalf("second Generate() failed: %v", err)
			}
			for r := range constants {
				for i := range constants[r] {
					if !constants[r][i].Equal(again[r][i]) {
						t.Fatalf("constant [%d][%d] is not deterministic", r, i)
					}
				}
			}
			for i := range mds {
				for j := range mds[i] {
					if !mds[i][j].Equal(mdsAgain[i][j]) {
						t.Fatalf("mds [%d][%d] is not deterministic", i, j)
					}
				}
			}
		})
	}

	if _, err := SourceByName("nope"); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("unknown source should fail with ErrInvalidParameters, got %v", err)
	}
}

// TestXOFSourceConstants pins the first and last SHAKE128 constants
func TestXOFSourceConstants(t *testing.T) {
	f := mustField(t, blsModulus())
	constants, _, err := XOFSource{}.Generate(f, ReferenceParameters())
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	first := "41416394971123692987254214307261069459647423505214437745030813139443837037673"
	last := "37441911858230812749000432258976062062463434788707302705838427930455569824893"
	if got := constants[0][0].String(); got != first {
		t.Errorf("constants[0][0] = %s, want %s", got, first)
	}
	if got := constants[63][2].String(); got != last {
		t.Errorf("constants[63][2] = %s, want %s", got, last)
	}
}

// TestGrainSourceDependsOnShape ensures the LFSR seed covers the parameters
func TestGrainSourceDependsOnShape(t *testing.T) {
	f := mustField(t, blsModulus())

	a, _, err := GrainSource{}.Generate(f, ReferenceParameters())
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	other := ReferenceParameters()
	other.RoundsPartial = 57
	b, _, err := GrainSource{}.Generate(f, other)
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if a[0][0].Equal(b[0][0]) && a[0][1].Equal(b[0][1]) {
		t.Error("Grain constants should change with the partial round count")
	}

	seen := map[string]bool{}
	for _, row := range a {
		for _, c := range row {
			seen[c.String()] = true
		}
	}
	if len(seen) < len(a)*len(a[0])-1 {
		t.Errorf("Grain constants repeat: %d distinct of %d", len(seen), len(a)*len(a[0]))
	}
}

// TestCauchyMatrixInvertible checks the 3x3 Cauchy matrix has a nonzero determinant
func TestCauchyMatrixInvertible(t *testing.T) {
	f := mustField(t, blsModulus())
	m, err := cauchyMatrix(f, 3)
	if err != nil {
		t.Fatalf("cauchyMatrix() failed: %v", err)
	}

	minor := func(a, b, c, d *FieldElement) *FieldElement {
		return a.Mul(d).Sub(b.Mul(c))
	}
	det := m[0][0].Mul(minor(m[1][1], m[1][2], m[2][1], m[2][2])).
		Sub(m[0][1].Mul(minor(m[1][0], m[1][2], m[2][0], m[2][2]))).
		Add(m[0][2].Mul(minor(m[1][0], m[1][1], m[2][0], m[2][1])))
	if det.IsZero() {
		t.Error("Cauchy matrix is singular")
	}

	// 1/(1 + 4) at [0][0]
	five := f.NewElementFromInt64(5)
	if !m[0][0].Mul(five).IsOne() {
		t.Errorf("m[0][0] = %v, want 1/5", m[0][0])
	}
}

package utils

import (
	"testing"

	"github.com/vybium/vybium-poseidon/internal/vybium-poseidon/core"
)

// TestParseModulus tests decimal and hexadecimal parsing
func TestParseModulus(t *testing.T) {
	tests := []struct {
		input     string
		want      string
		expectErr bool
	}{
		{"101", "101", false},
		{" 101 ", "101", false},
		{"0x65", "101", false},
		{"0X65", "101", false},
		{"73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001",
			"52435875175126190479447740508185965837690552500527637822603658699938581184513", false},
		{"", "", true},
		{"0x", "", true},
		{"0xzz", "", true},
		{"hello", "", true},
		{"-5", "", true},
		{"0x-5", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseModulus(tt.input)
			if tt.expectErr {
				if err == nil {
					t.Errorf("ParseModulus(%q) should fail", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseModulus(%q) failed: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseModulus(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

// TestParseElements tests parsing and reduction of state values
func TestParseElements(t *testing.T) {
	field, err := core.NewFieldFromUint64(101)
	if err != nil {
		t.Fatal(err)
	}

	got, err := ParseElements(field, []string{"0", "0x10", "205"})
	if err != nil {
		t.Fatalf("ParseElements() failed: %v", err)
	}
	want := []uint64{0, 16, 3}
	for i, w := range want {
		if !got[i].Equal(field.NewElementFromUint64(w)) {
			t.Errorf("element %d = %s, want %d", i, got[i], w)
		}
	}

	if _, err := ParseElements(field, []string{"1", "nope"}); err == nil {
		t.Error("ParseElements() should reject garbage")
	}
	if _, err := ParseElements(field, []string{"-1"}); err == nil {
		t.Error("ParseElements() should reject negative values")
	}
}

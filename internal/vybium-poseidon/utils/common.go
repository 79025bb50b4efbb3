package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/vybium/vybium-poseidon/internal/vybium-poseidon/core"
)

// ParseModulus parses a modulus written in decimal or hexadecimal.
// Hex may carry a 0x prefix; unprefixed strings are tried as decimal first.
func ParseModulus(s string) (*big.Int, error) {
	return parseInteger("modulus", s)
}

// ParseElements parses one field element per value. Values follow the
// ParseModulus syntax, must be non-negative, and are reduced modulo p.
func ParseElements(field *core.Field, values []string) ([]*core.FieldElement, error) {
	elements := make([]*core.FieldElement, len(values))
	for i, v := range values {
		n, err := parseInteger("element", v)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		elements[i] = field.NewElement(n)
	}
	return elements, nil
}

func parseInteger(kind, s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty %s", kind)
	}

	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") {
		if m, ok := new(big.Int).SetString(lower[2:], 16); ok && m.Sign() >= 0 {
			return m, nil
		}
		return nil, fmt.Errorf("invalid hex %s %q", kind, s)
	}
	if m, ok := new(big.Int).SetString(s, 10); ok && m.Sign() >= 0 {
		return m, nil
	}
	if m, ok := new(big.Int).SetString(lower, 16); ok && m.Sign() >= 0 {
		return m, nil
	}
	return nil, fmt.Errorf("invalid %s %q", kind, s)
}

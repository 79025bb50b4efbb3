package core

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// ErrInvalidModulus is returned when a modulus cannot define a prime field
var ErrInvalidModulus = errors.New("invalid field modulus")

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// Field represents a prime field with modular arithmetic operations
type Field struct {
	modulus *big.Int
}

// FieldElement represents an element in the finite field.
// The value is always kept in [0, p).
type FieldElement struct {
	field *Field
	value *big.Int
}

// NewField creates a new prime field with the given modulus.
// The modulus must be an odd prime.
func NewField(modulus *big.Int) (*Field, error) {
	if modulus == nil {
		return nil, fmt.Errorf("%w: modulus is nil", ErrInvalidModulus)
	}
	if modulus.Cmp(bigTwo) <= 0 {
		return nil, fmt.Errorf("%w: modulus must be greater than 2, got %s", ErrInvalidModulus, modulus)
	}
	if modulus.Bit(0) == 0 {
		return nil, fmt.Errorf("%w: modulus must be odd, got %s", ErrInvalidModulus, modulus)
	}
	if !modulus.ProbablyPrime(20) {
		return nil, fmt.Errorf("%w: modulus is not prime", ErrInvalidModulus)
	}
	return &Field{modulus: new(big.Int).Set(modulus)}, nil
}

// NewFieldFromUint64 creates a new prime field with the given modulus
func NewFieldFromUint64(modulus uint64) (*Field, error) {
	return NewField(new(big.Int).SetUint64(modulus))
}

// Modulus returns the field modulus
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.modulus)
}

// ByteLen returns the number of bytes needed to hold any canonical element.
func (f *Field) ByteLen() int {
	return (f.modulus.BitLen() + 7) / 8
}

// NewElement creates a new field element from a big.Int
func (f *Field) NewElement(value *big.Int) *FieldElement {
	normalized := new(big.Int).Mod(value, f.modulus)
	return &FieldElement{
		field: f,
		value: normalized,
	}
}

// NewElementFromInt64 creates a new field element from an int64
func (f *Field) NewElementFromInt64(value int64) *FieldElement {
	return f.NewElement(big.NewInt(value))
}

// NewElementFromUint64 creates a new field element from a uint64
func (f *Field) NewElementFromUint64(value uint64) *FieldElement {
	return f.NewElement(new(big.Int).SetUint64(value))
}

// NewElementFromBytes interprets b as a big-endian unsigned integer and reduces it.
func (f *Field) NewElementFromBytes(b []byte) *FieldElement {
	return f.NewElement(new(big.Int).SetBytes(b))
}

// RandomElement generates a random field element
func (f *Field) RandomElement() (*FieldElement, error) {
	value, err := rand.Int(rand.Reader, f.modulus)
	if err != nil {
		return nil, fmt.Errorf("failed to generate random element: %w", err)
	}
	return f.NewElement(value), nil
}

// Zero returns the additive identity
func (f *Field) Zero() *FieldElement {
	return &FieldElement{field: f, value: new(big.Int)}
}

// One returns the multiplicative identity
func (f *Field) One() *FieldElement {
	return &FieldElement{field: f, value: big.NewInt(1)}
}

// ZeroVector returns n zero elements.
func (f *Field) ZeroVector(n int) []*FieldElement {
	v := make([]*FieldElement, n)
	for i := range v {
		v[i] = f.Zero()
	}
	return v
}

// Equals reports whether both fields share the same modulus
func (f *Field) Equals(other *Field) bool {
	return f.modulus.Cmp(other.modulus) == 0
}

// SmallestSBoxExponent returns the smallest integer alpha > 1 with
// gcd(alpha, p-1) = 1, which makes x -> x^alpha a bijection on the field.
func (f *Field) SmallestSBoxExponent() int {
	pMinusOne := new(big.Int).Sub(f.modulus, bigOne)
	gcd := new(big.Int)
	for alpha := int64(2); ; alpha++ {
		if gcd.GCD(nil, nil, big.NewInt(alpha), pMinusOne).Cmp(bigOne) == 0 {
			return int(alpha)
		}
	}
}

// IsValidSBoxExponent reports whether x -> x^alpha permutes the field.
func (f *Field) IsValidSBoxExponent(alpha int) bool {
	if alpha < 2 {
		return false
	}
	pMinusOne := new(big.Int).Sub(f.modulus, bigOne)
	gcd := new(big.Int).GCD(nil, nil, big.NewInt(int64(alpha)), pMinusOne)
	return gcd.Cmp(bigOne) == 0
}

// Big returns the value as a big.Int
func (fe *FieldElement) Big() *big.Int {
	return new(big.Int).Set(fe.value)
}

// Field returns the field this element belongs to
func (fe *FieldElement) Field() *Field {
	return fe.field
}

// Add performs field addition
func (fe *FieldElement) Add(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("cannot add elements from different fields")
	}
	result := new(big.Int).Add(fe.value, other.value)
	return fe.field.NewElement(result)
}

// Sub performs field subtraction
func (fe *FieldElement) Sub(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("cannot subtract elements from different fields")
	}
	result := new(big.Int).Sub(fe.value, other.value)
	return fe.field.NewElement(result)
}

// Neg returns the additive inverse of the field element
func (fe *FieldElement) Neg() *FieldElement {
	result := new(big.Int).Neg(fe.value)
	return fe.field.NewElement(result)
}

// Mul performs field multiplication
func (fe *FieldElement) Mul(other *FieldElement) *FieldElement {
	if !fe.field.Equals(other.field) {
		panic("cannot multiply elements from different fields")
	}
	result := new(big.Int).Mul(fe.value, other.value)
	return fe.field.NewElement(result)
}

// Inv computes the multiplicative inverse
func (fe *FieldElement) Inv() (*FieldElement, error) {
	if fe.value.Sign() == 0 {
		return nil, fmt.Errorf("cannot compute inverse of zero")
	}
	inv := new(big.Int).ModInverse(fe.value, fe.field.modulus)
	if inv == nil {
		return nil, fmt.Errorf("inverse does not exist")
	}
	return fe.field.NewElement(inv), nil
}

// Exp performs field exponentiation
func (fe *FieldElement) Exp(exponent *big.Int) *FieldElement {
	result := new(big.Int).Exp(fe.value, exponent, fe.field.modulus)
	return fe.field.NewElement(result)
}

// Xor combines the element with a raw unsigned integer bitwise, then reduces.
// raw is not required to be below the modulus.
func (fe *FieldElement) Xor(raw *big.Int) *FieldElement {
	result := new(big.Int).Xor(fe.value, raw)
	return fe.field.NewElement(result)
}

// Equal checks if two field elements are equal
func (fe *FieldElement) Equal(other *FieldElement) bool {
	if !fe.field.Equals(other.field) {
		return false
	}
	return fe.value.Cmp(other.value) == 0
}

// IsZero checks if the element is zero
func (fe *FieldElement) IsZero() bool {
	return fe.value.Sign() == 0
}

// IsOne checks if the element is one
func (fe *FieldElement) IsOne() bool {
	return fe.value.Cmp(bigOne) == 0
}

// String returns a string representation of the field element
func (fe *FieldElement) String() string {
	return fe.value.String()
}

// Bytes returns the minimal big-endian encoding of the element.
// Zero encodes as a single 0x00 byte rather than an empty slice.
func (fe *FieldElement) Bytes() []byte {
	if fe.value.Sign() == 0 {
		return []byte{0}
	}
	return fe.value.Bytes()
}

// FixedBytes returns the big-endian encoding left-padded to size bytes.
func (fe *FieldElement) FixedBytes(size int) []byte {
	out := make([]byte, size)
	return fe.value.FillBytes(out)
}

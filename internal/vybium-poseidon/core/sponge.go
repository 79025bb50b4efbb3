package core

import (
	"encoding/hex"
	"fmt"
	"math/big"
)

// ChunkSize is the number of message bytes mapped onto one rate slot.
const ChunkSize = 32

// AbsorbMode selects how a message chunk is combined with a rate slot.
type AbsorbMode int

const (
	// AbsorbXOR XORs the raw chunk integer into the slot and then reduces.
	// This is bit-compatible with the reference digests.
	AbsorbXOR AbsorbMode = iota
	// AbsorbAdd adds the chunk to the slot modulo p.
	AbsorbAdd
)

// Encoding selects how rate slots are serialised during squeezing.
type Encoding int

const (
	// EncodingVariable emits the minimal big-endian bytes of each slot, so the
	// number of bytes per squeeze depends on the state.
	EncodingVariable Encoding = iota
	// EncodingFixed emits every slot as Field.ByteLen() bytes.
	EncodingFixed
)

// Padding selects the domain separation applied before absorbing.
type Padding int

const (
	// PaddingNone absorbs the message as is. Messages whose chunks decode to
	// the same integers collide, e.g. "\x00a" and "a".
	PaddingNone Padding = iota
	// PaddingLength seeds the first capacity slot with the message length.
	PaddingLength
)

// SpongeConfig collects the sponge parameters that sit on top of the permutation.
type SpongeConfig struct {
	OutputLength int
	Absorb       AbsorbMode
	Encoding     Encoding
	Padding      Padding
}

// Sponge hashes byte strings with a Poseidon permutation.
// A Sponge holds no per-call state and is safe for concurrent use.
type Sponge struct {
	perm   *Permutation
	config SpongeConfig
}

// NewSponge builds the permutation tables from source and wraps them in a sponge.
func NewSponge(field *Field, params Parameters, source ParameterSource, config SpongeConfig, opts ...PermutationOption) (*Sponge, error) {
	if field == nil {
		return nil, fmt.Errorf("%w: field is nil", ErrInvalidParameters)
	}
	if source == nil {
		return nil, fmt.Errorf("%w: parameter source is nil", ErrInvalidParameters)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	constants, mds, err := source.Generate(field, params)
	if err != nil {
		return nil, fmt.Errorf("generating %s parameters: %w", source.Name(), err)
	}

	perm, err := NewPermutation(field, params, constants, mds, opts...)
	if err != nil {
		return nil, err
	}
	return NewSpongeFromPermutation(perm, config)
}

// NewSpongeFromPermutation wraps an existing permutation.
func NewSpongeFromPermutation(perm *Permutation, config SpongeConfig) (*Sponge, error) {
	if perm == nil {
		return nil, fmt.Errorf("%w: permutation is nil", ErrInvalidParameters)
	}
	if config.OutputLength <= 0 {
		return nil, fmt.Errorf("%w: output length must be positive, got %d", ErrInvalidParameters, config.OutputLength)
	}
	switch config.Absorb {
	case AbsorbXOR, AbsorbAdd:
	default:
		return nil, fmt.Errorf("%w: unknown absorb mode %d", ErrInvalidParameters, config.Absorb)
	}
	switch config.Encoding {
	case EncodingVariable, EncodingFixed:
	default:
		return nil, fmt.Errorf("%w: unknown encoding %d", ErrInvalidParameters, config.Encoding)
	}
	switch config.Padding {
	case PaddingNone, PaddingLength:
	default:
		return nil, fmt.Errorf("%w: unknown padding %d", ErrInvalidParameters, config.Padding)
	}
	return &Sponge{perm: perm, config: config}, nil
}

// Permutation returns the underlying permutation
func (s *Sponge) Permutation() *Permutation {
	return s.perm
}

// Config returns the sponge configuration
func (s *Sponge) Config() SpongeConfig {
	return s.config
}

// Hash returns the lowercase hex digest of msg, 2*OutputLength characters long.
func (s *Sponge) Hash(msg []byte) string {
	return hex.EncodeToString(s.Sum(msg))
}

// Sum returns exactly OutputLength digest bytes for msg.
func (s *Sponge) Sum(msg []byte) []byte {
	state := s.absorb(msg)
	return s.squeeze(state)
}

// absorb maps msg onto the rate slots block by block, permuting after each
// block. An empty message still absorbs one empty block.
func (s *Sponge) absorb(msg []byte) []*FieldElement {
	field := s.perm.field
	rate := s.perm.params.Rate
	state := field.ZeroVector(s.perm.params.Width)

	if s.config.Padding == PaddingLength {
		state[rate] = field.NewElementFromUint64(uint64(len(msg)))
	}

	blockSize := ChunkSize * rate
	for offset := 0; ; offset += blockSize {
		end := offset + blockSize
		if end > len(msg) {
			end = len(msg)
		}
		block := msg[offset:end]

		for slot := 0; slot < rate; slot++ {
			lo := slot * ChunkSize
			if lo >= len(block) && slot > 0 {
				break
			}
			hi := lo + ChunkSize
			if hi > len(block) {
				hi = len(block)
			}
			state[slot] = s.combine(state[slot], block[lo:hi])
		}
		state = s.perm.Permute(state)

		if end >= len(msg) {
			return state
		}
	}
}

func (s *Sponge) combine(slot *FieldElement, chunk []byte) *FieldElement {
	raw := new(big.Int).SetBytes(chunk)
	if s.config.Absorb == AbsorbAdd {
		return slot.Add(slot.field.NewElement(raw))
	}
	return slot.Xor(raw)
}

// squeeze emits the rate slots until OutputLength bytes are available.
func (s *Sponge) squeeze(state []*FieldElement) []byte {
	rate := s.perm.params.Rate
	width := s.perm.field.ByteLen()
	output := make([]byte, 0, s.config.OutputLength+width)

	for {
		for i := 0; i < rate; i++ {
			if s.config.Encoding == EncodingFixed {
				output = append(output, state[i].FixedBytes(width)...)
			} else {
				output = append(output, state[i].Bytes()...)
			}
		}
		if len(output) >= s.config.OutputLength {
			break
		}
		state = s.perm.Permute(state)
	}

	return output[:s.config.OutputLength]
}

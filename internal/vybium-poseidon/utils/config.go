package utils

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/go-multierror"

	"github.com/vybium/vybium-poseidon/internal/vybium-poseidon/core"
)

// BLS12381ScalarModulus is the modulus of the reference configuration.
const BLS12381ScalarModulus = "0x73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001"

// Config represents the configuration of a Poseidon sponge instance
type Config struct {
	// Field parameters
	Modulus string `toml:"modulus"`

	// Permutation shape
	Width         int `toml:"width"`          // t
	Rate          int `toml:"rate"`           // r, must be < t
	FullRounds    int `toml:"full_rounds"`    // RF, even
	PartialRounds int `toml:"partial_rounds"` // RP
	SboxPower     int `toml:"sbox_power"`     // α, 0 derives the smallest valid exponent

	// Sponge parameters
	OutputLength int    `toml:"output_length"` // digest bytes
	Source       string `toml:"source"`        // "placeholder", "grain" or "xof"
	Absorb       string `toml:"absorb"`        // "xor" or "add"
	Encoding     string `toml:"encoding"`      // "variable" or "fixed"
	Padding      string `toml:"padding"`       // "none" or "length"
}

// DefaultConfig returns the reference configuration: t=3, r=2, RF=8, RP=56,
// x^7 over the BLS12-381 scalar field, 32 byte digests, placeholder constants.
func DefaultConfig() *Config {
	return &Config{
		Modulus:       BLS12381ScalarModulus,
		Width:         3,
		Rate:          2,
		FullRounds:    8,
		PartialRounds: 56,
		SboxPower:     7,
		OutputLength:  32,
		Source:        "placeholder",
		Absorb:        "xor",
		Encoding:      "variable",
		Padding:       "none",
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig and validates it.
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("decoding config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode writes the configuration as TOML
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks if the configuration is valid. Every problem is reported.
func (c *Config) Validate() error {
	var result *multierror.Error

	f, err := c.Field()
	if err != nil {
		result = multierror.Append(result, err)
	} else if c.SboxPower != 0 && !f.IsValidSBoxExponent(c.SboxPower) {
		result = multierror.Append(result, fmt.Errorf("%w: sbox power %d is not coprime with p-1",
			core.ErrInvalidParameters, c.SboxPower))
	}
	if err := c.Parameters().Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.OutputLength <= 0 {
		result = multierror.Append(result, fmt.Errorf("output length must be positive, got %d", c.OutputLength))
	}
	if _, err := c.ParameterSource(); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := c.SpongeConfig(); err != nil {
		result = multierror.Append(result, err)
	}

	return result.ErrorOrNil()
}

// Field parses the modulus and builds the field
func (c *Config) Field() (*core.Field, error) {
	modulus, err := ParseModulus(c.Modulus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidModulus, err)
	}
	return core.NewField(modulus)
}

// Parameters returns the permutation shape
func (c *Config) Parameters() core.Parameters {
	return core.Parameters{
		Width:         c.Width,
		Rate:          c.Rate,
		RoundsFull:    c.FullRounds,
		RoundsPartial: c.PartialRounds,
		SboxPower:     c.SboxPower,
	}
}

// ParameterSource resolves the configured constant generator
func (c *Config) ParameterSource() (core.ParameterSource, error) {
	return core.SourceByName(c.Source)
}

// SpongeConfig maps the string options onto core sponge settings
func (c *Config) SpongeConfig() (core.SpongeConfig, error) {
	sc := core.SpongeConfig{OutputLength: c.OutputLength}

	switch c.Absorb {
	case "", "xor":
		sc.Absorb = core.AbsorbXOR
	case "add":
		sc.Absorb = core.AbsorbAdd
	default:
		return sc, fmt.Errorf("%w: absorb must be 'xor' or 'add', got '%s'", core.ErrInvalidParameters, c.Absorb)
	}

	switch c.Encoding {
	case "", "variable":
		sc.Encoding = core.EncodingVariable
	case "fixed":
		sc.Encoding = core.EncodingFixed
	default:
		return sc, fmt.Errorf("%w: encoding must be 'variable' or 'fixed', got '%s'", core.ErrInvalidParameters, c.Encoding)
	}

	switch c.Padding {
	case "", "none":
		sc.Padding = core.PaddingNone
	case "length":
		sc.Padding = core.PaddingLength
	default:
		return sc, fmt.Errorf("%w: padding must be 'none' or 'length', got '%s'", core.ErrInvalidParameters, c.Padding)
	}

	return sc, nil
}

// WithModulus sets the field modulus
func (c *Config) WithModulus(modulus string) *Config {
	c.Modulus = modulus
	return c
}

// WithShape sets width, rate and the round counts
func (c *Config) WithShape(width, rate, fullRounds, partialRounds int) *Config {
	c.Width = width
	c.Rate = rate
	c.FullRounds = fullRounds
	c.PartialRounds = partialRounds
	return c
}

// WithSboxPower sets the S-box exponent
func (c *Config) WithSboxPower(alpha int) *Config {
	c.SboxPower = alpha
	return c
}

// WithOutputLength sets the digest length in bytes
func (c *Config) WithOutputLength(n int) *Config {
	c.OutputLength = n
	return c
}

// WithSource sets the parameter source name
func (c *Config) WithSource(name string) *Config {
	c.Source = name
	return c
}

// WithAbsorb sets the absorb mode
func (c *Config) WithAbsorb(mode string) *Config {
	c.Absorb = mode
	return c
}

// WithEncoding sets the squeeze encoding
func (c *Config) WithEncoding(encoding string) *Config {
	c.Encoding = encoding
	return c
}

// WithPadding sets the padding mode
func (c *Config) WithPadding(padding string) *Config {
	c.Padding = padding
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

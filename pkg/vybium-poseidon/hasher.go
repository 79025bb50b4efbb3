package vybiumposeidon

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/vybium/vybium-poseidon/internal/vybium-poseidon/core"
	"github.com/vybium/vybium-poseidon/internal/vybium-poseidon/log"
)

// Hasher is a configured Poseidon sponge. It is immutable and may be shared
// across goroutines.
type Hasher struct {
	config      *Config
	source      string
	sponge      *core.Sponge
	logger      log.Logger
	parallelism int
}

type options struct {
	logger      log.Logger
	observer    RoundObserver
	parallelism int
}

// Option configures a Hasher
type Option func(*options)

// WithLogger sets the logger used during construction and batch hashing
func WithLogger(l log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRoundObserver installs a per-round hook on the permutation
func WithRoundObserver(observer RoundObserver) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithParallelism bounds the goroutines used by HashBatch
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// New builds a Hasher using the parameter source named in config.
func New(config *Config, opts ...Option) (*Hasher, error) {
	if config == nil {
		return nil, &Error{Code: ErrInvalidConfig, Message: "config is nil"}
	}
	source, err := config.ParameterSource()
	if err != nil {
		return nil, &Error{Code: ErrInvalidConfig, Message: "unknown parameter source", Cause: err}
	}
	return build(config.Clone(), source, opts)
}

// NewWithSource builds a Hasher with an injected parameter source.
// config.Source is ignored.
func NewWithSource(config *Config, source ParameterSource, opts ...Option) (*Hasher, error) {
	if config == nil {
		return nil, &Error{Code: ErrInvalidConfig, Message: "config is nil"}
	}
	if source == nil {
		return nil, &Error{Code: ErrInvalidConfig, Message: "parameter source is nil"}
	}
	clone := config.Clone()
	clone.Source = ""
	return build(clone, source, opts)
}

func build(config *Config, source ParameterSource, opts []Option) (*Hasher, error) {
	o := options{
		logger:      log.DefaultLogger(),
		parallelism: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.parallelism < 1 {
		o.parallelism = 1
	}
	logger := o.logger.Named("poseidon")

	field, err := config.Field()
	if err != nil {
		return nil, &Error{Code: ErrArithmeticPrecondition, Message: "invalid field modulus", Cause: err}
	}
	if err := config.Validate(); err != nil {
		return nil, &Error{Code: ErrInvalidConfig, Message: "invalid configuration", Cause: err}
	}
	spongeConfig, err := config.SpongeConfig()
	if err != nil {
		return nil, &Error{Code: ErrInvalidConfig, Message: "invalid sponge options", Cause: err}
	}

	params := config.Parameters()
	constants, mds, err := source.Generate(field, params)
	if err != nil {
		return nil, &Error{Code: ErrParameterGeneration, Message: "generating " + source.Name() + " parameters", Cause: err}
	}

	var permOpts []core.PermutationOption
	if o.observer != nil {
		permOpts = append(permOpts, core.WithRoundObserver(o.observer))
	}
	perm, err := core.NewPermutation(field, params, constants, mds, permOpts...)
	if err != nil {
		return nil, &Error{Code: ErrInvalidConfig, Message: source.Name() + " parameters do not match the configured shape", Cause: err}
	}
	sponge, err := core.NewSpongeFromPermutation(perm, spongeConfig)
	if err != nil {
		return nil, &Error{Code: ErrInvalidConfig, Message: "invalid sponge options", Cause: err}
	}

	resolved := perm.Parameters()
	if source.Name() == "placeholder" {
		logger.Infow("using placeholder round constants and MDS matrix, digests are not secure")
	}
	logger.Debugw("hasher ready",
		"width", resolved.Width,
		"rate", resolved.Rate,
		"full_rounds", resolved.RoundsFull,
		"partial_rounds", resolved.RoundsPartial,
		"alpha", resolved.SboxPower,
		"modulus_bits", field.Modulus().BitLen(),
		"output_length", spongeConfig.OutputLength,
		"source", source.Name(),
	)

	config.SboxPower = resolved.SboxPower
	return &Hasher{
		config:      config,
		source:      source.Name(),
		sponge:      sponge,
		logger:      logger,
		parallelism: o.parallelism,
	}, nil
}

// Hash returns the lowercase hex digest of msg
func (h *Hasher) Hash(msg []byte) string {
	return h.sponge.Hash(msg)
}

// HashString hashes the UTF-8 bytes of s
func (h *Hasher) HashString(s string) string {
	return h.sponge.Hash([]byte(s))
}

// Sum returns the raw digest bytes of msg
func (h *Hasher) Sum(msg []byte) []byte {
	return h.sponge.Sum(msg)
}

// Permute applies the bare permutation to a width-t state
func (h *Hasher) Permute(state []*FieldElement) []*FieldElement {
	return h.sponge.Permutation().Permute(state)
}

// Field returns the prime field
func (h *Hasher) Field() *Field {
	return h.sponge.Permutation().Field()
}

// Parameters returns the resolved permutation shape
func (h *Hasher) Parameters() Parameters {
	return h.sponge.Permutation().Parameters()
}

// RoundConstants returns a copy of the round constants
func (h *Hasher) RoundConstants() RoundConstants {
	return h.sponge.Permutation().RoundConstants()
}

// MDSMatrix returns a copy of the linear layer
func (h *Hasher) MDSMatrix() MDSMatrix {
	return h.sponge.Permutation().MDSMatrix()
}

// Config returns a copy of the configuration with the S-box exponent resolved
func (h *Hasher) Config() *Config {
	return h.config.Clone()
}

// Source returns the name of the parameter source
func (h *Hasher) Source() string {
	return h.source
}

// HashBatch hashes independent messages in parallel. Results are in input
// order. It stops early when ctx is canceled.
func (h *Hasher) HashBatch(ctx context.Context, msgs [][]byte) ([]string, error) {
	digests := make([]string, len(msgs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(h.parallelism)
	for i, msg := range msgs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			digests[i] = h.sponge.Hash(msg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		h.logger.Warnw("batch interrupted", "messages", len(msgs), "err", err)
		return nil, &Error{Code: ErrCanceled, Message: "batch hashing interrupted", Cause: err}
	}
	h.logger.Debugw("batch hashed", "messages", len(msgs), "parallelism", h.parallelism)
	return digests, nil
}

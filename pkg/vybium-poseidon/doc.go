// Package vybiumposeidon provides a configurable Poseidon sponge hash over a
// prime field.
//
// The default configuration reproduces the reference instance: width 3,
// rate 2, 8 full and 56 partial rounds, the x^7 S-box over the BLS12-381
// scalar field and 32 byte digests. Its round constants and MDS matrix are
// placeholders (all ones) and the resulting digests are NOT secure. Select
// the "grain" or "xof" parameter source for real constants.
//
// # Quick Start
//
//	hasher, err := vybiumposeidon.New(vybiumposeidon.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(hasher.HashString("test"))
//
// # Hardened modes
//
// The reference sponge leaves distinct messages colliding: "a" and "\x00a"
// hash the same, as do "" and "\x00". Length padding, fixed width squeeze
// encoding and modular addition on absorb remove these ambiguities:
//
//	config := vybiumposeidon.DefaultConfig().
//		WithSource("xof").
//		WithAbsorb("add").
//		WithEncoding("fixed").
//		WithPadding("length")
//
// # Custom constants
//
// Any ParameterSource can be injected with NewWithSource. Its tables are
// checked against the configured shape before the hasher is built.
//
// # Concurrency
//
// A Hasher holds no mutable state. Hash, Sum and Permute may be called from
// many goroutines, and HashBatch spreads a slice of messages over a bounded
// pool of workers.
package vybiumposeidon

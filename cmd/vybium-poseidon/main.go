package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"github.com/vybium/vybium-poseidon/internal/vybium-poseidon/log"
	"github.com/vybium/vybium-poseidon/internal/vybium-poseidon/utils"
	poseidon "github.com/vybium/vybium-poseidon/pkg/vybium-poseidon"
)

// Automatically set through -ldflags, e.g.
// go install -ldflags "-X main.version=`git describe --tags` -X main.gitCommit=`git rev-parse HEAD`"
var (
	version   = "master"
	gitCommit = "none"
	buildDate = "unknown"
)

var (
	configFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "TOML file with the hasher configuration",
		EnvVars: []string{"POSEIDON_CONFIG"},
	}
	modulusFlag = &cli.StringFlag{
		Name:  "modulus",
		Usage: "prime field modulus, decimal or hex",
	}
	widthFlag = &cli.IntFlag{
		Name:  "width",
		Usage: "state width t",
	}
	rateFlag = &cli.IntFlag{
		Name:  "rate",
		Usage: "rate r, must be smaller than the width",
	}
	fullRoundsFlag = &cli.IntFlag{
		Name:  "full-rounds",
		Usage: "number of full rounds RF, even",
	}
	partialRoundsFlag = &cli.IntFlag{
		Name:  "partial-rounds",
		Usage: "number of partial rounds RP",
	}
	sboxPowerFlag = &cli.IntFlag{
		Name:  "sbox-power",
		Usage: "S-box exponent, 0 picks the smallest exponent coprime with p-1",
	}
	outputLengthFlag = &cli.IntFlag{
		Name:  "output-length",
		Usage: "digest length in bytes",
	}
	sourceFlag = &cli.StringFlag{
		Name:  "source",
		Usage: "parameter source: placeholder, grain or xof",
	}
	absorbFlag = &cli.StringFlag{
		Name:  "absorb",
		Usage: "absorb mode: xor or add",
	}
	encodingFlag = &cli.StringFlag{
		Name:  "encoding",
		Usage: "squeeze encoding: variable or fixed",
	}
	paddingFlag = &cli.StringFlag{
		Name:  "padding",
		Usage: "message padding: none or length",
	}
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "debug, info, warn or error",
		Value:   "warn",
		EnvVars: []string{"POSEIDON_LOG_LEVEL"},
	}
	jsonLogFlag = &cli.BoolFlag{
		Name:  "json-log",
		Usage: "log in JSON instead of console format",
	}

	hexInputFlag = &cli.BoolFlag{
		Name:  "hex",
		Usage: "arguments are hex encoded bytes",
	}
	traceFlag = &cli.BoolFlag{
		Name:  "trace",
		Usage: "log the state after every round at debug level",
	}
	tablesFlag = &cli.BoolFlag{
		Name:  "tables",
		Usage: "also print the round constants and the MDS matrix",
	}
)

var configFlags = []cli.Flag{
	configFlag, modulusFlag, widthFlag, rateFlag, fullRoundsFlag, partialRoundsFlag,
	sboxPowerFlag, outputLengthFlag, sourceFlag, absorbFlag, encodingFlag, paddingFlag,
	logLevelFlag, jsonLogFlag,
}

// CLI returns the vybium-poseidon application
func CLI() *cli.App {
	app := &cli.App{
		Name:     "vybium-poseidon",
		Version:  version,
		Usage:    "Poseidon sponge hashing over prime fields",
		Flags:    configFlags,
		Commands: []*cli.Command{hashCmd, permuteCmd, paramsCmd},
	}
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "vybium-poseidon %v (date %v, commit %v)\n", version, buildDate, gitCommit)
	}
	return app
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := CLI().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %+v\n", err)
		os.Exit(1)
	}
}

var hashCmd = &cli.Command{
	Name:      "hash",
	Usage:     "hash each argument, or stdin when no argument is given",
	ArgsUsage: "[message...]",
	Flags:     []cli.Flag{hexInputFlag},

	Action: func(cctx *cli.Context) error {
		logger, err := newLogger(cctx)
		if err != nil {
			return err
		}
		h, err := newHasher(cctx, logger)
		if err != nil {
			return err
		}

		msgs, err := readMessages(cctx)
		if err != nil {
			return err
		}
		digests, err := h.HashBatch(cctx.Context, msgs)
		if err != nil {
			return err
		}
		for _, d := range digests {
			fmt.Fprintln(cctx.App.Writer, d)
		}
		return nil
	},
}

var permuteCmd = &cli.Command{
	Name:      "permute",
	Usage:     "apply the bare permutation to a state of width t",
	ArgsUsage: "<element>...",
	Flags:     []cli.Flag{traceFlag},

	Action: func(cctx *cli.Context) error {
		logger, err := newLogger(cctx)
		if err != nil {
			return err
		}

		var opts []poseidon.Option
		if cctx.Bool(traceFlag.Name) {
			trace := logger.Named("trace")
			opts = append(opts, poseidon.WithRoundObserver(func(round int, kind poseidon.RoundKind, state []*poseidon.FieldElement) {
				trace.Debugw("round", "index", round, "kind", kind.String(), "state", formatState(state))
			}))
		}
		h, err := newHasher(cctx, logger, opts...)
		if err != nil {
			return err
		}

		width := h.Parameters().Width
		if cctx.NArg() != width {
			return fmt.Errorf("permute needs %d elements, got %d", width, cctx.NArg())
		}
		state, err := utils.ParseElements(h.Field(), cctx.Args().Slice())
		if err != nil {
			return err
		}
		for _, e := range h.Permute(state) {
			fmt.Fprintf(cctx.App.Writer, "0x%064x\n", e.Big())
		}
		return nil
	},
}

var paramsCmd = &cli.Command{
	Name:  "params",
	Usage: "print the resolved configuration as TOML",
	Flags: []cli.Flag{tablesFlag},

	Action: func(cctx *cli.Context) error {
		logger, err := newLogger(cctx)
		if err != nil {
			return err
		}
		h, err := newHasher(cctx, logger)
		if err != nil {
			return err
		}

		w := cctx.App.Writer
		if err := h.Config().Encode(w); err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}
		if !cctx.Bool(tablesFlag.Name) {
			return nil
		}

		fmt.Fprintln(w, "\n# round constants")
		for i, row := range h.RoundConstants() {
			fmt.Fprintf(w, "# %02d %s\n", i, formatState(row))
		}
		fmt.Fprintln(w, "# mds")
		for _, row := range h.MDSMatrix() {
			fmt.Fprintf(w, "# %s\n", formatState(row))
		}
		return nil
	},
}

func newLogger(cctx *cli.Context) (log.Logger, error) {
	level, ok := log.ParseLevel(cctx.String(logLevelFlag.Name))
	if !ok {
		return nil, fmt.Errorf("unknown log level %q", cctx.String(logLevelFlag.Name))
	}
	return log.New(zapcore.AddSync(cctx.App.ErrWriter), level, cctx.Bool(jsonLogFlag.Name)), nil
}

// loadConfig starts from the TOML file, or the defaults, and applies the
// flags that were set explicitly.
func loadConfig(cctx *cli.Context) (*poseidon.Config, error) {
	config := poseidon.DefaultConfig()
	if path := cctx.String(configFlag.Name); path != "" {
		loaded, err := poseidon.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if cctx.IsSet(modulusFlag.Name) {
		config.WithModulus(cctx.String(modulusFlag.Name))
	}
	if cctx.IsSet(widthFlag.Name) {
		config.Width = cctx.Int(widthFlag.Name)
	}
	if cctx.IsSet(rateFlag.Name) {
		config.Rate = cctx.Int(rateFlag.Name)
	}
	if cctx.IsSet(fullRoundsFlag.Name) {
		config.FullRounds = cctx.Int(fullRoundsFlag.Name)
	}
	if cctx.IsSet(partialRoundsFlag.Name) {
		config.PartialRounds = cctx.Int(partialRoundsFlag.Name)
	}
	if cctx.IsSet(sboxPowerFlag.Name) {
		config.WithSboxPower(cctx.Int(sboxPowerFlag.Name))
	}
	if cctx.IsSet(outputLengthFlag.Name) {
		config.WithOutputLength(cctx.Int(outputLengthFlag.Name))
	}
	if cctx.IsSet(sourceFlag.Name) {
		config.WithSource(cctx.String(sourceFlag.Name))
	}
	if cctx.IsSet(absorbFlag.Name) {
		config.WithAbsorb(cctx.String(absorbFlag.Name))
	}
	if cctx.IsSet(encodingFlag.Name) {
		config.WithEncoding(cctx.String(encodingFlag.Name))
	}
	if cctx.IsSet(paddingFlag.Name) {
		config.WithPadding(cctx.String(paddingFlag.Name))
	}
	return config, nil
}

func newHasher(cctx *cli.Context, logger log.Logger, opts ...poseidon.Option) (*poseidon.Hasher, error) {
	config, err := loadConfig(cctx)
	if err != nil {
		return nil, err
	}
	opts = append([]poseidon.Option{poseidon.WithLogger(logger)}, opts...)
	return poseidon.New(config, opts...)
}

func readMessages(cctx *cli.Context) ([][]byte, error) {
	if cctx.NArg() == 0 {
		data, err := io.ReadAll(cctx.App.Reader)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		if cctx.Bool(hexInputFlag.Name) {
			return decodeHexMessages([]string{strings.TrimSpace(string(data))})
		}
		return [][]byte{data}, nil
	}

	if cctx.Bool(hexInputFlag.Name) {
		return decodeHexMessages(cctx.Args().Slice())
	}
	msgs := make([][]byte, cctx.NArg())
	for i, arg := range cctx.Args().Slice() {
		msgs[i] = []byte(arg)
	}
	return msgs, nil
}

func decodeHexMessages(values []string) ([][]byte, error) {
	msgs := make([][]byte, len(values))
	for i, v := range values {
		b, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(v), "0x"))
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		msgs[i] = b
	}
	return msgs, nil
}

func formatState(state []*poseidon.FieldElement) string {
	parts := make([]string, len(state))
	for i, e := range state {
		parts[i] = fmt.Sprintf("0x%x", e.Big())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	cli "github.com/urfave/cli/v2"
)

const testDigest = "52e5f21db8bd2d4cfc5ff1e887e18629328cedc27ce915242517abb03bd015f1"

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := CLI()
	app.Reader = strings.NewReader(stdin)
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"vybium-poseidon"}, args...))
	return stdout.String(), stderr.String(), err
}

func TestHashCommand(t *testing.T) {
	out, _, err := run(t, "", "hash", "test")
	require.NoError(t, err)
	require.Equal(t, testDigest+"\n", out)

	out, _, err = run(t, "test", "hash")
	require.NoError(t, err)
	require.Equal(t, testDigest+"\n", out)

	out, _, err = run(t, "", "hash", "--hex", "74657374", "0x")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Equal(t, []string{
		testDigest,
		"5ec0137cbcdad6639142f0a9dd004af6383bf12907e07ec314d0f6160348ff47",
	}, lines)

	_, _, err = run(t, "", "hash", "--hex", "zz")
	require.Error(t, err)
}

func TestHashCommandFlags(t *testing.T) {
	out, _, err := run(t, "", "--source", "xof", "hash", "test")
	require.NoError(t, err)
	require.Equal(t, "295c326bdb08f156af305d627324b7577114e674f536462d704b3474bf3a7055\n", out)

	out, _, err = run(t, "", "--output-length", "48", "--encoding", "fixed", "hash", "test")
	require.NoError(t, err)
	require.Len(t, strings.TrimSpace(out), 96)

	_, _, err = run(t, "", "--rate", "3", "hash", "test")
	require.Error(t, err)

	_, _, err = run(t, "", "--log-level", "chatty", "hash", "test")
	require.Error(t, err)
}

func TestHashCommandConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poseidon.toml")
	require.NoError(t, os.WriteFile(path, []byte(`source = "xof"`+"\n"), 0o600))

	out, _, err := run(t, "", "--config", path, "hash", "test")
	require.NoError(t, err)
	require.Equal(t, "295c326bdb08f156af305d627324b7577114e674f536462d704b3474bf3a7055\n", out)

	// flags override the file
	out, _, err = run(t, "", "--config", path, "--source", "placeholder", "hash", "test")
	require.NoError(t, err)
	require.Equal(t, testDigest+"\n", out)
}

func TestPermuteCommand(t *testing.T) {
	out, stderr, err := run(t, "", "--log-level", "debug", "--json-log", "permute", "--trace", "0", "0", "0")
	require.NoError(t, err)

	want := "0x5ec0137cbcdad6639142f0a9dd004af6383bf12907e07ec314d0f6160348ff47\n"
	require.Equal(t, strings.Repeat(want, 3), out)
	require.Equal(t, 64, strings.Count(stderr, `"msg":"round"`))
	require.Contains(t, stderr, `"kind":"partial"`)

	_, _, err = run(t, "", "permute", "1", "2")
	require.Error(t, err)

	_, _, err = run(t, "", "permute", "1", "2", "x")
	require.Error(t, err)
}

func TestParamsCommand(t *testing.T) {
	out, _, err := run(t, "", "--sbox-power", "0", "--source", "grain", "params", "--tables")
	require.NoError(t, err)
	require.Contains(t, out, `source = "grain"`)
	require.Contains(t, out, "sbox_power = 5")
	require.Contains(t, out, "# round constants")
	require.Contains(t, out, "# 63 [")
	require.Contains(t, out, "# mds")
}

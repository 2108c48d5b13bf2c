package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-ecutils/pkg/curves"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestCurvesCommand(t *testing.T) {
	out, err := run(t, "", "curves")
	require.NoError(t, err)
	for _, name := range curves.Names() {
		assert.Contains(t, out, name)
	}
}

func TestDHCommand(t *testing.T) {
	alicePub, err := run(t, "", "pubkey", "3039", "--curve", "secp256k1")
	require.NoError(t, err)
	bobPub, err := run(t, "", "pubkey", "0x10932", "--curve", "secp256k1")
	require.NoError(t, err)

	s1, err := run(t, "", "dh", "3039", bobPub, "--curve", "secp256k1")
	require.NoError(t, err)
	s2, err := run(t, "", "dh", "10932", alicePub, "--curve", "secp256k1")
	require.NoError(t, err)
	assert.Equal(t, s1, s2)

	_, err = run(t, "", "dh", "3039", "1:1", "--curve", "secp256k1")
	assert.Error(t, err)
}

func TestSignVerifyCommands(t *testing.T) {
	pub, err := run(t, "", "pubkey", "abcdef")
	require.NoError(t, err)

	for _, hash := range []string{"sha256", "sha3-256"} {
		out, err := run(t, "", "sign", "abcdef", "hello", "--hash", hash)
		require.NoError(t, err)

		lines := strings.Split(out, "\n")
		require.Len(t, lines, 2)
		sig := strings.TrimSpace(strings.TrimPrefix(lines[1], "signature:"))

		out, err = run(t, "", "verify", pub, sig, "hello", "--hash", hash)
		require.NoError(t, err)
		assert.Equal(t, "valid", out)

		out, err = run(t, "", "verify", pub, sig, "goodbye", "--hash", hash)
		assert.True(t, errors.Is(err, errInvalidSignature))
		assert.Equal(t, "invalid", out)
	}

	_, err = run(t, "", "sign", "abcdef", "hello", "--hash", "md5")
	assert.Error(t, err)
}

func TestSignDigestFlag(t *testing.T) {
	digest := strings.Repeat("ab", 32)
	pub, err := run(t, "", "pubkey", "1234", "--curve", "secp384r1")
	require.NoError(t, err)

	out, err := run(t, "", "sign", "1234", "--digest", digest, "--curve", "secp384r1")
	require.NoError(t, err)
	assert.Contains(t, out, digest)
	sig := strings.TrimSpace(strings.TrimPrefix(strings.Split(out, "\n")[1], "signature:"))

	out, err = run(t, "", "verify", pub, sig, "--digest", digest, "--curve", "secp384r1")
	require.NoError(t, err)
	assert.Equal(t, "valid", out)

	_, err = run(t, "", "sign", "1234", "--digest", "zz")
	assert.Error(t, err)
}

func TestEncodeDecodeCommands(t *testing.T) {
	const msg = "Grüße aus der Kurve, chunked across several points"

	encoded, err := run(t, "", "encode", msg, "--curve", "secp192r1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "["))

	out, err := run(t, encoded, "decode", "-", "--curve", "secp192r1")
	require.NoError(t, err)
	assert.Equal(t, msg, out)

	out, err = run(t, "", "decode", encoded, "--curve", "secp192r1")
	require.NoError(t, err)
	assert.Equal(t, msg, out)

	_, err = run(t, "", "encode", msg, "--alphabet", "10")
	assert.Error(t, err)
}

func TestUnknownCurve(t *testing.T) {
	_, err := run(t, "", "keygen", "--curve", "secp1k1")
	assert.True(t, errors.Is(err, curves.ErrUnknownCurve))

	out, err := run(t, "", "keygen")
	require.NoError(t, err)
	assert.Contains(t, out, "private: ")
	assert.Contains(t, out, "public:  ")
}

package ec

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduce(t *testing.T) {
	m := big.NewInt(13)

	assert.Equal(t, int64(5), Reduce(big.NewInt(5), m).Int64())
	assert.Equal(t, int64(8), Reduce(big.NewInt(-5), m).Int64())
	assert.Equal(t, int64(0), Reduce(big.NewInt(-26), m).Int64())
	assert.Equal(t, int64(1), Reduce(big.NewInt(40), m).Int64())
}

func TestExtendedGCD(t *testing.T) {
	cases := [][2]int64{{240, 46}, {17, 5}, {5, 17}, {7, 0}, {0, 9}, {1071, 462}}
	for _, c := range cases {
		a, b := big.NewInt(c[0]), big.NewInt(c[1])
		g, x, y := ExtendedGCD(a, b)

		want := new(big.Int).GCD(nil, nil, a, b)
		assert.Equal(t, want.String(), g.String(), "gcd(%d, %d)", c[0], c[1])

		// g = a*x + b*y
		lin := new(big.Int).Mul(a, x)
		lin.Add(lin, new(big.Int).Mul(b, y))
		assert.Equal(t, g.String(), lin.String(), "bezout(%d, %d)", c[0], c[1])
	}

	g, x, y := ExtendedGCD(big.NewInt(7), big.NewInt(0))
	assert.Equal(t, int64(7), g.Int64())
	assert.Equal(t, int64(1), x.Int64())
	assert.Equal(t, int64(0), y.Int64())
}

func TestModInverse(t *testing.T) {
	p, _ := new(big.Int).SetString("FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFEE37", 16)

	for _, v := range []int64{1, 2, 3, 12345, -7} {
		a := big.NewInt(v)
		inv, err := ModInverse(a, p)
		require.NoError(t, err)

		prod := new(big.Int).Mul(a, inv)
		assert.Equal(t, int64(1), Reduce(prod, p).Int64())
		assert.True(t, inv.Sign() >= 0 && inv.Cmp(p) < 0)
	}

	_, err := ModInverse(big.NewInt(0), p)
	assert.True(t, errors.Is(err, ErrNoInverse))

	_, err = ModInverse(p, p)
	assert.True(t, errors.Is(err, ErrNoInverse))

	_, err = ModInverse(big.NewInt(6), big.NewInt(9))
	assert.True(t, errors.Is(err, ErrNoInverse))
}

func TestRandomScalar(t *testing.T) {
	n := big.NewInt(5)
	for i := 0; i < 200; i++ {
		k, err := RandomScalar(nil, n)
		require.NoError(t, err)
		assert.True(t, inRange(k, n), "k = %s", k)
	}

	_, err := RandomScalar(nil, big.NewInt(1))
	assert.True(t, errors.Is(err, ErrInvalidParams))

	_, err = RandomScalar(bytes.NewReader(nil), big.NewInt(1000))
	assert.Error(t, err)
}

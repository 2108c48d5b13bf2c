package ec

import (
	"crypto/rand"
	"io"
	"math/big"

	"github.com/pkg/errors"
)

var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Reduce returns a mod m in the range [0, m), also for negative a.
func Reduce(a, m *big.Int) *big.Int {
	r := new(big.Int).Rem(a, m)
	r.Add(r, m)
	return r.Rem(r, m)
}

// ExtendedGCD returns (g, x, y) such that g = a*x + b*y.
// ExtendedGCD(a, 0) is (a, 1, 0).
func ExtendedGCD(a, b *big.Int) (g, x, y *big.Int) {
	oldR, r := new(big.Int).Set(a), new(big.Int).Set(b)
	oldS, s := big.NewInt(1), big.NewInt(0)
	oldT, t := big.NewInt(0), big.NewInt(1)

	q := new(big.Int)
	tmp := new(big.Int)
	for r.Sign() != 0 {
		q.Quo(oldR, r)

		// (old_r, r) = (r, old_r - q*r)
		tmp.Mul(q, r)
		oldR, r = r, new(big.Int).Sub(oldR, tmp)

		tmp.Mul(q, s)
		oldS, s = s, new(big.Int).Sub(oldS, tmp)

		tmp.Mul(q, t)
		oldT, t = t, new(big.Int).Sub(oldT, tmp)
	}
	return oldR, oldS, oldT
}

// ModInverse returns the multiplicative inverse of a modulo m.
// It fails with ErrNoInverse when gcd(a, m) != 1, which includes a ≡ 0.
func ModInverse(a, m *big.Int) (*big.Int, error) {
	ar := Reduce(a, m)
	g, x, _ := ExtendedGCD(ar, m)
	if g.Cmp(one) != 0 {
		return nil, errors.Wrapf(ErrNoInverse, "gcd(%s, %s) = %s", ar.Text(16), m.Text(16), g.Text(16))
	}
	return Reduce(x, m), nil
}

// RandomScalar returns a uniformly random integer in [1, n-1].
// A nil reader selects crypto/rand.
func RandomScalar(random io.Reader, n *big.Int) (*big.Int, error) {
	if random == nil {
		random = rand.Reader
	}
	if n.Cmp(two) < 0 {
		return nil, errors.Wrapf(ErrInvalidParams, "order %s too small", n)
	}
	// rand.Int draws from [0, n-2]; shift by one.
	k, err := rand.Int(random, new(big.Int).Sub(n, one))
	if err != nil {
		return nil, errors.Wrap(err, "ec: read random scalar")
	}
	return k.Add(k, one), nil
}

// inRange reports whether 1 <= k <= n-1.
func inRange(k, n *big.Int) bool {
	return k != nil && k.Sign() > 0 && k.Cmp(n) < 0
}

package ec

import (
	"math/big"

	"github.com/pkg/errors"
)

// Params holds the domain parameters of a short Weierstrass curve
// y² = x³ + ax + b over the prime field F_p.
type Params struct {
	Name string
	P    *big.Int // field modulus
	A, B *big.Int // curve coefficients
	G    Point    // base point
	N    *big.Int // order of G
	H    *big.Int // cofactor
}

func (p Params) clone() Params {
	cp := func(v *big.Int) *big.Int {
		if v == nil {
			return nil
		}
		return new(big.Int).Set(v)
	}
	out := Params{
		Name: p.Name,
		P:    cp(p.P),
		A:    cp(p.A),
		B:    cp(p.B),
		N:    cp(p.N),
		H:    cp(p.H),
	}
	if !p.G.IsIdentity() {
		out.G = NewPoint(p.G.x, p.G.y)
	}
	return out
}

// Curve implements the group law for one parameter set. It holds no mutable
// state and is safe for concurrent use.
type Curve struct {
	params Params
}

// New validates params and returns the curve they describe.
func New(params Params) (*Curve, error) {
	p := params.clone()
	if p.P == nil || p.A == nil || p.B == nil || p.N == nil || p.H == nil {
		return nil, errors.Wrap(ErrInvalidParams, "missing parameter")
	}
	if p.P.Cmp(three) <= 0 || p.P.Bit(0) == 0 || !p.P.ProbablyPrime(20) {
		return nil, errors.Wrapf(ErrInvalidParams, "p = %s is not an odd prime", p.P.Text(16))
	}
	if p.A.Sign() < 0 || p.A.Cmp(p.P) >= 0 || p.B.Sign() < 0 || p.B.Cmp(p.P) >= 0 {
		return nil, errors.Wrap(ErrInvalidParams, "coefficients not in [0, p)")
	}

	// 4a³ + 27b² must not vanish, otherwise the curve is singular.
	disc := new(big.Int).Exp(p.A, three, p.P)
	disc.Mul(disc, big.NewInt(4))
	b2 := new(big.Int).Mul(p.B, p.B)
	b2.Mul(b2, big.NewInt(27))
	disc.Add(disc, b2)
	if Reduce(disc, p.P).Sign() == 0 {
		return nil, errors.Wrap(ErrInvalidParams, "singular curve")
	}

	if p.N.Cmp(one) <= 0 {
		return nil, errors.Wrapf(ErrInvalidParams, "order n = %s", p.N)
	}
	if p.H.Sign() <= 0 {
		return nil, errors.Wrapf(ErrInvalidParams, "cofactor h = %s", p.H)
	}

	c := &Curve{params: p}
	if !c.IsOnCurve(p.G) {
		return nil, errors.Wrapf(ErrInvalidParams, "base point %s: %v", p.G, ErrNotOnCurve)
	}
	return c, nil
}

// Params returns a copy of the curve parameters.
func (c *Curve) Params() Params {
	return c.params.clone()
}

// Name returns the curve's name, if it has one.
func (c *Curve) Name() string {
	return c.params.Name
}

// VerifyOrder checks that n·G is the identity. It costs a full scalar
// multiplication, so New does not run it.
func (c *Curve) VerifyOrder() error {
	nm1 := new(big.Int).Sub(c.params.N, one)
	q, err := c.Multiply(nm1, c.params.G)
	if err != nil {
		return err
	}
	r, err := c.Add(q, c.params.G)
	if err != nil {
		return err
	}
	if !r.IsIdentity() {
		return errors.Wrapf(ErrInvalidParams, "n·G = %s", r)
	}
	return nil
}

// IsOnCurve reports whether p is an affine point with coordinates in [0, p)
// satisfying the curve equation. The identity is not on the curve by this
// definition; callers needing group membership must check it separately.
func (c *Curve) IsOnCurve(p Point) bool {
	if p.IsIdentity() {
		return false
	}
	mod := c.params.P
	if p.x.Sign() < 0 || p.x.Cmp(mod) >= 0 || p.y.Sign() < 0 || p.y.Cmp(mod) >= 0 {
		return false
	}

	lhs := new(big.Int).Mul(p.y, p.y)
	lhs.Mod(lhs, mod)

	return c.polynomial(p.x).Cmp(lhs) == 0
}

// polynomial returns x³ + ax + b mod p.
func (c *Curve) polynomial(x *big.Int) *big.Int {
	r := new(big.Int).Mul(x, x)
	r.Add(r, c.params.A) // x² + a
	r.Mul(r, x)          // x³ + ax
	r.Add(r, c.params.B) // x³ + ax + b
	return Reduce(r, c.params.P)
}

// Negate returns -p.
func (c *Curve) Negate(p Point) Point {
	if p.IsIdentity() {
		return p
	}
	y := new(big.Int).Neg(p.y)
	return NewPoint(Reduce(p.x, c.params.P), Reduce(y, c.params.P))
}

// Add returns p + q.
func (c *Curve) Add(p, q Point) (Point, error) {
	if p.IsIdentity() {
		return q, nil
	}
	if q.IsIdentity() {
		return p, nil
	}

	mod := c.params.P
	dx := Reduce(new(big.Int).Sub(q.x, p.x), mod)
	if dx.Sign() == 0 {
		if p.Equal(q) || Reduce(new(big.Int).Sub(q.y, p.y), mod).Sign() == 0 {
			return c.Double(p)
		}
		// Vertical chord, q = -p.
		return Infinity(), nil
	}

	inv, err := ModInverse(dx, mod)
	if err != nil {
		return Point{}, err
	}
	lambda := new(big.Int).Sub(q.y, p.y)
	lambda.Mul(lambda, inv)
	lambda = Reduce(lambda, mod)

	return c.chord(lambda, p, q.x), nil
}

// Double returns 2·p.
func (c *Curve) Double(p Point) (Point, error) {
	if p.IsIdentity() {
		return p, nil
	}

	mod := c.params.P
	y := Reduce(p.y, mod)
	if y.Sign() == 0 {
		// Vertical tangent.
		return Infinity(), nil
	}

	inv, err := ModInverse(new(big.Int).Lsh(y, 1), mod)
	if err != nil {
		return Point{}, err
	}
	lambda := new(big.Int).Mul(p.x, p.x)
	lambda.Mul(lambda, three)
	lambda.Add(lambda, c.params.A)
	lambda.Mul(lambda, inv)
	lambda = Reduce(lambda, mod)

	return c.chord(lambda, p, p.x), nil
}

// chord computes x3 = λ² - px - qx, y3 = λ(px - x3) - py.
func (c *Curve) chord(lambda *big.Int, p Point, qx *big.Int) Point {
	mod := c.params.P

	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p.x)
	x3.Sub(x3, qx)
	x3 = Reduce(x3, mod)

	y3 := new(big.Int).Sub(p.x, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p.y)
	y3 = Reduce(y3, mod)

	return Point{x: x3, y: y3, finite: true}
}

// Multiply returns k·p using left-to-right double-and-add. k must be in
// [1, n-1]. The identity is absorbing.
func (c *Curve) Multiply(k *big.Int, p Point) (Point, error) {
	if !inRange(k, c.params.N) {
		return Point{}, errors.Wrapf(ErrScalarOutOfRange, "k = %v", k)
	}
	if p.IsIdentity() {
		return Infinity(), nil
	}

	acc := Infinity()
	var err error
	for i := k.BitLen() - 1; i >= 0; i-- {
		if acc, err = c.Double(acc); err != nil {
			return Point{}, err
		}
		if k.Bit(i) == 1 {
			if acc, err = c.Add(acc, p); err != nil {
				return Point{}, err
			}
		}
	}
	return acc, nil
}

// ScalarBaseMult returns k·G.
func (c *Curve) ScalarBaseMult(k *big.Int) (Point, error) {
	return c.Multiply(k, c.params.G)
}

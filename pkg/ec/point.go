package ec

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// Point is an immutable elliptic curve point. The zero value is the identity
// (point at infinity), which is never confused with an affine coordinate pair:
// (0, 0) is an ordinary affine point.
type Point struct {
	x, y   *big.Int
	finite bool
}

// Infinity returns the identity element.
func Infinity() Point {
	return Point{}
}

// NewPoint returns the affine point (x, y). The coordinates are copied.
func NewPoint(x, y *big.Int) Point {
	return Point{
		x:      new(big.Int).Set(x),
		y:      new(big.Int).Set(y),
		finite: true,
	}
}

// IsIdentity reports whether p is the point at infinity.
func (p Point) IsIdentity() bool {
	return !p.finite
}

// X returns a copy of the x coordinate, or nil for the identity.
func (p Point) X() *big.Int {
	if !p.finite {
		return nil
	}
	return new(big.Int).Set(p.x)
}

// Y returns a copy of the y coordinate, or nil for the identity.
func (p Point) Y() *big.Int {
	if !p.finite {
		return nil
	}
	return new(big.Int).Set(p.y)
}

// Equal reports whether p and q are the same point.
func (p Point) Equal(q Point) bool {
	if p.finite != q.finite {
		return false
	}
	if !p.finite {
		return true
	}
	return p.x.Cmp(q.x) == 0 && p.y.Cmp(q.y) == 0
}

// Key returns a canonical string for p, suitable as a map key.
func (p Point) Key() string {
	if !p.finite {
		return "inf"
	}
	return p.x.Text(16) + ":" + p.y.Text(16)
}

// ParsePoint is the inverse of Key. It does not check curve membership.
func ParsePoint(s string) (Point, error) {
	if s == "inf" {
		return Infinity(), nil
	}
	xs, ys, ok := strings.Cut(s, ":")
	if !ok {
		return Point{}, errors.Wrapf(ErrMalformedPoint, "%q", s)
	}
	x, okx := new(big.Int).SetString(strings.TrimPrefix(xs, "0x"), 16)
	y, oky := new(big.Int).SetString(strings.TrimPrefix(ys, "0x"), 16)
	if !okx || !oky || x.Sign() < 0 || y.Sign() < 0 {
		return Point{}, errors.Wrapf(ErrMalformedPoint, "%q", s)
	}
	return Point{x: x, y: y, finite: true}, nil
}

func (p Point) String() string {
	if !p.finite {
		return "∞"
	}
	return fmt.Sprintf("(%s, %s)", p.x.Text(16), p.y.Text(16))
}

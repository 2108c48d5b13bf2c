// Package koblitz maps text to elliptic-curve points and back using
// Koblitz's probabilistic encoding: a message integer m is embedded as the
// x-coordinate d·m + j for the first small j that lands on the curve.
package koblitz

import (
	"math/big"
	"slices"
	"unicode/utf16"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smallyu/go-ecutils/pkg/curves"
	"github.com/smallyu/go-ecutils/pkg/ec"
	"github.com/smallyu/go-ecutils/pkg/protocol"
)

var (
	ErrUnsupportedAlphabet = errors.New("koblitz: unsupported alphabet")
	ErrEncodingExhausted   = errors.New("koblitz: no curve point found for chunk")
	ErrInvalidEncoding     = errors.New("koblitz: invalid encoding")
)

// Alphabet is the base of the positional message integer.
type Alphabet int

const (
	// Alphabet256 encodes the UTF-8 bytes of the message.
	Alphabet256 Alphabet = 256
	// Alphabet65536 encodes the UTF-16 code units of the message.
	Alphabet65536 Alphabet = 65536
)

const (
	// Multiplier is d in x = d·m + j.
	Multiplier = 100
	// maxJ bounds the search: j ∈ [1, d-2].
	maxJ = Multiplier - 2
)

var multiplier = big.NewInt(Multiplier)

// nominalChunk is the chunk length used when the field is wide enough.
func (a Alphabet) nominalChunk() (int, error) {
	switch a {
	case Alphabet256:
		return 64, nil
	case Alphabet65536:
		return 32, nil
	default:
		return 0, errors.Wrapf(ErrUnsupportedAlphabet, "alphabet %d", int(a))
	}
}

// Encoded is one encoded chunk: the curve point and the j that produced it.
type Encoded struct {
	Point ec.Point
	J     *big.Int
}

// Codec encodes messages on a fixed curve.
type Codec struct {
	curve *ec.Curve
	p     *big.Int
	a, b  *big.Int

	// (p+1)/2 for Euler's criterion, (p+1)/4 when p ≡ 3 mod 4.
	euler   *big.Int
	quarter *big.Int

	log *zap.Logger
}

// New creates a codec on the named curve. An empty name selects
// curves.Default.
func New(curveName string, opts ...protocol.Option) (*Codec, error) {
	if curveName == "" {
		curveName = curves.Default
	}
	curve, err := curves.Get(curveName)
	if err != nil {
		return nil, err
	}
	return NewWithCurve(curve, opts...)
}

// NewWithCurve creates a codec on an explicit curve.
func NewWithCurve(curve *ec.Curve, opts ...protocol.Option) (*Codec, error) {
	if curve == nil {
		return nil, errors.Wrap(ec.ErrInvalidParams, "koblitz: nil curve")
	}
	params := curve.Params()
	cfg := protocol.NewConfig(opts...)

	c := &Codec{
		curve: curve,
		p:     params.P,
		a:     params.A,
		b:     params.B,
		log:   cfg.Logger.With(zap.String("codec", "koblitz"), zap.String("curve", curve.Name())),
	}

	plusOne := new(big.Int).Add(params.P, big.NewInt(1))
	c.euler = new(big.Int).Rsh(plusOne, 1)
	if params.P.Bit(1) == 1 {
		c.quarter = new(big.Int).Rsh(plusOne, 2)
	}
	return c, nil
}

// Curve returns the codec's curve.
func (c *Codec) Curve() *ec.Curve {
	return c.curve
}

// ChunkSize returns the number of alphabet symbols packed into one point:
// the nominal size, reduced until d·A^k < p.
func (c *Codec) ChunkSize(alphabet Alphabet) (int, error) {
	k, err := alphabet.nominalChunk()
	if err != nil {
		return 0, err
	}
	base := big.NewInt(int64(alphabet))
	for ; k > 0; k-- {
		bound := new(big.Int).Exp(base, big.NewInt(int64(k)), nil)
		bound.Mul(bound, multiplier)
		if bound.Cmp(c.p) < 0 {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrUnsupportedAlphabet, "alphabet %d does not fit curve %s", int(alphabet), c.curve.Name())
}

// Encode encodes the first chunk of msg as a single point.
func (c *Codec) Encode(msg string, alphabet Alphabet) (Encoded, error) {
	size, err := c.ChunkSize(alphabet)
	if err != nil {
		return Encoded{}, err
	}
	units := toUnits(msg, alphabet)
	if len(units) > size {
		units = units[:size]
	}
	return c.encodeUnits(units, alphabet)
}

// EncodeChunks splits msg into chunks and encodes each one, in order.
func (c *Codec) EncodeChunks(msg string, alphabet Alphabet) ([]Encoded, error) {
	size, err := c.ChunkSize(alphabet)
	if err != nil {
		return nil, err
	}
	units := toUnits(msg, alphabet)

	out := make([]Encoded, 0, (len(units)+size-1)/size)
	for start := 0; start < len(units); start += size {
		end := min(start+size, len(units))
		enc, err := c.encodeUnits(units[start:end], alphabet)
		if err != nil {
			return nil, errors.Wrapf(err, "chunk %d", start/size)
		}
		out = append(out, enc)
	}
	return out, nil
}

// Decode recovers the text of a single encoded chunk.
func (c *Codec) Decode(enc Encoded, alphabet Alphabet) (string, error) {
	if _, err := alphabet.nominalChunk(); err != nil {
		return "", err
	}
	units, err := c.decodeUnits(enc, alphabet)
	if err != nil {
		return "", err
	}
	return fromUnits(units, alphabet), nil
}

// DecodeChunks decodes every chunk and joins them in order. Multi-unit
// characters split across chunk boundaries are reassembled.
func (c *Codec) DecodeChunks(encs []Encoded, alphabet Alphabet) (string, error) {
	if _, err := alphabet.nominalChunk(); err != nil {
		return "", err
	}
	var units []uint16
	for i, enc := range encs {
		chunk, err := c.decodeUnits(enc, alphabet)
		if err != nil {
			return "", errors.Wrapf(err, "chunk %d", i)
		}
		units = append(units, chunk...)
	}
	return fromUnits(units, alphabet), nil
}

func (c *Codec) encodeUnits(units []uint16, alphabet Alphabet) (Encoded, error) {
	m := toInteger(units, alphabet)
	dm := new(big.Int).Mul(m, multiplier)

	for j := int64(1); j <= maxJ; j++ {
		jv := big.NewInt(j)
		x := ec.Reduce(new(big.Int).Add(dm, jv), c.p)

		y := c.sqrt(c.rhs(x))
		if y == nil {
			continue
		}
		pt := ec.NewPoint(x, y)
		if !c.curve.IsOnCurve(pt) {
			continue
		}

		enc := Encoded{Point: pt, J: jv}
		back, err := c.decodeUnits(enc, alphabet)
		if err != nil || !slices.Equal(back, units) {
			continue
		}

		c.log.Debug("encoded chunk", zap.Int("units", len(units)), zap.Int64("j", j))
		return enc, nil
	}
	return Encoded{}, errors.Wrapf(ErrEncodingExhausted, "after %d candidates", maxJ)
}

func (c *Codec) decodeUnits(enc Encoded, alphabet Alphabet) ([]uint16, error) {
	if enc.Point.IsIdentity() {
		return nil, errors.Wrap(ErrInvalidEncoding, "identity point")
	}
	if enc.J == nil || enc.J.Sign() <= 0 || enc.J.Cmp(big.NewInt(maxJ)) > 0 {
		return nil, errors.Wrapf(ErrInvalidEncoding, "j = %v", enc.J)
	}

	m, rem := new(big.Int).QuoRem(new(big.Int).Sub(enc.Point.X(), enc.J), multiplier, new(big.Int))
	if rem.Sign() != 0 || m.Sign() < 0 {
		return nil, errors.Wrap(ErrInvalidEncoding, "x - j is not a multiple of d")
	}

	base := big.NewInt(int64(alphabet))
	var units []uint16
	digit := new(big.Int)
	for m.Sign() > 0 {
		m.QuoRem(m, base, digit)
		units = append(units, uint16(digit.Uint64()))
	}
	return units, nil
}

// rhs is x³ + ax + b mod p.
func (c *Codec) rhs(x *big.Int) *big.Int {
	s := new(big.Int).Mul(x, x)
	s.Add(s, c.a)
	s.Mul(s, x)
	s.Add(s, c.b)
	return s.Mod(s, c.p)
}

// sqrt returns a square root of s mod p, or nil when s is a non-residue.
func (c *Codec) sqrt(s *big.Int) *big.Int {
	// Euler's criterion: s^((p+1)/2) ≡ s exactly when s is a square.
	if new(big.Int).Exp(s, c.euler, c.p).Cmp(s) != 0 {
		return nil
	}
	if c.quarter != nil {
		return new(big.Int).Exp(s, c.quarter, c.p)
	}
	return new(big.Int).ModSqrt(s, c.p)
}

// toInteger computes Σ units[i]·A^i.
func toInteger(units []uint16, alphabet Alphabet) *big.Int {
	base := big.NewInt(int64(alphabet))
	m := new(big.Int)
	for i := len(units) - 1; i >= 0; i-- {
		m.Mul(m, base)
		m.Add(m, big.NewInt(int64(units[i])))
	}
	return m
}

func toUnits(msg string, alphabet Alphabet) []uint16 {
	if alphabet == Alphabet65536 {
		return utf16.Encode([]rune(msg))
	}
	units := make([]uint16, len(msg))
	for i := 0; i < len(msg); i++ {
		units[i] = uint16(msg[i])
	}
	return units
}

func fromUnits(units []uint16, alphabet Alphabet) string {
	if alphabet == Alphabet65536 {
		return string(utf16.Decode(units))
	}
	buf := make([]byte, len(units))
	for i, u := range units {
		buf[i] = byte(u)
	}
	return string(buf)
}

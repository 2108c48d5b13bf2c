// Package signature implements ECDSA signing and verification over the
// curves of package ec.
package signature

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smallyu/go-ecutils/internal/memo"
	"github.com/smallyu/go-ecutils/pkg/curves"
	"github.com/smallyu/go-ecutils/pkg/ec"
	"github.com/smallyu/go-ecutils/pkg/protocol"
)

// ErrNilHash is returned when signing or verifying without a message hash.
var ErrNilHash = errors.New("signature: nil hash")

// Signature is an ECDSA signature (r, s), both in [1, n-1].
type Signature struct {
	R *big.Int
	S *big.Int
}

func (sig Signature) clone() Signature {
	return Signature{R: new(big.Int).Set(sig.R), S: new(big.Int).Set(sig.S)}
}

// Signer holds a private key and signs message hashes with it.
type Signer struct {
	curve *ec.Curve
	priv  *big.Int
	cfg   protocol.Config
	log   *zap.Logger

	pubOnce sync.Once
	pub     ec.Point
	pubErr  error

	signatures *memo.Cache[Signature]
}

// New creates a signer on the named curve. An empty name selects
// curves.Default.
func New(privateKey *big.Int, curveName string, opts ...protocol.Option) (*Signer, error) {
	if curveName == "" {
		curveName = curves.Default
	}
	curve, err := curves.Get(curveName)
	if err != nil {
		return nil, err
	}
	return NewWithCurve(privateKey, curve, opts...)
}

// NewWithCurve creates a signer on an explicit curve.
func NewWithCurve(privateKey *big.Int, curve *ec.Curve, opts ...protocol.Option) (*Signer, error) {
	if curve == nil {
		return nil, errors.Wrap(ec.ErrInvalidParams, "signature: nil curve")
	}
	if !inRange(privateKey, curve.Params().N) {
		return nil, errors.Wrap(ec.ErrScalarOutOfRange, "signature: private key")
	}
	cfg := protocol.NewConfig(opts...)
	sigs, err := memo.New[Signature](cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Signer{
		curve:      curve,
		priv:       new(big.Int).Set(privateKey),
		cfg:        cfg,
		log:        cfg.Logger.With(zap.String("protocol", "ecdsa"), zap.String("curve", curve.Name())),
		signatures: sigs,
	}, nil
}

// Curve returns the signer's curve.
func (s *Signer) Curve() *ec.Curve {
	return s.curve
}

// PublicKey returns priv·G. It is computed on first use.
func (s *Signer) PublicKey() (ec.Point, error) {
	s.pubOnce.Do(func() {
		s.pub, s.pubErr = s.curve.ScalarBaseMult(s.priv)
	})
	return s.pub, s.pubErr
}

// Sign returns a signature over hash. Signatures are cached per hash, so
// signing the same hash twice on one Signer yields the same (r, s).
func (s *Signer) Sign(hash *big.Int) (Signature, error) {
	if hash == nil {
		return Signature{}, ErrNilHash
	}
	sig, hit, err := s.signatures.GetOrCompute(hash.Text(16), func() (Signature, error) {
		return s.sign(hash)
	})
	if err != nil {
		return Signature{}, err
	}
	s.log.Debug("signed", zap.Bool("cached", hit))
	return sig.clone(), nil
}

// SignDigest signs the output of a hash function, truncated to the bit
// length of n as in standard ECDSA.
func (s *Signer) SignDigest(digest []byte) (Signature, error) {
	return s.Sign(HashToInt(digest, s.curve.Params().N))
}

func (s *Signer) sign(hash *big.Int) (Signature, error) {
	n := s.curve.Params().N

	for attempt := 1; ; attempt++ {
		// 1. Pick a random nonce k in [1, n-1]
		k, err := ec.RandomScalar(s.cfg.Random, n)
		if err != nil {
			return Signature{}, err
		}

		// 2. R = k·G, r = R.x mod n
		R, err := s.curve.ScalarBaseMult(k)
		if err != nil {
			return Signature{}, err
		}
		if R.IsIdentity() {
			continue
		}
		r := new(big.Int).Mod(R.X(), n)
		if r.Sign() == 0 {
			s.log.Debug("r = 0, retrying", zap.Int("attempt", attempt))
			continue
		}

		// 3. s = (hash + r·priv)·k⁻¹ mod n
		kInv, err := ec.ModInverse(k, n)
		if err != nil {
			return Signature{}, err
		}
		sv := new(big.Int).Mul(r, s.priv)
		sv.Add(sv, hash)
		sv.Mul(sv, kInv)
		sv.Mod(sv, n)
		if sv.Sign() == 0 {
			s.log.Debug("s = 0, retrying", zap.Int("attempt", attempt))
			continue
		}

		return Signature{R: r, S: sv}, nil
	}
}

// Verify checks sig against the signer's curve; see the package-level Verify.
func (s *Signer) Verify(publicKey ec.Point, hash *big.Int, sig Signature) (bool, error) {
	return Verify(s.curve, publicKey, hash, sig)
}

// Verify reports whether sig is a valid signature of hash under publicKey.
// It fails with ec.ErrScalarOutOfRange when r or s is outside [1, n-1] and
// with ec.ErrNotOnCurve when publicKey is not a curve point. A well-formed
// signature that does not match returns false without an error.
func Verify(curve *ec.Curve, publicKey ec.Point, hash *big.Int, sig Signature) (bool, error) {
	params := curve.Params()
	n := params.N

	if !inRange(sig.R, n) || !inRange(sig.S, n) {
		return false, errors.Wrap(ec.ErrScalarOutOfRange, "signature: r or s")
	}
	if hash == nil {
		return false, ErrNilHash
	}
	if !curve.IsOnCurve(publicKey) {
		return false, errors.Wrapf(ec.ErrNotOnCurve, "signature: public key %s", publicKey)
	}

	w, err := ec.ModInverse(sig.S, n)
	if err != nil {
		return false, err
	}
	u1 := ec.Reduce(new(big.Int).Mul(hash, w), n)
	u2 := ec.Reduce(new(big.Int).Mul(sig.R, w), n)

	// u1 vanishes when hash ≡ 0 mod n; its term is then the identity.
	p1 := ec.Infinity()
	if u1.Sign() != 0 {
		if p1, err = curve.Multiply(u1, params.G); err != nil {
			return false, err
		}
	}
	p2, err := curve.Multiply(u2, publicKey)
	if err != nil {
		return false, err
	}
	p, err := curve.Add(p1, p2)
	if err != nil {
		return false, err
	}
	if p.IsIdentity() {
		return false, nil
	}

	v := new(big.Int).Mod(p.X(), n)
	return v.Cmp(sig.R) == 0, nil
}

// HashToInt converts a digest to an integer using its leftmost bitlen(n)
// bits.
func HashToInt(digest []byte, n *big.Int) *big.Int {
	orderBits := n.BitLen()
	orderBytes := (orderBits + 7) / 8
	if len(digest) > orderBytes {
		digest = digest[:orderBytes]
	}

	ret := new(big.Int).SetBytes(digest)
	if excess := len(digest)*8 - orderBits; excess > 0 {
		ret.Rsh(ret, uint(excess))
	}
	return ret
}

func inRange(k, n *big.Int) bool {
	return k != nil && k.Sign() > 0 && k.Cmp(n) < 0
}

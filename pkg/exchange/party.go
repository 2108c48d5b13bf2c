// Package exchange implements elliptic-curve Diffie–Hellman key agreement and
// Massey–Omura three-pass commutative encryption.
package exchange

import (
	"math/big"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smallyu/go-ecutils/pkg/curves"
	"github.com/smallyu/go-ecutils/pkg/ec"
	"github.com/smallyu/go-ecutils/pkg/protocol"
)

// party is the key material common to both protocols.
type party struct {
	curve *ec.Curve
	priv  *big.Int
	cfg   protocol.Config
	log   *zap.Logger

	pubOnce sync.Once
	pub     ec.Point
	pubErr  error
}

func newParty(priv *big.Int, curve *ec.Curve, kind string, opts []protocol.Option) (*party, error) {
	if curve == nil {
		return nil, errors.Wrap(ec.ErrInvalidParams, "exchange: nil curve")
	}
	n := curve.Params().N
	if priv == nil || priv.Sign() <= 0 || priv.Cmp(n) >= 0 {
		return nil, errors.Wrap(ec.ErrScalarOutOfRange, "exchange: private key")
	}
	cfg := protocol.NewConfig(opts...)
	return &party{
		curve: curve,
		priv:  new(big.Int).Set(priv),
		cfg:   cfg,
		log:   cfg.Logger.With(zap.String("protocol", kind), zap.String("curve", curve.Name())),
	}, nil
}

func lookup(curveName string) (*ec.Curve, error) {
	if curveName == "" {
		curveName = curves.Default
	}
	return curves.Get(curveName)
}

// Curve returns the curve the party operates on.
func (p *party) Curve() *ec.Curve {
	return p.curve
}

// PublicKey returns priv·G. It is computed on first use.
func (p *party) PublicKey() (ec.Point, error) {
	p.pubOnce.Do(func() {
		p.pub, p.pubErr = p.curve.ScalarBaseMult(p.priv)
	})
	return p.pub, p.pubErr
}

// requireOnCurve rejects externally supplied points before they reach the
// group law.
func (p *party) requireOnCurve(pt ec.Point, what string) error {
	if !p.curve.IsOnCurve(pt) {
		return errors.Wrapf(ec.ErrNotOnCurve, "exchange: %s %s", what, pt)
	}
	return nil
}

package exchange

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/smallyu/go-ecutils/internal/memo"
	"github.com/smallyu/go-ecutils/pkg/ec"
	"github.com/smallyu/go-ecutils/pkg/protocol"
)

// DiffieHellman is one side of an elliptic-curve Diffie–Hellman exchange.
// Both parties arrive at the same point a·(b·G) = b·(a·G).
type DiffieHellman struct {
	*party
	secrets *memo.Cache[ec.Point]
}

// NewDiffieHellman creates a party on the named curve. An empty name selects
// curves.Default.
func NewDiffieHellman(privateKey *big.Int, curveName string, opts ...protocol.Option) (*DiffieHellman, error) {
	curve, err := lookup(curveName)
	if err != nil {
		return nil, err
	}
	return NewDiffieHellmanWithCurve(privateKey, curve, opts...)
}

// NewDiffieHellmanWithCurve creates a party on an explicit curve.
func NewDiffieHellmanWithCurve(privateKey *big.Int, curve *ec.Curve, opts ...protocol.Option) (*DiffieHellman, error) {
	p, err := newParty(privateKey, curve, "diffie-hellman", opts)
	if err != nil {
		return nil, err
	}
	secrets, err := memo.New[ec.Point](p.cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &DiffieHellman{party: p, secrets: secrets}, nil
}

// SharedSecret returns priv·other. The peer key must be on the curve.
// Results are cached per peer key.
func (d *DiffieHellman) SharedSecret(other ec.Point) (ec.Point, error) {
	if err := d.requireOnCurve(other, "peer public key"); err != nil {
		return ec.Point{}, err
	}
	secret, hit, err := d.secrets.GetOrCompute(other.Key(), func() (ec.Point, error) {
		return d.curve.Multiply(d.priv, other)
	})
	if err != nil {
		return ec.Point{}, err
	}
	d.log.Debug("shared secret", zap.Bool("cached", hit))
	return secret, nil
}

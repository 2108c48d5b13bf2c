package exchange

import (
	"math/big"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/smallyu/go-ecutils/internal/memo"
	"github.com/smallyu/go-ecutils/pkg/ec"
	"github.com/smallyu/go-ecutils/pkg/protocol"
)

// MasseyOmura is one side of the three-pass protocol:
//
//	sender:   C1 = a·M             (FirstEncryptionStep)
//	receiver: C2 = b·C1            (SecondEncryptionStep)
//	sender:   C3 = a⁻¹·C2 = b·M    (PartialDecryptionStep)
//	receiver: M  = b⁻¹·C3          (PartialDecryptionStep)
//
// Inverses are taken mod n, so M must lie in the subgroup generated by G.
type MasseyOmura struct {
	*party
	inverse     *big.Int
	encryptions *memo.Cache[ec.Point]
	decryptions *memo.Cache[ec.Point]
}

// NewMasseyOmura creates a party on the named curve. An empty name selects
// curves.Default.
func NewMasseyOmura(privateKey *big.Int, curveName string, opts ...protocol.Option) (*MasseyOmura, error) {
	curve, err := lookup(curveName)
	if err != nil {
		return nil, err
	}
	return NewMasseyOmuraWithCurve(privateKey, curve, opts...)
}

// NewMasseyOmuraWithCurve creates a party on an explicit curve.
func NewMasseyOmuraWithCurve(privateKey *big.Int, curve *ec.Curve, opts ...protocol.Option) (*MasseyOmura, error) {
	p, err := newParty(privateKey, curve, "massey-omura", opts)
	if err != nil {
		return nil, err
	}
	inv, err := ec.ModInverse(p.priv, curve.Params().N)
	if err != nil {
		return nil, errors.Wrap(err, "exchange: private key inverse")
	}
	enc, err := memo.New[ec.Point](p.cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	dec, err := memo.New[ec.Point](p.cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	return &MasseyOmura{party: p, inverse: inv, encryptions: enc, decryptions: dec}, nil
}

// FirstEncryptionStep returns priv·message.
func (m *MasseyOmura) FirstEncryptionStep(message ec.Point) (ec.Point, error) {
	if err := m.requireOnCurve(message, "message"); err != nil {
		return ec.Point{}, err
	}
	out, hit, err := m.encryptions.GetOrCompute(message.Key(), func() (ec.Point, error) {
		return m.curve.Multiply(m.priv, message)
	})
	if err != nil {
		return ec.Point{}, err
	}
	m.log.Debug("encryption step", zap.Bool("cached", hit))
	return out, nil
}

// SecondEncryptionStep applies this party's key to a point already
// encrypted by the other party. Scalar multiplication commutes, so it is the
// same operation as FirstEncryptionStep.
func (m *MasseyOmura) SecondEncryptionStep(received ec.Point) (ec.Point, error) {
	return m.FirstEncryptionStep(received)
}

// PartialDecryptionStep removes this party's key: (priv⁻¹ mod n)·encrypted.
func (m *MasseyOmura) PartialDecryptionStep(encrypted ec.Point) (ec.Point, error) {
	if err := m.requireOnCurve(encrypted, "ciphertext"); err != nil {
		return ec.Point{}, err
	}
	out, hit, err := m.decryptions.GetOrCompute(encrypted.Key(), func() (ec.Point, error) {
		return m.curve.Multiply(m.inverse, encrypted)
	})
	if err != nil {
		return ec.Point{}, err
	}
	m.log.Debug("partial decryption step", zap.Bool("cached", hit))
	return out, nil
}

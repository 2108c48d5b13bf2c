package signature

import (
	"math/big"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/pkg/errors"

	"github.com/smallyu/go-ecutils/pkg/ec"
)

// ToSecp256k1PublicKey converts a secp256k1 point to a decred public key.
func ToSecp256k1PublicKey(pub ec.Point) (*secp256k1.PublicKey, error) {
	if pub.IsIdentity() {
		return nil, errors.Wrap(ec.ErrNotOnCurve, "signature: identity public key")
	}

	var uncompressed [secp256k1.PubKeyBytesLenUncompressed]byte
	uncompressed[0] = secp256k1.PubKeyFormatUncompressed
	if !fill(uncompressed[1:33], pub.X()) || !fill(uncompressed[33:], pub.Y()) {
		return nil, errors.Wrapf(ec.ErrNotOnCurve, "signature: public key %s", pub)
	}

	key, err := secp256k1.ParsePubKey(uncompressed[:])
	if err != nil {
		return nil, errors.Wrapf(ec.ErrNotOnCurve, "signature: public key %s: %v", pub, err)
	}
	return key, nil
}

// PublicKeyFromSecp256k1 converts a decred public key to a point.
func PublicKeyFromSecp256k1(key *secp256k1.PublicKey) ec.Point {
	return ec.NewPoint(key.X(), key.Y())
}

// ToSecp256k1 converts the signature to a decred signature. Both components
// must be valid secp256k1 scalars.
func (sig Signature) ToSecp256k1() (*ecdsa.Signature, error) {
	var r, s secp256k1.ModNScalar
	if !setScalar(&r, sig.R) || !setScalar(&s, sig.S) {
		return nil, errors.Wrap(ec.ErrScalarOutOfRange, "signature: r or s")
	}
	return ecdsa.NewSignature(&r, &s), nil
}

// SignatureFromSecp256k1 converts a decred signature.
func SignatureFromSecp256k1(sig *ecdsa.Signature) Signature {
	r, s := sig.R(), sig.S()
	rb, sb := r.Bytes(), s.Bytes()
	return Signature{
		R: new(big.Int).SetBytes(rb[:]),
		S: new(big.Int).SetBytes(sb[:]),
	}
}

func fill(dst []byte, v *big.Int) bool {
	if v.Sign() < 0 || v.BitLen() > len(dst)*8 {
		return false
	}
	v.FillBytes(dst)
	return true
}

func setScalar(dst *secp256k1.ModNScalar, v *big.Int) bool {
	if v == nil {
		return false
	}
	var buf [32]byte
	if !fill(buf[:], v) {
		return false
	}
	overflow := dst.SetBytes(&buf)
	return overflow == 0 && !dst.IsZero()
}

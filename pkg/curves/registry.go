// Package curves holds the SEC 2 recommended prime-field curves.
package curves

import (
	"math/big"
	"sort"

	"github.com/pkg/errors"

	"github.com/smallyu/go-ecutils/pkg/ec"
)

// ErrUnknownCurve is returned for names missing from the registry.
var ErrUnknownCurve = errors.New("curves: unknown curve")

// Default is the curve protocols use when the caller has no preference.
const Default = "secp192k1"

type definition struct {
	p, a, b, gx, gy, n, h string
}

// Parameters from SEC 2: Recommended Elliptic Curve Domain Parameters, v2.
var table = map[string]definition{
	"secp192k1": {
		p:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFEE37",
		a:  "0",
		b:  "3",
		gx: "DB4FF10EC057E9AE26B07D0280B7F4341DA5D1B1EAE06C7D",
		gy: "9B2F2F6D9C5628A7844163D015BE86344082AA88D95E2F9D",
		n:  "FFFFFFFFFFFFFFFFFFFFFFFE26F2FC170F69466A74DEFD8D",
		h:  "1",
	},
	"secp192r1": {
		p:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFFFFFFFFFF",
		a:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFFFFFFFFFC",
		b:  "64210519E59C80E70FA7E9AB72243049FEB8DEECC146B9B1",
		gx: "188DA80EB03090F67CBF20EB43A18800F4FF0AFD82FF1012",
		gy: "07192B95FFC8DA78631011ED6B24CDD573F977A11E794811",
		n:  "FFFFFFFFFFFFFFFFFFFFFFFF99DEF836146BC9B1B4D22831",
		h:  "1",
	},
	"secp224k1": {
		p:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFE56D",
		a:  "0",
		b:  "5",
		gx: "A1455B334DF099DF30FC28A169A467E9E47075A90F7E650EB6B7A45C",
		gy: "7E089FED7FBA344282CAFBD6F7E319F7C0B0BD59E2CA4BDB556D61A5",
		n:  "010000000000000000000000000001DCE8D2EC6184CAF0A971769FB1F7",
		h:  "1",
	},
	"secp224r1": {
		p:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF000000000000000000000001",
		a:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFFFFFFFFFFFFFFFFFE",
		b:  "B4050A850C04B3ABF54132565044B0B7D7BFD8BA270B39432355FFB4",
		gx: "B70E0CBD6BB4BF7F321390B94A03C1D356C21122343280D6115C1D21",
		gy: "BD376388B5F723FB4C22DFE6CD4375A05A07476444D5819985007E34",
		n:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFF16A2E0B8F03E13DD29455C5C2A3D",
		h:  "1",
	},
	"secp256k1": {
		p:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F",
		a:  "0",
		b:  "7",
		gx: "79BE667EF9DCBBAC55A06295CE870B07029BFCDB2DCE28D959F2815B16F81798",
		gy: "483ADA7726A3C4655DA4FBFC0E1108A8FD17B448A68554199C47D08FFB10D4B8",
		n:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEBAAEDCE6AF48A03BBFD25E8CD0364141",
		h:  "1",
	},
	"secp256r1": {
		p:  "FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFF",
		a:  "FFFFFFFF00000001000000000000000000000000FFFFFFFFFFFFFFFFFFFFFFFC",
		b:  "5AC635D8AA3A93E7B3EBBD55769886BC651D06B0CC53B0F63BCE3C3E27D2604B",
		gx: "6B17D1F2E12C4247F8BCE6E563A440F277037D812DEB33A0F4A13945D898C296",
		gy: "4FE342E2FE1A7F9B8EE7EB4A7C0F9E162BCE33576B315ECECBB6406837BF51F5",
		n:  "FFFFFFFF00000000FFFFFFFFFFFFFFFFBCE6FAADA7179E84F3B9CAC2FC632551",
		h:  "1",
	},
	"secp384r1": {
		p:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFF0000000000000000FFFFFFFF",
		a:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFFFF0000000000000000FFFFFFFC",
		b:  "B3312FA7E23EE7E4988E056BE3F82D19181D9C6EFE8141120314088F5013875AC656398D8A2ED19D2A85C8EDD3EC2AEF",
		gx: "AA87CA22BE8B05378EB1C71EF320AD746E1D3B628BA79B9859F741E082542A385502F25DBF55296C3A545E3872760AB7",
		gy: "3617DE4A96262C6F5D9E98BF9292DC29F8F41DBD289A147CE9DA3113B5F0B8C00A60B1CE1D7E819D7A431D7C90EA0E5F",
		n:  "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFC7634D81F4372DDF581A0DB248B0A77AECEC196ACCC52973",
		h:  "1",
	},
	"secp521r1": {
		p:  "01FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFF",
		a:  "01FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFC",
		b:  "0051953EB9618E1C9A1F929A21A0B68540EEA2DA725B99B315F3B8B489918EF109E156193951EC7E937B1652C0BD3BB1BF073573DF883D2C34F1EF451FD46B503F00",
		gx: "00C6858E06B70404E9CD9E3ECB662395B4429C648139053FB521F828AF606B4D3DBAA14B5E77EFE75928FE1DC127A2FFA8DE3348B3C1856A429BF97E7E31C2E5BD66",
		gy: "011839296A789A3BC0045C8A5FB42C7D1BD998F54449579B446817AFBD17273E662C97EE72995EF42640C550B9013FAD0761353C7086A272C24088BE94769FD16650",
		n:  "01FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFA51868783BF2F966B7FCC0148F709A5D03BB5C9B8899C47AEBB6FB71E91386409",
		h:  "1",
	},
}

// Params returns the domain parameters registered under name.
func Params(name string) (ec.Params, error) {
	def, ok := table[name]
	if !ok {
		return ec.Params{}, errors.Wrapf(ErrUnknownCurve, "%q", name)
	}
	return ec.Params{
		Name: name,
		P:    hexInt(def.p),
		A:    hexInt(def.a),
		B:    hexInt(def.b),
		G:    ec.NewPoint(hexInt(def.gx), hexInt(def.gy)),
		N:    hexInt(def.n),
		H:    hexInt(def.h),
	}, nil
}

// Get returns the curve registered under name.
func Get(name string) (*ec.Curve, error) {
	params, err := Params(name)
	if err != nil {
		return nil, err
	}
	return ec.New(params)
}

// Names lists the registered curves in lexical order.
func Names() []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func hexInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("curves: malformed constant " + s)
	}
	return v
}

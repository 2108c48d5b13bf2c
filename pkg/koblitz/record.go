package koblitz

import (
	"math/big"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/smallyu/go-ecutils/pkg/ec"
)

// Record is the serialized form of an Encoded chunk. All fields are decimal
// strings.
type Record struct {
	X string `json:"x"`
	Y string `json:"y"`
	J string `json:"j"`
}

var encodeOptions = []json.EncodeOptionFunc{json.DisableHTMLEscape()}

// Serialize converts encoded chunks to records, preserving order. The
// identity point and a missing j have no record form.
func Serialize(encs []Encoded) ([]Record, error) {
	records := make([]Record, len(encs))
	for i, enc := range encs {
		if enc.Point.IsIdentity() {
			return nil, errors.Wrapf(ErrInvalidEncoding, "chunk %d: identity point", i)
		}
		if enc.J == nil {
			return nil, errors.Wrapf(ErrInvalidEncoding, "chunk %d: nil j", i)
		}
		records[i] = Record{
			X: enc.Point.X().String(),
			Y: enc.Point.Y().String(),
			J: enc.J.String(),
		}
	}
	return records, nil
}

// Deserialize parses records back into encoded chunks. Every field must be a
// non-negative decimal integer and every point must lie on the codec's curve.
func (c *Codec) Deserialize(records []Record) ([]Encoded, error) {
	encs := make([]Encoded, len(records))
	for i, rec := range records {
		x, err := parseDecimal(rec.X, "x")
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		y, err := parseDecimal(rec.Y, "y")
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}
		j, err := parseDecimal(rec.J, "j")
		if err != nil {
			return nil, errors.Wrapf(err, "record %d", i)
		}

		pt := ec.NewPoint(x, y)
		if !c.curve.IsOnCurve(pt) {
			return nil, errors.Wrapf(ec.ErrNotOnCurve, "record %d: %s", i, pt)
		}
		encs[i] = Encoded{Point: pt, J: j}
	}
	return encs, nil
}

// Marshal serializes encoded chunks as a JSON array of records.
func Marshal(encs []Encoded) ([]byte, error) {
	records, err := Serialize(encs)
	if err != nil {
		return nil, err
	}
	return json.MarshalWithOption(records, encodeOptions...)
}

// Unmarshal parses a JSON array of records produced by Marshal.
func (c *Codec) Unmarshal(data []byte) ([]Encoded, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(ErrInvalidEncoding, err.Error())
	}
	return c.Deserialize(records)
}

func parseDecimal(s, field string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.Wrapf(ErrInvalidEncoding, "%s = %q", field, s)
	}
	return v, nil
}

//go:build js && wasm

package main

import (
	"fmt"
	"math/big"
	"strings"
	"syscall/js"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	hex "github.com/tmthrgd/go-hex"

	"github.com/smallyu/go-ecutils/pkg/curves"
	"github.com/smallyu/go-ecutils/pkg/ec"
	"github.com/smallyu/go-ecutils/pkg/exchange"
	"github.com/smallyu/go-ecutils/pkg/koblitz"
	"github.com/smallyu/go-ecutils/pkg/signature"
)

func main() {
	c := make(chan struct{})

	fmt.Println("go-ecutils WASM initialized")

	// Expose Go functions to JS
	js.Global().Set("ECUtils", map[string]interface{}{
		"curves":       js.FuncOf(Curves),
		"encode":       js.FuncOf(bridge(encode)),
		"decode":       js.FuncOf(bridge(decode)),
		"sign":         js.FuncOf(bridge(sign)),
		"verify":       js.FuncOf(bridge(verify)),
		"sharedSecret": js.FuncOf(bridge(sharedSecret)),
	})

	<-c
}

// Params is the JSON argument accepted by every ECUtils function. Fields not
// used by a function are ignored.
type Params struct {
	Curve      string           `json:"curve"`
	Message    string           `json:"message"`
	Alphabet   int              `json:"alphabet"`
	Records    []koblitz.Record `json:"records"`
	PrivateKey string           `json:"privateKey"`
	PublicKey  string           `json:"publicKey"`
	Digest     string           `json:"digest"`
	R          string           `json:"r"`
	S          string           `json:"s"`
}

func (p *Params) alphabet() koblitz.Alphabet {
	if p.Alphabet == 0 {
		return koblitz.Alphabet65536
	}
	return koblitz.Alphabet(p.Alphabet)
}

// bridge adapts a JSON handler to the JS calling convention:
// one JSON string in, a JSON string or "error: ..." out.
func bridge(handler func(*Params) (interface{}, error)) func(js.Value, []js.Value) interface{} {
	return func(this js.Value, args []js.Value) interface{} {
		if len(args) != 1 {
			return "error: expected 1 argument (jsonParams)"
		}

		var params Params
		if err := json.Unmarshal([]byte(args[0].String()), &params); err != nil {
			return fmt.Sprintf("error: invalid json: %v", err)
		}
		if params.Curve == "" {
			params.Curve = curves.Default
		}

		resp, err := handler(&params)
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		respBytes, err := json.Marshal(resp)
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return string(respBytes)
	}
}

// Curves returns the supported curve names as a JSON array.
func Curves(this js.Value, args []js.Value) interface{} {
	respBytes, _ := json.Marshal(curves.Names())
	return string(respBytes)
}

func encode(p *Params) (interface{}, error) {
	codec, err := koblitz.New(p.Curve)
	if err != nil {
		return nil, err
	}
	encs, err := codec.EncodeChunks(p.Message, p.alphabet())
	if err != nil {
		return nil, err
	}
	return koblitz.Serialize(encs)
}

func decode(p *Params) (interface{}, error) {
	codec, err := koblitz.New(p.Curve)
	if err != nil {
		return nil, err
	}
	encs, err := codec.Deserialize(p.Records)
	if err != nil {
		return nil, err
	}
	msg, err := codec.DecodeChunks(encs, p.alphabet())
	if err != nil {
		return nil, err
	}
	return map[string]string{"message": msg}, nil
}

func sign(p *Params) (interface{}, error) {
	priv, err := parseHexInt(p.PrivateKey)
	if err != nil {
		return nil, err
	}
	digest, err := hex.DecodeString(p.Digest)
	if err != nil {
		return nil, errors.Wrap(err, "invalid digest")
	}
	signer, err := signature.New(priv, p.Curve)
	if err != nil {
		return nil, err
	}
	sig, err := signer.SignDigest(digest)
	if err != nil {
		return nil, err
	}
	pub, err := signer.PublicKey()
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"r":         sig.R.Text(16),
		"s":         sig.S.Text(16),
		"publicKey": pub.Key(),
	}, nil
}

func verify(p *Params) (interface{}, error) {
	curve, err := curves.Get(p.Curve)
	if err != nil {
		return nil, err
	}
	pub, err := ec.ParsePoint(p.PublicKey)
	if err != nil {
		return nil, err
	}
	digest, err := hex.DecodeString(p.Digest)
	if err != nil {
		return nil, errors.Wrap(err, "invalid digest")
	}
	r, err := parseHexInt(p.R)
	if err != nil {
		return nil, err
	}
	s, err := parseHexInt(p.S)
	if err != nil {
		return nil, err
	}

	hash := signature.HashToInt(digest, curve.Params().N)
	ok, err := signature.Verify(curve, pub, hash, signature.Signature{R: r, S: s})
	if err != nil {
		return nil, err
	}
	return map[string]bool{"valid": ok}, nil
}

func sharedSecret(p *Params) (interface{}, error) {
	priv, err := parseHexInt(p.PrivateKey)
	if err != nil {
		return nil, err
	}
	peer, err := ec.ParsePoint(p.PublicKey)
	if err != nil {
		return nil, err
	}
	dh, err := exchange.NewDiffieHellman(priv, p.Curve)
	if err != nil {
		return nil, err
	}
	secret, err := dh.SharedSecret(peer)
	if err != nil {
		return nil, err
	}
	return map[string]string{"secret": secret.Key()}, nil
}

func parseHexInt(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(strings.TrimPrefix(s, "0x"), 16)
	if !ok {
		return nil, errors.Errorf("invalid hex integer %q", s)
	}
	return v, nil
}

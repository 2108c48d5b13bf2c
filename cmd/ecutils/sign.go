package main

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	hex "github.com/tmthrgd/go-hex"
	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"

	"github.com/smallyu/go-ecutils/pkg/ec"
	"github.com/smallyu/go-ecutils/pkg/signature"
)

var errInvalidSignature = errors.New("signature is invalid")

type digestOptions struct {
	hash   string
	digest string
}

func (d *digestOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&d.hash, "hash", "sha256", "message hash: sha256 or sha3-256")
	cmd.Flags().StringVar(&d.digest, "digest", "", "hex digest to use instead of hashing the message")
}

// compute returns the digest of msg, or the --digest value when given.
func (d *digestOptions) compute(msg string) ([]byte, error) {
	if d.digest != "" {
		b, err := hex.DecodeString(d.digest)
		if err != nil {
			return nil, errors.Wrap(err, "invalid --digest")
		}
		return b, nil
	}
	switch d.hash {
	case "sha256":
		sum := sha256.Sum256([]byte(msg))
		return sum[:], nil
	case "sha3-256":
		sum := sha3.Sum256([]byte(msg))
		return sum[:], nil
	default:
		return nil, errors.Errorf("unknown hash %q", d.hash)
	}
}

func formatSignature(sig signature.Signature) string {
	return sig.R.Text(16) + ":" + sig.S.Text(16)
}

func parseSignature(s string) (signature.Signature, error) {
	rs, ss, ok := strings.Cut(s, ":")
	if !ok {
		return signature.Signature{}, errors.Errorf("invalid signature %q, want r:s in hex", s)
	}
	r, err := parseScalar(rs)
	if err != nil {
		return signature.Signature{}, err
	}
	sv, err := parseScalar(ss)
	if err != nil {
		return signature.Signature{}, err
	}
	return signature.Signature{R: r, S: sv}, nil
}

func newSignCmd(o *rootOptions) *cobra.Command {
	d := &digestOptions{}
	cmd := &cobra.Command{
		Use:   "sign <private-key> [message]",
		Short: "Signs a message digest with ECDSA",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, err := parseScalar(args[0])
			if err != nil {
				return err
			}
			msg := ""
			if len(args) > 1 {
				msg = args[1]
			}
			digest, err := d.compute(msg)
			if err != nil {
				return err
			}

			signer, err := signature.New(priv, o.curve, o.protocolOptions()...)
			if err != nil {
				return err
			}
			sig, err := signer.SignDigest(digest)
			if err != nil {
				return err
			}
			o.log.Debug("signed digest", zap.String("digest", hex.EncodeToString(digest)))

			fmt.Fprintf(cmd.OutOrStdout(), "digest:    %s\nsignature: %s\n", hex.EncodeToString(digest), formatSignature(sig))
			return nil
		},
	}
	d.register(cmd)
	return cmd
}

func newVerifyCmd(o *rootOptions) *cobra.Command {
	d := &digestOptions{}
	cmd := &cobra.Command{
		Use:   "verify <public-key> <signature> [message]",
		Short: "Verifies an ECDSA signature",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			curve, err := o.loadCurve()
			if err != nil {
				return err
			}
			pub, err := ec.ParsePoint(args[0])
			if err != nil {
				return err
			}
			sig, err := parseSignature(args[1])
			if err != nil {
				return err
			}
			msg := ""
			if len(args) > 2 {
				msg = args[2]
			}
			digest, err := d.compute(msg)
			if err != nil {
				return err
			}

			ok, err := signature.Verify(curve, pub, signature.HashToInt(digest, curve.Params().N), sig)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "invalid")
				return errInvalidSignature
			}
			fmt.Fprintln(cmd.OutOrStdout(), "valid")
			return nil
		},
	}
	d.register(cmd)
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smallyu/go-ecutils/pkg/curves"
	"github.com/smallyu/go-ecutils/pkg/ec"
	"github.com/smallyu/go-ecutils/pkg/exchange"
)

func newCurvesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "curves",
		Short: "Lists the supported named curves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range curves.Names() {
				params, err := curves.Params(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %3d bits  h=%s\n", name, params.P.BitLen(), params.H)
			}
			return nil
		},
	}
}

func newKeygenCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generates a private key and its public point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			curve, err := o.loadCurve()
			if err != nil {
				return err
			}
			priv, err := ec.RandomScalar(nil, curve.Params().N)
			if err != nil {
				return err
			}
			pub, err := curve.ScalarBaseMult(priv)
			if err != nil {
				return err
			}
			o.log.Info("generated key pair")

			fmt.Fprintf(cmd.OutOrStdout(), "private: %s\npublic:  %s\n", priv.Text(16), pub.Key())
			return nil
		},
	}
}

func newPubkeyCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pubkey <private-key>",
		Short: "Derives the public point of a hex private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, err := parseScalar(args[0])
			if err != nil {
				return err
			}
			dh, err := exchange.NewDiffieHellman(priv, o.curve, o.protocolOptions()...)
			if err != nil {
				return err
			}
			pub, err := dh.PublicKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pub.Key())
			return nil
		},
	}
}

func newDHCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dh <private-key> <peer-public-key>",
		Short: "Computes a Diffie-Hellman shared secret point",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, err := parseScalar(args[0])
			if err != nil {
				return err
			}
			peer, err := ec.ParsePoint(args[1])
			if err != nil {
				return err
			}
			dh, err := exchange.NewDiffieHellman(priv, o.curve, o.protocolOptions()...)
			if err != nil {
				return err
			}
			secret, err := dh.SharedSecret(peer)
			if err != nil {
				return err
			}
			o.log.Debug("computed shared secret", zap.String("peer", peer.Key()))

			fmt.Fprintln(cmd.OutOrStdout(), secret.Key())
			return nil
		},
	}
}

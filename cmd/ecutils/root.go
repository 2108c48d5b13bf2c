package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smallyu/go-ecutils/internal/logging"
	"github.com/smallyu/go-ecutils/pkg/curves"
	"github.com/smallyu/go-ecutils/pkg/ec"
	"github.com/smallyu/go-ecutils/pkg/protocol"
)

type rootOptions struct {
	curve   string
	verbose bool
	log     *zap.Logger
}

func (o *rootOptions) protocolOptions() []protocol.Option {
	return []protocol.Option{protocol.WithLogger(o.log)}
}

func (o *rootOptions) loadCurve() (*ec.Curve, error) {
	return curves.Get(o.curve)
}

func newRootCmd() *cobra.Command {
	o := &rootOptions{log: zap.NewNop()}

	root := &cobra.Command{
		Use:          "ecutils",
		Short:        "Elliptic-curve arithmetic, key exchange, signatures and message encoding",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(o.verbose)
			if err != nil {
				return err
			}
			o.log = l.With(zap.String("curve", o.curve))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = o.log.Sync()
		},
	}

	root.PersistentFlags().StringVar(
		&o.curve,
		"curve",
		curves.Default,
		fmt.Sprintf("named curve (%s)", strings.Join(curves.Names(), ", ")),
	)
	root.PersistentFlags().BoolVarP(
		&o.verbose,
		"verbose",
		"v",
		false,
		"enable debug logging",
	)

	root.AddCommand(
		newCurvesCmd(),
		newKeygenCmd(o),
		newPubkeyCmd(o),
		newDHCmd(o),
		newSignCmd(o),
		newVerifyCmd(o),
		newEncodeCmd(o),
		newDecodeCmd(o),
	)
	return root
}

func parseScalar(s string) (*big.Int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	k, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, errors.Errorf("invalid hex scalar %q", s)
	}
	return k, nil
}

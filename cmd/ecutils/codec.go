package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/smallyu/go-ecutils/pkg/koblitz"
)

func alphabetFlag(cmd *cobra.Command, alphabet *int) {
	cmd.Flags().IntVar(alphabet, "alphabet", int(koblitz.Alphabet65536), "alphabet size: 256 (UTF-8 bytes) or 65536 (UTF-16 code units)")
}

func newEncodeCmd(o *rootOptions) *cobra.Command {
	var alphabet int
	cmd := &cobra.Command{
		Use:   "encode <message>",
		Short: "Encodes a message as curve points (JSON records)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := koblitz.New(o.curve, o.protocolOptions()...)
			if err != nil {
				return err
			}
			encs, err := codec.EncodeChunks(args[0], koblitz.Alphabet(alphabet))
			if err != nil {
				return err
			}
			data, err := koblitz.Marshal(encs)
			if err != nil {
				return err
			}
			o.log.Debug("encoded message", zap.Int("chunks", len(encs)))

			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	alphabetFlag(cmd, &alphabet)
	return cmd
}

func newDecodeCmd(o *rootOptions) *cobra.Command {
	var alphabet int
	cmd := &cobra.Command{
		Use:   "decode <json|->",
		Short: "Decodes JSON records produced by encode; - reads stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if input == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return errors.Wrap(err, "read stdin")
				}
				input = strings.TrimSpace(string(b))
			}

			codec, err := koblitz.New(o.curve, o.protocolOptions()...)
			if err != nil {
				return err
			}
			encs, err := codec.Unmarshal([]byte(input))
			if err != nil {
				return err
			}
			msg, err := codec.DecodeChunks(encs, koblitz.Alphabet(alphabet))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	alphabetFlag(cmd, &alphabet)
	return cmd
}

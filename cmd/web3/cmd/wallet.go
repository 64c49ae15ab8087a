package cmd

import (
	"fmt"

	"github.com/rovshanmuradov/solana-web3/internal/wallet"
	"github.com/spf13/cobra"
)

func newKeygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new keypair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := wallet.Generate()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "New wallet generated!")
			fmt.Fprintf(out, "  Public Key:  %s\n", w.PublicKey())
			fmt.Fprintf(out, "  Private Key: %s\n", w.PrivateKey())
			fmt.Fprintln(out, "\nWARNING: Save your private key securely. Never share it with anyone!")
			return nil
		},
	}
}

func newPubkeyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "pubkey",
		Short: "Print the address of the configured wallet",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(cmd *cobra.Command, a *app, args []string) error {
			w, err := a.signer()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", w.PublicKey())
			return nil
		}),
	}
}

package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/rovshanmuradov/solana-web3/internal/units"
	"github.com/rovshanmuradov/solana-web3/pkg/web3"
	"github.com/spf13/cobra"
)

func newBlockhashCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "blockhash",
		Short: "Fetch the latest blockhash",
		Args:  cobra.NoArgs,
		RunE: c.withApp(func(cmd *cobra.Command, a *app, args []string) error {
			info, err := a.conn.GetLatestBlockhash(cmd.Context())
			if err != nil {
				return err
			}
			blockhash, err := info.Blockhash()
			if err != nil {
				return err
			}
			height, err := info.LastValidBlockHeight()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Blockhash:               %s\n", blockhash)
			fmt.Fprintf(out, "Last valid block height: %d\n", height)
			return nil
		}),
	}
}

func newAccountCmd(c *cli) *cobra.Command {
	var (
		encoding string
		slice    string
		showData bool
	)

	cmd := &cobra.Command{
		Use:   "account [address]",
		Short: "Show account info",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, a *app, args []string) error {
			pubkey, err := parsePubkey(args[0])
			if err != nil {
				return err
			}

			cfg := web3.NewGetAccountInfoConfig()
			enc, err := web3.ParseEncoding(encoding)
			if err != nil {
				return err
			}
			cfg = cfg.Encoding(enc)
			if slice != "" {
				dataSlice, err := parseSlice(slice)
				if err != nil {
					return err
				}
				cfg = cfg.DataSlice(dataSlice)
			}

			programAccount, err := a.conn.GetAccountInfoWithOptions(cmd.Context(), pubkey, cfg)
			if err != nil {
				return err
			}
			if programAccount == nil {
				return fmt.Errorf("%w: %s", web3.ErrAccountNotFound, pubkey)
			}
			account, err := programAccount.ToAccount()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Address:    %s\n", pubkey)
			fmt.Fprintf(out, "Balance:    %s\n", units.FormatSol(account.Lamports))
			fmt.Fprintf(out, "Owner:      %s\n", account.Owner)
			fmt.Fprintf(out, "Executable: %t\n", account.Executable)
			fmt.Fprintf(out, "Rent epoch: %d\n", account.RentEpoch)
			fmt.Fprintf(out, "Data:       %d bytes\n", len(account.Data))
			if showData {
				fmt.Fprintln(out, base64.StdEncoding.EncodeToString(account.Data))
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&encoding, "encoding", string(web3.EncodingBase64), "account data encoding (base58, base64, base64+zstd)")
	cmd.Flags().StringVar(&slice, "slice", "", "return only offset:length of the account data")
	cmd.Flags().BoolVar(&showData, "show-data", false, "print account data as base64")
	return cmd
}

func newProgramAccountsCmd(c *cli) *cobra.Command {
	var (
		memcmp   []string
		dataSize uint64
		encoding string
		slice    string
	)

	cmd := &cobra.Command{
		Use:   "program-accounts [program]",
		Short: "List accounts owned by a program",
		Args:  cobra.ExactArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, a *app, args []string) error {
			program, err := parsePubkey(args[0])
			if err != nil {
				return err
			}

			cfg, err := programAccountsConfig(memcmp, dataSize, cmd.Flags().Changed("data-size"), encoding, slice)
			if err != nil {
				return err
			}

			accounts, err := a.conn.GetProgramAccountsWithConfig(cmd.Context(), program, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, keyed := range accounts {
				fmt.Fprintf(out, "%s  %s  %d bytes\n",
					keyed.Pubkey, units.FormatSol(keyed.Account.Lamports), len(keyed.Account.Data))
			}
			fmt.Fprintf(out, "Total: %d accounts\n", len(accounts))
			return nil
		}),
	}

	cmd.Flags().StringArrayVar(&memcmp, "memcmp", nil, "memcmp filter offset:base58, may be repeated")
	cmd.Flags().Uint64Var(&dataSize, "data-size", 0, "match accounts with exactly this data size")
	cmd.Flags().StringVar(&encoding, "encoding", string(web3.EncodingBase64), "account data encoding (base58, base64, base64+zstd)")
	cmd.Flags().StringVar(&slice, "slice", "", "return only offset:length of the account data")
	return cmd
}

func programAccountsConfig(memcmp []string, dataSize uint64, withDataSize bool, encoding, slice string) (web3.RpcProgramAccountsConfig, error) {
	enc, err := web3.ParseEncoding(encoding)
	if err != nil {
		return nil, err
	}
	cfg := web3.NewRpcProgramAccountsConfig().Encoding(enc)

	var filters []web3.Filter
	for _, m := range memcmp {
		filter, err := parseMemcmp(m)
		if err != nil {
			return nil, err
		}
		filters = append(filters, filter)
	}
	if withDataSize {
		filters = append(filters, web3.NewDataSizeFilter(dataSize))
	}
	if len(filters) > 0 {
		cfg = cfg.AddFilters(filters...)
	}

	if slice != "" {
		dataSlice, err := parseSlice(slice)
		if err != nil {
			return nil, err
		}
		cfg = cfg.DataSlice(dataSlice)
	}
	return cfg, nil
}

func newBalanceCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "balance [address]",
		Short: "Check SOL balance",
		Long:  `Check the SOL balance of an address, or of the configured wallet when no address is given.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: c.withApp(func(cmd *cobra.Command, a *app, args []string) error {
			var address string
			if len(args) == 1 {
				address = args[0]
			} else {
				w, err := a.signer()
				if err != nil {
					return err
				}
				address = w.PublicKey().String()
			}
			pubkey, err := parsePubkey(address)
			if err != nil {
				return err
			}

			lamports, err := a.conn.GetBalance(cmd.Context(), pubkey)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", pubkey, units.FormatSol(lamports))
			return nil
		}),
	}
}

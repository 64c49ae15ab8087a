package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// cli holds the global flags shared by all subcommands.
type cli struct {
	cfgFile    string
	rpcURL     string
	commitment string
	walletPath string
	walletName string
	logFile    string
	debug      bool
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "web3",
		Short: "Solana web3 CLI",
		Long: `web3 talks to Solana clusters over JSON-RPC.

It provides commands for:
- Blockhash, account and program account queries
- Balance checks and SOL transfers
- RPC node health checks`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.StringVar(&c.rpcURL, "rpc", "", "RPC endpoint, several may be separated by commas")
	flags.StringVar(&c.commitment, "commitment", "", "commitment level (processed, confirmed, finalized)")
	flags.StringVar(&c.walletPath, "wallet", "", "wallet file (.csv, .yaml or keygen .json)")
	flags.StringVar(&c.walletName, "wallet-name", "", "wallet name inside the wallet file")
	flags.StringVar(&c.logFile, "log-file", "", "log file path, empty disables file logging")
	flags.BoolVar(&c.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newVersionCmd(),
		newKeygenCmd(),
		newPubkeyCmd(c),
		newBlockhashCmd(c),
		newAccountCmd(c),
		newProgramAccountsCmd(c),
		newBalanceCmd(c),
		newTransferCmd(c),
		newPingCmd(c),
	)
	return rootCmd
}

// Execute runs the command tree until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCmd().ExecuteContext(ctx)
}

// withApp wires the application for one command run and closes it afterwards.
func (c *cli) withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, c)
		if err != nil {
			return err
		}
		defer a.Close()

		return run(cmd, a, args)
	}
}

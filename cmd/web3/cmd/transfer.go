package cmd

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/rovshanmuradov/solana-web3/internal/programs/computebudget"
	"github.com/rovshanmuradov/solana-web3/internal/units"
	"github.com/rovshanmuradov/solana-web3/pkg/web3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type transferOptions struct {
	priority      string
	priorityFee   uint64
	computeUnits  uint32
	skipPreflight bool
	maxRetries    uint
	noConfirm     bool
}

func newTransferCmd(c *cli) *cobra.Command {
	opts := &transferOptions{}

	cmd := &cobra.Command{
		Use:   "transfer [recipient] [amount]",
		Short: "Send SOL from the configured wallet",
		Long: `Send SOL from the configured wallet to recipient. The amount is in SOL,
e.g. 0.5. Compute budget instructions are prepended when a priority level
or a custom priority fee is set.`,
		Args: cobra.ExactArgs(2),
		RunE: c.withApp(func(cmd *cobra.Command, a *app, args []string) error {
			return runTransfer(cmd, a, opts, args[0], args[1])
		}),
	}

	cmd.Flags().StringVar(&opts.priority, "priority", "", "priority level (none, low, medium, high, extreme)")
	cmd.Flags().Uint64Var(&opts.priorityFee, "priority-fee", 0, "custom priority fee in micro-lamports per compute unit")
	cmd.Flags().Uint32Var(&opts.computeUnits, "compute-units", 200_000, "compute unit limit used with --priority-fee")
	cmd.Flags().BoolVar(&opts.skipPreflight, "skip-preflight", false, "skip the preflight simulation")
	cmd.Flags().UintVar(&opts.maxRetries, "max-retries", 0, "max retries the RPC node may use when forwarding")
	cmd.Flags().BoolVar(&opts.noConfirm, "no-confirm", false, "do not wait for confirmation")
	return cmd
}

func runTransfer(cmd *cobra.Command, a *app, opts *transferOptions, recipient, amount string) error {
	ctx := cmd.Context()
	defer a.log.TrackPerformance("transfer")()

	to, err := parsePubkey(recipient)
	if err != nil {
		return err
	}
	lamports, err := units.SolToLamports(amount)
	if err != nil {
		return err
	}
	if lamports == 0 {
		return fmt.Errorf("amount must be positive")
	}

	signer, err := a.signer()
	if err != nil {
		return err
	}

	budget, err := priorityInstructions(a, opts)
	if err != nil {
		return err
	}

	tx := web3.NewTransaction().SetFeePayer(signer.PublicKey())
	for _, ix := range budget {
		tx.Add(ix)
	}
	tx.Add(system.NewTransferInstruction(lamports, signer.PublicKey(), to).Build())

	adapter := web3.NewWalletAdapter(signer, a.conn)

	var sig solana.Signature
	if opts.skipPreflight || opts.maxRetries > 0 {
		sig, err = sendWithOptions(cmd, a, adapter, tx, opts)
	} else {
		sig, err = adapter.SignAndSendTransaction(ctx, tx)
	}
	if err != nil {
		return err
	}

	txLog := a.log.WithTransaction(sig.String())
	txLog.Info("Transfer sent",
		zap.String("from", signer.PublicKey().String()),
		zap.String("to", to.String()),
		zap.Uint64("lamports", lamports))

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Signature: %s\n", sig)
	if opts.noConfirm {
		return nil
	}

	status, err := a.conn.ConfirmTransaction(ctx, sig, a.cfg.CommitmentType(), a.cfg.ConfirmTimeout())
	if err != nil {
		txLog.Warn("Transfer not confirmed", zap.Error(err))
		return err
	}
	fmt.Fprintf(out, "Status:    %s (slot %d)\n", status.ConfirmationStatus, status.Slot)
	return nil
}

// priorityInstructions: кастомная комиссия имеет приоритет над уровнем из флага или конфига
func priorityInstructions(a *app, opts *transferOptions) ([]*web3.TransactionInstruction, error) {
	pm := computebudget.NewPriorityManager(a.log.Logger)
	if opts.priorityFee > 0 {
		return pm.CreateCustomPriorityInstructions(opts.priorityFee, opts.computeUnits)
	}

	levelName := opts.priority
	if levelName == "" {
		levelName = a.cfg.PriorityLevel
	}
	level, err := computebudget.ParseLevel(levelName)
	if err != nil {
		return nil, err
	}
	return pm.CreatePriorityInstructions(level)
}

// sendWithOptions signs through the adapter and submits with explicit send options.
func sendWithOptions(cmd *cobra.Command, a *app, adapter *web3.WalletAdapter, tx *web3.Transaction, opts *transferOptions) (solana.Signature, error) {
	ctx := cmd.Context()

	info, err := a.conn.GetLatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, err
	}
	blockhash, err := info.Blockhash()
	if err != nil {
		return solana.Signature{}, err
	}
	tx.SetRecentBlockhash(blockhash)

	if _, err := adapter.SignTransaction(tx); err != nil {
		return solana.Signature{}, err
	}
	raw, err := tx.Serialize(web3.NewSerializeConfig())
	if err != nil {
		return solana.Signature{}, err
	}

	sendOpts := web3.NewSendRawTxOptions().SkipPreflight(opts.skipPreflight)
	if opts.maxRetries > 0 {
		sendOpts = sendOpts.MaxRetries(opts.maxRetries)
	}
	return a.conn.SendRawTransactionWithOptions(ctx, raw, sendOpts)
}

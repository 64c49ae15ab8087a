// pkg/web3/wallet.go
package web3

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"
)

// WalletAdapter signs and submits transactions on behalf of one wallet,
// mirroring the browser wallet adapter interface (publicKey,
// signTransaction, signAndSendTransaction, sendTransaction).
type WalletAdapter struct {
	signer     Signer
	connection *Connection
	logger     *zap.Logger
}

// NewWalletAdapter wraps signer. connection is used by SignAndSendTransaction
// and may be nil when only signing is needed.
func NewWalletAdapter(signer Signer, connection *Connection) *WalletAdapter {
	logger := zap.NewNop()
	if IsInitialized() {
		logger = Solana().Logger
	}
	return &WalletAdapter{
		signer:     signer,
		connection: connection,
		logger:     logger.Named("wallet-adapter"),
	}
}

// PublicKey returns the wallet address.
func (w *WalletAdapter) PublicKey() PublicKey {
	return PublicKeyFrom(w.signer.PublicKey())
}

// SignTransaction adds the wallet signature, keeping signatures already
// collected from other signers.
func (w *WalletAdapter) SignTransaction(tx *Transaction) (*Transaction, error) {
	if _, ok := tx.FeePayer(); !ok {
		tx.SetFeePayer(w.signer.PublicKey())
	}
	if err := tx.PartialSign(w.signer); err != nil {
		return nil, err
	}
	return tx, nil
}

// SignAndSendTransaction signs tx and submits it through the adapter's
// connection.
func (w *WalletAdapter) SignAndSendTransaction(ctx context.Context, tx *Transaction) (solana.Signature, error) {
	if w.connection == nil {
		return solana.Signature{}, NewError("wallet adapter has no connection")
	}
	return w.SendTransaction(ctx, tx, w.connection)
}

// SendTransaction fills a missing fee payer and recent blockhash, signs tx and
// submits it through connection.
func (w *WalletAdapter) SendTransaction(ctx context.Context, tx *Transaction, connection *Connection) (solana.Signature, error) {
	if connection == nil {
		return solana.Signature{}, NewError("connection is nil")
	}
	if _, ok := tx.FeePayer(); !ok {
		tx.SetFeePayer(w.signer.PublicKey())
	}
	if tx.RecentBlockhash() == "" {
		info, err := connection.GetLatestBlockhash(ctx)
		if err != nil {
			return solana.Signature{}, err
		}
		blockhash, err := info.Blockhash()
		if err != nil {
			return solana.Signature{}, err
		}
		tx.SetRecentBlockhash(blockhash)
	}

	if _, err := w.SignTransaction(tx); err != nil {
		return solana.Signature{}, err
	}
	raw, err := tx.Serialize(NewSerializeConfig())
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := connection.SendRawTransaction(ctx, raw)
	if err != nil {
		w.logger.Debug("Failed to send transaction",
			zap.String("wallet", w.signer.PublicKey().String()),
			zap.Error(err))
		return solana.Signature{}, err
	}
	return sig, nil
}

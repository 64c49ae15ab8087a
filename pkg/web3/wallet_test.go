package web3

import (
	"context"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletAdapterSendTransactionFillsMissingFields(t *testing.T) {
	sent := solana.Signature{9, 9}
	conn, transport := newTestConnection(t, map[string]string{
		"getLatestBlockhash": fmt.Sprintf(`{"context":{"slot":1},"value":{"blockhash":%q,"lastValidBlockHeight":10}}`, testBlockhash),
		"sendTransaction":    fmt.Sprintf("%q", sent.String()),
	})

	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	wallet := NewWalletAdapter(key, nil)
	assert.Equal(t, key.PublicKey().String(), wallet.PublicKey().String())

	tx := NewTransaction().Add(system.NewTransferInstruction(1, key.PublicKey(), solana.NewWallet().PublicKey()).Build())

	sig, err := wallet.SendTransaction(context.Background(), tx, conn)
	require.NoError(t, err)
	assert.Equal(t, sent, sig)

	feePayer, ok := tx.FeePayer()
	require.True(t, ok)
	assert.Equal(t, key.PublicKey(), feePayer)
	assert.Equal(t, testBlockhash, tx.RecentBlockhash())
	assert.NoError(t, tx.VerifySignatures(true))

	// на провод уходит ровно сериализованная подписанная транзакция
	wire, err := tx.Serialize(NewSerializeConfig())
	require.NoError(t, err)
	params := transport.lastParams(t, "sendTransaction")
	assert.Equal(t, base64.StdEncoding.EncodeToString(wire), params[0])
}

func TestWalletAdapterKeepsExistingBlockhash(t *testing.T) {
	conn, transport := newTestConnection(t, map[string]string{
		"sendTransaction": fmt.Sprintf("%q", solana.Signature{1}.String()),
	})
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	tx := NewTransaction().
		SetRecentBlockhash(testBlockhash).
		Add(system.NewTransferInstruction(1, key.PublicKey(), solana.NewWallet().PublicKey()).Build())

	_, err = NewWalletAdapter(key, conn).SignAndSendTransaction(context.Background(), tx)
	require.NoError(t, err)

	for _, c := range transport.calls {
		assert.NotEqual(t, "getLatestBlockhash", c.Method)
	}
}

func TestWalletAdapterSignTransaction(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	tx := NewTransaction().
		SetRecentBlockhash(testBlockhash).
		Add(system.NewTransferInstruction(1, key.PublicKey(), solana.NewWallet().PublicKey()).Build())

	signed, err := NewWalletAdapter(key, nil).SignTransaction(tx)
	require.NoError(t, err)
	assert.Same(t, tx, signed)

	_, ok := signed.Signature()
	assert.True(t, ok)
}

func TestWalletAdapterWithoutConnection(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	_, err = NewWalletAdapter(key, nil).SignAndSendTransaction(context.Background(), NewTransaction())
	assert.Error(t, err)
}

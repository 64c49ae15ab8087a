package web3

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testBlockhash = solana.Hash{1, 2, 3, 4, 5, 6, 7, 8}.String()

func newTransferTx(t *testing.T) (*Transaction, solana.PrivateKey, solana.PublicKey) {
	t.Helper()
	payer, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	to := solana.NewWallet().PublicKey()

	tx := NewTransaction().
		SetFeePayer(payer.PublicKey()).
		SetRecentBlockhash(testBlockhash).
		Add(system.NewTransferInstruction(1_000, payer.PublicKey(), to).Build())
	return tx, payer, to
}

func TestTransactionCompileMessage(t *testing.T) {
	tx, payer, to := newTransferTx(t)

	msg, err := tx.CompileMessage()
	require.NoError(t, err)
	assert.Equal(t, uint8(1), msg.Header.NumRequiredSignatures)
	assert.Equal(t, payer.PublicKey(), msg.AccountKeys[0])
	assert.Contains(t, msg.AccountKeys, to)
	assert.Equal(t, testBlockhash, msg.RecentBlockhash.String())

	data, err := tx.SerializeMessage()
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestTransactionCompileRequiresFields(t *testing.T) {
	payer := solana.NewWallet().PublicKey()

	_, err := NewTransaction().SetFeePayer(payer).CompileMessage()
	assert.ErrorContains(t, err, "recentBlockhash required")

	_, err = NewTransaction().SetRecentBlockhash(testBlockhash).CompileMessage()
	assert.ErrorContains(t, err, "fee payer required")

	_, err = NewTransaction().SetFeePayer(payer).SetRecentBlockhash("not-base58-0OIl").CompileMessage()
	assert.Error(t, err)
}

func TestTransactionSerializeRequiresSignatures(t *testing.T) {
	tx, payer, _ := newTransferTx(t)

	_, err := tx.Serialize(NewSerializeConfig())
	require.Error(t, err)
	assert.ErrorContains(t, err, "Missing signature for public key "+payer.PublicKey().String())

	unsigned, err := tx.Serialize(NewSerializeConfig().RequireAllSignatures(false))
	require.NoError(t, err)
	assert.NotEmpty(t, unsigned)

	require.NoError(t, tx.Sign(payer))
	signed, err := tx.Serialize(NewSerializeConfig())
	require.NoError(t, err)
	assert.Len(t, signed, len(unsigned))
	assert.NotEqual(t, unsigned, signed)

	sig, ok := tx.Signature()
	require.True(t, ok)
	assert.Equal(t, signed[1:65], sig[:])
}

func TestTransactionVerifySignatures(t *testing.T) {
	tx, payer, _ := newTransferTx(t)

	require.NoError(t, tx.AddSignature(payer.PublicKey(), solana.Signature{42}))

	_, err := tx.Serialize(NewSerializeConfig())
	assert.ErrorContains(t, err, "Invalid signature")

	data, err := tx.Serialize(NewSerializeConfig().VerifySignatures(false))
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	require.NoError(t, tx.PartialSign(payer))
	assert.NoError(t, tx.VerifySignatures(true))
}

func TestTransactionUnknownSigner(t *testing.T) {
	tx, _, _ := newTransferTx(t)
	stranger, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	assert.ErrorContains(t, tx.PartialSign(stranger), "unknown signer")
	assert.ErrorContains(t, tx.AddSignature(stranger.PublicKey(), solana.Signature{1}), "unknown signer")
}

func TestTransactionSignSetsFeePayer(t *testing.T) {
	payer, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	tx := NewTransaction().
		SetRecentBlockhash(testBlockhash).
		Add(system.NewTransferInstruction(1, payer.PublicKey(), solana.NewWallet().PublicKey()).Build())

	require.NoError(t, tx.Sign(payer))
	feePayer, ok := tx.FeePayer()
	require.True(t, ok)
	assert.Equal(t, payer.PublicKey(), feePayer)

	assert.Error(t, tx.Sign())
}

func TestTransactionAcceptsWrappedInstruction(t *testing.T) {
	payer, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	ix, err := TransactionInstructionFrom(system.NewTransferInstruction(1, payer.PublicKey(), solana.NewWallet().PublicKey()).Build())
	require.NoError(t, err)

	tx := NewTransaction().SetRecentBlockhash(testBlockhash).Add(ix)
	require.NoError(t, tx.Sign(payer))

	_, err = tx.Serialize(NewSerializeConfig())
	assert.NoError(t, err)
}

package wallet

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-web3/pkg/web3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ web3.Signer = (*Wallet)(nil)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewWallet(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	w, err := NewWallet(key.String())
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey(), w.PublicKey())
	assert.Equal(t, key.PublicKey().String(), w.String())

	_, err = NewWallet("0OIl")
	assert.Error(t, err)

	_, err = NewWallet(solana.SystemProgramID.String())
	assert.ErrorContains(t, err, "invalid private key length")
}

func TestWalletSign(t *testing.T) {
	w, err := Generate()
	require.NoError(t, err)

	msg := []byte("hello")
	sig, err := w.Sign(msg)
	require.NoError(t, err)
	assert.True(t, sig.Verify(w.PublicKey(), msg))
}

func TestLoadCSV(t *testing.T) {
	a, _ := Generate()
	path := writeFile(t, "wallets.csv", "name,private_key\nmain,"+a.privateKey.String()+"\nbroken,xyz\n")

	wallets, err := Load(path)
	require.NoError(t, err)
	require.Len(t, wallets, 1)
	assert.Equal(t, a.PublicKey(), wallets["main"].PublicKey())
	assert.Equal(t, "main", wallets["main"].Name)

	_, err = Load(writeFile(t, "empty.csv", "name,private_key\n"))
	assert.Error(t, err)
}

func TestLoadYAML(t *testing.T) {
	a, _ := Generate()
	b, _ := Generate()
	content := "wallets:\n" +
		"  - name: alpha\n    private_key: " + a.privateKey.String() + "\n" +
		"  - name: beta\n    private_key: " + b.privateKey.String() + "\n" +
		"  - name: \"\"\n    private_key: skipped\n"

	wallets, err := Load(writeFile(t, "wallets.yaml", content))
	require.NoError(t, err)
	require.Len(t, wallets, 2)

	w, err := Select(wallets, "")
	require.NoError(t, err)
	assert.Equal(t, "alpha", w.Name)

	w, err = Select(wallets, "beta")
	require.NoError(t, err)
	assert.Equal(t, b.PublicKey(), w.PublicKey())

	_, err = Select(wallets, "gamma")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestLoadKeygenFile(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	require.NoError(t, err)

	wallets, err := Load(writeFile(t, "id.json", string(data)))
	require.NoError(t, err)
	w, ok := wallets["id"]
	require.True(t, ok)
	assert.Equal(t, key.PublicKey(), w.PublicKey())
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load("wallet.txt")
	assert.ErrorContains(t, err, "unsupported")

	_, err = Select(nil, "")
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

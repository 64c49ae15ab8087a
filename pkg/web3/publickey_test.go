package web3

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicKeyRoundTrip(t *testing.T) {
	native := solana.NewWallet().PublicKey()

	pk, err := NewPublicKeyFromBytes(native.Bytes())
	require.NoError(t, err)
	assert.Equal(t, native.String(), pk.String())

	back, err := pk.Pubkey()
	require.NoError(t, err)
	assert.Equal(t, native, back)
	assert.Equal(t, native.Bytes(), pk.ToBytes())

	parsed, err := NewPublicKey(native.String())
	require.NoError(t, err)
	assert.True(t, parsed.Equals(pk))
}

func TestPublicKeyWrongSize(t *testing.T) {
	for _, n := range []int{0, 1, 31, 33, 64} {
		_, err := NewPublicKeyFromBytes(make([]byte, n))
		require.Error(t, err, "len %d", n)

		var parseErr *ParsePubkeyError
		require.True(t, errors.As(err, &parseErr))
		assert.ErrorIs(t, err, ErrPubkeyWrongSize)
	}

	// валидный base58, но 3 байта
	_, err := NewPublicKey("2g6d")
	assert.ErrorIs(t, err, ErrPubkeyWrongSize)
}

func TestPublicKeyInvalidString(t *testing.T) {
	_, err := NewPublicKey("0OIl")
	assert.ErrorIs(t, err, ErrPubkeyInvalid)
}

func TestZeroPublicKeyIsNotConvertible(t *testing.T) {
	var pk PublicKey
	assert.True(t, pk.IsZero())
	_, err := pk.Pubkey()
	assert.ErrorIs(t, err, ErrPubkeyWrongSize)
}

func TestPublicKeyJSON(t *testing.T) {
	pk := PublicKeyFrom(solana.SystemProgramID)

	data, err := json.Marshal(pk)
	require.NoError(t, err)
	assert.Equal(t, `"11111111111111111111111111111111"`, string(data))

	var decoded PublicKey
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equals(pk))

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &decoded))
}

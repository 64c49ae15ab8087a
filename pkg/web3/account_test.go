package web3

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-web3/pkg/web3/options"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRoundTrip(t *testing.T) {
	accounts := []Account{
		{
			Lamports:   1_000_000,
			Data:       []byte{1, 2, 3, 4, 5},
			Owner:      solana.TokenProgramID,
			Executable: false,
			RentEpoch:  361,
		},
		{
			Lamports:   math.MaxUint64,
			Data:       []byte{},
			Owner:      solana.SystemProgramID,
			Executable: true,
			RentEpoch:  math.MaxUint64,
		},
	}

	for _, want := range accounts {
		got, err := ProgramAccountFrom(want).ToAccount()
		require.NoError(t, err)
		assert.Equal(t, want, got)

		// через JSON: данные уходят кортежем [base64, "base64"]
		raw, err := json.Marshal(ProgramAccountFrom(want))
		require.NoError(t, err)
		decoded, err := options.Decode(raw)
		require.NoError(t, err)
		pa, err := ProgramAccountFromValue(decoded)
		require.NoError(t, err)
		got, err = pa.ToAccount()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestProgramAccountDataWireForm(t *testing.T) {
	pa := NewProgramAccount().SetData([]byte{1, 2, 3, 4})

	raw, err := json.Marshal(pa)
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":["AQIDBA==","base64"]}`, string(raw))

	data, err := pa.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)
}

func TestProgramAccountFromWireObject(t *testing.T) {
	raw, err := options.Decode([]byte(`{
		"data": ["AQIDBA==", "base64"],
		"executable": false,
		"lamports": 2039280,
		"owner": "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		"rentEpoch": 18446744073709551615,
		"space": 4
	}`))
	require.NoError(t, err)

	pa, err := ProgramAccountFromValue(raw)
	require.NoError(t, err)

	account, err := pa.ToAccount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2039280), account.Lamports)
	assert.Equal(t, []byte{1, 2, 3, 4}, account.Data)
	assert.Equal(t, solana.TokenProgramID, account.Owner)
	assert.Equal(t, uint64(math.MaxUint64), account.RentEpoch)

	space, err := pa.Space()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), space)
}

func TestProgramAccountMissingProperty(t *testing.T) {
	full := ProgramAccountFrom(Account{Lamports: 1, Data: []byte{1}, Owner: solana.SystemProgramID})

	for _, key := range []string{"lamports", "data", "owner", "rentEpoch", "executable"} {
		t.Run(key, func(t *testing.T) {
			pa := options.Delete(options.Clone(full), key)

			require.NotPanics(t, func() {
				account, err := pa.ToAccount()
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrMissingProperty)
				assert.ErrorIs(t, err, ErrInvalidProgramAccount)
				assert.Zero(t, account)
			})
		})
	}
}

func TestProgramAccountWrongTypes(t *testing.T) {
	pa := ProgramAccountFrom(Account{Owner: solana.SystemProgramID})
	pa["lamports"] = "not a number"
	_, err := pa.ToAccount()
	assert.ErrorIs(t, err, ErrInvalidProgramAccount)

	pa = ProgramAccountFrom(Account{Owner: solana.SystemProgramID})
	pa["owner"] = []byte{1, 2, 3}
	_, err = pa.ToAccount()
	assert.ErrorIs(t, err, ErrPubkeyWrongSize)
}

func TestProgramAccountFromNonObject(t *testing.T) {
	for _, v := range []any{nil, 42, "account", []any{1, 2}} {
		_, err := ProgramAccountFromValue(v)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidProgramAccount)

		var e *Error
		assert.True(t, errors.As(err, &e))
	}

	var nilAccount ProgramAccount
	_, err := nilAccount.ToAccount()
	assert.ErrorIs(t, err, ErrInvalidProgramAccount)
}

func TestAccountMetaRoundTrip(t *testing.T) {
	native := solana.NewAccountMeta(solana.SysVarRentPubkey, true, false)

	meta, err := AccountMetaFrom(native)
	require.NoError(t, err)

	back, err := meta.ToSolana()
	require.NoError(t, err)
	assert.Equal(t, native, back)

	data, err := json.Marshal(meta)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pubkey":"SysvarRent111111111111111111111111111111111","isSigner":false,"isWritable":true}`, string(data))
}

func TestAccountMetaMissingPubkey(t *testing.T) {
	_, err := NewAccountMeta().IsSigner(true).ToSolana()
	assert.ErrorIs(t, err, ErrMissingProperty)

	_, err = AccountMetaFrom(nil)
	assert.Error(t, err)
}

// pkg/web3/account.go
package web3

import (
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-web3/pkg/web3/options"
)

// Account is the native on-chain account record.
type Account struct {
	Lamports   uint64
	Data       []byte
	Owner      solana.PublicKey
	Executable bool
	RentEpoch  uint64
}

// AccountMeta describes one account referenced by an instruction
// (pubkey, isSigner, isWritable).
type AccountMeta options.Object

// NewAccountMeta returns an empty AccountMeta.
func NewAccountMeta() AccountMeta {
	return AccountMeta{}
}

// IsWritable sets isWritable.
func (m AccountMeta) IsWritable(isWritable bool) AccountMeta {
	return options.Set(m, "isWritable", isWritable)
}

// IsSigner sets isSigner.
func (m AccountMeta) IsSigner(isSigner bool) AccountMeta {
	return options.Set(m, "isSigner", isSigner)
}

// Pubkey sets pubkey.
func (m AccountMeta) Pubkey(pubkey solana.PublicKey) AccountMeta {
	return options.Set(m, "pubkey", pubkeyToValue(pubkey))
}

// AccountMetaFrom converts a native account meta.
func AccountMetaFrom(meta *solana.AccountMeta) (AccountMeta, error) {
	if meta == nil {
		return nil, NewError("account meta is nil")
	}
	return NewAccountMeta().
		IsSigner(meta.IsSigner).
		IsWritable(meta.IsWritable).
		Pubkey(meta.PublicKey), nil
}

// ToSolana converts back to the native account meta.
func (m AccountMeta) ToSolana() (*solana.AccountMeta, error) {
	rawKey, err := requireProperty(m, "pubkey")
	if err != nil {
		return nil, Errorf("invalid AccountMeta: %w", err)
	}
	key, err := toPubkey(rawKey)
	if err != nil {
		return nil, Errorf("invalid AccountMeta pubkey: %w", err)
	}

	meta := &solana.AccountMeta{PublicKey: key}
	if v, ok := options.Get(m, "isSigner"); ok {
		if meta.IsSigner, err = toBool(v); err != nil {
			return nil, Errorf("invalid AccountMeta isSigner: %w", err)
		}
	}
	if v, ok := options.Get(m, "isWritable"); ok {
		if meta.IsWritable, err = toBool(v); err != nil {
			return nil, Errorf("invalid AccountMeta isWritable: %w", err)
		}
	}
	return meta, nil
}

// ProgramAccount is the account object returned by getAccountInfo and
// getProgramAccounts. Named so it does not clash with solana-go's AccountInfo types.
type ProgramAccount options.Object

// NewProgramAccount returns an empty ProgramAccount.
func NewProgramAccount() ProgramAccount {
	return ProgramAccount{}
}

// Data returns the account data.
func (a ProgramAccount) Data() ([]byte, error) {
	v, err := requireProperty(a, "data")
	if err != nil {
		return nil, err
	}
	return toBytes(v)
}

// SetData stores the account data in its ["<base64>", "base64"] wire form.
func (a ProgramAccount) SetData(data []byte) ProgramAccount {
	return options.Set(a, "data", dataTuple(data))
}

// Executable reports whether the account holds a loaded program.
func (a ProgramAccount) Executable() (bool, error) {
	v, err := requireProperty(a, "executable")
	if err != nil {
		return false, err
	}
	return toBool(v)
}

// SetExecutable sets executable.
func (a ProgramAccount) SetExecutable(executable bool) ProgramAccount {
	return options.Set(a, "executable", executable)
}

// Lamports returns the account balance.
func (a ProgramAccount) Lamports() (uint64, error) {
	v, err := requireProperty(a, "lamports")
	if err != nil {
		return 0, err
	}
	return toUint64(v)
}

// SetLamports stores lamports as a big integer so u64 values survive JSON.
func (a ProgramAccount) SetLamports(lamports uint64) ProgramAccount {
	return options.Set(a, "lamports", new(big.Int).SetUint64(lamports))
}

// Owner returns the owning program.
func (a ProgramAccount) Owner() (PublicKey, error) {
	v, err := requireProperty(a, "owner")
	if err != nil {
		return PublicKey{}, err
	}
	return toPublicKey(v)
}

// SetOwner sets owner.
func (a ProgramAccount) SetOwner(owner PublicKey) ProgramAccount {
	return options.Set(a, "owner", owner)
}

// RentEpoch returns the rent epoch.
func (a ProgramAccount) RentEpoch() (uint64, error) {
	v, err := requireProperty(a, "rentEpoch")
	if err != nil {
		return 0, err
	}
	return toUint64(v)
}

// SetRentEpoch sets rentEpoch.
func (a ProgramAccount) SetRentEpoch(rentEpoch uint64) ProgramAccount {
	return options.Set(a, "rentEpoch", new(big.Int).SetUint64(rentEpoch))
}

// Space returns the allocated data size. Older nodes omit it.
func (a ProgramAccount) Space() (uint64, error) {
	v, err := requireProperty(a, "space")
	if err != nil {
		return 0, err
	}
	return toUint64(v)
}

// SetSpace sets space.
func (a ProgramAccount) SetSpace(space uint64) ProgramAccount {
	return options.Set(a, "space", new(big.Int).SetUint64(space))
}

// ProgramAccountFromValue checks that v is object-shaped.
func ProgramAccountFromValue(v any) (ProgramAccount, error) {
	obj, ok := options.AsObject(v)
	if !ok {
		if pa, isPA := v.(ProgramAccount); isPA && pa != nil {
			return pa, nil
		}
		return nil, NewError(ErrInvalidProgramAccount)
	}
	return ProgramAccount(obj), nil
}

// ToAccount converts to the native record.
func (a ProgramAccount) ToAccount() (Account, error) {
	if a == nil {
		return Account{}, NewError(ErrInvalidProgramAccount)
	}

	lamports, err := a.Lamports()
	if err != nil {
		return Account{}, Errorf("%w: lamports: %w", ErrInvalidProgramAccount, err)
	}
	data, err := a.Data()
	if err != nil {
		return Account{}, Errorf("%w: data: %w", ErrInvalidProgramAccount, err)
	}
	owner, err := a.Owner()
	if err != nil {
		return Account{}, Errorf("%w: owner: %w", ErrInvalidProgramAccount, err)
	}
	ownerKey, err := owner.Pubkey()
	if err != nil {
		return Account{}, NewError(err)
	}
	rentEpoch, err := a.RentEpoch()
	if err != nil {
		return Account{}, Errorf("%w: rentEpoch: %w", ErrInvalidProgramAccount, err)
	}
	executable, err := a.Executable()
	if err != nil {
		return Account{}, Errorf("%w: executable: %w", ErrInvalidProgramAccount, err)
	}

	return Account{
		Lamports:   lamports,
		Data:       data,
		Owner:      ownerKey,
		Executable: executable,
		RentEpoch:  rentEpoch,
	}, nil
}

// ProgramAccountFrom converts a native record.
func ProgramAccountFrom(account Account) ProgramAccount {
	return NewProgramAccount().
		SetLamports(account.Lamports).
		SetData(account.Data).
		SetOwner(PublicKeyFrom(account.Owner)).
		SetRentEpoch(account.RentEpoch).
		SetExecutable(account.Executable)
}

// KeyedAccount pairs an account with its address.
type KeyedAccount struct {
	Pubkey  solana.PublicKey
	Account Account
}

func (k KeyedAccount) String() string {
	return fmt.Sprintf("%s (%d lamports, %d bytes)", k.Pubkey, k.Account.Lamports, len(k.Account.Data))
}

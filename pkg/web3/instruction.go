// pkg/web3/instruction.go
package web3

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-web3/pkg/web3/options"
)

// TransactionInstructionConfig holds the constructor fields of a
// TransactionInstruction: keys, programId and data.
type TransactionInstructionConfig options.Object

// NewTransactionInstructionConfig returns an empty config.
func NewTransactionInstructionConfig() TransactionInstructionConfig {
	return TransactionInstructionConfig{}
}

// Keys sets keys.
func (c TransactionInstructionConfig) Keys(keys ...AccountMeta) TransactionInstructionConfig {
	list := make([]any, 0, len(keys))
	for _, k := range keys {
		list = append(list, k)
	}
	return options.Set(c, "keys", list)
}

// ProgramID sets programId.
func (c TransactionInstructionConfig) ProgramID(programID solana.PublicKey) TransactionInstructionConfig {
	return options.Set(c, "programId", pubkeyToValue(programID))
}

// Data sets data, stored as a ["<base64>", "base64"] tuple.
func (c TransactionInstructionConfig) Data(data []byte) TransactionInstructionConfig {
	return options.Set(c, "data", dataTuple(data))
}

// TransactionInstruction is a validated instruction. It implements
// solana.Instruction so it can be fed to any solana-go builder.
type TransactionInstruction struct {
	programID solana.PublicKey
	keys      []*solana.AccountMeta
	data      []byte
}

var _ solana.Instruction = (*TransactionInstruction)(nil)

// NewTransactionInstruction validates cfg. programId is required, keys and
// data default to empty.
func NewTransactionInstruction(cfg TransactionInstructionConfig) (*TransactionInstruction, error) {
	rawProgram, err := requireProperty(cfg, "programId")
	if err != nil {
		return nil, Errorf("invalid TransactionInstruction: %w", err)
	}
	programID, err := toPubkey(rawProgram)
	if err != nil {
		return nil, Errorf("invalid TransactionInstruction programId: %w", err)
	}

	ix := &TransactionInstruction{programID: programID}

	if rawKeys, ok := options.Get(cfg, "keys"); ok && rawKeys != nil {
		list, isArray := options.AsArray(rawKeys)
		if !isArray {
			return nil, Errorf("invalid TransactionInstruction keys: expected array, got %T", rawKeys)
		}
		for i, item := range list {
			meta, err := accountMetaFromValue(item)
			if err != nil {
				return nil, Errorf("invalid TransactionInstruction key %d: %w", i, err)
			}
			ix.keys = append(ix.keys, meta)
		}
	}

	if rawData, ok := options.Get(cfg, "data"); ok && rawData != nil {
		data, err := toBytes(rawData)
		if err != nil {
			return nil, Errorf("invalid TransactionInstruction data: %w", err)
		}
		ix.data = data
	}

	return ix, nil
}

// TransactionInstructionFrom converts any native instruction.
func TransactionInstructionFrom(instruction solana.Instruction) (*TransactionInstruction, error) {
	if instruction == nil {
		return nil, NewError("instruction is nil")
	}
	data, err := instruction.Data()
	if err != nil {
		return nil, Errorf("failed to encode instruction data: %w", err)
	}

	keys := make([]AccountMeta, 0, len(instruction.Accounts()))
	for _, account := range instruction.Accounts() {
		meta, err := AccountMetaFrom(account)
		if err != nil {
			return nil, err
		}
		keys = append(keys, meta)
	}

	cfg := NewTransactionInstructionConfig().
		Data(data).
		Keys(keys...).
		ProgramID(instruction.ProgramID())
	return NewTransactionInstruction(cfg)
}

// ProgramID implements solana.Instruction.
func (ix *TransactionInstruction) ProgramID() solana.PublicKey {
	return ix.programID
}

// Accounts implements solana.Instruction.
func (ix *TransactionInstruction) Accounts() []*solana.AccountMeta {
	return ix.keys
}

// Data implements solana.Instruction.
func (ix *TransactionInstruction) Data() ([]byte, error) {
	return ix.data, nil
}

// Keys returns the account metas in their object form.
func (ix *TransactionInstruction) Keys() []AccountMeta {
	out := make([]AccountMeta, 0, len(ix.keys))
	for _, k := range ix.keys {
		meta, _ := AccountMetaFrom(k)
		out = append(out, meta)
	}
	return out
}

func accountMetaFromValue(v any) (*solana.AccountMeta, error) {
	switch t := v.(type) {
	case *solana.AccountMeta:
		if t == nil {
			return nil, ErrMissingProperty
		}
		return t, nil
	case AccountMeta:
		return t.ToSolana()
	default:
		obj, ok := options.AsObject(v)
		if !ok {
			return nil, fmt.Errorf("account meta must be an object, got %T", v)
		}
		return AccountMeta(obj).ToSolana()
	}
}

// pkg/web3/api.go
package web3

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"
	"github.com/rovshanmuradov/solana-web3/pkg/web3/options"
)

// RpcAccountEncoding selects how account data is encoded in RPC responses.
type RpcAccountEncoding string

const (
	EncodingBase58     RpcAccountEncoding = "base58"
	EncodingBase64     RpcAccountEncoding = "base64"
	EncodingBase64Zstd RpcAccountEncoding = "base64+zstd"
)

// ParseEncoding accepts any casing of the supported encodings.
func ParseEncoding(s string) (RpcAccountEncoding, error) {
	switch enc := RpcAccountEncoding(strings.ToLower(s)); enc {
	case EncodingBase58, EncodingBase64, EncodingBase64Zstd:
		return enc, nil
	default:
		return "", NewError(fmt.Sprintf("unsupported account encoding %q", s))
	}
}

// RpcDataSliceConfig limits returned account data to [offset, offset+length).
type RpcDataSliceConfig struct {
	Offset uint64
	Length uint64
}

func (c RpcDataSliceConfig) value() options.Object {
	return options.New().
		Set("offset", c.Offset).
		Set("length", c.Length)
}

// Filter is one getProgramAccounts filter object.
type Filter options.Object

// NewMemcmpFilter matches raw bytes at offset. Bytes are sent base58 encoded.
func NewMemcmpFilter(offset uint64, data []byte) Filter {
	return NewMemcmpBase58Filter(offset, base58.Encode(data))
}

// NewMemcmpBase58Filter matches base58-encoded bytes at offset.
func NewMemcmpBase58Filter(offset uint64, data string) Filter {
	return newMemcmp(offset, data, EncodingBase58)
}

// NewMemcmpBase64Filter matches base64-encoded bytes at offset.
func NewMemcmpBase64Filter(offset uint64, data string) Filter {
	return newMemcmp(offset, data, EncodingBase64)
}

func newMemcmp(offset uint64, data string, encoding RpcAccountEncoding) Filter {
	memcmp := options.New().
		Set("offset", offset).
		Set("bytes", data).
		Set("encoding", string(encoding))
	return options.Set(Filter{}, "memcmp", memcmp)
}

// NewDataSizeFilter matches accounts whose data is exactly size bytes.
func NewDataSizeFilter(size uint64) Filter {
	return options.Set(Filter{}, "dataSize", size)
}

// IsMemcmp reports whether the filter is a memcmp filter.
func (f Filter) IsMemcmp() bool {
	return options.Has(f, "memcmp")
}

// MemcmpBytes decodes the compared bytes of a memcmp filter.
func (f Filter) MemcmpBytes() ([]byte, error) {
	raw, err := requireProperty(f, "memcmp")
	if err != nil {
		return nil, err
	}
	memcmp, ok := options.AsObject(raw)
	if !ok {
		return nil, fmt.Errorf("memcmp is not an object")
	}
	data, err := requireProperty(memcmp, "bytes")
	if err != nil {
		return nil, err
	}
	s, ok := data.(string)
	if !ok {
		return nil, fmt.Errorf("memcmp bytes must be a string, got %T", data)
	}
	enc, _ := options.Get(memcmp, "encoding")
	if enc == string(EncodingBase64) {
		return base64.StdEncoding.DecodeString(s)
	}
	return base58.Decode(s)
}

// Object returns the filter as a plain object.
func (f Filter) Object() options.Object {
	return options.Object(f)
}

// MarshalJSON implements json.Marshaler.
func (f Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any(f))
}

// RpcProgramAccountsConfig is the getProgramAccounts config object.
type RpcProgramAccountsConfig options.Object

// NewRpcProgramAccountsConfig returns an empty config.
func NewRpcProgramAccountsConfig() RpcProgramAccountsConfig {
	return RpcProgramAccountsConfig{}
}

// AddFilters sets filters; a second call replaces the list.
func (c RpcProgramAccountsConfig) AddFilters(filters ...Filter) RpcProgramAccountsConfig {
	list := make([]any, 0, len(filters))
	for _, f := range filters {
		list = append(list, f)
	}
	return options.Set(c, "filters", list)
}

// Encoding sets encoding.
func (c RpcProgramAccountsConfig) Encoding(encoding RpcAccountEncoding) RpcProgramAccountsConfig {
	return options.Set(c, "encoding", string(encoding))
}

// DataSlice sets dataSlice.
func (c RpcProgramAccountsConfig) DataSlice(slice RpcDataSliceConfig) RpcProgramAccountsConfig {
	return options.Set(c, "dataSlice", slice.value())
}

// Commitment sets commitment.
func (c RpcProgramAccountsConfig) Commitment(commitment rpc.CommitmentType) RpcProgramAccountsConfig {
	return options.Set(c, "commitment", string(commitment))
}

// MinContextSlot sets minContextSlot.
func (c RpcProgramAccountsConfig) MinContextSlot(slot uint64) RpcProgramAccountsConfig {
	return options.Set(c, "minContextSlot", slot)
}

// WithContext wraps the result in {context, value}.
func (c RpcProgramAccountsConfig) WithContext(withContext bool) RpcProgramAccountsConfig {
	return options.Set(c, "withContext", withContext)
}

// GetAccountInfoConfig is the getAccountInfo config object.
type GetAccountInfoConfig options.Object

// NewGetAccountInfoConfig returns an empty config.
func NewGetAccountInfoConfig() GetAccountInfoConfig {
	return GetAccountInfoConfig{}
}

// Encoding sets encoding.
func (c GetAccountInfoConfig) Encoding(encoding RpcAccountEncoding) GetAccountInfoConfig {
	return options.Set(c, "encoding", string(encoding))
}

// DataSlice sets dataSlice.
func (c GetAccountInfoConfig) DataSlice(slice RpcDataSliceConfig) GetAccountInfoConfig {
	return options.Set(c, "dataSlice", slice.value())
}

// Commitment sets commitment.
func (c GetAccountInfoConfig) Commitment(commitment rpc.CommitmentType) GetAccountInfoConfig {
	return options.Set(c, "commitment", string(commitment))
}

// MinContextSlot sets minContextSlot.
func (c GetAccountInfoConfig) MinContextSlot(slot uint64) GetAccountInfoConfig {
	return options.Set(c, "minContextSlot", slot)
}

// SendRawTxOptions is the sendRawTransaction options object.
type SendRawTxOptions options.Object

// NewSendRawTxOptions returns empty options.
func NewSendRawTxOptions() SendRawTxOptions {
	return SendRawTxOptions{}
}

// SkipPreflight sets skipPreflight.
func (o SendRawTxOptions) SkipPreflight(skip bool) SendRawTxOptions {
	return options.Set(o, "skipPreflight", skip)
}

// PreflightCommitment sets preflightCommitment.
func (o SendRawTxOptions) PreflightCommitment(commitment rpc.CommitmentType) SendRawTxOptions {
	return options.Set(o, "preflightCommitment", string(commitment))
}

// MaxRetries sets maxRetries. Retries are performed by the node, not here.
func (o SendRawTxOptions) MaxRetries(n uint) SendRawTxOptions {
	return options.Set(o, "maxRetries", n)
}

// MinContextSlot sets minContextSlot.
func (o SendRawTxOptions) MinContextSlot(slot uint64) SendRawTxOptions {
	return options.Set(o, "minContextSlot", slot)
}

// ProgramAccountsResultItem is one element of a getProgramAccounts result.
type ProgramAccountsResultItem options.Object

// Pubkey returns the account address.
func (i ProgramAccountsResultItem) Pubkey() (solana.PublicKey, error) {
	v, err := requireProperty(i, "pubkey")
	if err != nil {
		return solana.PublicKey{}, NewError(err)
	}
	key, err := toPubkey(v)
	if err != nil {
		return solana.PublicKey{}, NewError(err)
	}
	return key, nil
}

// Account returns the raw account object.
func (i ProgramAccountsResultItem) Account() (ProgramAccount, error) {
	v, err := requireProperty(i, "account")
	if err != nil {
		return nil, NewError(err)
	}
	return ProgramAccountFromValue(v)
}

// Keyed converts the item into a KeyedAccount.
func (i ProgramAccountsResultItem) Keyed() (KeyedAccount, error) {
	key, err := i.Pubkey()
	if err != nil {
		return KeyedAccount{}, err
	}
	raw, err := i.Account()
	if err != nil {
		return KeyedAccount{}, err
	}
	account, err := raw.ToAccount()
	if err != nil {
		return KeyedAccount{}, err
	}
	return KeyedAccount{Pubkey: key, Account: account}, nil
}

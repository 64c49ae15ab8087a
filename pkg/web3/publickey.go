// pkg/web3/publickey.go
package web3

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// PublicKey is the client-side form of a wallet or account address.
// It serializes to its base58 text.
type PublicKey struct {
	raw []byte
}

// NewPublicKey создает PublicKey из base58 строки
func NewPublicKey(str string) (PublicKey, error) {
	decoded, err := base58.Decode(str)
	if err != nil {
		return PublicKey{}, &ParsePubkeyError{Input: str, Err: ErrPubkeyInvalid}
	}
	if len(decoded) != solana.PublicKeyLength {
		return PublicKey{}, &ParsePubkeyError{Input: str, Err: ErrPubkeyWrongSize}
	}
	return PublicKey{raw: decoded}, nil
}

// NewPublicKeyFromBytes создает PublicKey из массива байт
func NewPublicKeyFromBytes(b []byte) (PublicKey, error) {
	if len(b) != solana.PublicKeyLength {
		return PublicKey{}, &ParsePubkeyError{
			Input: fmt.Sprintf("%d bytes", len(b)),
			Err:   ErrPubkeyWrongSize,
		}
	}
	raw := make([]byte, len(b))
	copy(raw, b)
	return PublicKey{raw: raw}, nil
}

// PublicKeyFrom converts a native key. It never fails.
func PublicKeyFrom(key solana.PublicKey) PublicKey {
	raw := make([]byte, solana.PublicKeyLength)
	copy(raw, key[:])
	return PublicKey{raw: raw}
}

// ToBytes returns a copy of the key bytes.
func (p PublicKey) ToBytes() []byte {
	out := make([]byte, len(p.raw))
	copy(out, p.raw)
	return out
}

// String returns the base58 encoding.
func (p PublicKey) String() string {
	return base58.Encode(p.raw)
}

// IsZero reports whether the key was never set.
func (p PublicKey) IsZero() bool {
	return len(p.raw) == 0
}

// Equals compares two keys byte by byte.
func (p PublicKey) Equals(other PublicKey) bool {
	return bytes.Equal(p.raw, other.raw)
}

// Pubkey converts back to the native 32-byte key.
func (p PublicKey) Pubkey() (solana.PublicKey, error) {
	if len(p.raw) != solana.PublicKeyLength {
		return solana.PublicKey{}, &ParsePubkeyError{
			Input: fmt.Sprintf("%d bytes", len(p.raw)),
			Err:   ErrPubkeyWrongSize,
		}
	}
	var out solana.PublicKey
	copy(out[:], p.raw)
	return out, nil
}

// MarshalJSON implements json.Marshaler.
func (p PublicKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PublicKey) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := NewPublicKey(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// pubkeyToValue is the client-side value of a native key, used wherever a
// config object needs a PublicKey property.
func pubkeyToValue(key solana.PublicKey) PublicKey {
	return PublicKeyFrom(key)
}

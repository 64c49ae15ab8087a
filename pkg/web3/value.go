// pkg/web3/value.go
package web3

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/mr-tron/base58"
	"github.com/rovshanmuradov/solana-web3/pkg/web3/options"
)

// Helpers below convert property values that may come either from host code
// (uint64, []byte, PublicKey) or from a decoded RPC payload (json.Number,
// [data, encoding] tuples, base58 strings).

func requireProperty[T ~map[string]any](obj T, key string) (any, error) {
	v, ok := options.Get(obj, key)
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingProperty, key)
	}
	return v, nil
}

func toUint64(v any) (uint64, error) {
	switch t := v.(type) {
	case uint64:
		return t, nil
	case uint32:
		return uint64(t), nil
	case uint:
		return uint64(t), nil
	case int:
		if t < 0 {
			return 0, fmt.Errorf("negative value %d", t)
		}
		return uint64(t), nil
	case int64:
		if t < 0 {
			return 0, fmt.Errorf("negative value %d", t)
		}
		return uint64(t), nil
	case float64:
		if t < 0 || t != math.Trunc(t) || t >= math.MaxUint64 {
			return 0, fmt.Errorf("value %v is not an unsigned integer", t)
		}
		return uint64(t), nil
	case json.Number:
		return strconv.ParseUint(t.String(), 10, 64)
	case *big.Int:
		if t == nil || t.Sign() < 0 || !t.IsUint64() {
			return 0, fmt.Errorf("value %v does not fit in u64", t)
		}
		return t.Uint64(), nil
	case string:
		return strconv.ParseUint(t, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected numeric type %T", v)
	}
}

func toBool(v any) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		return strconv.ParseBool(t)
	default:
		return false, fmt.Errorf("unexpected boolean type %T", v)
	}
}

func toBytes(v any) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		return t, nil
	case string:
		// голая строка в ответе RPC это base58
		return base58.Decode(t)
	case []any:
		if len(t) == 2 {
			if _, ok := t[0].(string); ok {
				return decodeDataTuple(t)
			}
		}
		out := make([]byte, len(t))
		for i, item := range t {
			n, err := toUint64(item)
			if err != nil || n > math.MaxUint8 {
				return nil, fmt.Errorf("invalid byte at index %d", i)
			}
			out[i] = byte(n)
		}
		return out, nil
	case options.Object:
		// {"type":"Buffer","data":[...]}
		if data, ok := t["data"]; ok {
			return toBytes(data)
		}
		return nil, fmt.Errorf("object is not a byte buffer")
	default:
		return nil, fmt.Errorf("unexpected data type %T", v)
	}
}

// decodeDataTuple delegates ["<payload>", "<encoding>"] to solana-go, which
// knows base58, base64 and base64+zstd.
func decodeDataTuple(tuple []any) ([]byte, error) {
	raw, err := json.Marshal(tuple)
	if err != nil {
		return nil, err
	}
	var data rpc.DataBytesOrJSON
	if err := data.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("failed to decode account data: %w", err)
	}
	out := data.GetBinary()
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

// dataTuple is the wire form of raw bytes: ["<base64>", "base64"]. A bare
// []byte would marshal to a base64 string that reads back as base58.
func dataTuple(data []byte) []any {
	return []any{base64.StdEncoding.EncodeToString(data), string(EncodingBase64)}
}

func toPublicKey(v any) (PublicKey, error) {
	switch t := v.(type) {
	case PublicKey:
		return t, nil
	case *PublicKey:
		if t == nil {
			return PublicKey{}, fmt.Errorf("%w: nil public key", ErrMissingProperty)
		}
		return *t, nil
	case solana.PublicKey:
		return PublicKeyFrom(t), nil
	case string:
		return NewPublicKey(t)
	case []byte:
		return NewPublicKeyFromBytes(t)
	default:
		return PublicKey{}, fmt.Errorf("unexpected public key type %T", v)
	}
}

func toPubkey(v any) (solana.PublicKey, error) {
	pk, err := toPublicKey(v)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return pk.Pubkey()
}

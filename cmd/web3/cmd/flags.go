package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-web3/pkg/web3"
)

// parseMemcmp разбирает фильтр вида "offset:base58bytes"
func parseMemcmp(s string) (web3.Filter, error) {
	offset, data, ok := strings.Cut(s, ":")
	if !ok || data == "" {
		return nil, fmt.Errorf("invalid memcmp filter %q: expected offset:base58", s)
	}
	off, err := strconv.ParseUint(offset, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid memcmp offset %q: %w", offset, err)
	}
	filter := web3.NewMemcmpBase58Filter(off, data)
	if _, err := filter.MemcmpBytes(); err != nil {
		return nil, fmt.Errorf("invalid memcmp bytes %q: %w", data, err)
	}
	return filter, nil
}

// parseSlice разбирает срез данных вида "offset:length"
func parseSlice(s string) (web3.RpcDataSliceConfig, error) {
	offset, length, ok := strings.Cut(s, ":")
	if !ok {
		return web3.RpcDataSliceConfig{}, fmt.Errorf("invalid data slice %q: expected offset:length", s)
	}
	off, err := strconv.ParseUint(offset, 10, 64)
	if err != nil {
		return web3.RpcDataSliceConfig{}, fmt.Errorf("invalid data slice offset %q: %w", offset, err)
	}
	n, err := strconv.ParseUint(length, 10, 64)
	if err != nil {
		return web3.RpcDataSliceConfig{}, fmt.Errorf("invalid data slice length %q: %w", length, err)
	}
	return web3.RpcDataSliceConfig{Offset: off, Length: n}, nil
}

func parsePubkey(s string) (solana.PublicKey, error) {
	key, err := web3.NewPublicKey(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid address: %w", err)
	}
	return key.Pubkey()
}

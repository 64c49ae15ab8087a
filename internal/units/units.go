// internal/units/units.go
package units

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// SolDecimals is the number of lamport digits in one SOL.
const SolDecimals = 9

// LamportsToSol конвертирует lamports в SOL без потери точности
func LamportsToSol(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -SolDecimals)
}

// SolToLamports парсит сумму в SOL ("1.5", "0.000000001") и возвращает lamports.
// Дробная часть меньше одного lamport считается ошибкой.
func SolToLamports(amount string) (uint64, error) {
	sol, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid SOL amount %q: %w", amount, err)
	}
	if sol.IsNegative() {
		return 0, fmt.Errorf("negative SOL amount %q", amount)
	}

	lamports := sol.Shift(SolDecimals)
	if !lamports.IsInteger() {
		return 0, fmt.Errorf("SOL amount %q has more than %d decimals", amount, SolDecimals)
	}
	if lamports.GreaterThan(decimal.NewFromBigInt(new(big.Int).SetUint64(^uint64(0)), 0)) {
		return 0, fmt.Errorf("SOL amount %q overflows u64 lamports", amount)
	}
	return lamports.BigInt().Uint64(), nil
}

// FormatSol форматирует баланс вида "1.5 SOL"
func FormatSol(lamports uint64) string {
	return LamportsToSol(lamports).String() + " SOL"
}

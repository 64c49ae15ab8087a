// internal/programs/computebudget/priority.go
package computebudget

import (
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
	budget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/rovshanmuradov/solana-web3/pkg/web3"
	"go.uber.org/zap"
)

type PriorityLevel string

const (
	PriorityNone    PriorityLevel = "none"
	PriorityLow     PriorityLevel = "low"
	PriorityMedium  PriorityLevel = "medium"
	PriorityHigh    PriorityLevel = "high"
	PriorityExtreme PriorityLevel = "extreme"
)

type PriorityConfig struct {
	ComputeUnits uint32 // Number of compute units
	PriorityFee  uint64 // Priority fee in micro-lamports per compute unit
	HeapSize     uint32 // Additional heap memory (optional)
}

type PriorityManager struct {
	profiles map[PriorityLevel]PriorityConfig
	logger   *zap.Logger
}

func NewPriorityManager(logger *zap.Logger) *PriorityManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriorityManager{
		profiles: map[PriorityLevel]PriorityConfig{
			PriorityNone: {},
			PriorityLow: {
				ComputeUnits: 200_000,
				PriorityFee:  1_000,
			},
			PriorityMedium: {
				ComputeUnits: 400_000,
				PriorityFee:  5_000,
			},
			PriorityHigh: {
				ComputeUnits: 800_000,
				PriorityFee:  10_000,
			},
			PriorityExtreme: {
				ComputeUnits: 1_000_000,
				PriorityFee:  50_000,
				HeapSize:     32 * 1024, // 32KB
			},
		},
		logger: logger.Named("compute-budget"),
	}
}

// ParseLevel accepts a profile name in any case.
func ParseLevel(s string) (PriorityLevel, error) {
	level := PriorityLevel(strings.ToLower(strings.TrimSpace(s)))
	switch level {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, PriorityExtreme:
		return level, nil
	case "":
		return PriorityNone, nil
	default:
		return "", fmt.Errorf("unknown priority level: %s", s)
	}
}

func (pm *PriorityManager) CreatePriorityInstructions(level PriorityLevel) ([]*web3.TransactionInstruction, error) {
	config, ok := pm.profiles[level]
	if !ok {
		return nil, fmt.Errorf("unknown priority level: %s", level)
	}
	return pm.createInstructions(config)
}

func (pm *PriorityManager) CreateCustomPriorityInstructions(priorityFee uint64, units uint32) ([]*web3.TransactionInstruction, error) {
	return pm.createInstructions(PriorityConfig{
		ComputeUnits: units,
		PriorityFee:  priorityFee,
	})
}

// createInstructions builds native compute budget instructions and converts
// them into web3 instructions so they can be added to a web3.Transaction.
func (pm *PriorityManager) createInstructions(config PriorityConfig) ([]*web3.TransactionInstruction, error) {
	var native []solana.Instruction

	// Set compute unit limit
	if config.ComputeUnits > 0 {
		native = append(native, budget.NewSetComputeUnitLimitInstruction(config.ComputeUnits).Build())
	}

	// Set compute unit price
	if config.PriorityFee > 0 {
		native = append(native, budget.NewSetComputeUnitPriceInstruction(config.PriorityFee).Build())
	}

	// Request heap frame
	if config.HeapSize > 0 {
		native = append(native, budget.NewRequestHeapFrameInstruction(config.HeapSize).Build())
	}

	out := make([]*web3.TransactionInstruction, 0, len(native))
	for _, ix := range native {
		converted, err := web3.TransactionInstructionFrom(ix)
		if err != nil {
			return nil, fmt.Errorf("failed to convert compute budget instruction: %w", err)
		}
		out = append(out, converted)
	}

	pm.logger.Debug("Compute budget instructions created",
		zap.Uint32("compute_units", config.ComputeUnits),
		zap.Uint64("priority_fee", config.PriorityFee),
		zap.Int("count", len(out)))
	return out, nil
}

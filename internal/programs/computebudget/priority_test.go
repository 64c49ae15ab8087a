package computebudget

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var programID = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")

func TestCreatePriorityInstructions(t *testing.T) {
	pm := NewPriorityManager(zap.NewNop())

	tests := []struct {
		level PriorityLevel
		want  int
	}{
		{PriorityNone, 0},
		{PriorityLow, 2},
		{PriorityHigh, 2},
		{PriorityExtreme, 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			ixs, err := pm.CreatePriorityInstructions(tt.level)
			require.NoError(t, err)
			require.Len(t, ixs, tt.want)
			for _, ix := range ixs {
				assert.Equal(t, programID, ix.ProgramID())
				assert.Empty(t, ix.Accounts())
			}
		})
	}

	_, err := pm.CreatePriorityInstructions("insane")
	assert.Error(t, err)
}

func TestCustomPriorityInstructionData(t *testing.T) {
	pm := NewPriorityManager(nil)

	ixs, err := pm.CreateCustomPriorityInstructions(5_000, 300_000)
	require.NoError(t, err)
	require.Len(t, ixs, 2)

	limit, err := ixs[0].Data()
	require.NoError(t, err)
	// discriminator 2 + u32 LE
	assert.Equal(t, []byte{2, 0xe0, 0x93, 0x04, 0x00}, limit)

	price, err := ixs[1].Data()
	require.NoError(t, err)
	// discriminator 3 + u64 LE
	assert.Equal(t, []byte{3, 0x88, 0x13, 0, 0, 0, 0, 0, 0}, price)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("HIGH")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, level)

	level, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, PriorityNone, level)

	_, err = ParseLevel("turbo")
	assert.Error(t, err)
}

package web3

import (
	"errors"
	"testing"

	"github.com/rovshanmuradov/solana-web3/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSolanaPanicsWhenUninitialized(t *testing.T) {
	prev := global.Load()
	global.Store(nil)
	t.Cleanup(func() { global.Store(prev) })

	assert.False(t, IsInitialized())
	assert.PanicsWithValue(t, "web3: library handle is not initialized; call web3.Init() first", func() {
		Solana()
	})
	assert.Panics(t, func() {
		_, _ = NewConnection("http://localhost:8899")
	})
}

func TestInitReplacesHandle(t *testing.T) {
	prev := global.Load()
	t.Cleanup(func() { global.Store(prev) })

	first := &Library{}
	Init(first)
	require.True(t, IsInitialized())
	assert.Same(t, first, Solana())
	assert.NotNil(t, Solana().Logger)

	second := DefaultLibrary(zap.NewNop())
	Init(second)
	assert.Same(t, second, Solana())
}

func TestDefaultLibraryDials(t *testing.T) {
	lib := DefaultLibrary(nil)
	transport, err := lib.Dial("http://localhost:8899")
	require.NoError(t, err)
	assert.IsType(t, &rpc.NodeClient{}, transport)

	transport, err = lib.Dial("http://a:8899, http://b:8899,")
	require.NoError(t, err)
	pool, ok := transport.(*rpc.Pool)
	require.True(t, ok)
	assert.Len(t, pool.Clients, 2)

	_, err = lib.Dial(" , ")
	assert.ErrorIs(t, err, rpc.ErrNoRPCNodes)
}

func TestSplitEndpoints(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, SplitEndpoints(" http://a ,,http://b"))
	assert.Empty(t, SplitEndpoints(""))
}

func TestConnectionDialError(t *testing.T) {
	prev := global.Load()
	t.Cleanup(func() { global.Store(prev) })

	dialErr := errors.New("bad endpoint")
	Init(&Library{Dial: func(string) (Transport, error) { return nil, dialErr }})

	_, err := NewConnection("nowhere")
	require.Error(t, err)
	assert.ErrorIs(t, err, dialErr)

	var e *Error
	assert.True(t, errors.As(err, &e))
}

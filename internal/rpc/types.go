// internal/rpc/types.go
package rpc

import (
	"context"
	"sync"
	"time"

	"github.com/rovshanmuradov/solana-web3/internal/metrics"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 30 * time.Second
)

// Caller is the one call shape every transport in this package serves. The
// solana-go jsonrpc.RPCClient satisfies it.
type Caller interface {
	CallForInto(ctx context.Context, out interface{}, method string, params []interface{}) error
}

// Options настраивают создание узла
type Options struct {
	Timeout       time.Duration
	CustomHeaders map[string]string
	Metrics       *metrics.Collector
	Logger        *zap.Logger
}

// NodeClient представляет отдельный RPC узел
type NodeClient struct {
	caller    Caller
	URL       string
	active    bool
	mutex     sync.RWMutex
	stats     *nodeStats
	collector *metrics.Collector
	logger    *zap.Logger
}

// nodeStats содержит метрики производительности RPC узла
type nodeStats struct {
	successCount uint64
	errorCount   uint64
	latency      time.Duration
	mutex        sync.RWMutex
}

// Pool представляет пул RPC клиентов
type Pool struct {
	Clients   []*NodeClient
	Logger    *zap.Logger
	CurrIndex int
	Mutex     sync.Mutex
}

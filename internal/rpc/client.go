// internal/rpc/client.go
package rpc

import (
	"context"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"go.uber.org/zap"
)

// NewNodeClient создает клиент узла поверх solana-go jsonrpc
func NewNodeClient(url string, opts Options) *NodeClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	caller := jsonrpc.NewClientWithOpts(url, &jsonrpc.RPCClientOpts{
		HTTPClient:    &http.Client{Timeout: timeout},
		CustomHeaders: opts.CustomHeaders,
	})

	return newNodeClient(url, caller, opts)
}

// NewNodeClientWithCaller оборачивает готовый транспорт (используется в тестах)
func NewNodeClientWithCaller(url string, caller Caller, opts Options) *NodeClient {
	return newNodeClient(url, caller, opts)
}

func newNodeClient(url string, caller Caller, opts Options) *NodeClient {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &NodeClient{
		caller:    caller,
		URL:       url,
		active:    true,
		stats:     &nodeStats{},
		collector: opts.Metrics,
		logger:    logger.Named("rpc-node"),
	}
	c.collector.SetNodeActive(url, true)
	return c
}

// CallForInto выполняет один JSON-RPC запрос и декодирует result в out.
// Повторов нет: ошибка сразу возвращается вызывающему.
func (c *NodeClient) CallForInto(ctx context.Context, out interface{}, method string, params []interface{}) error {
	start := time.Now()
	err := c.caller.CallForInto(ctx, out, method, params)
	duration := time.Since(start)

	c.UpdateMetrics(err == nil, duration)
	c.collector.RecordRPC(method, c.URL, duration, err == nil)

	if err != nil {
		c.logger.Debug("RPC request failed",
			zap.String("url", c.URL),
			zap.String("method", method),
			zap.Duration("latency", duration),
			zap.Error(err))
		return NewError(err, c.URL, method)
	}
	return nil
}

// GetMetrics возвращает текущие метрики узла
func (c *NodeClient) GetMetrics() (uint64, uint64, time.Duration) {
	c.stats.mutex.RLock()
	defer c.stats.mutex.RUnlock()

	return c.stats.successCount, c.stats.errorCount, c.stats.latency
}

// SetActive устанавливает статус активности узла
func (c *NodeClient) SetActive(state bool) {
	c.mutex.Lock()
	c.active = state
	c.mutex.Unlock()
	c.collector.SetNodeActive(c.URL, state)
}

// IsActive возвращает текущий статус активности узла
func (c *NodeClient) IsActive() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.active
}

// UpdateMetrics обновляет метрики узла
func (c *NodeClient) UpdateMetrics(success bool, latency time.Duration) {
	c.stats.mutex.Lock()
	defer c.stats.mutex.Unlock()

	if success {
		c.stats.successCount++
	} else {
		c.stats.errorCount++
	}

	if c.stats.latency == 0 {
		c.stats.latency = latency
		return
	}
	c.stats.latency = (c.stats.latency + latency) / 2 // скользящее среднее
}

// CheckHealth вызывает getHealth и обновляет статус узла
func (c *NodeClient) CheckHealth(ctx context.Context) error {
	var out string
	err := c.CallForInto(ctx, &out, "getHealth", nil)
	c.SetActive(err == nil)
	return err
}

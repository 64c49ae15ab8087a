// pkg/web3/solana.go
package web3

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rovshanmuradov/solana-web3/internal/metrics"
	"github.com/rovshanmuradov/solana-web3/internal/rpc"
	"go.uber.org/zap"
)

// Transport carries one JSON-RPC request to a cluster and decodes its result.
// jsonrpc.RPCClient from solana-go, *rpc.NodeClient and *rpc.Pool all satisfy it.
type Transport interface {
	CallForInto(ctx context.Context, out interface{}, method string, params []interface{}) error
}

// DialFunc opens a transport for an endpoint.
type DialFunc func(endpoint string) (Transport, error)

// Library is the process-wide handle every Connection is created through.
type Library struct {
	Dial    DialFunc
	Logger  *zap.Logger
	Metrics *metrics.Collector
}

// LibraryOption customises DefaultLibrary.
type LibraryOption func(*libraryConfig)

type libraryConfig struct {
	timeout time.Duration
	headers map[string]string
	metrics *metrics.Collector
}

// WithTimeout sets the HTTP timeout of dialed transports.
func WithTimeout(d time.Duration) LibraryOption {
	return func(c *libraryConfig) { c.timeout = d }
}

// WithHeaders adds custom HTTP headers (API keys etc.) to every request.
func WithHeaders(headers map[string]string) LibraryOption {
	return func(c *libraryConfig) { c.headers = headers }
}

// WithMetrics records per-call metrics into collector.
func WithMetrics(collector *metrics.Collector) LibraryOption {
	return func(c *libraryConfig) { c.metrics = collector }
}

// DefaultLibrary dials solana-go JSON-RPC clients. An endpoint listing several
// comma separated URLs is dialed as an rpc.Pool that picks one node per call.
func DefaultLibrary(logger *zap.Logger, opts ...LibraryOption) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := &libraryConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Library{
		Logger:  logger,
		Metrics: cfg.metrics,
		Dial: func(endpoint string) (Transport, error) {
			rpcOpts := rpc.Options{
				Timeout:       cfg.timeout,
				CustomHeaders: cfg.headers,
				Metrics:       cfg.metrics,
				Logger:        logger,
			}

			urls := SplitEndpoints(endpoint)
			switch len(urls) {
			case 0:
				return nil, rpc.ErrNoRPCNodes
			case 1:
				return rpc.NewNodeClient(urls[0], rpcOpts), nil
			}
			pool, err := rpc.NewPoolFromURLs(urls, rpcOpts)
			if err != nil {
				return nil, err
			}
			return pool, nil
		},
	}
}

// SplitEndpoints разбивает список URL через запятую, пустые элементы пропускаются
func SplitEndpoints(endpoint string) []string {
	var urls []string
	for _, part := range strings.Split(endpoint, ",") {
		if part = strings.TrimSpace(part); part != "" {
			urls = append(urls, part)
		}
	}
	return urls
}

var global atomic.Pointer[Library]

// Init installs the library handle. Calling it again replaces the handle.
func Init(lib *Library) {
	if lib != nil && lib.Logger == nil {
		lib.Logger = zap.NewNop()
	}
	global.Store(lib)
}

// Solana returns the installed library handle. It panics when Init was never
// called, since nothing in this package can work without a transport.
func Solana() *Library {
	lib := global.Load()
	if lib == nil {
		panic("web3: library handle is not initialized; call web3.Init() first")
	}
	return lib
}

// IsInitialized reports whether Init has installed a handle.
func IsInitialized() bool {
	return global.Load() != nil
}

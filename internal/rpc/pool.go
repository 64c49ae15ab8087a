// internal/rpc/pool.go
package rpc

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NewPool создает новый пул клиентов
func NewPool(clients []*NodeClient, logger *zap.Logger) (*Pool, error) {
	if len(clients) == 0 {
		return nil, ErrNoRPCNodes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pool{
		Clients:   clients,
		Logger:    logger.Named("rpc-pool"),
		CurrIndex: -1,
	}, nil
}

// NewPoolFromURLs создает узел для каждого URL и собирает их в пул
func NewPoolFromURLs(urls []string, opts Options) (*Pool, error) {
	clients := make([]*NodeClient, 0, len(urls))
	for _, url := range urls {
		clients = append(clients, NewNodeClient(url, opts))
	}
	return NewPool(clients, opts.Logger)
}

// GetNextClient возвращает следующий активный клиент из пула
func (p *Pool) GetNextClient() *NodeClient {
	p.Mutex.Lock()
	defer p.Mutex.Unlock()

	for i := 0; i < len(p.Clients); i++ {
		p.CurrIndex = (p.CurrIndex + 1) % len(p.Clients)
		if p.Clients[p.CurrIndex].IsActive() {
			return p.Clients[p.CurrIndex]
		}
	}
	return nil
}

// HasActiveClients проверяет наличие активных клиентов в пуле
func (p *Pool) HasActiveClients() bool {
	for _, client := range p.Clients {
		if client.IsActive() {
			return true
		}
	}
	return false
}

// CallForInto отправляет запрос на следующий активный узел. Запрос не
// повторяется; узел с критической ошибкой выводится из ротации до
// следующей проверки здоровья.
func (p *Pool) CallForInto(ctx context.Context, out interface{}, method string, params []interface{}) error {
	client := p.GetNextClient()
	if client == nil {
		client = p.revive(ctx)
	}
	if client == nil {
		return ErrNoActiveClients
	}

	err := client.CallForInto(ctx, out, method, params)
	if err != nil && IsCriticalError(err) {
		client.SetActive(false)
		p.Logger.Warn("Node marked as inactive due to critical error",
			zap.String("url", client.URL),
			zap.String("method", method),
			zap.Error(err))
	}
	return err
}

// revive проверяет здоровье всех узлов, когда активных не осталось, и
// возвращает следующий узел, прошедший проверку. Сам запрос при этом не
// повторяется.
func (p *Pool) revive(ctx context.Context) *NodeClient {
	p.Logger.Info("No active nodes left, running health check")
	p.CheckHealth(ctx)
	return p.GetNextClient()
}

// CheckHealth проверяет все узлы параллельно и возвращает статус каждого
func (p *Pool) CheckHealth(ctx context.Context) map[string]error {
	results := make([]error, len(p.Clients))

	g, gctx := errgroup.WithContext(ctx)
	for i, client := range p.Clients {
		g.Go(func() error {
			results[i] = client.CheckHealth(gctx)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]error, len(p.Clients))
	for i, client := range p.Clients {
		out[client.URL] = results[i]
		if results[i] != nil {
			p.Logger.Warn("Node health check failed",
				zap.String("url", client.URL),
				zap.Error(results[i]))
		}
	}
	return out
}

// String returns a short description used in logs.
func (p *Pool) String() string {
	return fmt.Sprintf("rpc.Pool(%d nodes)", len(p.Clients))
}

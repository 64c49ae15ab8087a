// internal/rpc/errors.go
package rpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
)

var (
	// ErrNoActiveClients возникает, когда нет доступных активных клиентов
	ErrNoActiveClients = errors.New("no active RPC clients available")

	// ErrNoRPCNodes возникает, когда список узлов пуст
	ErrNoRPCNodes = errors.New("no RPC nodes configured")

	// ErrRateLimit возникает при превышении лимита запросов
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrTimeout возникает при превышении времени ожидания
	ErrTimeout = errors.New("request timeout")

	// ErrInvalidResponse возникает при получении некорректного ответа
	ErrInvalidResponse = errors.New("invalid RPC response")

	// ErrConnectionFailed возникает при ошибке подключения
	ErrConnectionFailed = errors.New("connection failed")
)

// Error представляет ошибку RPC с дополнительным контекстом
type Error struct {
	Err     error
	NodeURL string
	Method  string
}

// Error реализует интерфейс error
func (e *Error) Error() string {
	return fmt.Sprintf("RPC error [%s] at %s: %v", e.Method, e.NodeURL, e.Err)
}

// Unwrap возвращает оригинальную ошибку
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError создает новую ошибку RPC
func NewError(err error, nodeURL, method string) error {
	return &Error{
		Err:     classify(err),
		NodeURL: nodeURL,
		Method:  method,
	}
}

// RPCError returns the JSON-RPC error object carried by err, if any.
func RPCError(err error) (*jsonrpc.RPCError, bool) {
	var rpcErr *jsonrpc.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr, true
	}
	return nil, false
}

// classify attaches one of the sentinel errors to transport-level failures so
// callers can use errors.Is. JSON-RPC error objects are returned untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := RPCError(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	var httpErr *jsonrpc.HTTPError
	if errors.As(err, &httpErr) && httpErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", ErrRateLimit, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "too many requests"):
		return fmt.Errorf("%w: %w", ErrRateLimit, err)
	case strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "no such host"):
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	case strings.Contains(msg, "could not decode body to rpc response"),
		strings.Contains(msg, "rpc response missing"):
		// узел ответил, но не JSON-RPC конвертом
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}
	return err
}

// IsCriticalError определяет, нужно ли пометить узел как неактивный
func IsCriticalError(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := RPCError(err); ok {
		// узел ответил корректным JSON-RPC сообщением об ошибке
		return false
	}
	return errors.Is(err, ErrConnectionFailed) || errors.Is(err, ErrInvalidResponse)
}

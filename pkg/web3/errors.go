// pkg/web3/errors.go
package web3

import (
	"errors"
	"fmt"
)

var (
	// ErrAccountNotFound возникает, когда RPC вернул null вместо аккаунта
	ErrAccountNotFound = errors.New("account not found")

	// ErrMissingProperty возникает, когда у объекта нет обязательного свойства
	ErrMissingProperty = errors.New("missing property")

	// ErrInvalidProgramAccount возникает, когда значение не является объектом аккаунта
	ErrInvalidProgramAccount = errors.New("invalid ProgramAccount")

	// ErrPubkeyWrongSize возникает, когда длина ключа отличается от 32 байт
	ErrPubkeyWrongSize = errors.New("string decoded to wrong size for pubkey")

	// ErrPubkeyInvalid возникает, когда строку ключа не удалось декодировать
	ErrPubkeyInvalid = errors.New("invalid base58 string")
)

// Error wraps an opaque value produced on the far side of the client library:
// a JSON-RPC error object, a transport error or a plain message.
type Error struct {
	Value any
}

// Error реализует интерфейс error
func (e *Error) Error() string {
	switch v := e.Value.(type) {
	case nil:
		return "web3: unknown error"
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Unwrap возвращает исходную ошибку, если Value является error
func (e *Error) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// NewError wraps value. An existing *Error is returned unchanged.
func NewError(value any) error {
	if value == nil {
		return nil
	}
	var e *Error
	if err, ok := value.(error); ok && errors.As(err, &e) {
		return err
	}
	return &Error{Value: value}
}

// Errorf builds an *Error from a format string; %w verbs are preserved.
func Errorf(format string, args ...any) error {
	return &Error{Value: fmt.Errorf(format, args...)}
}

// ParsePubkeyError reports a key that could not be turned into 32 bytes.
type ParsePubkeyError struct {
	Input string
	Err   error
}

func (e *ParsePubkeyError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("ParsePubkeyError: %v", e.Err)
	}
	return fmt.Sprintf("ParsePubkeyError: %v: %q", e.Err, e.Input)
}

func (e *ParsePubkeyError) Unwrap() error {
	return e.Err
}

// IsAccountNotFound проверяет, является ли ошибка "account not found"
func IsAccountNotFound(err error) bool {
	return errors.Is(err, ErrAccountNotFound)
}

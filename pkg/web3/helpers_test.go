package web3

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"go.uber.org/zap"
)

type recordedCall struct {
	Method string
	Params string
}

// fakeTransport отдает заранее заданные JSON результаты по имени метода
type fakeTransport struct {
	results map[string]string
	errs    map[string]error
	calls   []recordedCall
}

func newFakeTransport(results map[string]string) *fakeTransport {
	return &fakeTransport{results: results, errs: map[string]error{}}
}

func (f *fakeTransport) CallForInto(_ context.Context, out interface{}, method string, params []interface{}) error {
	encoded, err := json.Marshal(params)
	if err != nil {
		return err
	}
	f.calls = append(f.calls, recordedCall{Method: method, Params: string(encoded)})

	if err := f.errs[method]; err != nil {
		return err
	}
	raw, ok := f.results[method]
	if !ok {
		return fmt.Errorf("unexpected method %s", method)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(raw), out)
}

func (f *fakeTransport) lastParams(t *testing.T, method string) []any {
	t.Helper()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method {
			var params []any
			if err := json.Unmarshal([]byte(f.calls[i].Params), &params); err != nil {
				t.Fatalf("decode params: %v", err)
			}
			return params
		}
	}
	t.Fatalf("method %s was not called", method)
	return nil
}

// installFake подменяет глобальный handle на время теста
func installFake(t *testing.T, transport Transport) {
	t.Helper()
	prev := global.Load()
	Init(&Library{
		Dial: func(string) (Transport, error) {
			return transport, nil
		},
		Logger: zap.NewNop(),
	})
	t.Cleanup(func() { global.Store(prev) })
}

// pkg/web3/connection.go
package web3

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rovshanmuradov/solana-web3/pkg/web3/options"
	"go.uber.org/zap"
)

// DefaultConfirmTimeout bounds ConfirmTransaction when the caller passes zero.
const DefaultConfirmTimeout = 30 * time.Second

var errNotConfirmed = errors.New("transaction not confirmed yet")

// Connection is a client for one cluster endpoint. Every call is a single
// request; failures are returned as they are.
type Connection struct {
	endpoint   string
	commitment rpc.CommitmentType
	transport  Transport
	logger     *zap.Logger
}

// LatestBlockhashInfo is the value of getLatestBlockhash.
type LatestBlockhashInfo options.Object

// Blockhash returns the base58 blockhash.
func (i LatestBlockhashInfo) Blockhash() (string, error) {
	v, err := requireProperty(i, "blockhash")
	if err != nil {
		return "", NewError(err)
	}
	s, ok := v.(string)
	if !ok {
		return "", Errorf("blockhash must be a string, got %T", v)
	}
	return s, nil
}

// Hash returns the blockhash as a native hash.
func (i LatestBlockhashInfo) Hash() (solana.Hash, error) {
	s, err := i.Blockhash()
	if err != nil {
		return solana.Hash{}, err
	}
	h, err := solana.HashFromBase58(s)
	if err != nil {
		return solana.Hash{}, Errorf("invalid blockhash %q: %w", s, err)
	}
	return h, nil
}

// LastValidBlockHeight returns lastValidBlockHeight.
func (i LatestBlockhashInfo) LastValidBlockHeight() (uint64, error) {
	v, err := requireProperty(i, "lastValidBlockHeight")
	if err != nil {
		return 0, NewError(err)
	}
	n, err := toUint64(v)
	if err != nil {
		return 0, NewError(err)
	}
	return n, nil
}

// NewConnection dials endpoint through the installed library handle.
func NewConnection(endpoint string) (*Connection, error) {
	return NewConnectionWithCommitment(endpoint, "")
}

// NewConnectionWithCommitment dials endpoint and uses commitment for every
// read that does not set its own.
func NewConnectionWithCommitment(endpoint string, commitment rpc.CommitmentType) (*Connection, error) {
	lib := Solana()
	transport, err := lib.Dial(endpoint)
	if err != nil {
		return nil, Errorf("failed to dial %s: %w", endpoint, err)
	}
	return &Connection{
		endpoint:   endpoint,
		commitment: commitment,
		transport:  transport,
		logger:     lib.Logger.Named("connection"),
	}, nil
}

// Endpoint returns the RPC endpoint.
func (c *Connection) Endpoint() string {
	return c.endpoint
}

// Commitment returns the default commitment ("" means node default).
func (c *Connection) Commitment() rpc.CommitmentType {
	return c.commitment
}

// call выполняет один JSON-RPC запрос и возвращает результат в динамическом виде
func (c *Connection) call(ctx context.Context, method string, params ...interface{}) (any, error) {
	var raw json.RawMessage
	if err := c.callInto(ctx, &raw, method, params...); err != nil {
		return nil, err
	}
	value, err := options.Decode(raw)
	if err != nil {
		return nil, NewError(err)
	}
	return value, nil
}

func (c *Connection) callInto(ctx context.Context, out interface{}, method string, params ...interface{}) error {
	if err := c.transport.CallForInto(ctx, out, method, params); err != nil {
		c.logger.Debug("RPC call failed",
			zap.String("method", method),
			zap.String("endpoint", c.endpoint),
			zap.Error(err))
		return NewError(err)
	}
	return nil
}

func (c *Connection) commitmentConfig(commitment rpc.CommitmentType) options.Object {
	if commitment == "" {
		commitment = c.commitment
	}
	if commitment == "" {
		return nil
	}
	return options.New().Set("commitment", string(commitment))
}

// withDefaults copies cfg and fills encoding and commitment when missing.
func withDefaults[T ~map[string]any](cfg T, commitment rpc.CommitmentType) options.Object {
	out := options.Merge(options.New(), cfg)
	if !out.Has("encoding") {
		out.Set("encoding", string(EncodingBase64))
	}
	if !out.Has("commitment") && commitment != "" {
		out.Set("commitment", string(commitment))
	}
	return out
}

// GetLatestBlockhash fetches the latest blockhash with the connection commitment.
func (c *Connection) GetLatestBlockhash(ctx context.Context) (LatestBlockhashInfo, error) {
	return c.GetLatestBlockhashWithCommitment(ctx, "")
}

// GetLatestBlockhashWithCommitment fetches the latest blockhash.
func (c *Connection) GetLatestBlockhashWithCommitment(ctx context.Context, commitment rpc.CommitmentType) (LatestBlockhashInfo, error) {
	var params []interface{}
	if cfg := c.commitmentConfig(commitment); cfg != nil {
		params = append(params, cfg)
	}

	result, err := c.call(ctx, "getLatestBlockhash", params...)
	if err != nil {
		return nil, err
	}
	value, err := contextValue(result)
	if err != nil {
		return nil, err
	}
	obj, ok := options.AsObject(value)
	if !ok {
		return nil, Errorf("unexpected getLatestBlockhash result %T", value)
	}
	return LatestBlockhashInfo(obj), nil
}

// GetAccountInfo fetches an account and converts it to the native record.
// A missing account is an error wrapping ErrAccountNotFound.
func (c *Connection) GetAccountInfo(ctx context.Context, pubkey solana.PublicKey) (Account, error) {
	value, err := c.GetAccountInfoWithOptions(ctx, pubkey, nil)
	if err != nil {
		return Account{}, err
	}
	if value == nil {
		return Account{}, Errorf("%w: %s", ErrAccountNotFound, pubkey)
	}
	account, err := value.ToAccount()
	if err != nil {
		return Account{}, Errorf("unable to convert account into ProgramAccount: %w", err)
	}
	return account, nil
}

// GetAccountInfoWithOptions returns the raw account object, or nil when the
// account does not exist.
func (c *Connection) GetAccountInfoWithOptions(ctx context.Context, pubkey solana.PublicKey, cfg GetAccountInfoConfig) (ProgramAccount, error) {
	result, err := c.call(ctx, "getAccountInfo", pubkey.String(), withDefaults(cfg, c.commitment))
	if err != nil {
		return nil, err
	}
	value, err := contextValue(result)
	if err != nil {
		return nil, err
	}
	if _, ok := options.AsObject(value); !ok {
		return nil, nil
	}
	return ProgramAccountFromValue(value)
}

// GetProgramAccountsWithConfig fetches every account owned by program.
// A result that is not an array yields no accounts; items that are not
// objects are skipped.
func (c *Connection) GetProgramAccountsWithConfig(ctx context.Context, program solana.PublicKey, cfg RpcProgramAccountsConfig) ([]KeyedAccount, error) {
	result, err := c.call(ctx, "getProgramAccounts", program.String(), withDefaults(cfg, c.commitment))
	if err != nil {
		return nil, err
	}

	// withContext: {context, value: [...]}
	if obj, ok := options.AsObject(result); ok {
		result = obj["value"]
	}

	list, ok := options.AsArray(result)
	if !ok {
		return []KeyedAccount{}, nil
	}

	accounts := make([]KeyedAccount, 0, len(list))
	for _, item := range list {
		obj, ok := options.AsObject(item)
		if !ok {
			continue
		}
		keyed, err := ProgramAccountsResultItem(obj).Keyed()
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, keyed)
	}

	c.logger.Debug("Program accounts fetched",
		zap.String("program", program.String()),
		zap.Int("count", len(accounts)))
	return accounts, nil
}

// SendRawTransaction submits signed wire bytes.
func (c *Connection) SendRawTransaction(ctx context.Context, rawTx []byte) (solana.Signature, error) {
	return c.SendRawTransactionWithOptions(ctx, rawTx, nil)
}

// SendRawTransactionWithOptions submits signed wire bytes. preflightCommitment
// defaults to the connection commitment.
func (c *Connection) SendRawTransactionWithOptions(ctx context.Context, rawTx []byte, opts SendRawTxOptions) (solana.Signature, error) {
	cfg := options.Merge(options.New(), opts)
	cfg.Set("encoding", string(EncodingBase64))
	if !cfg.Has("preflightCommitment") && c.commitment != "" {
		cfg.Set("preflightCommitment", string(c.commitment))
	}

	var sig solana.Signature
	if err := c.callInto(ctx, &sig, "sendTransaction", base64.StdEncoding.EncodeToString(rawTx), cfg); err != nil {
		return solana.Signature{}, err
	}

	c.logger.Debug("Transaction sent", zap.String("signature", sig.String()))
	return sig, nil
}

// GetBalance returns the balance in lamports.
func (c *Connection) GetBalance(ctx context.Context, pubkey solana.PublicKey) (uint64, error) {
	params := []interface{}{pubkey.String()}
	if cfg := c.commitmentConfig(""); cfg != nil {
		params = append(params, cfg)
	}

	var out rpc.GetBalanceResult
	if err := c.callInto(ctx, &out, "getBalance", params...); err != nil {
		return 0, err
	}
	return out.Value, nil
}

// GetSignatureStatuses returns one status per signature; unknown signatures
// yield nil entries.
func (c *Connection) GetSignatureStatuses(ctx context.Context, searchHistory bool, signatures ...solana.Signature) ([]*rpc.SignatureStatusesResult, error) {
	sigs := make([]string, len(signatures))
	for i, s := range signatures {
		sigs[i] = s.String()
	}
	params := []interface{}{sigs}
	if searchHistory {
		params = append(params, options.New().Set("searchTransactionHistory", true))
	}

	var out rpc.GetSignatureStatusesResult
	if err := c.callInto(ctx, &out, "getSignatureStatuses", params...); err != nil {
		return nil, err
	}
	return out.Value, nil
}

// ConfirmTransaction waits until signature reaches commitment. Status checks
// back off exponentially until timeout (DefaultConfirmTimeout when zero) or ctx
// expires. A failing status request or a failed transaction ends the wait.
func (c *Connection) ConfirmTransaction(ctx context.Context, signature solana.Signature, commitment rpc.CommitmentType, timeout time.Duration) (*rpc.SignatureStatusesResult, error) {
	if commitment == "" {
		commitment = c.commitment
	}
	if commitment == "" {
		commitment = rpc.CommitmentFinalized
	}
	if _, ok := commitmentRank[string(commitment)]; !ok {
		return nil, Errorf("unsupported commitment %q: expected processed, confirmed or finalized", commitment)
	}
	if timeout <= 0 {
		timeout = DefaultConfirmTimeout
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxInterval = 2 * time.Second

	operation := func() (*rpc.SignatureStatusesResult, error) {
		statuses, err := c.GetSignatureStatuses(ctx, false, signature)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		if len(statuses) == 0 || statuses[0] == nil {
			return nil, errNotConfirmed
		}
		status := statuses[0]
		if status.Err != nil {
			return status, backoff.Permanent(NewError(fmt.Sprintf("transaction %s failed: %v", signature, status.Err)))
		}
		if !reached(status.ConfirmationStatus, commitment) {
			return nil, errNotConfirmed
		}
		return status, nil
	}

	status, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxElapsedTime(timeout))
	if err != nil {
		if errors.Is(err, errNotConfirmed) {
			return nil, Errorf("transaction %s was not confirmed in %s: %w", signature, timeout, err)
		}
		return status, NewError(err)
	}

	c.logger.Debug("Transaction confirmed",
		zap.String("signature", signature.String()),
		zap.String("status", string(status.ConfirmationStatus)))
	return status, nil
}

// commitmentRank упорядочивает уровни processed < confirmed < finalized
var commitmentRank = map[string]int{
	string(rpc.CommitmentProcessed): 1,
	string(rpc.CommitmentConfirmed): 2,
	string(rpc.CommitmentFinalized): 3,
}

// reached reports whether status satisfies want. Unknown values never do.
func reached(status rpc.ConfirmationStatusType, want rpc.CommitmentType) bool {
	have, wanted := commitmentRank[string(status)], commitmentRank[string(want)]
	return have > 0 && wanted > 0 && have >= wanted
}

// contextValue unwraps {context, value} responses; other shapes pass through.
func contextValue(result any) (any, error) {
	obj, ok := options.AsObject(result)
	if !ok {
		return result, nil
	}
	if _, hasContext := obj["context"]; !hasContext {
		return result, nil
	}
	return obj["value"], nil
}

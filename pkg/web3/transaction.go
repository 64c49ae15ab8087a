// pkg/web3/transaction.go
package web3

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rovshanmuradov/solana-web3/pkg/web3/options"
)

// SerializeConfig configures Transaction.Serialize. Both flags default to true.
type SerializeConfig options.Object

// NewSerializeConfig returns an empty config (all defaults).
func NewSerializeConfig() SerializeConfig {
	return SerializeConfig{}
}

// RequireAllSignatures sets requireAllSignatures.
func (c SerializeConfig) RequireAllSignatures(require bool) SerializeConfig {
	return options.Set(c, "requireAllSignatures", require)
}

// VerifySignatures sets verifySignatures.
func (c SerializeConfig) VerifySignatures(verify bool) SerializeConfig {
	return options.Set(c, "verifySignatures", verify)
}

func (c SerializeConfig) flag(key string) bool {
	v, ok := options.Get(c, key)
	if !ok || v == nil {
		return true
	}
	b, err := toBool(v)
	if err != nil {
		return true
	}
	return b
}

// Signer produces ed25519 signatures for one key. solana.PrivateKey
// satisfies it.
type Signer interface {
	PublicKey() solana.PublicKey
	Sign(message []byte) (solana.Signature, error)
}

// Transaction is a mutable transaction builder: fee payer, recent blockhash
// and instructions are compiled into a message when signing or serializing.
type Transaction struct {
	feePayer        *solana.PublicKey
	recentBlockhash string
	instructions    []solana.Instruction
	signatures      map[solana.PublicKey]solana.Signature
}

// NewTransaction creates an empty transaction.
func NewTransaction() *Transaction {
	return &Transaction{
		signatures: make(map[solana.PublicKey]solana.Signature),
	}
}

// SetFeePayer sets feePayer.
func (tx *Transaction) SetFeePayer(feePayer solana.PublicKey) *Transaction {
	tx.feePayer = &feePayer
	return tx
}

// FeePayer returns the fee payer, if set.
func (tx *Transaction) FeePayer() (solana.PublicKey, bool) {
	if tx.feePayer == nil {
		return solana.PublicKey{}, false
	}
	return *tx.feePayer, true
}

// SetRecentBlockhash sets recentBlockhash (base58).
func (tx *Transaction) SetRecentBlockhash(blockhash string) *Transaction {
	tx.recentBlockhash = blockhash
	return tx
}

// RecentBlockhash returns recentBlockhash.
func (tx *Transaction) RecentBlockhash() string {
	return tx.recentBlockhash
}

// Add appends instructions and returns the transaction for chaining.
func (tx *Transaction) Add(instructions ...solana.Instruction) *Transaction {
	tx.instructions = append(tx.instructions, instructions...)
	return tx
}

// Instructions returns the added instructions.
func (tx *Transaction) Instructions() []solana.Instruction {
	return tx.instructions
}

// CompileMessage builds the message that signers sign.
func (tx *Transaction) CompileMessage() (*solana.Message, error) {
	if tx.recentBlockhash == "" {
		return nil, NewError("Transaction recentBlockhash required")
	}
	if tx.feePayer == nil {
		return nil, NewError("Transaction fee payer required")
	}
	blockhash, err := solana.HashFromBase58(tx.recentBlockhash)
	if err != nil {
		return nil, Errorf("invalid recentBlockhash %q: %w", tx.recentBlockhash, err)
	}

	compiled, err := solana.NewTransaction(tx.instructions, blockhash, solana.TransactionPayer(*tx.feePayer))
	if err != nil {
		return nil, NewError(err)
	}
	return &compiled.Message, nil
}

// SerializeMessage returns the wire bytes of the compiled message.
func (tx *Transaction) SerializeMessage() ([]byte, error) {
	msg, err := tx.CompileMessage()
	if err != nil {
		return nil, err
	}
	data, err := msg.MarshalBinary()
	if err != nil {
		return nil, Errorf("failed to serialize message: %w", err)
	}
	return data, nil
}

// Sign drops previously collected signatures and signs with every signer.
// The first signer is used as fee payer when none was set.
func (tx *Transaction) Sign(signers ...Signer) error {
	if len(signers) == 0 {
		return NewError("No signers")
	}
	if tx.feePayer == nil {
		tx.SetFeePayer(signers[0].PublicKey())
	}
	tx.signatures = make(map[solana.PublicKey]solana.Signature)
	return tx.PartialSign(signers...)
}

// PartialSign adds signatures of the given signers, keeping existing ones.
// Every signer must be a required signer of the message.
func (tx *Transaction) PartialSign(signers ...Signer) error {
	msg, err := tx.CompileMessage()
	if err != nil {
		return err
	}
	payload, err := msg.MarshalBinary()
	if err != nil {
		return Errorf("failed to serialize message: %w", err)
	}
	required := signerKeys(msg)
	if tx.signatures == nil {
		tx.signatures = make(map[solana.PublicKey]solana.Signature)
	}

	for _, signer := range signers {
		key := signer.PublicKey()
		if !containsKey(required, key) {
			return NewError(fmt.Sprintf("unknown signer: %s", key))
		}
		sig, err := signer.Sign(payload)
		if err != nil {
			return Errorf("failed to sign with %s: %w", key, err)
		}
		tx.signatures[key] = sig
	}
	return nil
}

// AddSignature attaches an externally produced signature.
func (tx *Transaction) AddSignature(pubkey solana.PublicKey, signature solana.Signature) error {
	msg, err := tx.CompileMessage()
	if err != nil {
		return err
	}
	if !containsKey(signerKeys(msg), pubkey) {
		return NewError(fmt.Sprintf("unknown signer: %s", pubkey))
	}
	if tx.signatures == nil {
		tx.signatures = make(map[solana.PublicKey]solana.Signature)
	}
	tx.signatures[pubkey] = signature
	return nil
}

// Signature returns the fee payer signature, which doubles as the
// transaction id.
func (tx *Transaction) Signature() (solana.Signature, bool) {
	if tx.feePayer == nil {
		return solana.Signature{}, false
	}
	sig, ok := tx.signatures[*tx.feePayer]
	return sig, ok && sig != (solana.Signature{})
}

// VerifySignatures checks every collected signature against the message.
// With requireAll, a missing signature is also a failure.
func (tx *Transaction) VerifySignatures(requireAll bool) error {
	msg, err := tx.CompileMessage()
	if err != nil {
		return err
	}
	payload, err := msg.MarshalBinary()
	if err != nil {
		return Errorf("failed to serialize message: %w", err)
	}
	return tx.verify(msg, payload, requireAll, true)
}

func (tx *Transaction) verify(msg *solana.Message, payload []byte, requireAll, verify bool) error {
	for _, key := range signerKeys(msg) {
		sig, ok := tx.signatures[key]
		if !ok || sig == (solana.Signature{}) {
			if requireAll {
				return NewError(fmt.Sprintf("Signature verification failed. Missing signature for public key %s", key))
			}
			continue
		}
		if verify && !sig.Verify(key, payload) {
			return NewError(fmt.Sprintf("Signature verification failed. Invalid signature for public key %s", key))
		}
	}
	return nil
}

// Serialize returns the wire bytes of the signed transaction.
func (tx *Transaction) Serialize(cfg SerializeConfig) ([]byte, error) {
	msg, err := tx.CompileMessage()
	if err != nil {
		return nil, err
	}
	payload, err := msg.MarshalBinary()
	if err != nil {
		return nil, Errorf("failed to serialize message: %w", err)
	}
	if err := tx.verify(msg, payload, cfg.flag("requireAllSignatures"), cfg.flag("verifySignatures")); err != nil {
		return nil, err
	}

	keys := signerKeys(msg)
	out := &solana.Transaction{
		Signatures: make([]solana.Signature, len(keys)),
		Message:    *msg,
	}
	for i, key := range keys {
		// отсутствующие подписи сериализуются нулями
		out.Signatures[i] = tx.signatures[key]
	}

	data, err := out.MarshalBinary()
	if err != nil {
		return nil, Errorf("failed to serialize transaction: %w", err)
	}
	return data, nil
}

func signerKeys(msg *solana.Message) []solana.PublicKey {
	n := int(msg.Header.NumRequiredSignatures)
	if n > len(msg.AccountKeys) {
		n = len(msg.AccountKeys)
	}
	return msg.AccountKeys[:n]
}

func containsKey(keys []solana.PublicKey, key solana.PublicKey) bool {
	for _, k := range keys {
		if k.Equals(key) {
			return true
		}
	}
	return false
}

// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"gopkg.in/yaml.v3"
)

// ErrWalletNotFound возникает, когда в файле нет кошелька с запрошенным именем
var ErrWalletNotFound = errors.New("wallet not found")

// Wallet представляет локальный кошелёк Solana. Реализует web3.Signer.
type Wallet struct {
	Name       string
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
}

// NewWallet создаёт новый кошелёк из base58-encoded приватного ключа.
func NewWallet(privateKeyBase58 string) (*Wallet, error) {
	privateKeyBytes, err := base58.Decode(strings.TrimSpace(privateKeyBase58))
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	return FromPrivateKey(solana.PrivateKey(privateKeyBytes))
}

// FromPrivateKey wraps an existing 64-byte ed25519 key.
func FromPrivateKey(key solana.PrivateKey) (*Wallet, error) {
	if len(key) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(key))
	}
	return &Wallet{
		privateKey: key,
		publicKey:  key.PublicKey(),
	}, nil
}

// Generate создаёт кошелёк со случайным ключом.
func Generate() (*Wallet, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return FromPrivateKey(key)
}

// PublicKey возвращает адрес кошелька.
func (w *Wallet) PublicKey() solana.PublicKey {
	return w.publicKey
}

// PrivateKey returns the raw keypair. Only keygen output should need it.
func (w *Wallet) PrivateKey() solana.PrivateKey {
	return w.privateKey
}

// Sign подписывает сообщение приватным ключом кошелька.
func (w *Wallet) Sign(message []byte) (solana.Signature, error) {
	return w.privateKey.Sign(message)
}

// String возвращает строковое представление кошелька (его публичный ключ).
func (w *Wallet) String() string {
	return w.publicKey.String()
}

// Load reads wallets from path. The format follows the extension: .csv
// (columns name, private_key with a header row), .yaml/.yml (a "wallets"
// list) or .json (solana-keygen byte array).
func Load(path string) (map[string]*Wallet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".json":
		w, err := LoadKeygenFile(path)
		if err != nil {
			return nil, err
		}
		return map[string]*Wallet{w.Name: w}, nil
	default:
		return nil, fmt.Errorf("unsupported wallet file format: %s", path)
	}
}

// Select возвращает кошелёк по имени; при пустом имени берётся первый по
// алфавиту.
func Select(wallets map[string]*Wallet, name string) (*Wallet, error) {
	if name != "" {
		w, ok := wallets[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrWalletNotFound, name)
		}
		return w, nil
	}
	if len(wallets) == 0 {
		return nil, ErrWalletNotFound
	}
	names := make([]string, 0, len(wallets))
	for n := range wallets {
		names = append(names, n)
	}
	sort.Strings(names)
	return wallets[names[0]], nil
}

// LoadCSV загружает кошельки из CSV-файла с колонками: [Name, PrivateKeyBase58].
func LoadCSV(path string) (map[string]*Wallet, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("CSV file is empty or missing data")
	}

	wallets := make(map[string]*Wallet)
	for _, record := range records[1:] {
		if len(record) != 2 {
			continue
		}
		w, err := NewWallet(record[1])
		if err != nil {
			continue
		}
		w.Name = strings.TrimSpace(record[0])
		wallets[w.Name] = w
	}
	if len(wallets) == 0 {
		return nil, fmt.Errorf("no valid wallets loaded")
	}
	return wallets, nil
}

// walletFile represents the structure of wallets YAML file
type walletFile struct {
	Wallets []struct {
		Name       string `yaml:"name"`
		PrivateKey string `yaml:"private_key"`
	} `yaml:"wallets"`
}

// LoadYAML загружает кошельки из YAML-файла.
func LoadYAML(path string) (map[string]*Wallet, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config walletFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(config.Wallets) == 0 {
		return nil, fmt.Errorf("no wallets found in configuration")
	}

	wallets := make(map[string]*Wallet)
	for _, entry := range config.Wallets {
		if entry.Name == "" || entry.PrivateKey == "" {
			continue
		}
		w, err := NewWallet(entry.PrivateKey)
		if err != nil {
			continue
		}
		w.Name = entry.Name
		wallets[entry.Name] = w
	}
	if len(wallets) == 0 {
		return nil, fmt.Errorf("no valid wallets loaded")
	}
	return wallets, nil
}

// LoadKeygenFile reads a solana-keygen JSON keypair. The wallet is named
// after the file.
func LoadKeygenFile(path string) (*Wallet, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read keypair: %w", err)
	}
	w, err := FromPrivateKey(key)
	if err != nil {
		return nil, err
	}
	w.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return w, nil
}

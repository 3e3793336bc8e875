// Package kernel is the account state a sandbox invocation reads and writes:
// balances, nonces, deployed code and contract storage.
//
// Mutating operations create missing accounts implicitly. Reading from a
// missing account returns zero values rather than an error.
package kernel

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("shadowvm.kernel")

// AddressLength is the size of an account address in bytes.
const AddressLength = 32

// Address identifies an account.
type Address [AddressLength]byte

// ErrBadAddress is returned for malformed hex addresses.
var ErrBadAddress = errors.New("kernel: bad address")

// ParseAddress parses a hex address with optional 0x prefix.
func ParseAddress(s string) (Address, error) {
	var a Address
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("%w: %v", ErrBadAddress, err)
	}
	if len(b) != AddressLength {
		return a, fmt.Errorf("%w: %d bytes, want %d", ErrBadAddress, len(b), AddressLength)
	}
	copy(a[:], b)
	return a, nil
}

// String returns the address in hex.
func (a Address) String() string { return hex.EncodeToString(a[:]) }

// PreminedAddress holds the initial supply of a fresh kernel.
var PreminedAddress = Address{
	0xa0, 0x25, 0xf4, 0xfd, 0x54, 0x06, 0x4e, 0x86, 0x9f, 0x15, 0x8c, 0x1b, 0x4e, 0xb0, 0xed, 0x34,
	0x82, 0x0f, 0x67, 0xe6, 0x0e, 0xe8, 0x0a, 0x53, 0xb4, 0x69, 0xf7, 0x25, 0xef, 0xc0, 0x63, 0x78,
}

// PreminedAmount is the balance of PreminedAddress.
const PreminedAmount int64 = 1_000_000_000_000_000_000

// Account is the fixed part of an account's state.
// Account is the state of one address apart from its storage.
type Account struct {
	Balance int64
	Nonce   int64
	Code    []byte
}

// Store is a kernel backend.
type Store interface {
	// Account returns the account at addr, or nil if it does not exist.
	Account(addr Address) (*Account, error)
	// PutAccount creates or replaces the account at addr.
	PutAccount(addr Address, acct *Account) error
	// DeleteAccount removes the account and all its storage.
	DeleteAccount(addr Address) error
	// Storage returns the value under key, or nil.
	Storage(addr Address, key []byte) ([]byte, error)
	// PutStorage sets the value under key.
	PutStorage(addr Address, key, value []byte) error
	// StorageEntries returns every storage entry of addr keyed by string(key).
	StorageEntries(addr Address) (map[string][]byte, error)
	// Close releases the backend.
	Close() error
}

// ---------------------------------------------------------------------------
// Kernel
// ---------------------------------------------------------------------------

// Kernel is the account interface used by the runtime.
type Kernel struct {
	store Store
}

// New wraps store and credits the premined account.
func New(store Store) (*Kernel, error) {
	k := &Kernel{store: store}
	acct, err := k.lazyAccount(PreminedAddress)
	if err != nil {
		return nil, err
	}
	acct.Balance = PreminedAmount
	if err := store.PutAccount(PreminedAddress, acct); err != nil {
		return nil, fmt.Errorf("kernel: premine: %w", err)
	}
	return k, nil
}

// Close closes the backend.
func (k *Kernel) Close() error { return k.store.Close() }

func (k *Kernel) lazyAccount(addr Address) (*Account, error) {
	acct, err := k.store.Account(addr)
	if err != nil {
		return nil, fmt.Errorf("kernel: open account %s: %w", addr, err)
	}
	if acct == nil {
		log.Debug("creating account", "address", addr.String())
		acct = &Account{}
	}
	return acct, nil
}

func (k *Kernel) update(addr Address, fn func(*Account)) error {
	acct, err := k.lazyAccount(addr)
	if err != nil {
		return err
	}
	fn(acct)
	if err := k.store.PutAccount(addr, acct); err != nil {
		return fmt.Errorf("kernel: write account %s: %w", addr, err)
	}
	return nil
}

// Exists reports whether the account exists.
func (k *Kernel) Exists(addr Address) (bool, error) {
	acct, err := k.store.Account(addr)
	if err != nil {
		return false, fmt.Errorf("kernel: open account %s: %w", addr, err)
	}
	return acct != nil, nil
}

// CreateAccount creates an empty account, leaving an existing one untouched.
func (k *Kernel) CreateAccount(addr Address) error {
	return k.update(addr, func(*Account) {})
}

// DeleteAccount removes an account and its storage.
func (k *Kernel) DeleteAccount(addr Address) error {
	if err := k.store.DeleteAccount(addr); err != nil {
		return fmt.Errorf("kernel: delete account %s: %w", addr, err)
	}
	return nil
}

// PutCode sets the deployed code of an account.
func (k *Kernel) PutCode(addr Address, code []byte) error {
	return k.update(addr, func(a *Account) { a.Code = code })
}

// Code returns the deployed code of an account, or nil.
func (k *Kernel) Code(addr Address) ([]byte, error) {
	acct, err := k.store.Account(addr)
	if err != nil || acct == nil {
		return nil, err
	}
	return acct.Code, nil
}

// Balance returns the balance of an account; missing accounts hold zero.
func (k *Kernel) Balance(addr Address) (int64, error) {
	acct, err := k.store.Account(addr)
	if err != nil || acct == nil {
		return 0, err
	}
	return acct.Balance, nil
}

// AdjustBalance adds delta to the balance of an account.
func (k *Kernel) AdjustBalance(addr Address, delta int64) error {
	return k.update(addr, func(a *Account) { a.Balance += delta })
}

// Nonce returns the nonce of an account; missing accounts hold zero.
func (k *Kernel) Nonce(addr Address) (int64, error) {
	acct, err := k.store.Account(addr)
	if err != nil || acct == nil {
		return 0, err
	}
	return acct.Nonce, nil
}

// IncrementNonce adds one to the nonce of an account.
func (k *Kernel) IncrementNonce(addr Address) error {
	return k.update(addr, func(a *Account) { a.Nonce++ })
}

// PutStorage writes a storage entry, creating the account if needed.
func (k *Kernel) PutStorage(addr Address, key, value []byte) error {
	if err := k.CreateAccount(addr); err != nil {
		return err
	}
	if err := k.store.PutStorage(addr, key, value); err != nil {
		return fmt.Errorf("kernel: put storage %s: %w", addr, err)
	}
	return nil
}

// Storage reads a storage entry, or nil.
func (k *Kernel) Storage(addr Address, key []byte) ([]byte, error) {
	return k.store.Storage(addr, key)
}

// StorageEntries returns all storage entries of an account.
func (k *Kernel) StorageEntries(addr Address) (map[string][]byte, error) {
	return k.store.StorageEntries(addr)
}

// ---------------------------------------------------------------------------
// Backends
// ---------------------------------------------------------------------------

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Open returns the named backend. path is used by the sqlite backend only.
func Open(backend, path string) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendSQLite:
		return OpenSQLiteStore(path)
	default:
		return nil, fmt.Errorf("kernel: unknown backend %q", backend)
	}
}

// Package wallet keeps the mapping from a Telegram user to their generated
// keypair. State is process-lifetime only; nothing here is persisted.
package wallet

import (
	"sync"

	"walletbot/core/logger"
	"walletbot/internal/ledger"
	"log/slog"
)

// Keygen is the slice of the ledger service the registry needs.
type Keygen interface {
	GenerateKeypair() ledger.Account
}

// Registry stores one account per user ID.
type Registry struct {
	keygen Keygen

	mu       sync.RWMutex
	accounts map[int64]ledger.Account
}

// NewRegistry constructs an empty registry backed by the given key generator.
func NewRegistry(keygen Keygen) *Registry {
	return &Registry{
		keygen:   keygen,
		accounts: make(map[int64]ledger.Account),
	}
}

// Generate creates a new keypair for the user and stores it, silently
// replacing any existing account. The previous keypair becomes unreachable.
func (r *Registry) Generate(userID int64) ledger.Account {
	acc := r.keygen.GenerateKeypair()

	r.mu.Lock()
	_, replaced := r.accounts[userID]
	r.accounts[userID] = acc
	r.mu.Unlock()

	logger.Info(logger.Background(), "service.wallets", "wallet.generate",
		slog.Int64("user_id", userID),
		slog.String("pubkey", acc.PublicKey),
		slog.Bool("replaced", replaced),
	)
	return acc
}

// Lookup returns the stored account for a user, if any. Pure read.
func (r *Registry) Lookup(userID int64) (ledger.Account, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	acc, ok := r.accounts[userID]
	return acc, ok
}

// Count reports how many users currently hold a wallet.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.accounts)
}

// Package ledger defines the contract the wallet bot uses to talk to the
// Solana network. The conversational layer depends only on this interface;
// the RPC implementation lives in the solanarpc subpackage.
package ledger

import "context"

// Account is a generated keypair controlled by the bot on behalf of a user.
// PublicKey is the base58 identifier shown to the user; PrivateKey is the raw
// ed25519 key material used for signing and never leaves the process.
type Account struct {
	PublicKey  string
	PrivateKey []byte
}

// Service exposes the ledger operations the dialogue flow needs.
type Service interface {
	// GenerateKeypair creates a fresh keypair. Key generation does not fail.
	GenerateKeypair() Account

	// GetBalance returns the confirmed balance in lamports for a base58
	// public key. Connectivity failures surface as *NetworkError.
	GetBalance(ctx context.Context, publicKey string) (uint64, error)

	// SubmitTransfer moves lamports from the sender account to the recipient
	// address, signs with the sender key, and waits for confirmation.
	// It returns the transaction signature on success. Failures surface as
	// *TransferError (malformed recipient, signing failure, node rejection,
	// confirmation timeout) or *NetworkError.
	SubmitTransfer(ctx context.Context, from Account, to string, lamports uint64) (string, error)
}

// Package solanarpc implements the ledger service against a Solana JSON-RPC
// node using the gagliardetto/solana-go SDK.
package solanarpc

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"

	"walletbot/core/logger"
	"walletbot/internal/ledger"
	"log/slog"
)

const (
	defaultConfirmTimeout = 60 * time.Second
	confirmPollInterval   = 2 * time.Second
)

// Config describes how to construct the RPC client.
type Config struct {
	RPCURL         string
	ConfirmTimeout time.Duration
}

// Client talks to a single Solana RPC endpoint at confirmed commitment.
type Client struct {
	rpc            *rpc.Client
	confirmTimeout time.Duration
}

var _ ledger.Service = (*Client)(nil)

// NewClient returns a ready-to-use client for the configured endpoint.
func NewClient(cfg Config) *Client {
	url := cfg.RPCURL
	if url == "" {
		url = rpc.MainNetBeta_RPC
	}
	timeout := cfg.ConfirmTimeout
	if timeout <= 0 {
		timeout = defaultConfirmTimeout
	}
	return &Client{
		rpc:            rpc.New(url),
		confirmTimeout: timeout,
	}
}

// GenerateKeypair creates a fresh ed25519 keypair.
func (c *Client) GenerateKeypair() ledger.Account {
	w := solana.NewWallet()
	return ledger.Account{
		PublicKey:  w.PublicKey().String(),
		PrivateKey: []byte(w.PrivateKey),
	}
}

// GetBalance returns the confirmed lamport balance of a base58 public key.
func (c *Client) GetBalance(ctx context.Context, publicKey string) (uint64, error) {
	pub, err := solana.PublicKeyFromBase58(publicKey)
	if err != nil {
		return 0, &ledger.TransferError{Reason: "invalid public key", Err: err}
	}

	start := time.Now()
	out, err := c.rpc.GetBalance(ctx, pub, rpc.CommitmentConfirmed)
	if err != nil {
		logger.LEDGER.Error("balance fetch failed",
			slog.String("event", "ledger.balance"),
			slog.String("pubkey", publicKey),
			slog.Duration("duration", logger.Took(start)),
			slog.String("err", err.Error()),
		)
		return 0, &ledger.NetworkError{Err: err}
	}

	logger.LEDGER.Debug("balance fetched",
		slog.String("event", "ledger.balance"),
		slog.String("pubkey", publicKey),
		slog.Uint64("balance_lamports", out.Value),
		slog.Duration("duration", logger.Took(start)),
	)
	return out.Value, nil
}

// SubmitTransfer builds a System Program transfer, signs it with the sender
// key, sends it, and waits until the cluster confirms the signature.
func (c *Client) SubmitTransfer(ctx context.Context, from ledger.Account, to string, lamports uint64) (string, error) {
	toKey, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return "", &ledger.TransferError{Reason: "invalid recipient address", Err: err}
	}

	signer := solana.PrivateKey(from.PrivateKey)
	sender := signer.PublicKey()

	recent, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return "", &ledger.NetworkError{Err: err}
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			system.NewTransferInstruction(lamports, sender, toKey).Build(),
		},
		recent.Value.Blockhash,
		solana.TransactionPayer(sender),
	)
	if err != nil {
		return "", &ledger.TransferError{Reason: "transaction build failed", Err: err}
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(sender) {
			return &signer
		}
		return nil
	}); err != nil {
		return "", &ledger.TransferError{Reason: "signing failed", Err: err}
	}

	start := time.Now()
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		logger.LEDGER.Error("transfer rejected",
			slog.String("event", "ledger.submit"),
			slog.String("pubkey", from.PublicKey),
			slog.String("recipient", to),
			slog.Uint64("lamports", lamports),
			slog.String("err", err.Error()),
		)
		return "", &ledger.TransferError{Reason: "node rejected transaction", Err: err}
	}

	if err := c.awaitConfirmation(ctx, sig); err != nil {
		return "", err
	}

	logger.LEDGER.Info("transfer confirmed",
		slog.String("event", "ledger.submit"),
		slog.String("pubkey", from.PublicKey),
		slog.String("recipient", to),
		slog.Uint64("lamports", lamports),
		slog.String("signature", sig.String()),
		slog.Duration("duration", logger.Took(start)),
	)
	return sig.String(), nil
}

func (c *Client) awaitConfirmation(ctx context.Context, sig solana.Signature) error {
	deadlineCtx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	for {
		out, err := c.rpc.GetSignatureStatuses(deadlineCtx, true, sig)
		if err == nil && len(out.Value) > 0 && out.Value[0] != nil {
			st := out.Value[0]
			if st.Err != nil {
				return &ledger.TransferError{
					Reason: "transaction failed on chain",
					Err:    fmt.Errorf("%v", st.Err),
				}
			}
			switch st.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return nil
			}
		}

		select {
		case <-deadlineCtx.Done():
			return &ledger.TransferError{Reason: "confirmation timed out", Err: deadlineCtx.Err()}
		case <-ticker.C:
		}
	}
}

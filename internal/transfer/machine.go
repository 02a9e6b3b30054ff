// Package transfer implements the conversation-state machine that drives a
// SOL transfer request from recipient collection to a resolved terminal
// outcome. Sessions live in the generic FSM manager and are owned exclusively
// by the Machine; every terminal path tears the session down in the same
// handler invocation, so a user can never end up stuck mid-transfer.
package transfer

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"walletbot/core/logger"
	"walletbot/core/telegram/state"
	"walletbot/internal/history"
	"walletbot/internal/ledger"
	"walletbot/internal/wallet"
	"log/slog"
)

// Conversation stages. Validation and execution are transient within one
// HandleText call and are never persisted as stages.
const (
	StageRecipient state.State = "transfer_recipient"
	StageAmount    state.State = "transfer_amount"
)

const recipientKey = "transfer_to"

// ActionSet names the quick-action keyboard a reply should carry. The
// Telegram layer maps these to concrete inline keyboards.
type ActionSet int

const (
	// ActionsNone sends a plain reply.
	ActionsNone ActionSet = iota
	// ActionsGenerateOnly offers only wallet generation.
	ActionsGenerateOnly
	// ActionsPostCreation offers send-SOL and show-public-key.
	ActionsPostCreation
)

// SendFunc delivers one reply to the user with the given quick actions.
type SendFunc func(text string, actions ActionSet) error

// Recorder persists executed transfer attempts. May be nil when the history
// store is disabled.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// Machine tracks per-user transfer sessions and runs the transfer flow.
type Machine struct {
	sessions state.Manager
	wallets  *wallet.Registry
	ledger   ledger.Service
	recorder Recorder
}

// NewMachine wires the session machine to its collaborators.
func NewMachine(sessions state.Manager, wallets *wallet.Registry, svc ledger.Service, recorder Recorder) *Machine {
	return &Machine{
		sessions: sessions,
		wallets:  wallets,
		ledger:   svc,
		recorder: recorder,
	}
}

// Begin starts a new transfer session, replacing any stale one.
func (m *Machine) Begin(userID int64) {
	m.sessions.ClearTemp(userID, recipientKey)
	m.sessions.SetState(userID, StageRecipient)
	logger.Debug(logger.Background(), "service.transfers", "session.begin",
		slog.Int64("user_id", userID),
	)
}

// InProgress reports whether the user has an active transfer session.
func (m *Machine) InProgress(userID int64) bool {
	switch m.sessions.GetState(userID) {
	case StageRecipient, StageAmount:
		return true
	}
	return false
}

// ActiveCount returns the number of users currently mid-transfer.
func (m *Machine) ActiveCount() int {
	return m.sessions.ActiveCount()
}

// HandleText feeds free text into the current stage. Text arriving with no
// active session is ignored.
func (m *Machine) HandleText(ctx context.Context, userID int64, text string, send SendFunc) error {
	switch m.sessions.GetState(userID) {
	case StageRecipient:
		return m.collectRecipient(userID, text, send)
	case StageAmount:
		return m.execute(ctx, userID, text, send)
	}
	return nil
}

// collectRecipient stores the recipient address verbatim. Address validity is
// checked only by the ledger at submission time.
func (m *Machine) collectRecipient(userID int64, text string, send SendFunc) error {
	m.sessions.SetTemp(userID, recipientKey, strings.TrimSpace(text))
	m.sessions.SetState(userID, StageAmount)
	return send(msgAskAmount, ActionsNone)
}

// execute parses the amount and runs the single terminal attempt: wallet
// lookup, balance check, submission. The session is gone by the time any
// reply is sent.
func (m *Machine) execute(ctx context.Context, userID int64, text string, send SendFunc) error {
	recipient, ok := m.recipient(userID)
	m.teardown(userID)
	if !ok {
		return nil
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		m.logOutcome(userID, "invalid_amount", nil)
		return send(msgInvalidAmount, ActionsPostCreation)
	}

	acc, ok := m.wallets.Lookup(userID)
	if !ok {
		m.logOutcome(userID, "missing_wallet", nil)
		return send(msgNoWallet, ActionsGenerateOnly)
	}

	balance, err := m.ledger.GetBalance(ctx, acc.PublicKey)
	if err != nil {
		m.logOutcome(userID, "balance_fetch_failed", err)
		return send(fmt.Sprintf(msgFailed, err.Error()), ActionsPostCreation)
	}

	lamports := ledger.ToLamports(amount)
	if balance < lamports {
		m.logOutcome(userID, "insufficient_balance", nil)
		return send(fmt.Sprintf(msgInsufficient, ledger.FormatSOL(balance), ledger.FormatAmount(amount)), ActionsPostCreation)
	}

	sig, err := m.ledger.SubmitTransfer(ctx, acc, recipient, lamports)
	if err != nil {
		m.record(ctx, history.Entry{
			UserID:     userID,
			FromPubkey: acc.PublicKey,
			ToAddress:  recipient,
			Lamports:   int64(lamports),
			Status:     history.StatusFailed,
			FailReason: err.Error(),
		})
		m.logOutcome(userID, "submit_failed", err)
		return send(fmt.Sprintf(msgFailed, err.Error()), ActionsPostCreation)
	}

	m.record(ctx, history.Entry{
		UserID:     userID,
		FromPubkey: acc.PublicKey,
		ToAddress:  recipient,
		Lamports:   int64(lamports),
		Signature:  sig,
		Status:     history.StatusConfirmed,
	})
	logger.Info(logger.Background(), "service.transfers", "transfer.confirmed",
		slog.Int64("user_id", userID),
		slog.String("recipient", recipient),
		slog.Uint64("lamports", lamports),
		slog.String("signature", sig),
	)
	return send(fmt.Sprintf(msgSuccess, ledger.FormatAmount(amount), recipient, sig), ActionsPostCreation)
}

func (m *Machine) recipient(userID int64) (string, bool) {
	v, ok := m.sessions.GetTemp(userID, recipientKey)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (m *Machine) teardown(userID int64) {
	m.sessions.ClearTemp(userID, recipientKey)
	m.sessions.Clear(userID)
}

func (m *Machine) record(ctx context.Context, e history.Entry) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.Record(ctx, e); err != nil {
		logger.Warn(logger.Background(), "service.transfers", "history.record_failed",
			slog.Int64("user_id", e.UserID),
			slog.String("err", err.Error()),
		)
	}
}

func (m *Machine) logOutcome(userID int64, outcome string, err error) {
	attrs := []slog.Attr{
		slog.Int64("user_id", userID),
		slog.String("cause", outcome),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	logger.Info(logger.Background(), "service.transfers", "session.closed", attrs...)
}

package transfer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"walletbot/core/telegram/state"
	"walletbot/internal/history"
	"walletbot/internal/ledger"
	"walletbot/internal/wallet"
)

type fakeLedger struct {
	pubkeys []string

	balance    uint64
	balanceErr error

	submitSig  string
	submitErr  error
	submits    []submitCall
	balanceFor []string
}

type submitCall struct {
	from     string
	to       string
	lamports uint64
}

func (f *fakeLedger) GenerateKeypair() ledger.Account {
	pub := "PUB"
	if len(f.pubkeys) > 0 {
		pub = f.pubkeys[0]
		f.pubkeys = f.pubkeys[1:]
	}
	return ledger.Account{PublicKey: pub, PrivateKey: []byte{1}}
}

func (f *fakeLedger) GetBalance(_ context.Context, pub string) (uint64, error) {
	f.balanceFor = append(f.balanceFor, pub)
	if f.balanceErr != nil {
		return 0, f.balanceErr
	}
	return f.balance, nil
}

func (f *fakeLedger) SubmitTransfer(_ context.Context, from ledger.Account, to string, lamports uint64) (string, error) {
	f.submits = append(f.submits, submitCall{from: from.PublicKey, to: to, lamports: lamports})
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return f.submitSig, nil
}

type reply struct {
	text    string
	actions ActionSet
}

type recorder struct {
	entries []history.Entry
	err     error
}

func (r *recorder) Record(_ context.Context, e history.Entry) error {
	r.entries = append(r.entries, e)
	return r.err
}

func newHarness(svc *fakeLedger, rec Recorder) (*Machine, *wallet.Registry, *[]reply, SendFunc) {
	wallets := wallet.NewRegistry(svc)
	m := NewMachine(state.NewMemoryManager(), wallets, svc, rec)
	replies := &[]reply{}
	send := func(text string, actions ActionSet) error {
		*replies = append(*replies, reply{text: text, actions: actions})
		return nil
	}
	return m, wallets, replies, send
}

func lastReply(t *testing.T, replies *[]reply) reply {
	t.Helper()
	if len(*replies) == 0 {
		t.Fatal("expected at least one reply")
	}
	return (*replies)[len(*replies)-1]
}

func TestTextWithoutSessionIgnored(t *testing.T) {
	m, _, replies, send := newHarness(&fakeLedger{}, nil)
	if err := m.HandleText(context.Background(), 1, "hello", send); err != nil {
		t.Fatalf("HandleText: %v", err)
	}
	if len(*replies) != 0 {
		t.Fatalf("expected no replies, got %d", len(*replies))
	}
}

func TestRecipientAdvancesToAmount(t *testing.T) {
	m, _, replies, send := newHarness(&fakeLedger{}, nil)
	m.Begin(1)
	if !m.InProgress(1) {
		t.Fatal("expected session after Begin")
	}
	if err := m.HandleText(context.Background(), 1, "P2", send); err != nil {
		t.Fatalf("HandleText: %v", err)
	}
	r := lastReply(t, replies)
	if r.text != "How much SOL do you want to send" {
		t.Fatalf("unexpected amount prompt: %q", r.text)
	}
	if !m.InProgress(1) {
		t.Fatal("session must survive the recipient stage")
	}
}

func TestInvalidAmountTearsDown(t *testing.T) {
	for _, input := range []string{"abc", "-1", "0", "NaN"} {
		m, _, replies, send := newHarness(&fakeLedger{}, nil)
		m.Begin(1)
		_ = m.HandleText(context.Background(), 1, "P2", send)
		if err := m.HandleText(context.Background(), 1, input, send); err != nil {
			t.Fatalf("HandleText(%q): %v", input, err)
		}
		r := lastReply(t, replies)
		if !strings.Contains(r.text, "Invalid amount") {
			t.Fatalf("input %q: reply %q lacks invalid-amount message", input, r.text)
		}
		if r.actions != ActionsPostCreation {
			t.Fatalf("input %q: actions = %v, want post-creation", input, r.actions)
		}
		if m.InProgress(1) {
			t.Fatalf("input %q: session must be torn down", input)
		}

		// A follow-up message must be ignored, not read as a new recipient.
		before := len(*replies)
		_ = m.HandleText(context.Background(), 1, "P3", send)
		if len(*replies) != before {
			t.Fatalf("input %q: follow-up text produced a reply", input)
		}
	}
}

func TestMissingWalletTearsDown(t *testing.T) {
	m, _, replies, send := newHarness(&fakeLedger{}, nil)
	m.Begin(1)
	_ = m.HandleText(context.Background(), 1, "P2", send)
	_ = m.HandleText(context.Background(), 1, "1.5", send)
	r := lastReply(t, replies)
	if !strings.Contains(r.text, "don't have a wallet") {
		t.Fatalf("unexpected reply: %q", r.text)
	}
	if r.actions != ActionsGenerateOnly {
		t.Fatalf("actions = %v, want generate-only", r.actions)
	}
	if m.InProgress(1) {
		t.Fatal("session must be torn down")
	}
}

func TestInsufficientBalance(t *testing.T) {
	svc := &fakeLedger{pubkeys: []string{"P1"}, balance: 1_000_000_000}
	m, wallets, replies, send := newHarness(svc, nil)
	wallets.Generate(1)

	m.Begin(1)
	_ = m.HandleText(context.Background(), 1, "P2", send)
	_ = m.HandleText(context.Background(), 1, "2.5", send)

	r := lastReply(t, replies)
	if !strings.Contains(r.text, "Insufficient balance") {
		t.Fatalf("unexpected reply: %q", r.text)
	}
	if !strings.Contains(r.text, "1.0000") {
		t.Fatalf("reply %q must show the balance with 4 decimals", r.text)
	}
	if !strings.Contains(r.text, "2.5") {
		t.Fatalf("reply %q must echo the requested amount", r.text)
	}
	if len(svc.submits) != 0 {
		t.Fatalf("submit must not be called, got %d calls", len(svc.submits))
	}
	if m.InProgress(1) {
		t.Fatal("session must be torn down")
	}
}

func TestSuccessfulTransferScenario(t *testing.T) {
	svc := &fakeLedger{pubkeys: []string{"P1"}, balance: 5_000_000_000, submitSig: "SIGabc"}
	rec := &recorder{}
	m, wallets, replies, send := newHarness(svc, rec)

	acc := wallets.Generate(1)
	if acc.PublicKey != "P1" {
		t.Fatalf("generated pubkey = %s, want P1", acc.PublicKey)
	}

	m.Begin(1)
	_ = m.HandleText(context.Background(), 1, "P2", send)
	if err := m.HandleText(context.Background(), 1, "2.5", send); err != nil {
		t.Fatalf("HandleText: %v", err)
	}

	if len(svc.submits) != 1 {
		t.Fatalf("expected one submit, got %d", len(svc.submits))
	}
	call := svc.submits[0]
	if call.from != "P1" || call.to != "P2" || call.lamports != 2_500_000_000 {
		t.Fatalf("submit = %+v, want P1->P2 2500000000 lamports", call)
	}

	r := lastReply(t, replies)
	if !strings.Contains(r.text, "2.5 SOL sent to P2") {
		t.Fatalf("reply %q lacks amount/recipient confirmation", r.text)
	}
	if !strings.Contains(r.text, "SIGabc") {
		t.Fatalf("reply %q lacks the signature", r.text)
	}
	if r.actions != ActionsPostCreation {
		t.Fatalf("actions = %v, want post-creation", r.actions)
	}
	if m.InProgress(1) {
		t.Fatal("session must be torn down after success")
	}

	if len(rec.entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(rec.entries))
	}
	e := rec.entries[0]
	if e.Status != history.StatusConfirmed || e.Signature != "SIGabc" || e.Lamports != 2_500_000_000 {
		t.Fatalf("unexpected history entry: %+v", e)
	}

	// Session is gone: further text is ignored.
	before := len(*replies)
	_ = m.HandleText(context.Background(), 1, "anything", send)
	if len(*replies) != before {
		t.Fatal("text after terminal outcome must be ignored")
	}
}

func TestSubmitFailureSurfacesReason(t *testing.T) {
	svc := &fakeLedger{
		pubkeys:   []string{"P1"},
		balance:   5_000_000_000,
		submitErr: &ledger.TransferError{Reason: "invalid recipient address", Err: errors.New("bad base58")},
	}
	rec := &recorder{}
	m, wallets, replies, send := newHarness(svc, rec)
	wallets.Generate(1)

	m.Begin(1)
	_ = m.HandleText(context.Background(), 1, "not-an-address", send)
	_ = m.HandleText(context.Background(), 1, "1", send)

	r := lastReply(t, replies)
	if !strings.Contains(r.text, "Transaction failed") || !strings.Contains(r.text, "invalid recipient address") {
		t.Fatalf("reply %q lacks failure description", r.text)
	}
	if m.InProgress(1) {
		t.Fatal("session must be torn down after failure")
	}
	if len(rec.entries) != 1 || rec.entries[0].Status != history.StatusFailed {
		t.Fatalf("expected one failed history entry, got %+v", rec.entries)
	}
}

func TestBalanceFetchFailure(t *testing.T) {
	svc := &fakeLedger{
		pubkeys:    []string{"P1"},
		balanceErr: &ledger.NetworkError{Err: errors.New("node unreachable")},
	}
	m, wallets, replies, send := newHarness(svc, nil)
	wallets.Generate(1)

	m.Begin(1)
	_ = m.HandleText(context.Background(), 1, "P2", send)
	_ = m.HandleText(context.Background(), 1, "1", send)

	r := lastReply(t, replies)
	if !strings.Contains(r.text, "Transaction failed") || !strings.Contains(r.text, "node unreachable") {
		t.Fatalf("reply %q lacks network failure description", r.text)
	}
	if len(svc.submits) != 0 {
		t.Fatal("submit must not be called when the balance fetch fails")
	}
	if m.InProgress(1) {
		t.Fatal("session must be torn down")
	}
}

func TestBeginReplacesStaleSession(t *testing.T) {
	svc := &fakeLedger{pubkeys: []string{"P1"}, balance: 5_000_000_000, submitSig: "SIG123"}
	m, wallets, replies, send := newHarness(svc, nil)
	wallets.Generate(1)

	m.Begin(1)
	_ = m.HandleText(context.Background(), 1, "OLD", send)

	// Restarting mid-flow collects a fresh recipient.
	m.Begin(1)
	_ = m.HandleText(context.Background(), 1, "NEW", send)
	_ = m.HandleText(context.Background(), 1, "1", send)

	if len(svc.submits) != 1 || svc.submits[0].to != "NEW" {
		t.Fatalf("submit = %+v, want recipient NEW", svc.submits)
	}
	if !strings.Contains(lastReply(t, replies).text, "SIG123") {
		t.Fatal("expected confirmation with signature")
	}
}

package wallet

import (
	"fmt"
	"testing"

	"walletbot/internal/ledger"
)

type seqKeygen struct{ n int }

func (k *seqKeygen) GenerateKeypair() ledger.Account {
	k.n++
	return ledger.Account{
		PublicKey:  fmt.Sprintf("PUB%d", k.n),
		PrivateKey: []byte{byte(k.n)},
	}
}

func TestLookupAbsent(t *testing.T) {
	reg := NewRegistry(&seqKeygen{})
	if _, ok := reg.Lookup(1); ok {
		t.Fatal("expected no account for fresh user")
	}
	if reg.Count() != 0 {
		t.Fatalf("count = %d, want 0", reg.Count())
	}
}

func TestGenerateStoresAccount(t *testing.T) {
	reg := NewRegistry(&seqKeygen{})
	acc := reg.Generate(7)
	got, ok := reg.Lookup(7)
	if !ok {
		t.Fatal("expected account after generate")
	}
	if got.PublicKey != acc.PublicKey {
		t.Fatalf("lookup pubkey = %s, generate returned %s", got.PublicKey, acc.PublicKey)
	}
	if reg.Count() != 1 {
		t.Fatalf("count = %d, want 1", reg.Count())
	}
}

func TestGenerateOverwrites(t *testing.T) {
	reg := NewRegistry(&seqKeygen{})
	first := reg.Generate(7)
	second := reg.Generate(7)
	if first.PublicKey == second.PublicKey {
		t.Fatal("expected a fresh keypair on regeneration")
	}
	got, _ := reg.Lookup(7)
	if got.PublicKey != second.PublicKey {
		t.Fatalf("lookup pubkey = %s, want %s (old key must be unreachable)", got.PublicKey, second.PublicKey)
	}
	if reg.Count() != 1 {
		t.Fatalf("count = %d, want 1", reg.Count())
	}
}

package ledger

import "testing"

func TestToLamports(t *testing.T) {
	if got := ToLamports(2.5); got != 2_500_000_000 {
		t.Fatalf("ToLamports(2.5) = %d, want 2500000000", got)
	}
	if got := ToLamports(0); got != 0 {
		t.Fatalf("ToLamports(0) = %d, want 0", got)
	}
}

func TestFormatSOL(t *testing.T) {
	if got := FormatSOL(5_000_000_000); got != "5.0000" {
		t.Fatalf("FormatSOL = %q, want 5.0000", got)
	}
	if got := FormatSOL(1_234_567); got != "0.0012" {
		t.Fatalf("FormatSOL = %q, want 0.0012", got)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(2.5); got != "2.5" {
		t.Fatalf("FormatAmount = %q, want 2.5", got)
	}
	if got := FormatAmount(3); got != "3" {
		t.Fatalf("FormatAmount = %q, want 3", got)
	}
}

package ledger

import "strconv"

// LamportsPerSOL is the fixed conversion factor between the display unit and
// the ledger's base unit.
const LamportsPerSOL = 1_000_000_000

// ToLamports converts a SOL amount entered by the user into lamports.
func ToLamports(sol float64) uint64 {
	return uint64(sol * LamportsPerSOL)
}

// FormatSOL renders a lamport balance as SOL with four decimal places.
func FormatSOL(lamports uint64) string {
	return strconv.FormatFloat(float64(lamports)/LamportsPerSOL, 'f', 4, 64)
}

// FormatAmount echoes a user-entered SOL amount without trailing zeros,
// so "2.5" reads back as "2.5", not "2.500000".
func FormatAmount(sol float64) string {
	return strconv.FormatFloat(sol, 'f', -1, 64)
}

package transfer

// Reply texts for the transfer flow. The recipient prompt lives with the
// send-SOL button handler; everything from the amount prompt onward is the
// machine's.
const (
	msgAskAmount     = "How much SOL do you want to send"
	msgInvalidAmount = "Invalid amount. Please enter a positive number."
	msgNoWallet      = "You don't have a wallet. Please generate one first."
	msgInsufficient  = "Insufficient balance. You have %s SOL but trying to send %s SOL."
	msgSuccess       = "✅ Transaction successful!\n%s SOL sent to %s\n\nSignature: %s"
	msgFailed        = "❌ Transaction failed: %s"
)

package app

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	tg "walletbot/core/telegram"
	"walletbot/core/telegram/commands"
	tghelpers "walletbot/core/telegram/helpers"
	"walletbot/internal/history"
	"walletbot/internal/ledger"
)

const (
	msgWelcome       = "Hi there"
	msgWalletCreated = "New wallet created for you with public key %s"
	msgNoWalletYet   = "You dont have a wallet with us yet, please click generate wallet to create one"
	msgYourPublicKey = "This is your public key %s"
	msgAskRecipient  = "Can u share the address to send to"

	ackGenerating  = "Generating new wallet..."
	ackFetchingKey = "Getting your public key..."
)

func (a *App) registerCommands(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Open the wallet menu",
	})
	if a.store != nil {
		reg.RegisterCommand("/history", commands.Command{
			Handler:     a.handleHistory,
			Description: "Show your recent transfers",
		})
	}
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.handleStats,
		Description: "Service counters",
		AdminOnly:   true,
		Hidden:      true,
	})
}

func (a *App) registerCallbacks(reg *tg.Registry) {
	_ = reg.RegisterCallback(cbGenerateWallet, a.handleGenerateWallet)
	_ = reg.RegisterCallback(cbShowPublicKey, a.handleShowPublicKey)
	_ = reg.RegisterCallback(cbSendSOL, a.handleSendSOL)
}

// handleStart greets the user with the default action set. No state changes.
func (a *App) handleStart(c tele.Context) error {
	return tghelpers.SendMD(c, msgWelcome, defaultKeyboard())
}

// handleGenerateWallet creates a keypair for the user, silently replacing an
// existing one, and replies with the new public key.
func (a *App) handleGenerateWallet(c tele.Context) error {
	_ = c.Respond(&tele.CallbackResponse{Text: ackGenerating})
	acc := a.wallets.Generate(c.Sender().ID)
	return tghelpers.SendMD(c, fmt.Sprintf(msgWalletCreated, acc.PublicKey), postCreationKeyboard())
}

func (a *App) handleShowPublicKey(c tele.Context) error {
	_ = c.Respond(&tele.CallbackResponse{Text: ackFetchingKey})
	acc, ok := a.wallets.Lookup(c.Sender().ID)
	if !ok {
		return tghelpers.SendMD(c, msgNoWalletYet, onlyGenerateKeyboard())
	}
	return tghelpers.SendMD(c, fmt.Sprintf(msgYourPublicKey, acc.PublicKey), postCreationKeyboard())
}

// handleSendSOL asks for the recipient address and opens a transfer session.
func (a *App) handleSendSOL(c tele.Context) error {
	_ = c.Respond()
	if err := tghelpers.SendMD(c, msgAskRecipient); err != nil {
		return err
	}
	a.machine.Begin(c.Sender().ID)
	return nil
}

func (a *App) handleHistory(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	entries, err := a.store.RecentByUser(ctx, c.Sender().ID, 5)
	if err != nil {
		return tghelpers.SendMD(c, "Could not load your transfer history, please try again later.")
	}
	if len(entries) == 0 {
		return tghelpers.SendMD(c, "No transfers yet.", postCreationKeyboard())
	}

	var b strings.Builder
	b.WriteString("Your recent transfers:\n")
	for _, e := range entries {
		b.WriteString(formatHistoryLine(e))
		b.WriteByte('\n')
	}
	return tghelpers.SendMD(c, b.String(), postCreationKeyboard())
}

func formatHistoryLine(e history.Entry) string {
	amount := ledger.FormatSOL(uint64(e.Lamports))
	if e.Status == history.StatusConfirmed {
		return fmt.Sprintf("✅ %s SOL to %s (%s)", amount, e.ToAddress, e.Signature)
	}
	return fmt.Sprintf("❌ %s SOL to %s: %s", amount, e.ToAddress, e.FailReason)
}

// handleStats is an admin-only view of the in-memory service counters.
func (a *App) handleStats(c tele.Context) error {
	var sendErrors uint64
	if a.dispatcher != nil {
		sendErrors = a.dispatcher.ErrorCount()
	}
	text := fmt.Sprintf(
		"Wallets: %d\nActive transfer sessions: %d\nSend errors: %d",
		a.wallets.Count(), a.machine.ActiveCount(), sendErrors,
	)
	return tghelpers.SendText(c, text)
}

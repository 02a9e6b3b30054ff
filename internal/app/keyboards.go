package app

import (
	tele "gopkg.in/telebot.v4"

	"walletbot/core/telegram/keyboard"
	"walletbot/internal/transfer"
)

// Callback keys shared between keyboards and handler registration.
const (
	cbGenerateWallet = "generate_wallet"
	cbShowPublicKey  = "show_public_key"
	cbSendSOL        = "send_sol"
)

const (
	btnGenerateWallet = "🔑 Generate Wallet"
	btnShowPublicKey  = "Show public key"
	btnSendSOL        = "Send SOL"
)

// defaultKeyboard is shown on /start: generate or inspect.
func defaultKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: btnGenerateWallet, Unique: cbGenerateWallet},
		{Text: btnShowPublicKey, Unique: cbShowPublicKey},
	})
}

// onlyGenerateKeyboard is shown when the user has no wallet yet.
func onlyGenerateKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: btnGenerateWallet, Unique: cbGenerateWallet},
	})
}

// postCreationKeyboard is shown once a wallet exists.
func postCreationKeyboard() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: btnSendSOL, Unique: cbSendSOL},
		{Text: btnShowPublicKey, Unique: cbShowPublicKey},
	})
}

// markupFor maps a machine action set to its inline keyboard.
func markupFor(actions transfer.ActionSet) *tele.ReplyMarkup {
	switch actions {
	case transfer.ActionsGenerateOnly:
		return onlyGenerateKeyboard()
	case transfer.ActionsPostCreation:
		return postCreationKeyboard()
	}
	return nil
}

package app

import (
	"testing"

	"walletbot/internal/transfer"
)

func TestKeyboardLayouts(t *testing.T) {
	def := defaultKeyboard()
	if len(def.InlineKeyboard) != 1 || len(def.InlineKeyboard[0]) != 2 {
		t.Fatalf("default keyboard shape = %v", def.InlineKeyboard)
	}
	if def.InlineKeyboard[0][0].Unique != cbGenerateWallet || def.InlineKeyboard[0][1].Unique != cbShowPublicKey {
		t.Fatalf("default keyboard callbacks = %s, %s", def.InlineKeyboard[0][0].Unique, def.InlineKeyboard[0][1].Unique)
	}

	gen := onlyGenerateKeyboard()
	if len(gen.InlineKeyboard) != 1 || len(gen.InlineKeyboard[0]) != 1 {
		t.Fatalf("generate-only keyboard shape = %v", gen.InlineKeyboard)
	}
	if gen.InlineKeyboard[0][0].Unique != cbGenerateWallet {
		t.Fatalf("generate-only callback = %s", gen.InlineKeyboard[0][0].Unique)
	}

	post := postCreationKeyboard()
	if post.InlineKeyboard[0][0].Unique != cbSendSOL || post.InlineKeyboard[0][1].Unique != cbShowPublicKey {
		t.Fatalf("post-creation callbacks = %s, %s", post.InlineKeyboard[0][0].Unique, post.InlineKeyboard[0][1].Unique)
	}
}

func TestMarkupForActionSets(t *testing.T) {
	if markupFor(transfer.ActionsNone) != nil {
		t.Fatal("ActionsNone must map to no keyboard")
	}
	gen := markupFor(transfer.ActionsGenerateOnly)
	if gen == nil || gen.InlineKeyboard[0][0].Unique != cbGenerateWallet {
		t.Fatal("ActionsGenerateOnly must map to the generate-only keyboard")
	}
	post := markupFor(transfer.ActionsPostCreation)
	if post == nil || post.InlineKeyboard[0][0].Unique != cbSendSOL {
		t.Fatal("ActionsPostCreation must map to the post-creation keyboard")
	}
}

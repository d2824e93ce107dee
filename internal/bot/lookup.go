package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/raselahmed/eee24bot/internal/domain/members"
)

// handleRollSearch treats digit-only free text as a roll lookup. Anything
// else is ordinary conversation and gets no reply at all.
func (b *Bot) handleRollSearch(ctx context.Context, msg *tgbotapi.Message, viewer *members.Member) {
	roll := msg.Text
	if roll == "" || !allDigits(roll) {
		return
	}

	target, err := b.members.FirstByRoll(ctx, roll)
	if err != nil {
		b.log.Error("roll lookup failed", "roll", roll, "err", err)
		return
	}
	if target == nil {
		b.send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Not found."))
		return
	}

	redact := !members.CanViewPhone(viewer.Role, target.Gender) && target.ChatID != viewer.ChatID
	card := members.RenderCard(target, redact)
	b.sendCard(msg.Chat.ID, target, card)
}

func (b *Bot) myProfile(ctx context.Context, chatID int64, u *members.Member) {
	// own card, never redacted
	b.sendCard(chatID, u, members.RenderCard(u, false))
}

func (b *Bot) sendCard(chatID int64, m *members.Member, card string) {
	if m.PhotoID != "" {
		p := tgbotapi.NewPhoto(chatID, tgbotapi.FileID(m.PhotoID))
		p.Caption = card
		b.send(p)
		return
	}
	b.send(tgbotapi.NewMessage(chatID, card))
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

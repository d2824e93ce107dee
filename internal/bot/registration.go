package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/raselahmed/eee24bot/internal/dialog"
	"github.com/raselahmed/eee24bot/internal/domain/members"
	"github.com/raselahmed/eee24bot/internal/onboarding"
)

func (b *Bot) regEnv(chatID int64) onboarding.Env {
	return onboarding.Env{CurrentBatch: b.batch, SuperAdmin: chatID == b.adminChat}
}

func regState(s onboarding.Step) dialog.State {
	return dialog.State(dialog.RegPrefix + string(s))
}

func regStep(st dialog.State) onboarding.Step {
	return onboarding.Step(string(st)[len(dialog.RegPrefix):])
}

func (b *Bot) beginRegistration(ctx context.Context, chatID int64) {
	env := b.regEnv(chatID)
	first := onboarding.First()
	if err := b.states.Set(ctx, chatID, regState(first), dialog.Payload{}); err != nil {
		b.log.Error("state save failed", "chat", chatID, "err", err)
		return
	}
	b.askStep(chatID, env, onboarding.Form{}, first)
}

func (b *Bot) handleRegistrationMessage(ctx context.Context, msg *tgbotapi.Message, st *dialog.Item) {
	chatID := msg.Chat.ID
	env := b.regEnv(chatID)
	step := regStep(st.State)
	form := formFromPayload(st.Payload)

	in := onboarding.Input{Text: msg.Text, PhotoID: largestPhotoID(msg)}
	next, err := env.Advance(form, step, in)
	if err != nil {
		var ve *onboarding.ValidationError
		if errors.As(err, &ve) {
			b.send(tgbotapi.NewMessage(chatID, ve.Msg))
			return
		}
		b.log.Error("onboarding advance failed", "chat", chatID, "err", err)
		return
	}

	if next == onboarding.StepComplete {
		b.finishRegistration(ctx, chatID, form)
		return
	}
	if err := b.states.Set(ctx, chatID, regState(next), payloadFromForm(form)); err != nil {
		b.log.Error("state save failed", "chat", chatID, "err", err)
		return
	}
	b.askStep(chatID, env, form, next)
}

func (b *Bot) askStep(chatID int64, env onboarding.Env, form onboarding.Form, s onboarding.Step) {
	m := tgbotapi.NewMessage(chatID, env.Prompt(form, s))
	switch s {
	case onboarding.StepBatch:
		m.ReplyMarkup = oneTimeKeyboard([]string{b.batch, "Other"})
	case onboarding.StepGender:
		m.ReplyMarkup = oneTimeKeyboard([]string{string(members.GenderMale), string(members.GenderFemale)})
	case onboarding.StepPhone:
		m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	}
	b.send(m)
}

func (b *Bot) finishRegistration(ctx context.Context, chatID int64, form onboarding.Form) {
	existing, err := b.members.GetByChatID(ctx, chatID)
	if err != nil {
		b.log.Error("member load failed", "chat", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "⚠️ Could not save your profile. Please try again."))
		return
	}

	insertRole := members.RolePending
	if chatID == b.adminChat {
		// the super admin never waits in the queue
		insertRole = members.RoleAdmin
	}

	saved, err := b.members.UpsertProfile(ctx, form.Profile(chatID), insertRole)
	if err != nil {
		b.log.Error("profile save failed", "chat", chatID, "err", err)
		b.send(tgbotapi.NewMessage(chatID, "⚠️ Could not save your profile. Please try again."))
		return
	}
	_ = b.states.Reset(ctx, chatID)

	text := "✅ Profile Updated Successfully!"
	if existing == nil {
		if saved.Role == members.RolePending {
			text = "✅ Registration Complete! Waiting for Admin approval."
			if err := b.Notify(b.adminChat, fmt.Sprintf("🔔 New User\n%s\n/admin to approve.", saved.Name)); err != nil {
				b.log.Error("admin notice failed", "err", err)
			}
		} else {
			text = "✅ Registration Complete!"
		}
	}

	m := tgbotapi.NewMessage(chatID, text)
	m.ReplyMarkup = b.mainMenuKeyboard(saved)
	b.send(m)
}

func formFromPayload(p dialog.Payload) onboarding.Form {
	f := onboarding.Form{}
	for k := range p {
		if s, ok := dialog.GetString(p, k); ok {
			f[k] = s
		}
	}
	return f
}

func payloadFromForm(f onboarding.Form) dialog.Payload {
	p := dialog.Payload{}
	for k, v := range f {
		p[k] = v
	}
	return p
}

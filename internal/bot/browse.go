package bot

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/raselahmed/eee24bot/internal/domain/members"
	"github.com/raselahmed/eee24bot/internal/domain/submissions"
	"github.com/raselahmed/eee24bot/internal/moderation"
)

func (b *Bot) browseMenu(chatID int64) {
	m := tgbotapi.NewMessage(chatID, "📂 Browse Files")
	m.ReplyMarkup = categoryKeyboard("view", false)
	b.send(m)
}

func (b *Bot) handleViewCategory(ctx context.Context, cb *tgbotapi.CallbackQuery, category string) {
	chatID := cb.Message.Chat.ID
	if !submissions.ValidCategory(category) {
		return
	}

	viewer, _ := b.members.GetByChatID(ctx, cb.From.ID)
	if viewer == nil || !members.IsApproved(viewer.Role) {
		return
	}

	files, err := b.subs.ListApprovedByCategory(ctx, category, browseLimit)
	if err != nil {
		b.log.Error("browse query failed", "category", category, "err", err)
		return
	}
	if len(files) == 0 {
		b.editText(chatID, cb.Message.MessageID, fmt.Sprintf("📂 %s\nNo files found.", category))
		return
	}

	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("📂 %s (Latest)", category)))
	isAdm := members.CanModerate(viewer.Role)
	for _, f := range files {
		var kb *tgbotapi.InlineKeyboardMarkup
		if isAdm {
			k := tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("🗑 Delete (Admin)", fmt.Sprintf("del:adm:%d", f.ID)),
				),
			)
			kb = &k
		}
		// a single broken file must not abort the rest of the listing
		if err := b.sendSubmission(chatID, &f, kb); err != nil {
			b.log.Error("send file failed", "submission", f.ID, "err", err)
		}
	}
}

func (b *Bot) sendSubmission(chatID int64, s *submissions.Submission, kb *tgbotapi.InlineKeyboardMarkup) error {
	caption := fmt.Sprintf("📄 %s\n📅 %s", s.Caption, s.UploadedAt.Format("2006-01-02 15:04"))
	file := tgbotapi.FileID(s.FileID)

	var msg tgbotapi.Chattable
	switch s.Kind {
	case submissions.KindDocument:
		m := tgbotapi.NewDocument(chatID, file)
		m.Caption = caption
		if kb != nil {
			m.ReplyMarkup = *kb
		}
		msg = m
	case submissions.KindPhoto:
		m := tgbotapi.NewPhoto(chatID, file)
		m.Caption = caption
		if kb != nil {
			m.ReplyMarkup = *kb
		}
		msg = m
	case submissions.KindVideo:
		m := tgbotapi.NewVideo(chatID, file)
		m.Caption = caption
		if kb != nil {
			m.ReplyMarkup = *kb
		}
		msg = m
	case submissions.KindAudio:
		m := tgbotapi.NewAudio(chatID, file)
		m.Caption = caption
		if kb != nil {
			m.ReplyMarkup = *kb
		}
		msg = m
	default:
		return fmt.Errorf("unknown submission kind %q", s.Kind)
	}

	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) myFiles(ctx context.Context, chatID int64) {
	files, err := b.subs.ListByUploader(ctx, chatID, myFilesLimit)
	if err != nil {
		b.log.Error("my files query failed", "chat", chatID, "err", err)
		return
	}
	if len(files) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "📂 You haven't uploaded any files."))
		return
	}

	b.send(tgbotapi.NewMessage(chatID, "📂 My Uploads (Tap Trash to Delete)"))
	for _, f := range files {
		icon := "⏳"
		if f.Status == submissions.StatusApproved {
			icon = "✅"
		}
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", fmt.Sprintf("del:own:%d", f.ID)),
			),
		)
		m := tgbotapi.NewMessage(chatID, fmt.Sprintf("%s [%s] %s", icon, f.Category, f.Caption))
		m.ReplyMarkup = kb
		b.send(m)
	}
}

func (b *Bot) handleDelete(ctx context.Context, cb *tgbotapi.CallbackQuery, data string) {
	chatID := cb.Message.Chat.ID

	var id int64
	var byAdmin bool
	if _, err := fmt.Sscanf(data, "own:%d", &id); err == nil {
		byAdmin = false
	} else if _, err := fmt.Sscanf(data, "adm:%d", &id); err == nil {
		byAdmin = true
	} else {
		return
	}

	err := b.mod.DeleteSubmission(ctx, cb.From.ID, id)
	switch {
	case err == nil:
		// admin deletes ride on media messages, which cannot be text-edited
		b.clearMarkup(chatID, cb.Message.MessageID)
		if byAdmin {
			b.send(tgbotapi.NewMessage(chatID, "🗑 File deleted by Admin."))
		} else {
			b.send(tgbotapi.NewMessage(chatID, "🗑 File deleted."))
		}
	case errors.Is(err, moderation.ErrNotFound):
		b.clearMarkup(chatID, cb.Message.MessageID)
		b.send(tgbotapi.NewMessage(chatID, "Already deleted."))
	case errors.Is(err, moderation.ErrPermissionDenied):
		b.send(tgbotapi.NewMessage(chatID, "❌ Error: Not your file."))
	default:
		b.log.Error("delete failed", "submission", id, "err", err)
	}
}

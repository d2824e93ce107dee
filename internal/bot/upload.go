package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/raselahmed/eee24bot/internal/dialog"
	"github.com/raselahmed/eee24bot/internal/domain/members"
	"github.com/raselahmed/eee24bot/internal/domain/submissions"
)

func (b *Bot) startUpload(ctx context.Context, chatID int64, u *members.Member) {
	if !members.IsApproved(u.Role) {
		b.send(tgbotapi.NewMessage(chatID, "🔒 Not approved."))
		return
	}
	if err := b.states.Set(ctx, chatID, dialog.StateUploadFile, dialog.Payload{}); err != nil {
		b.log.Error("state save failed", "chat", chatID, "err", err)
		return
	}
	b.send(tgbotapi.NewMessage(chatID,
		"📤 Upload File\nSend a Document, Photo, Video, or Audio.\n\n(Type /cancel to stop)"))
}

func (b *Bot) handleUploadFile(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	var fileID, uniqueID string
	var kind submissions.Kind
	switch {
	case msg.Document != nil:
		fileID, uniqueID, kind = msg.Document.FileID, msg.Document.FileUniqueID, submissions.KindDocument
	case len(msg.Photo) > 0:
		p := msg.Photo[len(msg.Photo)-1]
		fileID, uniqueID, kind = p.FileID, p.FileUniqueID, submissions.KindPhoto
	case msg.Video != nil:
		fileID, uniqueID, kind = msg.Video.FileID, msg.Video.FileUniqueID, submissions.KindVideo
	case msg.Audio != nil:
		fileID, uniqueID, kind = msg.Audio.FileID, msg.Audio.FileUniqueID, submissions.KindAudio
	default:
		b.send(tgbotapi.NewMessage(chatID, "❌ Invalid file. Send a file or /cancel."))
		return
	}

	caption := msg.Caption
	if caption == "" {
		caption = submissions.DefaultCaption
	}

	payload := dialog.Payload{
		"file_id":   fileID,
		"unique_id": uniqueID,
		"kind":      string(kind),
		"caption":   caption,
	}
	if err := b.states.Set(ctx, chatID, dialog.StateUploadCategory, payload); err != nil {
		b.log.Error("state save failed", "chat", chatID, "err", err)
		return
	}

	m := tgbotapi.NewMessage(chatID, "📂 Select Category:")
	m.ReplyMarkup = categoryKeyboard("cat", true)
	b.send(m)
}

func (b *Bot) handleCategoryChosen(ctx context.Context, cb *tgbotapi.CallbackQuery, category string) {
	chatID := cb.Message.Chat.ID

	if category == "cancel" {
		_ = b.states.Reset(ctx, chatID)
		b.editText(chatID, cb.Message.MessageID, "❌ Upload canceled.")
		return
	}

	st, err := b.states.Get(ctx, chatID)
	if err != nil || st.State != dialog.StateUploadCategory {
		// stale button from an expired session
		b.editText(chatID, cb.Message.MessageID, "⌛ This upload has expired. Start again with 📤 Upload File.")
		return
	}
	if !submissions.ValidCategory(category) {
		return
	}

	fileID, _ := dialog.GetString(st.Payload, "file_id")
	uniqueID, _ := dialog.GetString(st.Payload, "unique_id")
	kind, _ := dialog.GetString(st.Payload, "kind")
	caption, _ := dialog.GetString(st.Payload, "caption")

	_, err = b.subs.Insert(ctx, &submissions.Submission{
		FileID:     fileID,
		UniqueID:   uniqueID,
		Kind:       submissions.Kind(kind),
		Category:   category,
		Caption:    caption,
		UploaderID: cb.From.ID,
	})
	if err != nil {
		b.log.Error("submission insert failed", "chat", chatID, "err", err)
		b.editText(chatID, cb.Message.MessageID, "⚠️ Could not save your upload. Please try again.")
		return
	}
	_ = b.states.Reset(ctx, chatID)

	b.editText(chatID, cb.Message.MessageID,
		fmt.Sprintf("✅ Submitted to %s. Pending Admin approval.", category))
	if err := b.Notify(b.adminChat, fmt.Sprintf("🔔 New File in %s\n/admin to review.", category)); err != nil {
		b.log.Error("admin notice failed", "err", err)
	}
}

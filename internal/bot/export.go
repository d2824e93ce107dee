package bot

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"

	"github.com/raselahmed/eee24bot/internal/domain/members"
)

// exportDirectory builds an xlsx of the whole member table and sends it
// to the requesting admin.
func (b *Bot) exportDirectory(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID

	actor, err := b.members.GetByChatID(ctx, cb.From.ID)
	if err != nil {
		b.log.Error("member load failed", "chat", cb.From.ID, "err", err)
		return
	}
	if actor == nil || !members.CanModerate(actor.Role) {
		b.editText(chatID, cb.Message.MessageID, "Access denied.")
		return
	}

	all, err := b.members.ListAll(ctx)
	if err != nil {
		b.log.Error("directory export query failed", "err", err)
		b.editText(chatID, cb.Message.MessageID, "⚠️ Export failed. Please try again.")
		return
	}

	data, err := buildDirectoryXLSX(all)
	if err != nil {
		b.log.Error("directory export build failed", "err", err)
		b.editText(chatID, cb.Message.MessageID, "⚠️ Export failed. Please try again.")
		return
	}

	name := fmt.Sprintf("members-%s.xlsx", time.Now().Format("2006-01-02"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = fmt.Sprintf("📊 Member directory (%d records)", len(all))
	b.send(doc)
}

func buildDirectoryXLSX(all []members.Member) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	header := []any{"chat_id", "name", "roll", "batch", "gender", "phone", "fb_link", "blood_group", "hometown", "email", "role", "joined_at"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, m := range all {
		row := []any{
			m.ChatID, m.Name, m.Roll, m.Batch, string(m.Gender), m.Phone,
			m.FBLink, m.BloodGroup, m.Hometown, m.Email, string(m.Role),
			m.JoinedAt.Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

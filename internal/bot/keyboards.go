package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/raselahmed/eee24bot/internal/domain/members"
	"github.com/raselahmed/eee24bot/internal/domain/submissions"
)

func (b *Bot) mainMenuKeyboard(m *members.Member) tgbotapi.ReplyKeyboardMarkup {
	rows := members.MainMenu(m.Role, m.Batch, b.batch)
	kb := make([][]tgbotapi.KeyboardButton, 0, len(rows))
	for _, row := range rows {
		btns := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			btns = append(btns, tgbotapi.NewKeyboardButton(label))
		}
		kb = append(kb, btns)
	}
	return tgbotapi.ReplyKeyboardMarkup{ResizeKeyboard: true, Keyboard: kb}
}

func oneTimeKeyboard(labels []string) tgbotapi.ReplyKeyboardMarkup {
	btns := make([]tgbotapi.KeyboardButton, 0, len(labels))
	for _, l := range labels {
		btns = append(btns, tgbotapi.NewKeyboardButton(l))
	}
	return tgbotapi.ReplyKeyboardMarkup{
		ResizeKeyboard:  true,
		OneTimeKeyboard: true,
		Keyboard:        [][]tgbotapi.KeyboardButton{btns},
	}
}

// categoryKeyboard lays the fixed category set out two per row, with an
// optional cancel row for the upload flow.
func categoryKeyboard(prefix string, withCancel bool) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, cat := range submissions.Categories {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(cat, prefix+":"+cat))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	if withCancel {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel Upload", prefix+":cancel"),
		})
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

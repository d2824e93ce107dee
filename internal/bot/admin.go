package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/raselahmed/eee24bot/internal/domain/members"
	"github.com/raselahmed/eee24bot/internal/infra/metrics"
	"github.com/raselahmed/eee24bot/internal/moderation"
)

func (b *Bot) adminPanel(chatID int64) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("👥 Pending Users", "adm:panel:users"),
			tgbotapi.NewInlineKeyboardButtonData("📁 Pending Files", "adm:panel:files"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Export Directory", "adm:panel:export"),
		),
	)
	m := tgbotapi.NewMessage(chatID, "👨‍💼 Admin Panel")
	m.ReplyMarkup = kb
	b.send(m)
}

func (b *Bot) handleAdminCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data string) {
	chatID := cb.Message.Chat.ID
	actorID := cb.From.ID

	switch data {
	case "panel:users":
		b.listPendingMembers(ctx, cb)
		return
	case "panel:files":
		b.listPendingFiles(ctx, cb)
		return
	case "panel:export":
		b.exportDirectory(ctx, cb)
		return
	}

	// member/file decisions carry a trailing id: "member:approve:123"
	parts := strings.Split(data, ":")
	if len(parts) != 3 {
		return
	}
	id, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return
	}

	var decisionErr error
	var done string
	switch parts[0] + ":" + parts[1] {
	case "member:approve":
		decisionErr = b.mod.ApproveMember(ctx, actorID, id)
		done = "User Approved"
	case "member:reject":
		decisionErr = b.mod.RejectMember(ctx, actorID, id)
		done = "User Rejected"
	case "member:coadmin":
		decisionErr = b.mod.SetMemberRole(ctx, actorID, id, members.RoleCoAdmin)
		done = "Promoted to Co-admin"
	case "member:block":
		decisionErr = b.mod.SetMemberRole(ctx, actorID, id, members.RoleBlocked)
		done = "User Blocked"
	case "file:approve":
		decisionErr = b.mod.ApproveSubmission(ctx, actorID, id)
		done = "File Approved"
	case "file:reject":
		decisionErr = b.mod.RejectSubmission(ctx, actorID, id)
		done = "File Deleted"
	default:
		return
	}

	switch {
	case decisionErr == nil:
		metrics.DecisionsTotal.WithLabelValues(parts[0] + "_" + parts[1]).Inc()
		b.editText(chatID, cb.Message.MessageID, done)
	case errors.Is(decisionErr, moderation.ErrNotFound):
		// another admin got there first
		b.editText(chatID, cb.Message.MessageID, "Already handled.")
	case errors.Is(decisionErr, moderation.ErrPermissionDenied):
		b.editText(chatID, cb.Message.MessageID, "Access denied.")
	default:
		b.log.Error("moderation decision failed", "data", data, "err", decisionErr)
		b.editText(chatID, cb.Message.MessageID, "⚠️ Something went wrong. Please try again.")
	}
}

func (b *Bot) listPendingMembers(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	pending, err := b.mod.PendingMembers(ctx, cb.From.ID)
	if err != nil {
		if errors.Is(err, moderation.ErrPermissionDenied) {
			b.editText(chatID, cb.Message.MessageID, "Access denied.")
			return
		}
		b.log.Error("pending members failed", "err", err)
		return
	}
	if len(pending) == 0 {
		b.editText(chatID, cb.Message.MessageID, "✅ No pending users.")
		return
	}
	for _, u := range pending {
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Approve", fmt.Sprintf("adm:member:approve:%d", u.ChatID)),
				tgbotapi.NewInlineKeyboardButtonData("Reject", fmt.Sprintf("adm:member:reject:%d", u.ChatID)),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Co-admin", fmt.Sprintf("adm:member:coadmin:%d", u.ChatID)),
				tgbotapi.NewInlineKeyboardButtonData("Block", fmt.Sprintf("adm:member:block:%d", u.ChatID)),
			),
		)
		m := tgbotapi.NewMessage(chatID, fmt.Sprintf("👤 %s (%s)", u.Name, u.Roll))
		m.ReplyMarkup = kb
		b.send(m)
	}
}

func (b *Bot) listPendingFiles(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	pending, err := b.mod.PendingSubmissions(ctx, cb.From.ID)
	if err != nil {
		if errors.Is(err, moderation.ErrPermissionDenied) {
			b.editText(chatID, cb.Message.MessageID, "Access denied.")
			return
		}
		b.log.Error("pending files failed", "err", err)
		return
	}
	if len(pending) == 0 {
		b.editText(chatID, cb.Message.MessageID, "✅ No pending files.")
		return
	}
	for _, f := range pending {
		kb := tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("Approve", fmt.Sprintf("adm:file:approve:%d", f.ID)),
				tgbotapi.NewInlineKeyboardButtonData("Reject", fmt.Sprintf("adm:file:reject:%d", f.ID)),
			),
		)
		by := f.UploaderName
		if by == "" {
			by = strconv.FormatInt(f.UploaderID, 10)
		}
		m := tgbotapi.NewMessage(chatID, fmt.Sprintf("📄 [%s] %s — by %s", f.Category, f.Caption, by))
		m.ReplyMarkup = kb
		b.send(m)
	}
}

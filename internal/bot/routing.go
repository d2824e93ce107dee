package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/raselahmed/eee24bot/internal/dialog"
	"github.com/raselahmed/eee24bot/internal/domain/members"
)

func (b *Bot) onMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleText(ctx, msg)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		m, err := b.members.GetByChatID(ctx, chatID)
		if err != nil {
			b.log.Error("member load failed", "chat", chatID, "err", err)
			b.send(tgbotapi.NewMessage(chatID, "⚠️ Something went wrong. Please try again."))
			return
		}
		if m == nil {
			b.send(tgbotapi.NewMessage(chatID, "🎓 Welcome to KUET EEE'24 Bot\nLet's get you registered!"))
			b.beginRegistration(ctx, chatID)
			return
		}
		switch m.Role {
		case members.RoleBlocked:
			b.send(tgbotapi.NewMessage(chatID, "⛔ You are blocked."))
		case members.RolePending:
			b.send(tgbotapi.NewMessage(chatID, "⏳ Registration pending approval."))
		default:
			if chatID == b.adminChat && m.Name == members.BootstrapName {
				b.send(tgbotapi.NewMessage(chatID,
					"👋 Welcome Super Admin!\nYour profile is currently empty. Please use /update_profile to register your real details (Photo, Name, Roll) so you appear correctly in the profiles."))
			}
			w := tgbotapi.NewMessage(chatID, fmt.Sprintf("Welcome back, %s!", m.Name))
			w.ReplyMarkup = b.mainMenuKeyboard(m)
			b.send(w)
		}

	case "update_profile":
		b.send(tgbotapi.NewMessage(chatID, "🔄 Updating Profile\n(Type /cancel to stop)"))
		b.beginRegistration(ctx, chatID)

	case "cancel":
		_ = b.states.Reset(ctx, chatID)
		m := tgbotapi.NewMessage(chatID, "🚫 Action canceled.")
		if u, _ := b.members.GetByChatID(ctx, chatID); u != nil {
			m.ReplyMarkup = b.mainMenuKeyboard(u)
		}
		b.send(m)

	case "admin":
		u, _ := b.members.GetByChatID(ctx, chatID)
		if u == nil || !members.CanModerate(u.Role) {
			b.send(tgbotapi.NewMessage(chatID, "Access denied."))
			return
		}
		b.adminPanel(chatID)

	case "help":
		b.send(tgbotapi.NewMessage(chatID,
			"Commands:\n/start — register or open the menu\n/update_profile — re-run registration\n/cancel — abort the current action\n/help — this message"))

	default:
		b.send(tgbotapi.NewMessage(chatID, "Unknown command. Try /help"))
	}
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("state load failed", "chat", chatID, "err", err)
		return
	}

	// Active dialogs take priority over menu buttons.
	switch {
	case strings.HasPrefix(string(st.State), dialog.RegPrefix):
		b.handleRegistrationMessage(ctx, msg, st)
		return
	case st.State == dialog.StateUploadFile:
		b.handleUploadFile(ctx, msg)
		return
	case st.State == dialog.StateUploadCategory:
		b.send(tgbotapi.NewMessage(chatID, "📂 Pick a category with the buttons, or press Cancel."))
		return
	}

	u, _ := b.members.GetByChatID(ctx, chatID)
	if u == nil {
		// unregistered identities only get /start
		return
	}
	if msg.Text == "📤 Upload File" {
		// startUpload answers unapproved members with a denial
		b.startUpload(ctx, chatID, u)
		return
	}
	if !members.IsApproved(u.Role) {
		return
	}

	switch msg.Text {
	case "📂 Browse Files":
		b.browseMenu(chatID)
	case "📂 My Files":
		b.myFiles(ctx, chatID)
	case "ℹ️ My Profile":
		b.myProfile(ctx, chatID, u)
	case "👥 Batch Profiles":
		b.send(tgbotapi.NewMessage(chatID, "🔎 Send a roll number to look up a batchmate."))
	case "📞 Contact Admins":
		b.contactAdmins(ctx, chatID)
	case fmt.Sprintf("💬 %s Batch Chat", b.batch):
		b.batchChat(chatID, u)
	case "🛠 Admin Panel":
		if !members.CanModerate(u.Role) {
			return
		}
		b.adminPanel(chatID)
	default:
		b.handleRollSearch(ctx, msg, u)
	}
}

func (b *Bot) onCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	_ = b.answerCallback(cb, "", false)
	data := cb.Data
	switch {
	case strings.HasPrefix(data, "cat:"):
		b.handleCategoryChosen(ctx, cb, strings.TrimPrefix(data, "cat:"))
	case strings.HasPrefix(data, "view:"):
		b.handleViewCategory(ctx, cb, strings.TrimPrefix(data, "view:"))
	case strings.HasPrefix(data, "del:"):
		b.handleDelete(ctx, cb, strings.TrimPrefix(data, "del:"))
	case strings.HasPrefix(data, "adm:"):
		b.handleAdminCallback(ctx, cb, strings.TrimPrefix(data, "adm:"))
	}
}

func (b *Bot) contactAdmins(ctx context.Context, chatID int64) {
	admins, err := b.members.ListByRole(ctx, members.RoleAdmin)
	if err != nil {
		b.log.Error("admin list failed", "err", err)
		return
	}
	coAdmins, err := b.members.ListByRole(ctx, members.RoleCoAdmin)
	if err != nil {
		b.log.Error("co-admin list failed", "err", err)
		return
	}
	var sb strings.Builder
	sb.WriteString("📞 Admins:\n")
	for _, a := range append(admins, coAdmins...) {
		fmt.Fprintf(&sb, "• %s (%s)\n", a.Name, a.Roll)
	}
	b.send(tgbotapi.NewMessage(chatID, sb.String()))
}

func (b *Bot) batchChat(chatID int64, u *members.Member) {
	if u.Batch != b.batch {
		return
	}
	if b.chatLink == "" {
		b.send(tgbotapi.NewMessage(chatID, "💬 The batch chat link is not configured yet."))
		return
	}
	b.send(tgbotapi.NewMessage(chatID, fmt.Sprintf("💬 %s Batch Chat:\n%s", b.batch, b.chatLink)))
}

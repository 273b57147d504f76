package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habit-planner/internal/navigation"
	"habit-planner/internal/service"
)

func (b *Bot) handleProfile(ctx context.Context, msg *tgbotapi.Message) error {
	b.navigate(msg.From.ID, navigation.SectionProfile)
	ws := b.workspace(ctx, msg.From.ID)
	acc := ws.Account.Current()

	name := acc.Name
	if name == "" {
		name = strings.TrimSpace(msg.From.FirstName)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("👤 <b>%s</b>\n", escape(name)))
	if acc.LoggedIn {
		builder.WriteString(fmt.Sprintf("✉️ %s\n", escape(acc.Email)))
	} else {
		builder.WriteString("Not logged in · /login or /signup\n")
	}
	builder.WriteString("\n")
	builder.WriteString(formatStats(ws.Stats()))
	return b.sendText(msg.Chat.ID, builder.String())
}

func (b *Bot) handleSignOut(ctx context.Context, msg *tgbotapi.Message) error {
	ws := b.workspace(ctx, msg.From.ID)
	if !ws.Account.Current().LoggedIn {
		return b.sendText(msg.Chat.ID, "You are not logged in.")
	}
	ws.Account.SignOut(ctx)
	return b.sendText(msg.Chat.ID, "👋 Logged out.")
}

func formatStats(st service.Stats) string {
	return fmt.Sprintf("🔥 Streak: <b>%d</b> days\n📆 Member for: <b>%d</b> days\n✅ Completed: <b>%d</b> of %d tasks",
		st.Streak, st.DaysRegistered, st.Completed, st.Total)
}

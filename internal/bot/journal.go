package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habit-planner/internal/model"
	"habit-planner/internal/navigation"
	"habit-planner/internal/service"
)

const (
	cbNotePrefix = "note:"
	cbNoteEdit   = "noteedit:"
	cbNoteDelete = "notedel:"
)

func (b *Bot) handleNotes(ctx context.Context, msg *tgbotapi.Message) error {
	b.navigate(msg.From.ID, navigation.SectionJournal)
	ws := b.workspace(ctx, msg.From.ID)
	notes := ws.Journal.Notes()

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📓 <b>%s</b>\n", escape(ws.Journal.Title())))
	if len(notes) == 0 {
		builder.WriteString("\nNo notes yet. Tap ➕ Add to write one.")
		return b.sendText(msg.Chat.ID, builder.String())
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, n := range notes {
		builder.WriteString(fmt.Sprintf("\n%s <b>%s</b> · <i>%s</i>", colorDot(n.Color), escape(n.Title), escape(n.Date)))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(shortTitle(n.Title, 28), cbNotePrefix+n.ID),
		))
	}
	return b.sendWithReplyMarkup(msg.Chat.ID, builder.String(), tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) handleNoteCallback(ctx context.Context, chatID, userID int64, data string) error {
	ws := b.workspace(ctx, userID)

	switch {
	case strings.HasPrefix(data, cbNoteEdit):
		note, ok := ws.Journal.Note(strings.TrimPrefix(data, cbNoteEdit))
		if !ok {
			return b.sendText(chatID, "Note not found.")
		}
		return b.startNoteComposer(chatID, userID, note)
	case strings.HasPrefix(data, cbNoteDelete):
		err := ws.Journal.Delete(ctx, strings.TrimPrefix(data, cbNoteDelete))
		if errors.Is(err, service.ErrNoteNotFound) {
			return b.sendText(chatID, "Note not found or already deleted.")
		}
		if err != nil {
			return err
		}
		return b.sendText(chatID, "🗑 Note deleted.")
	default:
		note, ok := ws.Journal.Note(strings.TrimPrefix(data, cbNotePrefix))
		if !ok {
			return b.sendText(chatID, "Note not found.")
		}
		text := fmt.Sprintf("%s <b>%s</b>\n<i>%s</i>\n\n%s", colorDot(note.Color), escape(note.Title), escape(note.Date), escape(note.Content))
		markup := tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit", cbNoteEdit+note.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", cbNoteDelete+note.ID),
		))
		return b.sendWithReplyMarkup(chatID, text, markup)
	}
}

func (b *Bot) handleJournalTitle(ctx context.Context, msg *tgbotapi.Message, args string) error {
	ws := b.workspace(ctx, msg.From.ID)
	if err := ws.Journal.SetTitle(ctx, args); err != nil {
		return b.sendText(msg.Chat.ID, "Send the new title, for example /journaltitle Gratitude log.")
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("📓 Journal renamed to <b>%s</b>.", escape(ws.Journal.Title())))
}

func (b *Bot) handleCover(ctx context.Context, msg *tgbotapi.Message, args string) error {
	ws := b.workspace(ctx, msg.From.ID)
	if args == "" {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Current cover: %s <code>%s</code>\nUse /cover &lt;colour&gt;.", colorDot(ws.Journal.Cover()), ws.Journal.Cover()))
	}
	color, ok := colorFromInput(args, model.CoverColors)
	if !ok {
		color = args
	}
	if err := ws.Journal.SetCover(ctx, color); err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Pick one of: %s", strings.Join(model.CoverColors, ", ")))
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🎨 Cover set to %s <code>%s</code>.", colorDot(ws.Journal.Cover()), ws.Journal.Cover()))
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habit-planner/internal/model"
	"habit-planner/internal/navigation"
	"habit-planner/internal/service"
)

const (
	cbDayPrefix     = "day:"
	cbDonePrefix    = "done:"
	cbSubtaskPrefix = "sub:"
	cbEditPrefix    = "edit:"
	cbDeletePrefix  = "del:"
	cbDeleteOne     = "delone:"
	cbDeleteAll     = "delall:"
	cbDeleteSeries  = "delseries:"
	cbCancel        = "cancel"
)

func (b *Bot) handleAgenda(ctx context.Context, msg *tgbotapi.Message, args string) error {
	b.navigate(msg.From.ID, navigation.SectionAgenda)
	date := model.FormatDate(time.Now().In(b.loc))
	if args != "" {
		parsed, err := parseDateInput(args, time.Now().In(b.loc))
		if err != nil {
			return b.sendText(msg.Chat.ID, "Use /agenda <code>YYYY-MM-DD</code>.")
		}
		date = parsed
	}
	return b.sendDay(ctx, msg.Chat.ID, msg.From.ID, date)
}

func (b *Bot) sendDay(ctx context.Context, chatID, userID int64, date string) error {
	b.setViewing(userID, date)
	tasks := b.workspace(ctx, userID).Tasks.Day(date)
	text, markup := renderDay(date, tasks)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

// renderDay builds the day view and its inline controls.
func renderDay(date string, tasks []model.Task) (string, tgbotapi.InlineKeyboardMarkup) {
	day, _ := model.ParseDate(date)

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("📅 <b>%s</b>\n\n", day.Format("Monday, Jan 2 2006")))
	if len(tasks) == 0 {
		builder.WriteString("Nothing planned. Tap ➕ Add to create a task.")
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, task := range tasks {
		builder.WriteString(fmt.Sprintf("<b>%d.</b> %s\n", i+1, service.FormatTask(task)))

		check := "⬜"
		if task.Done {
			check = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%s %d · %s", check, i+1, shortTitle(task.DisplayTitle(), 20)), refData(cbDonePrefix, date, i)),
			tgbotapi.NewInlineKeyboardButtonData("✏️", refData(cbEditPrefix, date, i)),
			tgbotapi.NewInlineKeyboardButtonData("🗑", refData(cbDeletePrefix, date, i)),
		))
		for _, st := range task.Subtasks {
			mark := "▫️"
			if st.Done {
				mark = "☑️"
			}
			rows = append(rows, tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("   %s %s", mark, shortTitle(st.Text, 24)), refData(cbSubtaskPrefix, date, i)+":"+st.ID),
			))
		}
	}

	prev := model.FormatDate(day.AddDate(0, 0, -1))
	next := model.FormatDate(day.AddDate(0, 0, 1))
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("◀️ "+prev[5:], cbDayPrefix+prev),
		tgbotapi.NewInlineKeyboardButtonData("Today", cbDayPrefix+"today"),
		tgbotapi.NewInlineKeyboardButtonData(next[5:]+" ▶️", cbDayPrefix+next),
	))

	return strings.TrimSpace(builder.String()), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}

	data := cb.Data
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID
	log.Printf("[info] callback user=%d data=%s", userID, data)

	switch {
	case strings.HasPrefix(data, cbDayPrefix):
		b.ack(cb, "")
		date := strings.TrimPrefix(data, cbDayPrefix)
		if date == "today" {
			date = model.FormatDate(time.Now().In(b.loc))
		}
		return b.sendDay(ctx, chatID, userID, date)
	case strings.HasPrefix(data, cbDonePrefix):
		ref, err := parseRef(data, cbDonePrefix)
		if err != nil {
			b.ack(cb, "")
			return nil
		}
		return b.toggleDone(ctx, cb, ref)
	case strings.HasPrefix(data, cbSubtaskPrefix):
		ref, subID, err := parseSubtaskRef(data)
		if err != nil {
			b.ack(cb, "")
			return nil
		}
		if _, err := b.workspace(ctx, userID).Tasks.ToggleSubtask(ctx, ref.date, ref.index, subID); err != nil {
			b.ack(cb, "Subtask not found")
			return nil
		}
		b.ack(cb, "")
		return b.sendDay(ctx, chatID, userID, ref.date)
	case strings.HasPrefix(data, cbEditPrefix):
		b.ack(cb, "")
		ref, err := parseRef(data, cbEditPrefix)
		if err != nil {
			return nil
		}
		return b.startTaskEdit(ctx, chatID, userID, ref)
	case strings.HasPrefix(data, cbDeletePrefix):
		b.ack(cb, "")
		ref, err := parseRef(data, cbDeletePrefix)
		if err != nil {
			return nil
		}
		return b.askDeleteScope(ctx, chatID, userID, ref)
	case strings.HasPrefix(data, cbDeleteOne):
		b.ack(cb, "")
		ref, err := parseRef(data, cbDeleteOne)
		if err != nil {
			return nil
		}
		return b.deleteOne(ctx, chatID, userID, ref)
	case strings.HasPrefix(data, cbDeleteAll):
		b.ack(cb, "")
		ref, err := parseRef(data, cbDeleteAll)
		if err != nil {
			return nil
		}
		return b.deleteAll(ctx, chatID, userID, ref)
	case strings.HasPrefix(data, cbDeleteSeries):
		b.ack(cb, "")
		return b.deleteSeries(ctx, chatID, userID, strings.TrimPrefix(data, cbDeleteSeries))
	case strings.HasPrefix(data, cbFocusPrefix):
		b.ack(cb, "")
		return b.handleFocusControl(chatID, userID, focusAction(strings.TrimPrefix(data, cbFocusPrefix)))
	case strings.HasPrefix(data, cbNotePrefix), strings.HasPrefix(data, cbNoteEdit), strings.HasPrefix(data, cbNoteDelete):
		b.ack(cb, "")
		return b.handleNoteCallback(ctx, chatID, userID, data)
	case data == cbCancel:
		b.ack(cb, "Cancelled")
		return nil
	default:
		b.ack(cb, "")
		return nil
	}
}

func (b *Bot) toggleDone(ctx context.Context, cb *tgbotapi.CallbackQuery, ref taskRef) error {
	chatID := cb.Message.Chat.ID
	userID := cb.From.ID
	done, dayComplete, err := b.workspace(ctx, userID).Tasks.ToggleDone(ctx, ref.date, ref.index)
	if errors.Is(err, service.ErrTaskNotFound) {
		b.ack(cb, "Task not found")
		return b.sendDay(ctx, chatID, userID, ref.date)
	}
	if err != nil {
		b.ack(cb, "")
		return err
	}

	if done {
		b.ack(cb, "Done ✅")
	} else {
		b.ack(cb, "Marked as not done")
	}
	if err := b.sendDay(ctx, chatID, userID, ref.date); err != nil {
		return err
	}
	if done && dayComplete {
		return b.sendText(chatID, "🎉 Every task of the day is done. Great job!")
	}
	return nil
}

func (b *Bot) askDeleteScope(ctx context.Context, chatID, userID int64, ref taskRef) error {
	tasks := b.workspace(ctx, userID).Tasks.Day(ref.date)
	if ref.index < 0 || ref.index >= len(tasks) {
		return b.sendText(chatID, "Task not found.")
	}
	task := tasks[ref.index]

	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Only this day", refData(cbDeleteOne, ref.date, ref.index))),
	}
	if task.Frequency != "" && task.Frequency != model.FrequencyOnce {
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("All repetitions", refData(cbDeleteAll, ref.date, ref.index))),
		)
		if task.SeriesID != "" {
			rows = append(rows,
				tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Only this series", cbDeleteSeries+task.SeriesID)),
			)
		}
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("↩️ Cancel", cbCancel)))

	text := fmt.Sprintf("🗑 Delete «%s»?", escape(task.DisplayTitle()))
	return b.sendWithReplyMarkup(chatID, text, tgbotapi.NewInlineKeyboardMarkup(rows...))
}

func (b *Bot) deleteOne(ctx context.Context, chatID, userID int64, ref taskRef) error {
	removed, err := b.workspace(ctx, userID).Tasks.DeleteOne(ctx, ref.date, ref.index)
	if err != nil {
		return b.sendText(chatID, "Task not found or already deleted.")
	}
	log.Printf("[info] task deleted user=%d date=%s", userID, ref.date)
	if err := b.sendText(chatID, fmt.Sprintf("🗑 «%s» removed from %s.", escape(removed.DisplayTitle()), ref.date)); err != nil {
		return err
	}
	return b.sendDay(ctx, chatID, userID, ref.date)
}

func (b *Bot) deleteAll(ctx context.Context, chatID, userID int64, ref taskRef) error {
	n, err := b.workspace(ctx, userID).Tasks.DeleteAllRepetitions(ctx, ref.date, ref.index)
	if err != nil {
		return b.sendText(chatID, "Task not found or already deleted.")
	}
	log.Printf("[info] repetitions deleted user=%d count=%d", userID, n)
	if err := b.sendText(chatID, fmt.Sprintf("🗑 Removed %d repetitions.", n)); err != nil {
		return err
	}
	return b.sendDay(ctx, chatID, userID, ref.date)
}

func (b *Bot) deleteSeries(ctx context.Context, chatID, userID int64, seriesID string) error {
	n, err := b.workspace(ctx, userID).Tasks.DeleteSeries(ctx, seriesID)
	if err != nil {
		return b.sendText(chatID, "Series not found or already deleted.")
	}
	if err := b.sendText(chatID, fmt.Sprintf("🗑 Removed %d tasks of this series.", n)); err != nil {
		return err
	}
	return b.sendDay(ctx, chatID, userID, b.getViewing(userID))
}

package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habit-planner/internal/model"
	"habit-planner/internal/pomodoro"
)

const (
	btnSkip   = "⏭️ Skip"
	btnCancel = "⏪ Cancel"
	btnToday  = "Today"
	btnTomor  = "Tomorrow"
	btnDone   = "✅ Done"
	btnClear  = "🧹 Clear list"

	menuLabelAgenda   = "📅 Agenda"
	menuLabelAdd      = "➕ Add"
	menuLabelPomodoro = "🍅 Pomodoro"
	menuLabelJournal  = "📓 Journal"
	menuLabelProfile  = "👤 Profile"
	menuLabelHelp     = "ℹ️ Help"
)

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelAgenda),
			tgbotapi.NewKeyboardButton(menuLabelAdd),
			tgbotapi.NewKeyboardButton(menuLabelPomodoro),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelJournal),
			tgbotapi.NewKeyboardButton(menuLabelProfile),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func skipKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// listKeyboard stays open while items are sent one message at a time.
func listKeyboard(editing bool) tgbotapi.ReplyKeyboardMarkup {
	first := tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnDone))
	if editing {
		first = append(first, tgbotapi.NewKeyboardButton(btnClear))
	}
	kb := tgbotapi.NewReplyKeyboard(
		first,
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
	kb.ResizeKeyboard = true
	return kb
}

func dateKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnToday),
			tgbotapi.NewKeyboardButton(btnTomor),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

// withSkip adds a skip row above the cancel row.
func withSkip(kb tgbotapi.ReplyKeyboardMarkup) tgbotapi.ReplyKeyboardMarkup {
	rows := kb.Keyboard
	if len(rows) == 0 {
		kb.Keyboard = [][]tgbotapi.KeyboardButton{tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip))}
		return kb
	}
	last := rows[len(rows)-1]
	out := append([][]tgbotapi.KeyboardButton{}, rows[:len(rows)-1]...)
	out = append(out, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip)), last)
	kb.Keyboard = out
	return kb
}

// typeKeyboard lays the catalogue out three per row.
func typeKeyboard() tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton
	for _, t := range model.TaskTypes {
		row = append(row, tgbotapi.NewKeyboardButton(typeButton(t)))
		if len(row) == 3 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func frequencyKeyboard(taskType string) tgbotapi.ReplyKeyboardMarkup {
	var rows [][]tgbotapi.KeyboardButton
	var row []tgbotapi.KeyboardButton
	for _, f := range model.Frequencies {
		row = append(row, tgbotapi.NewKeyboardButton(frequencyButton(f, taskType)))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)))

	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func colorKeyboard(palette []string) tgbotapi.ReplyKeyboardMarkup {
	var row []tgbotapi.KeyboardButton
	for _, c := range palette {
		row = append(row, tgbotapi.NewKeyboardButton(colorDot(c)+" "+c))
	}
	kb := tgbotapi.NewReplyKeyboard(
		row[:len(row)/2],
		row[len(row)/2:],
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnSkip), tgbotapi.NewKeyboardButton(btnCancel)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func genderKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton("Female"),
			tgbotapi.NewKeyboardButton("Male"),
			tgbotapi.NewKeyboardButton("Other"),
		),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnCancel)),
	)
	kb.ResizeKeyboard = true
	kb.OneTimeKeyboard = true
	return kb
}

func focusKeyboard(s pomodoro.Snapshot) tgbotapi.InlineKeyboardMarkup {
	toggle := "▶️ Start"
	if s.Running {
		toggle = "⏸ Pause"
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData(toggle, cbFocusPrefix+string(focusToggle)),
		tgbotapi.NewInlineKeyboardButtonData("🔄 Reset", cbFocusPrefix+string(focusReset)),
		tgbotapi.NewInlineKeyboardButtonData("⏹ Stop", cbFocusPrefix+string(focusStop)),
	))
}

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
	"habit-planner/internal/service"
)

type conversationFlow string

const (
	flowTask   conversationFlow = "task"
	flowNote   conversationFlow = "note"
	flowSignUp conversationFlow = "signup"
	flowSignIn conversationFlow = "login"
)

type conversationStage int

const (
	stageType conversationStage = iota
	stageTitle
	stageField
	stageDate
	stageTime
	stageFrequency
	stageWeekdays
	stageDescription
	stageSubtasks
	stageShopping

	stageNoteTitle
	stageNoteContent
	stageNoteColor

	stageFirstName
	stageLastName
	stageAge
	stageGender
	stageEmail
	stagePassword
)

// taskRef points at one instance in the store.
type taskRef struct {
	date  string
	index int
}

type conversationState struct {
	flow  conversationFlow
	stage conversationStage

	task     model.Task
	date     string
	fieldIdx int
	edit     *taskRef

	note model.JournalNote

	signUp service.SignUpInput
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message, state *conversationState) error {
	switch state.flow {
	case flowTask:
		return b.handleTaskStep(ctx, msg, state)
	case flowNote:
		return b.handleNoteStep(ctx, msg, state)
	case flowSignUp, flowSignIn:
		return b.handleAccountStep(ctx, msg, state)
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "Conversation reset. Try again from the menu.")
	}
}

func (b *Bot) startTaskComposer(chatID, userID int64) error {
	log.Printf("[info] start task composer user=%d", userID)
	b.setConversation(userID, &conversationState{flow: flowTask, stage: stageType})
	return b.sendWithReplyMarkup(chatID, "🆕 <b>New task.</b>\n<b>Step 1:</b> pick a type.", typeKeyboard())
}

// startTaskEdit pre-fills the composer with the instance being edited so
// that skipping a step keeps its current value.
func (b *Bot) startTaskEdit(ctx context.Context, chatID, userID int64, ref taskRef) error {
	tpl, err := b.workspace(ctx, userID).Tasks.Template(ref.date, ref.index)
	if err != nil {
		return b.sendText(chatID, "That task no longer exists.")
	}
	log.Printf("[info] start task edit user=%d date=%s index=%d", userID, ref.date, ref.index)
	b.setConversation(userID, &conversationState{flow: flowTask, stage: stageType, task: tpl, date: ref.date, edit: &ref})
	kind := model.LookupType(tpl.Type)
	prompt := fmt.Sprintf("✏️ <b>Editing %s %s.</b>\nSkip any step to keep the current value.\n<b>Step 1:</b> pick a type.",
		kind.Icon, escape(tpl.DisplayTitle()))
	return b.sendWithReplyMarkup(chatID, prompt, withSkip(typeKeyboard()))
}

func (b *Bot) handleTaskStep(ctx context.Context, msg *tgbotapi.Message, state *conversationState) error {
	text := strings.TrimSpace(msg.Text)
	chatID := msg.Chat.ID
	editing := state.edit != nil

	switch state.stage {
	case stageType:
		if editing && isSkipInput(text) {
			return b.askTitle(chatID, state, model.LookupType(state.task.Type))
		}
		kind, ok := typeFromInput(text)
		if !ok {
			return b.sendWithReplyMarkup(chatID, "Pick one of the types on the keyboard.", typeKeyboard())
		}
		if kind.Key != state.task.Type {
			state.task.Fields = nil
		}
		state.task.Type = kind.Key
		return b.askTitle(chatID, state, kind)
	case stageTitle:
		if isSkipInput(text) {
			if state.task.Type == model.TypeCustom && strings.TrimSpace(state.task.Title) == "" {
				return b.sendWithReplyMarkup(chatID, "Custom tasks need a title.", cancelKeyboard())
			}
		} else {
			state.task.Title = text
		}
		return b.askNextField(chatID, state)
	case stageField:
		fields := model.TypeFields[state.task.Type]
		if !isSkipInput(text) {
			state.task.SetField(fields[state.fieldIdx], text)
		}
		state.fieldIdx++
		return b.askNextField(chatID, state)
	case stageDate:
		if !(editing && isSkipInput(text)) {
			date, err := parseDateInput(text, time.Now().In(b.loc))
			if err != nil {
				return b.sendWithReplyMarkup(chatID, "I can't read that date. Use <code>2025-11-30</code>, today or tomorrow.", dateMarkup(editing))
			}
			state.date = date
		}
		state.stage = stageTime
		return b.sendWithReplyMarkup(chatID, "⏰ At what time? Use <code>HH:MM</code> (or skip)."+current(editing, state.task.Time), skipKeyboard())
	case stageTime:
		if !isSkipInput(text) {
			if !model.ValidClock(text) {
				return b.sendWithReplyMarkup(chatID, "Time must look like <code>07:30</code>.", skipKeyboard())
			}
			state.task.Time = text
		}
		state.stage = stageFrequency
		return b.sendWithReplyMarkup(chatID, "🔁 How often?"+current(editing, frequencyButton(state.task.Frequency, state.task.Type)), frequencyMarkup(state.task.Type, editing))
	case stageFrequency:
		if !(editing && isSkipInput(text)) {
			freq, err := frequencyFromInput(text)
			if err != nil {
				return b.sendWithReplyMarkup(chatID, "Pick one of the options on the keyboard.", frequencyMarkup(state.task.Type, editing))
			}
			state.task.Frequency = freq
		}
		if state.task.Frequency == model.FrequencySpecificDays {
			state.stage = stageWeekdays
			markup := cancelKeyboard()
			if editing && len(state.task.DaysOfWeek) > 0 {
				markup = skipKeyboard()
			}
			return b.sendWithReplyMarkup(chatID, "📆 Which days? For example <code>Mon Wed Fri</code>.", markup)
		}
		return b.askDescription(chatID, state)
	case stageWeekdays:
		if editing && isSkipInput(text) && len(state.task.DaysOfWeek) > 0 {
			return b.askDescription(chatID, state)
		}
		days, err := parseWeekdays(text)
		if err != nil {
			return b.sendWithReplyMarkup(chatID, escape(err.Error())+". Try <code>Mon Wed Fri</code>.", cancelKeyboard())
		}
		state.task.DaysOfWeek = days
		return b.askDescription(chatID, state)
	case stageDescription:
		if !isSkipInput(text) {
			state.task.Description = text
		}
		return b.askItems(chatID, state)
	case stageSubtasks, stageShopping:
		if isDoneInput(text) {
			b.clearConversation(msg.From.ID)
			return b.finishTask(ctx, chatID, msg.From.ID, state)
		}
		if isClearInput(text) {
			state.task.Subtasks = nil
			state.task.ShoppingList = nil
			return b.sendWithReplyMarkup(chatID, "🧹 List cleared. Send new items or Done.", listKeyboard(editing))
		}
		if state.stage == stageShopping {
			return b.addShoppingItems(chatID, state, msg.Text)
		}
		for _, line := range parseListLines(msg.Text) {
			state.task.Subtasks = append(state.task.Subtasks, model.Subtask{Text: line})
		}
		return b.sendWithReplyMarkup(chatID, fmt.Sprintf("☑️ %d subtask(s). Send more or press Done.", len(state.task.Subtasks)), listKeyboard(editing))
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(chatID, "Conversation reset. Try again with /add.")
	}
}

func (b *Bot) askTitle(chatID int64, state *conversationState, kind model.TaskType) error {
	state.stage = stageTitle
	prompt := fmt.Sprintf("%s <b>%s</b>\n✏️ Give it a title", kind.Icon, escape(kind.Label))
	if state.edit != nil && state.task.Title != "" {
		return b.sendWithReplyMarkup(chatID, prompt+" (or skip)."+current(true, state.task.Title), skipKeyboard())
	}
	if kind.Key == model.TypeCustom {
		return b.sendWithReplyMarkup(chatID, prompt+".", cancelKeyboard())
	}
	return b.sendWithReplyMarkup(chatID, prompt+" (or skip to use the type name).", skipKeyboard())
}

// askNextField walks the type-specific fields, then moves on to the date.
func (b *Bot) askNextField(chatID int64, state *conversationState) error {
	fields := model.TypeFields[state.task.Type]
	editing := state.edit != nil
	if state.fieldIdx < len(fields) {
		state.stage = stageField
		name := fields[state.fieldIdx]
		prompt := fmt.Sprintf("🔹 %s? (or skip)", fieldLabel(name)) + current(editing, state.task.Field(name))
		return b.sendWithReplyMarkup(chatID, prompt, skipKeyboard())
	}
	state.stage = stageDate
	prompt := "🗓 Starting which day? <code>YYYY-MM-DD</code>, today or tomorrow." + current(editing, state.date)
	return b.sendWithReplyMarkup(chatID, prompt, dateMarkup(editing))
}

func (b *Bot) askDescription(chatID int64, state *conversationState) error {
	state.stage = stageDescription
	return b.sendWithReplyMarkup(chatID, "📝 Add a short description (or skip)."+current(state.edit != nil, state.task.Description), skipKeyboard())
}

// askItems opens the shopping list for shopping tasks and the subtask
// checklist for every other type.
func (b *Bot) askItems(chatID int64, state *conversationState) error {
	editing := state.edit != nil
	if state.task.Type == model.TypeShopping {
		state.stage = stageShopping
		prompt := "🛒 Add items as <code>name qty price</code>, one per line, e.g. <code>Milk 2 1.20</code>. Press Done when finished."
		if n := len(state.task.ShoppingList); n > 0 {
			prompt += fmt.Sprintf("\nThe list has %d item(s), total %.2f.", n, state.task.ShoppingTotal())
		}
		return b.sendWithReplyMarkup(chatID, prompt, listKeyboard(editing))
	}
	state.stage = stageSubtasks
	prompt := "☑️ Add subtasks, one per line. Press Done when finished."
	if n := len(state.task.Subtasks); n > 0 {
		prompt += fmt.Sprintf("\nThe task has %d subtask(s); new ones are appended.", n)
	}
	return b.sendWithReplyMarkup(chatID, prompt, listKeyboard(editing))
}

func (b *Bot) addShoppingItems(chatID int64, state *conversationState, text string) error {
	var problems []string
	for _, line := range parseListLines(text) {
		item, err := parseShoppingItem(line)
		if err != nil {
			problems = append(problems, escape(err.Error()))
			continue
		}
		state.task.ShoppingList = append(state.task.ShoppingList, item)
	}
	reply := fmt.Sprintf("🛒 %d item(s), total %.2f.", len(state.task.ShoppingList), state.task.ShoppingTotal())
	if len(problems) > 0 {
		reply += "\nSkipped:\n" + strings.Join(problems, "\n")
	}
	return b.sendWithReplyMarkup(chatID, reply+"\nSend more or press Done.", listKeyboard(state.edit != nil))
}

func dateMarkup(editing bool) tgbotapi.ReplyKeyboardMarkup {
	if editing {
		return withSkip(dateKeyboard())
	}
	return dateKeyboard()
}

func frequencyMarkup(taskType string, editing bool) tgbotapi.ReplyKeyboardMarkup {
	if editing {
		return withSkip(frequencyKeyboard(taskType))
	}
	return frequencyKeyboard(taskType)
}

// current shows the value a skip keeps while editing.
func current(editing bool, value string) string {
	if !editing || strings.TrimSpace(value) == "" {
		return ""
	}
	return fmt.Sprintf("\nNow: <i>%s</i>", escape(value))
}

func (b *Bot) finishTask(ctx context.Context, chatID, userID int64, state *conversationState) error {
	ws := b.workspace(ctx, userID)

	var (
		added []string
		err   error
	)
	if state.edit != nil {
		added, err = ws.Tasks.EditTask(ctx, state.edit.date, state.edit.index, state.task, state.date)
	} else {
		added, err = ws.Tasks.AddTask(ctx, state.task, state.date)
	}
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("Could not save the task: %s", escape(err.Error())))
	}

	log.Printf("[info] task saved user=%d type=%s frequency=%s dates=%d", userID, state.task.Type, state.task.Frequency, len(added))

	var summary strings.Builder
	summary.WriteString("✅ <b>Task saved</b>\n")
	summary.WriteString(service.FormatTask(state.task))
	switch len(added) {
	case 0:
		summary.WriteString("\nNothing new: the same task is already on those days.")
	case 1:
		summary.WriteString(fmt.Sprintf("\nScheduled on %s.", added[0]))
	default:
		summary.WriteString(fmt.Sprintf("\nScheduled on %d days, %s to %s.", len(added), added[0], added[len(added)-1]))
	}
	if err := b.sendText(chatID, strings.TrimSpace(summary.String())); err != nil {
		return err
	}
	return b.sendDay(ctx, chatID, userID, state.date)
}

func (b *Bot) startNoteComposer(chatID, userID int64, note model.JournalNote) error {
	b.setConversation(userID, &conversationState{flow: flowNote, stage: stageNoteTitle, note: note})
	prompt := "📓 <b>New note.</b> Title? (or skip)"
	if note.ID != "" {
		prompt = fmt.Sprintf("📓 Editing <b>%s</b>. New title? (or skip to keep it)", escape(note.Title))
	}
	return b.sendWithReplyMarkup(chatID, prompt, skipKeyboard())
}

func (b *Bot) handleNoteStep(ctx context.Context, msg *tgbotapi.Message, state *conversationState) error {
	text := strings.TrimSpace(msg.Text)
	chatID := msg.Chat.ID

	switch state.stage {
	case stageNoteTitle:
		if !isSkipInput(text) {
			state.note.Title = text
		}
		state.stage = stageNoteContent
		return b.sendWithReplyMarkup(chatID, "✍️ What's on your mind? (or skip)", skipKeyboard())
	case stageNoteContent:
		if !isSkipInput(text) {
			state.note.Content = msg.Text
		}
		state.stage = stageNoteColor
		return b.sendWithReplyMarkup(chatID, "🎨 Pick a colour (or skip).", colorKeyboard(model.NoteColors))
	case stageNoteColor:
		if !isSkipInput(text) {
			color, ok := colorFromInput(text, model.NoteColors)
			if !ok {
				return b.sendWithReplyMarkup(chatID, "Pick one of the colours on the keyboard.", colorKeyboard(model.NoteColors))
			}
			state.note.Color = color
		}
		b.clearConversation(msg.From.ID)

		ws := b.workspace(ctx, msg.From.ID)
		note, saved, err := ws.Journal.Save(ctx, state.note)
		if err != nil {
			return b.sendText(chatID, fmt.Sprintf("Could not save the note: %s", escape(err.Error())))
		}
		if !saved {
			return b.sendText(chatID, "Empty note discarded.")
		}
		log.Printf("[info] note saved user=%d id=%s", msg.From.ID, note.ID)
		return b.sendText(chatID, fmt.Sprintf("📓 Saved <b>%s</b>.", escape(note.Title)))
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(chatID, "Conversation reset. Try again with /note.")
	}
}

func (b *Bot) startSignUp(chatID, userID int64) error {
	b.setConversation(userID, &conversationState{flow: flowSignUp, stage: stageFirstName})
	return b.sendWithReplyMarkup(chatID, "👤 <b>Create an account.</b>\nFirst name?", cancelKeyboard())
}

func (b *Bot) startSignIn(chatID, userID int64) error {
	b.setConversation(userID, &conversationState{flow: flowSignIn, stage: stageEmail})
	return b.sendWithReplyMarkup(chatID, "🔐 <b>Log in.</b>\nE-mail?", cancelKeyboard())
}

func (b *Bot) handleAccountStep(ctx context.Context, msg *tgbotapi.Message, state *conversationState) error {
	text := strings.TrimSpace(msg.Text)
	chatID := msg.Chat.ID

	switch state.stage {
	case stageFirstName:
		state.signUp.FirstName = text
		state.stage = stageLastName
		return b.sendWithReplyMarkup(chatID, "Last name?", cancelKeyboard())
	case stageLastName:
		state.signUp.LastName = text
		state.stage = stageAge
		return b.sendWithReplyMarkup(chatID, "Age?", cancelKeyboard())
	case stageAge:
		state.signUp.Age = text
		state.stage = stageGender
		return b.sendWithReplyMarkup(chatID, "Gender?", genderKeyboard())
	case stageGender:
		state.signUp.Gender = text
		state.stage = stageEmail
		return b.sendWithReplyMarkup(chatID, "E-mail?", cancelKeyboard())
	case stageEmail:
		state.signUp.Email = text
		state.stage = stagePassword
		return b.sendWithReplyMarkup(chatID, "Password? The message will be deleted right after I read it.", cancelKeyboard())
	case stagePassword:
		b.deleteMessage(chatID, msg.MessageID)
		b.clearConversation(msg.From.ID)
		state.signUp.Password = msg.Text
		if state.flow == flowSignIn {
			return b.finishSignIn(ctx, chatID, msg.From.ID, state.signUp.Email, state.signUp.Password)
		}
		return b.finishSignUp(ctx, chatID, msg.From.ID, state.signUp)
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(chatID, "Conversation reset.")
	}
}

func (b *Bot) finishSignUp(ctx context.Context, chatID, userID int64, in service.SignUpInput) error {
	ws := b.workspace(ctx, userID)
	res, err := ws.Account.SignUp(ctx, in)
	switch {
	case errors.Is(err, service.ErrMissingProfile), errors.Is(err, service.ErrMissingCredentials), errors.Is(err, service.ErrInvalidInput):
		return b.sendText(chatID, fmt.Sprintf("⚠️ %s. Start again with /signup.", escape(err.Error())))
	case err != nil:
		return b.sendText(chatID, fmt.Sprintf("❌ %s", escape(err.Error())))
	}
	log.Printf("[info] account created user=%d", userID)
	if res.Session == nil {
		return b.sendText(chatID, "✅ Account created. Confirm your e-mail, then /login.")
	}
	return b.sendText(chatID, fmt.Sprintf("✅ Account created for %s. Now /login to start.", escape(in.Email)))
}

func (b *Bot) finishSignIn(ctx context.Context, chatID, userID int64, email, password string) error {
	ws := b.workspace(ctx, userID)
	acc, err := ws.Account.SignIn(ctx, email, password)
	if err != nil {
		return b.sendText(chatID, fmt.Sprintf("❌ %s", escape(err.Error())))
	}
	log.Printf("[info] signed in user=%d", userID)
	return b.sendText(chatID, fmt.Sprintf("✅ Logged in as <b>%s</b>.", escape(acc.Name)))
}

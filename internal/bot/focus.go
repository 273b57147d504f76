package bot

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habit-planner/internal/navigation"
	"habit-planner/internal/notify"
	"habit-planner/internal/pomodoro"
	"habit-planner/internal/service"
)

const cbFocusPrefix = "focus:"

type focusAction string

const (
	focusToggle focusAction = "toggle"
	focusReset  focusAction = "reset"
	focusStop   focusAction = "stop"
)

func (b *Bot) handlePlan(msg *tgbotapi.Message, args string) error {
	b.navigate(msg.From.ID, navigation.SectionPomodoro)
	if args == "" {
		return b.sendText(msg.Chat.ID, "How much time do you have? Example: /plan 90")
	}
	plan, err := pomodoro.SuggestInput(args)
	if err != nil {
		return b.sendText(msg.Chat.ID, "⚠️ Send a positive number of minutes, for example /plan 90.")
	}
	text := fmt.Sprintf("🍅 <b>Suggested plan for %s min</b>\n%s\n\nStart it with /focus %s", escape(args), formatPlan(plan), escape(args))
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleFocus(msg *tgbotapi.Message, args string) error {
	b.navigate(msg.From.ID, navigation.SectionPomodoro)
	if args == "" {
		return b.showFocus(msg.Chat.ID, msg.From.ID)
	}
	settings, err := pomodoro.SettingsInput(args)
	if err != nil {
		return b.sendText(msg.Chat.ID, "⚠️ Send a positive number of minutes (/focus 50) or a custom setup focus/break/sessions (/focus 50/10/3).")
	}
	snap, err := b.focusSvc.Begin(ownerKey(msg.From.ID), settings)
	if err != nil {
		return b.sendText(msg.Chat.ID, fmt.Sprintf("Could not start: %s", escape(err.Error())))
	}
	log.Printf("[info] focus started user=%d settings=%+v", msg.From.ID, settings)
	return b.sendWithReplyMarkup(msg.Chat.ID, "▶️ Focus started.\n"+formatSnapshot(snap), focusKeyboard(snap))
}

func (b *Bot) showFocus(chatID, userID int64) error {
	snap, err := b.focusSvc.Snapshot(ownerKey(userID))
	if errors.Is(err, service.ErrNoFocusSession) {
		return b.sendText(chatID, "🍅 No focus session running. Try /plan 90 or /focus 50.")
	}
	if err != nil {
		return err
	}
	return b.sendWithReplyMarkup(chatID, formatSnapshot(snap), focusKeyboard(snap))
}

func (b *Bot) handleFocusControl(chatID, userID int64, action focusAction) error {
	owner := ownerKey(userID)
	if action == focusStop {
		if !b.focusSvc.Stop(owner) {
			return b.sendText(chatID, "No focus session running.")
		}
		return b.sendText(chatID, "⏹ Focus session stopped.")
	}

	var (
		snap pomodoro.Snapshot
		err  error
	)
	switch action {
	case focusToggle:
		snap, err = b.focusSvc.Toggle(owner)
	case focusReset:
		snap, err = b.focusSvc.Reset(owner)
	default:
		return nil
	}
	if errors.Is(err, service.ErrNoFocusSession) {
		return b.sendText(chatID, "No focus session running. Start one with /focus 50.")
	}
	if err != nil {
		return err
	}
	return b.sendWithReplyMarkup(chatID, formatSnapshot(snap), focusKeyboard(snap))
}

// HandleFocusEvent tells the owner that a phase has ended.
func (b *Bot) HandleFocusEvent(ev service.FocusEvent) {
	chatID, err := strconv.ParseInt(ev.Owner, 10, 64)
	if err != nil {
		return
	}
	title, message := notify.PhaseMessage(ev.Transition, ev.Snapshot.TotalSessions)
	text := fmt.Sprintf("🔔 <b>%s</b>\n%s", escape(title), escape(message))

	if ev.Snapshot.Mode == pomodoro.ModeDone {
		if err := b.sendText(chatID, text); err != nil {
			log.Printf("[warn] send focus event to %d: %v", chatID, err)
		}
		return
	}
	text += "\n\n" + formatSnapshot(ev.Snapshot)
	if err := b.sendWithReplyMarkup(chatID, text, focusKeyboard(ev.Snapshot)); err != nil {
		log.Printf("[warn] send focus event to %d: %v", chatID, err)
	}
}

func formatPlan(p pomodoro.Plan) string {
	return fmt.Sprintf("• %d × %d min focus\n• %d min breaks\n• %d min in total", p.Sessions, p.FocusMinutes, p.BreakMinutes, p.TotalMinutes())
}

var modeLabels = map[pomodoro.Mode]string{
	pomodoro.ModeFocus:      "🍅 Focus",
	pomodoro.ModeShortBreak: "☕ Short break",
	pomodoro.ModeLongBreak:  "🌿 Long break",
	pomodoro.ModeDone:       "🏁 Done",
}

func formatSnapshot(s pomodoro.Snapshot) string {
	state := "⏸ paused"
	if s.Running {
		state = "▶️ running"
	}
	return fmt.Sprintf("%s · session %d/%d\n<code>%s</code> %s · %s",
		modeLabels[s.Mode], s.Session, s.TotalSessions, progressBar(s.Progress(), 12), s.Clock(), state)
}

func progressBar(fraction float64, width int) string {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	filled := int(fraction*float64(width) + 0.5)
	return strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
}

package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"habit-planner/internal/model"
	"habit-planner/internal/navigation"
	"habit-planner/internal/repository"
	"habit-planner/internal/service"
)

// Bot aggregates Telegram API with services.
type Bot struct {
	api         *tgbotapi.BotAPI
	userRepo    *repository.UserRepository
	workspaces  *service.Workspaces
	reminderSvc *service.ReminderService
	focusSvc    *service.FocusService
	nav         *navigation.Controller
	loc         *time.Location

	mu            sync.Mutex
	conversations map[int64]*conversationState
	viewing       map[int64]string
}

// Deps are the services the bot drives.
type Deps struct {
	Users      *repository.UserRepository
	Workspaces *service.Workspaces
	Reminders  *service.ReminderService
	Focus      *service.FocusService
	Location   *time.Location
}

func New(token string, deps Deps) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	loc := deps.Location
	if loc == nil {
		loc = time.Local
	}
	b := &Bot{
		api:           api,
		userRepo:      deps.Users,
		workspaces:    deps.Workspaces,
		reminderSvc:   deps.Reminders,
		focusSvc:      deps.Focus,
		nav:           navigation.NewController(),
		loc:           loc,
		conversations: make(map[int64]*conversationState),
		viewing:       make(map[int64]string),
	}
	b.nav.Register(navigation.OpenTaskComposer, func(owner string) error {
		chatID, err := strconv.ParseInt(owner, 10, 64)
		if err != nil {
			return err
		}
		return b.startTaskComposer(chatID, chatID)
	})
	b.nav.Register(navigation.OpenNoteComposer, func(owner string) error {
		chatID, err := strconv.ParseInt(owner, 10, 64)
		if err != nil {
			return err
		}
		return b.startNoteComposer(chatID, chatID, model.JournalNote{})
	})
	return b, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("[warn] handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("[warn] handle message: %v", err)
			}
		}
	}

	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}
	if _, err := b.ensureUser(ctx, msg); err != nil {
		return err
	}

	if !msg.IsCommand() && isCancelInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg)
	}

	if state := b.getConversation(msg.From.ID); state != nil {
		log.Printf("[info] conversation %s step %d from %d", state.flow, state.stage, msg.From.ID)
		return b.handleConversation(ctx, msg, state)
	}

	if handled, err := b.handleMenuAlias(ctx, msg); handled {
		return err
	}

	return b.sendText(msg.Chat.ID, "I did not get that. Use the menu below or /help for the list of commands.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	b.clearConversation(msg.From.ID)
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "start":
		return b.handleStart(msg)
	case "help":
		return b.handleHelp(msg)
	case "agenda", "today":
		return b.handleAgenda(ctx, msg, args)
	case "add", "newtask":
		b.navigate(msg.From.ID, navigation.SectionAgenda)
		return b.startTaskComposer(msg.Chat.ID, msg.From.ID)
	case "plan":
		return b.handlePlan(msg, args)
	case "focus":
		return b.handleFocus(msg, args)
	case "pause":
		return b.handleFocusControl(msg.Chat.ID, msg.From.ID, focusToggle)
	case "reset":
		return b.handleFocusControl(msg.Chat.ID, msg.From.ID, focusReset)
	case "stop":
		return b.handleFocusControl(msg.Chat.ID, msg.From.ID, focusStop)
	case "notes", "journal":
		return b.handleNotes(ctx, msg)
	case "note":
		b.navigate(msg.From.ID, navigation.SectionJournal)
		return b.startNoteComposer(msg.Chat.ID, msg.From.ID, model.JournalNote{})
	case "journaltitle":
		return b.handleJournalTitle(ctx, msg, args)
	case "cover":
		return b.handleCover(ctx, msg, args)
	case "signup":
		return b.startSignUp(msg.Chat.ID, msg.From.ID)
	case "login":
		return b.startSignIn(msg.Chat.ID, msg.From.ID)
	case "logout":
		return b.handleSignOut(ctx, msg)
	case "profile":
		return b.handleProfile(ctx, msg)
	case "report":
		return b.handleReport(ctx, msg)
	case "cancel":
		return b.sendText(msg.Chat.ID, "⏪ Input cancelled.")
	default:
		return b.sendText(msg.Chat.ID, "Unknown command. Check /help.")
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "friend"
	}

	text := fmt.Sprintf(
		"👋 Hi, %s!\n<b>I keep your habits, focus sessions and journal in one place.</b>\n\n"+
			"• %s — today's tasks\n"+
			"• %s — new task or note, depending on where you are\n"+
			"• %s — plan and run focus sessions\n"+
			"• %s — your notes\n"+
			"• %s — stats and account\n\n"+
			"See /help for every command.",
		escape(name), menuLabelAgenda, menuLabelAdd, menuLabelPomodoro, menuLabelJournal, menuLabelProfile,
	)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleHelp(msg *tgbotapi.Message) error {
	text := "ℹ️ <b>Commands</b>\n" +
		"• /agenda [YYYY-MM-DD] — tasks for a day\n" +
		"• /add — create a task step by step\n" +
		"• /plan &lt;minutes&gt; — suggest focus sessions for a time budget\n" +
		"• /focus &lt;minutes&gt; or /focus 50/10/3 — start focus sessions\n" +
		"• /pause, /reset, /stop — control the focus timer\n" +
		"• /notes — journal notes, /note — write one\n" +
		"• /journaltitle &lt;title&gt;, /cover &lt;colour&gt; — personalise the journal\n" +
		"• /signup, /login, /logout — account\n" +
		"• /profile — your stats\n" +
		"• /report — send today's reminder now\n" +
		"• /cancel — cancel the current input"
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	switch strings.TrimSpace(strings.ToLower(msg.Text)) {
	case strings.ToLower(menuLabelAgenda):
		return true, b.handleAgenda(ctx, msg, "")
	case strings.ToLower(menuLabelAdd):
		return true, b.pressAdd(msg.Chat.ID, msg.From.ID)
	case strings.ToLower(menuLabelPomodoro):
		b.navigate(msg.From.ID, navigation.SectionPomodoro)
		return true, b.showFocus(msg.Chat.ID, msg.From.ID)
	case strings.ToLower(menuLabelJournal):
		return true, b.handleNotes(ctx, msg)
	case strings.ToLower(menuLabelProfile):
		return true, b.handleProfile(ctx, msg)
	case strings.ToLower(menuLabelHelp):
		return true, b.handleHelp(msg)
	default:
		return false, nil
	}
}

func (b *Bot) pressAdd(chatID, userID int64) error {
	_, err := b.nav.PressAdd(ownerKey(userID))
	if errors.Is(err, navigation.ErrAddUnavailable) {
		return b.sendText(chatID, "➕ Nothing to add on the pomodoro screen. Use /plan &lt;minutes&gt; to set up sessions.")
	}
	return err
}

func (b *Bot) navigate(userID int64, s navigation.Section) {
	if err := b.nav.Navigate(ownerKey(userID), s); err != nil {
		log.Printf("[warn] navigate %d: %v", userID, err)
	}
}

func (b *Bot) handleReport(ctx context.Context, msg *tgbotapi.Message) error {
	ws := b.workspace(ctx, msg.From.ID)
	now := time.Now().In(b.loc)
	return b.sendText(msg.Chat.ID, b.reminderSvc.DailySummary(now, ws.Tasks.Day(model.FormatDate(now))))
}

// SendDailyReports sends today's agenda to every known user.
func (b *Bot) SendDailyReports(ctx context.Context) error {
	users, err := b.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now().In(b.loc)
	today := model.FormatDate(now)
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		ws := b.workspace(ctx, user.TelegramID)
		tasks := ws.Tasks.Day(today)
		if len(tasks) == 0 {
			continue
		}
		chatID := user.ChatID
		if chatID == 0 {
			chatID = user.TelegramID
		}
		if err := b.sendText(chatID, b.reminderSvc.DailySummary(now, tasks)); err != nil {
			log.Printf("[warn] send summary to %d: %v", user.TelegramID, err)
		}
	}
	return nil
}

func (b *Bot) ensureUser(ctx context.Context, msg *tgbotapi.Message) (*model.User, error) {
	return b.userRepo.UpsertFromTelegram(ctx, repository.TelegramProfile{
		TelegramID: msg.From.ID,
		ChatID:     msg.Chat.ID,
		FirstName:  msg.From.FirstName,
		LastName:   msg.From.LastName,
		Username:   msg.From.UserName,
	})
}

func (b *Bot) workspace(ctx context.Context, userID int64) *service.Workspace {
	return b.workspaces.Get(ctx, ownerKey(userID))
}

func ownerKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) sendWithReplyMarkup(chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) ack(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		log.Printf("[warn] callback ack: %v", err)
	}
}

func (b *Bot) deleteMessage(chatID int64, messageID int) {
	if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID)); err != nil {
		log.Printf("[warn] delete message %d: %v", messageID, err)
	}
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}

func (b *Bot) setViewing(userID int64, date string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewing[userID] = date
}

func (b *Bot) getViewing(userID int64) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if d, ok := b.viewing[userID]; ok {
		return d
	}
	return model.FormatDate(time.Now().In(b.loc))
}

func escape(s string) string {
	return html.EscapeString(s)
}

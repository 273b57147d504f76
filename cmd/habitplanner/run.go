package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"habit-planner/internal/bot"
	"habit-planner/internal/config"
	"habit-planner/internal/repository"
	"habit-planner/internal/service"
	"habit-planner/internal/supabase"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Telegram bot with the daily reminder and focus timers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runBot(ctx)
	},
}

func runBot(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireTelegram(); err != nil {
		return err
	}

	db, closeDB, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	userRepo := repository.NewUserRepository(db)
	kvRepo := repository.NewKVRepository(db)
	auth := supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.AuthTimeout)
	if !auth.Configured() {
		log.Println("[warn] supabase is not configured, sign-up and sign-in are disabled")
	}

	workspaces := service.NewWorkspaces(func(owner string) repository.KeyValueStore {
		return kvRepo.Scope(owner)
	}, auth, time.Now)
	reminderSvc := service.NewReminderService()

	var telegramBot *bot.Bot
	focusSvc := service.NewFocusService(func(ev service.FocusEvent) {
		if telegramBot != nil {
			telegramBot.HandleFocusEvent(ev)
		}
	})

	telegramBot, err = bot.New(cfg.TelegramToken, bot.Deps{
		Users:      userRepo,
		Workspaces: workspaces,
		Reminders:  reminderSvc,
		Focus:      focusSvc,
		Location:   cfg.Location(),
	})
	if err != nil {
		return err
	}

	scheduler := service.NewSchedulerService(cfg.Location())
	if _, err := scheduler.ScheduleDaily(cfg.ReminderTime, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := telegramBot.SendDailyReports(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("[warn] daily agenda: %v", err)
		}
	}); err != nil {
		return err
	}
	if _, err := scheduler.ScheduleInterval(time.Second, focusSvc.Tick); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	log.Printf("[info] habit planner bot started, agenda at %s", cfg.ReminderTime)
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Println("[info] shutdown complete")
	return nil
}

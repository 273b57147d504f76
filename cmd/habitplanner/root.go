package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"habit-planner/internal/config"
	"habit-planner/internal/repository"
	"habit-planner/internal/service"
	"habit-planner/internal/supabase"
)

// localOwner is the key-value scope used by the terminal commands.
const localOwner = "local"

var rootCmd = &cobra.Command{
	Use:           "habitplanner",
	Short:         "Daily habits, recurring tasks, journal and pomodoro focus",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error { return rootCmd.Execute() }

func init() {
	rootCmd.AddCommand(runCmd, planCmd, agendaCmd, focusCmd)
}

// openStore opens the database and returns a closer for it.
func openStore(cfg config.Config) (*gorm.DB, func(), error) {
	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("db: %w", err)
	}
	closeFn := func() {}
	if sqlDB, err := db.DB(); err == nil {
		closeFn = func() { _ = sqlDB.Close() }
	}
	return db, closeFn, nil
}

// openWorkspace loads one owner's documents for a terminal command.
func openWorkspace(ctx context.Context, cfg config.Config, db *gorm.DB, owner string) *service.Workspace {
	kv := repository.NewKVRepository(db).Scope(owner)
	auth := supabase.New(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.AuthTimeout)
	ws := service.NewWorkspace(owner, kv, auth, nil)
	ws.Load(ctx)
	return ws
}

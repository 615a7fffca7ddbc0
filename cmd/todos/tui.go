package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nhle/todos/internal/app"
	"github.com/nhle/todos/internal/ids"
	"github.com/nhle/todos/internal/notify"
	"github.com/nhle/todos/internal/scheduler"
	"github.com/nhle/todos/internal/todos"
	"github.com/nhle/todos/internal/ui/permission"
)

func runTUI(cmd *cobra.Command, args []string) error {
	prompter := permission.NewPrompter()
	rt, err := openRuntime(nil, notify.WithPrompter(prompter))
	if err != nil {
		return err
	}
	defer rt.Close()

	state := todos.NewState()
	state.Notification = rt.cfg.Notification()
	state.SortDebounce = rt.cfg.SortDebounce()

	opener := app.NewSettingsOpener()
	sched := scheduler.NewMain()
	defer sched.Stop()

	s := todos.NewStore(state, todos.Environment{
		NewID:    ids.UUID,
		Gateway:  rt.center,
		Settings: opener,
		Logger:   rt.logger,
	}, sched)
	defer s.Close()

	// The UI owns the terminal; due reminders show up as a banner.
	bell := notify.NewBell(os.Stdout)
	bell.Silent = true
	poller := notify.NewPoller(rt.db, rt.cfg.PollInterval(), rt.deliverers(bell),
		notify.WithPollerLogger(rt.logger))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	poller.Start(ctx)
	defer poller.Stop()

	m := app.New(app.Deps{
		Store:      s,
		Center:     rt.center,
		Poller:     poller,
		Prompter:   prompter,
		Opener:     opener,
		Config:     rt.cfg,
		ConfigPath: configPath,
		Logger:     rt.logger,
	})
	defer m.Close()

	rt.logger.Info("starting", "config", configPath, "db", rt.cfg.Database.Path)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	return nil
}

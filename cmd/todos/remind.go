package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nhle/todos/internal/notify"
	"github.com/nhle/todos/internal/theme"
)

var remindOnce bool

// remind
var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Deliver scheduled reminders until interrupted",
	Long: `remind watches the reminder database and delivers each reminder when it
falls due: it rings the terminal bell, logs it and, when mail is enabled,
files it into the configured IMAP mailbox.`,
	Args: cobra.NoArgs,
	RunE: runRemind,
}

// reminders
var remindersCmd = &cobra.Command{
	Use:   "reminders",
	Short: "List reminders that have not been delivered yet",
	Args:  cobra.NoArgs,
	RunE:  runReminders,
}

func init() {
	remindCmd.Flags().BoolVar(&remindOnce, "once", false, "deliver what is due now and exit")
	rootCmd.AddCommand(remindCmd, remindersCmd)
}

func runRemind(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	poller := notify.NewPoller(rt.db, rt.cfg.PollInterval(), rt.deliverers(notify.NewBell(os.Stdout)),
		notify.WithPollerLogger(rt.logger))

	if remindOnce {
		n, err := poller.PollOnce(cmd.Context())
		if err != nil {
			return err
		}
		rt.logger.Info("delivered", "count", n)
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt.logger.Info("watching for reminders", "every", rt.cfg.PollInterval(), "db", rt.cfg.Database.Path)
	poller.Start(ctx)
	<-ctx.Done()
	poller.Stop()
	return nil
}

func runReminders(cmd *cobra.Command, args []string) error {
	rt, err := openRuntime(os.Stderr)
	if err != nil {
		return err
	}
	defer rt.Close()

	pending, err := rt.db.GetPendingReminders(cmd.Context())
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("No pending reminders.")
		return nil
	}

	now := time.Now()
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.ColorBorder)).
		Headers("IDENTIFIER", "TITLE", "SUBTITLE", "FIRES", "REPEATS")
	for _, r := range pending {
		repeats := "no"
		if r.Repeats {
			repeats = "yes"
		}
		t.Row(r.Identifier, r.Title, r.Subtitle, fireIn(r.FireAt, now), repeats)
	}
	fmt.Println(t.Render())
	return nil
}

// fireIn describes when a reminder fires relative to now.
func fireIn(at, now time.Time) string {
	d := at.Sub(now).Round(time.Second)
	if d <= 0 {
		return "due"
	}
	return "in " + d.String()
}

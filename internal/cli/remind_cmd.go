package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/cli/formatter"
	"github.com/alexanderramin/cardcal/internal/reminder"
	"github.com/alexanderramin/cardcal/internal/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func newRemindCmd(app *App) *cobra.Command {
	var day calendar.Date

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Print the cards that need attention today",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			if day.IsZero() {
				day = app.today()
			}
			reminders, err := app.Reminders.Due(ctxOf(cmd), token, day)
			if err != nil {
				return err
			}
			if len(reminders) == 0 {
				out(cmd).Println("Нет напоминаний.")
				return nil
			}
			out(cmd).Println(formatter.Header("Напоминания на " + formatter.FormatDay(day)))
			for _, r := range reminders {
				out(cmd).Println(reminderStyle(r.Kind).Render("● ") + reminder.Describe(r))
			}
			return nil
		},
	}

	cmd.Flags().Var(&dayValue{d: &day}, "date", "Day to check, YYYY-MM-DD (default today)")

	return cmd
}

func reminderStyle(k service.ReminderKind) lipgloss.Style {
	switch k {
	case service.ReminderOverdue:
		return formatter.StyleRed
	case service.ReminderDueToday:
		return formatter.StyleYellow
	default:
		return formatter.StyleBlue
	}
}

func newWatchCmd(app *App) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the reminder check on the configured schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			if app.Settings != nil && !app.Settings.Notifications {
				return fmt.Errorf("notifications are disabled (cardcal settings set notifications true)")
			}

			ctx := ctxOf(cmd)
			u, err := app.Auth.CurrentUser(ctx, token)
			if err != nil {
				return err
			}

			schedule := "0 9 * * *"
			if app.Settings != nil {
				schedule = app.Settings.Reminder.Cron
			}
			// The runner outlives the session token, so it checks by user ID.
			check := func(ctx context.Context, today calendar.Date) ([]service.Reminder, error) {
				return app.Reminders.DueForUser(ctx, u.ID, today)
			}
			runner, err := reminder.New(schedule, check, reminder.WriterNotifier{W: cmd.OutOrStdout()},
				reminder.WithClock(app.clock()),
				reminder.WithLocation(app.location()),
				reminder.WithLogger(app.logger().WithField("user", u.Username)),
			)
			if err != nil {
				return err
			}

			if once {
				return runner.RunOnce(ctx)
			}

			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := runner.Start(ctx); err != nil {
				return err
			}
			out(cmd).Printf("Watching reminders for %s, next check %s. Ctrl+C to stop.\n",
				formatter.Bold(u.Username), runner.Next().Format("02.01.2006 15:04"))
			<-ctx.Done()
			runner.Stop()
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Check once and exit")

	return cmd
}

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/config"
	"github.com/alexanderramin/cardcal/internal/service"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// TokenEnv is the environment variable consulted when --token is not given.
const TokenEnv = config.EnvPrefix + "SESSION_TOKEN"

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Auth      service.AuthService
	Users     service.UserService
	Cards     service.CardService
	Calendar  service.CalendarService
	Reminders service.ReminderService

	Settings     *config.Settings
	SettingsPath string

	Clock calendar.Clock
	Log   log.FieldLogger

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
}

func (a *App) clock() calendar.Clock {
	if a.Clock == nil {
		return calendar.SystemClock{}
	}
	return a.Clock
}

func (a *App) location() *time.Location {
	if a.Settings == nil {
		return time.Local
	}
	return a.Settings.Location()
}

// today is the current day in the configured timezone.
func (a *App) today() calendar.Date {
	return calendar.DateOf(a.clock().Now().In(a.location()))
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) logger() log.FieldLogger {
	if a.Log == nil {
		return log.StandardLogger()
	}
	return a.Log
}

// NewRootCmd creates the top-level "cardcal" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var icsFiles []string

	root := &cobra.Command{
		Use:           "cardcal",
		Short:         "Control card tracker with a deadline calendar",
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return cmd.Help()
			}
			extra, err := loadICS(icsFiles, app.today(), app.location())
			if err != nil {
				return err
			}
			return runTUI(cmd.Context(), app, tokenFrom(cmd), extra)
		},
	}

	root.PersistentFlags().String("token", "", "Session token from `cardcal login` (default $"+TokenEnv+")")
	root.Flags().StringSliceVar(&icsFiles, "ics", nil, "iCalendar file to overlay on the calendar (repeatable)")

	root.AddCommand(
		newInitAdminCmd(app),
		newLoginCmd(app),
		newWhoAmICmd(app),
		newUserCmd(app),
		newCardCmd(app),
		newCalendarCmd(app),
		newDayCmd(app),
		newRemindCmd(app),
		newWatchCmd(app),
		newSettingsCmd(app),
	)

	return root
}

// tokenFrom returns the --token flag, falling back to the environment.
func tokenFrom(cmd *cobra.Command) string {
	if t, err := cmd.Flags().GetString("token"); err == nil && t != "" {
		return t
	}
	return os.Getenv(TokenEnv)
}

// requireToken is tokenFrom for commands that cannot run anonymously.
func requireToken(cmd *cobra.Command) (string, error) {
	t := tokenFrom(cmd)
	if t == "" {
		return "", fmt.Errorf("not logged in: run `cardcal login` and pass --token or set %s", TokenEnv)
	}
	return t, nil
}

// out is where commands print results.
func out(cmd *cobra.Command) *printer {
	return &printer{cmd: cmd}
}

type printer struct {
	cmd *cobra.Command
}

func (p *printer) Println(a ...any) {
	fmt.Fprintln(p.cmd.OutOrStdout(), a...)
}

func (p *printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.cmd.OutOrStdout(), format, a...)
}

// ctxOf returns the command context, which cobra always sets on Execute.
func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

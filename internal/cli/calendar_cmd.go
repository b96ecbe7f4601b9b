package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/cli/formatter"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/ics"
	"github.com/spf13/cobra"
)

// icsWindowMonths is how far around the shown month imported calendars are
// expanded, so month navigation in the TUI finds their entries.
const icsWindowMonths = 12

// loadICS parses the given files and expands their entries around around.
func loadICS(paths []string, around calendar.Date, loc *time.Location) ([]domain.CalendarEvent, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	from := around.FirstOfMonth().AddMonths(-icsWindowMonths)
	to := around.FirstOfMonth().AddMonths(icsWindowMonths + 1).AddDays(-1)

	var out []domain.CalendarEvent
	for _, p := range paths {
		entries, err := ics.ParseFile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, ics.Expand(entries, from, to, loc)...)
	}
	return out, nil
}

func newCalendarCmd(app *App) *cobra.Command {
	var month calendar.Date
	var icsFiles []string
	var cellWidth int

	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month of card deadlines",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			today := app.today()
			if month.IsZero() {
				month = today.FirstOfMonth()
			}
			extra, err := loadICS(icsFiles, month, app.location())
			if err != nil {
				return err
			}

			view, err := app.Calendar.Month(ctxOf(cmd), token, month, extra)
			if err != nil {
				return err
			}
			out(cmd).Println(formatter.RenderMonth(formatter.MonthGrid{
				Label:    view.Label,
				Headers:  view.WeekdayHeaders,
				Cells:    view.Days,
				Today:    today,
				Selected: -1,
			}, cellWidth))
			return nil
		},
	}

	cmd.Flags().Var(&monthValue{d: &month}, "month", "Month to show, YYYY-MM (default current month)")
	cmd.Flags().StringSliceVar(&icsFiles, "ics", nil, "iCalendar file to overlay (repeatable)")
	cmd.Flags().IntVar(&cellWidth, "width", 14, "Width of one day column")

	return cmd
}

func newDayCmd(app *App) *cobra.Command {
	var icsFiles []string

	cmd := &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "List the cards and entries of one day (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			today := app.today()
			day := today
			if len(args) == 1 {
				if day, err = calendar.ParseDate(args[0]); err != nil {
					return fmt.Errorf("invalid date %q: use YYYY-MM-DD format", args[0])
				}
			}
			extra, err := loadICS(icsFiles, day, app.location())
			if err != nil {
				return err
			}

			events, err := app.Calendar.Day(ctxOf(cmd), token, day, extra)
			if err != nil {
				return err
			}
			out(cmd).Printf("%s", formatter.FormatDayEvents(day, events, today))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&icsFiles, "ics", nil, "iCalendar file to overlay (repeatable)")

	return cmd
}

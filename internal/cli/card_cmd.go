package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/cli/formatter"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/service"
	"github.com/spf13/cobra"
)

// findCard matches input against display numbers ("12/2024" or "№12/2024"),
// full IDs and ID prefixes, in that order.
func findCard(cards []*domain.ControlCard, input string) (*domain.ControlCard, error) {
	if input == "" {
		return nil, fmt.Errorf("card is required")
	}

	if num, year, ok := parseDisplayNumber(input); ok {
		for _, c := range cards {
			if c.CardNumber == num && c.Year == year {
				return c, nil
			}
		}
		return nil, fmt.Errorf("card not found: %q", input)
	}

	for _, c := range cards {
		if c.ID == input {
			return c, nil
		}
	}

	var matches []*domain.ControlCard
	for _, c := range cards {
		if strings.HasPrefix(c.ID, input) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("card not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("card ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func parseDisplayNumber(s string) (num, year int, ok bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "№")
	n, y, found := strings.Cut(s, "/")
	if !found {
		return 0, 0, false
	}
	num, err1 := strconv.Atoi(n)
	year, err2 := strconv.Atoi(y)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return num, year, true
}

func resolveCard(ctx context.Context, app *App, token, input string) (*domain.ControlCard, error) {
	cards, err := app.Cards.List(ctx, token)
	if err != nil {
		return nil, err
	}
	return findCard(cards, input)
}

func newCardCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage control cards",
	}

	cmd.AddCommand(
		newCardNextNumberCmd(app),
		newCardAddCmd(app),
		newCardListCmd(app),
		newCardShowCmd(app),
		newCardUpdateCmd(app),
		newCardRemoveCmd(app),
	)

	return cmd
}

func newCardNextNumberCmd(app *App) *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "next-number",
		Short: "Show the number the next card of a year will get",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			if year == 0 {
				year = app.today().Year
			}
			n, err := app.Cards.NextCardNumber(ctxOf(cmd), token, year)
			if err != nil {
				return err
			}
			out(cmd).Printf("№%d/%d\n", n, year)
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Card year (default current year)")

	return cmd
}

// cardFlags binds the editable card fields to command flags.
type cardFlags struct {
	number     int
	year       int
	executor   string
	controller string

	reporter, summary, document  string
	returnTo, resolution, depart string
	controllerName               string

	issued, deadline, extended *time.Time
	period                     *domain.PeriodType
}

func (f *cardFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.number, "number", 0, "Card number (default next free number of the year)")
	fs.IntVar(&f.year, "year", 0, "Card year (default year of --issued)")
	fs.StringVar(&f.executor, "executor", "", "Executor user name or ID")
	fs.StringVar(&f.reporter, "reporter", "", "Who reports on the card")
	fs.StringVar(&f.summary, "summary", "", "Short content of the assignment")
	fs.StringVar(&f.document, "document", "", "Reference of the source document")
	fs.Var(newDateValue(&f.issued), "issued", "Issue date YYYY-MM-DD (default today)")
	fs.StringVar(&f.returnTo, "return-to", "", "Where the executed card is returned")
	fs.Var(newDateValue(&f.deadline), "deadline", "Execution deadline YYYY-MM-DD, empty to clear")
	fs.Var(&periodValue{p: &f.period}, "period", "Control period: daily, weekly or monthly, empty to clear")
	fs.Var(newDateValue(&f.extended), "extended", "Extended deadline YYYY-MM-DD, empty to clear")
	fs.StringVar(&f.resolution, "resolution", "", "Resolution text")
	fs.StringVar(&f.depart, "department", "", "Department ("+strings.Join(domain.Departments, ", ")+")")
	fs.StringVar(&f.controller, "controller", "", "Controller user name or ID")
	fs.StringVar(&f.controllerName, "controller-name", "", "Controller name shown on the card (default the controller's user name)")
}

// apply copies every flag the user set onto in.
func (f *cardFlags) apply(ctx context.Context, cmd *cobra.Command, app *App, token string, in *service.CardInput) error {
	changed := cmd.Flags().Changed

	if changed("executor") {
		executors, err := app.Users.ListExecutors(ctx, token)
		if err != nil {
			return err
		}
		u, err := findUser(executors, f.executor)
		if err != nil {
			return fmt.Errorf("executor: %w", err)
		}
		in.ExecutorUserID = u.ID
	}
	if changed("controller") {
		in.ControllerUserID = ""
		if f.controller != "" {
			controllers, err := app.Users.ListControllers(ctx, token)
			if err != nil {
				return err
			}
			u, err := findUser(controllers, f.controller)
			if err != nil {
				return fmt.Errorf("controller: %w", err)
			}
			in.ControllerUserID = u.ID
		}
		if !changed("controller-name") {
			in.Controller = ""
		}
	}

	if changed("number") {
		in.CardNumber = f.number
	}
	if changed("year") {
		in.Year = f.year
	}
	if changed("reporter") {
		in.Reporter = f.reporter
	}
	if changed("summary") {
		in.Summary = f.summary
	}
	if changed("document") {
		in.DocumentReference = f.document
	}
	if changed("issued") {
		in.IssuedOn = f.issued
	}
	if changed("return-to") {
		in.ReturnTo = f.returnTo
	}
	if changed("deadline") {
		in.ExecutionDeadline = f.deadline
	}
	if changed("period") {
		in.ExecutionPeriodType = f.period
	}
	if changed("extended") {
		in.ExtendedDeadline = f.extended
	}
	if changed("resolution") {
		in.Resolution = f.resolution
	}
	if changed("department") {
		in.Department = f.depart
	}
	if changed("controller-name") {
		in.Controller = f.controllerName
	}
	return nil
}

// cardInputFrom seeds an update with the card's current values. Number and
// year stay zero so the service keeps them unless a flag says otherwise.
func cardInputFrom(c *domain.ControlCard) service.CardInput {
	issued := c.IssuedOn
	return service.CardInput{
		ExecutorUserID:      domain.StrFromPtrWithDefault("", c.ExecutorUserID),
		Reporter:            c.Reporter,
		Summary:             c.Summary,
		DocumentReference:   c.DocumentReference,
		IssuedOn:            &issued,
		ReturnTo:            domain.StrFromPtrWithDefault("", c.ReturnTo),
		ExecutionDeadline:   c.ExecutionDeadline,
		ExecutionPeriodType: c.ExecutionPeriodType,
		ExtendedDeadline:    c.ExtendedDeadline,
		Resolution:          domain.StrFromPtrWithDefault("", c.Resolution),
		Department:          domain.StrFromPtrWithDefault("", c.Department),
		Controller:          domain.StrFromPtrWithDefault("", c.Controller),
		ControllerUserID:    domain.StrFromPtrWithDefault("", c.ControllerUserID),
	}
}

func newCardAddCmd(app *App) *cobra.Command {
	var f cardFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a control card",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			ctx := ctxOf(cmd)

			var in service.CardInput
			if err := f.apply(ctx, cmd, app, token, &in); err != nil {
				return err
			}
			c, err := app.Cards.Create(ctx, token, in)
			if err != nil {
				return err
			}
			out(cmd).Printf("%s Created card %s\n", formatter.StyleGreen.Render("✔"), formatter.Bold(c.Title()))
			return nil
		},
	}

	f.register(cmd)
	_ = cmd.MarkFlagRequired("executor")
	_ = cmd.MarkFlagRequired("reporter")
	_ = cmd.MarkFlagRequired("summary")

	return cmd
}

func newCardListCmd(app *App) *cobra.Command {
	var overdue, mine bool
	var dueFrom, dueTo calendar.Date

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the cards you can see",
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			today := app.today()
			var cards []*domain.ControlCard
			switch {
			case mine:
				cards, err = app.Cards.ListAuthored(ctxOf(cmd), token)
			case !dueTo.IsZero():
				if dueFrom.IsZero() {
					dueFrom = today
				}
				cards, err = app.Cards.ListDue(ctxOf(cmd), token, dueFrom, dueTo)
			default:
				cards, err = app.Cards.List(ctxOf(cmd), token)
			}
			if err != nil {
				return err
			}

			if overdue {
				kept := cards[:0]
				for _, c := range cards {
					if c.IsOverdue(today) {
						kept = append(kept, c)
					}
				}
				cards = kept
			}

			if len(cards) == 0 {
				out(cmd).Println("No cards found.")
				return nil
			}
			out(cmd).Printf("%s", formatter.FormatCardList(cards, today))
			return nil
		},
	}

	cmd.Flags().BoolVar(&overdue, "overdue", false, "Only cards past their deadline")
	cmd.Flags().BoolVar(&mine, "mine", false, "Only cards you created")
	cmd.Flags().Var(&dayValue{d: &dueFrom}, "due-from", "With --due-to: first deadline day, YYYY-MM-DD (default today)")
	cmd.Flags().Var(&dayValue{d: &dueTo}, "due-to", "Only cards with a deadline up to this day, YYYY-MM-DD")
	cmd.MarkFlagsMutuallyExclusive("mine", "due-to")

	return cmd
}

func newCardShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show CARD",
		Short: "Show every field of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			c, err := resolveCard(ctxOf(cmd), app, token, args[0])
			if err != nil {
				return err
			}
			out(cmd).Println(formatter.FormatCard(c, app.today()))
			return nil
		},
	}
}

func newCardUpdateCmd(app *App) *cobra.Command {
	var f cardFlags

	cmd := &cobra.Command{
		Use:   "update CARD",
		Short: "Change fields of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			ctx := ctxOf(cmd)
			current, err := resolveCard(ctx, app, token, args[0])
			if err != nil {
				return err
			}

			in := cardInputFrom(current)
			if err := f.apply(ctx, cmd, app, token, &in); err != nil {
				return err
			}
			c, err := app.Cards.Update(ctx, token, current.ID, in)
			if err != nil {
				return err
			}
			out(cmd).Printf("%s Updated card %s\n", formatter.StyleGreen.Render("✔"), formatter.Bold(c.Title()))
			return nil
		},
	}

	f.register(cmd)

	return cmd
}

func newCardRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove CARD",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := requireToken(cmd)
			if err != nil {
				return err
			}
			ctx := ctxOf(cmd)
			c, err := resolveCard(ctx, app, token, args[0])
			if err != nil {
				return err
			}
			if err := app.Cards.Delete(ctx, token, c.ID); err != nil {
				return err
			}
			out(cmd).Printf("Removed card %s\n", formatter.Bold(c.DisplayNumber()))
			return nil
		},
	}
}

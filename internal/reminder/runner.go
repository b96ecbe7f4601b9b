// Package reminder runs the periodic deadline check on a cron schedule.
package reminder

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/service"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// CheckFunc returns the reminders for the given day.
type CheckFunc func(ctx context.Context, today calendar.Date) ([]service.Reminder, error)

// Notifier delivers the reminders found by one run.
type Notifier interface {
	Notify(ctx context.Context, today calendar.Date, reminders []service.Reminder) error
}

// Runner invokes a CheckFunc on a standard five-field cron schedule and
// hands the result to a Notifier.
type Runner struct {
	schedule string
	check    CheckFunc
	notifier Notifier
	clock    calendar.Clock
	loc      *time.Location
	log      log.FieldLogger

	mu   sync.Mutex
	cron *cron.Cron
}

// Option configures a Runner.
type Option func(*Runner)

func WithClock(c calendar.Clock) Option {
	return func(r *Runner) { r.clock = c }
}

// WithLocation sets the zone used both for the schedule and to decide
// which day "today" is.
func WithLocation(loc *time.Location) Option {
	return func(r *Runner) { r.loc = loc }
}

func WithLogger(l log.FieldLogger) Option {
	return func(r *Runner) { r.log = l }
}

// New validates schedule and returns a stopped Runner.
func New(schedule string, check CheckFunc, notifier Notifier, opts ...Option) (*Runner, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	r := &Runner{
		schedule: schedule,
		check:    check,
		notifier: notifier,
		clock:    calendar.SystemClock{},
		loc:      time.Local,
		log:      log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RunOnce performs a single check for the current day.
func (r *Runner) RunOnce(ctx context.Context) error {
	today := calendar.DateOf(r.clock.Now().In(r.loc))
	reminders, err := r.check(ctx, today)
	if err != nil {
		return fmt.Errorf("checking reminders: %w", err)
	}
	r.log.WithFields(log.Fields{"day": today.String(), "reminders": len(reminders)}).Info("reminder check")
	if len(reminders) == 0 {
		return nil
	}
	if err := r.notifier.Notify(ctx, today, reminders); err != nil {
		return fmt.Errorf("delivering reminders: %w", err)
	}
	return nil
}

// Start schedules RunOnce and returns immediately. Runs stop when ctx is
// cancelled or Stop is called.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cron != nil {
		return fmt.Errorf("reminder runner already started")
	}

	c := cron.New(
		cron.WithLocation(r.loc),
		cron.WithLogger(cron.PrintfLogger(r.log)),
		cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(r.log))),
	)
	if _, err := c.AddFunc(r.schedule, func() {
		if err := r.RunOnce(ctx); err != nil {
			r.log.WithError(err).Error("reminder run failed")
		}
	}); err != nil {
		return fmt.Errorf("scheduling reminders: %w", err)
	}
	c.Start()
	r.cron = c

	go func() {
		<-ctx.Done()
		r.Stop()
	}()
	return nil
}

// Stop halts the schedule and waits for a running check to finish.
func (r *Runner) Stop() {
	r.mu.Lock()
	c := r.cron
	r.cron = nil
	r.mu.Unlock()
	if c == nil {
		return
	}
	<-c.Stop().Done()
}

// Next reports when the schedule fires next after now.
func (r *Runner) Next() time.Time {
	s, _ := cron.ParseStandard(r.schedule)
	return s.Next(r.clock.Now().In(r.loc))
}

// WriterNotifier prints reminders as plain lines.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(_ context.Context, today calendar.Date, reminders []service.Reminder) error {
	if _, err := fmt.Fprintf(n.W, "Напоминания на %s:\n", today); err != nil {
		return err
	}
	for _, rem := range reminders {
		if _, err := fmt.Fprintf(n.W, "  %s\n", Describe(rem)); err != nil {
			return err
		}
	}
	return nil
}

// Describe renders one reminder as a line of text.
func Describe(rem service.Reminder) string {
	var what string
	switch rem.Kind {
	case service.ReminderOverdue:
		what = "просрочена"
		if dl := rem.Card.EffectiveDeadline(); dl != nil {
			what += fmt.Sprintf(" (срок %s)", dl.Format("02.01.2006"))
		}
	case service.ReminderDueToday:
		what = "срок сегодня"
	case service.ReminderControlDate:
		what = "контрольная дата"
	default:
		what = string(rem.Kind)
	}
	return fmt.Sprintf("%s %s: %s", rem.Card.DisplayNumber(), rem.Card.Summary, what)
}

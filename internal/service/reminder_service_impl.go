package service

import (
	"context"

	"github.com/alexanderramin/cardcal/internal/auth"
	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/repository"
)

type reminderService struct {
	authorizer
	cards repository.ControlCardRepo
}

func NewReminderService(cards repository.ControlCardRepo, users repository.UserRepo, tokens *auth.TokenIssuer) ReminderService {
	return &reminderService{
		authorizer: authorizer{tokens: tokens, users: users},
		cards:      cards,
	}
}

func (s *reminderService) Due(ctx context.Context, token string, today calendar.Date) ([]Reminder, error) {
	viewer, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.dueFor(ctx, viewer, today)
}

func (s *reminderService) DueForUser(ctx context.Context, userID string, today calendar.Date) ([]Reminder, error) {
	viewer, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.dueFor(ctx, viewer, today)
}

// dueFor lists overdue cards first, then cards due today, then periodic
// control dates falling on today. A card appears at most once.
func (s *reminderService) dueFor(ctx context.Context, viewer *domain.User, today calendar.Date) ([]Reminder, error) {
	cards, err := visibleCards(ctx, s.cards, viewer)
	if err != nil {
		return nil, err
	}

	var overdue, dueToday, control []Reminder
	for _, c := range cards {
		dl := c.EffectiveDeadline()
		switch {
		case dl == nil:
		case c.IsOverdue(today):
			overdue = append(overdue, Reminder{Kind: ReminderOverdue, Card: c, Day: calendar.DateOf(*dl)})
			continue
		case calendar.DateOf(*dl).Equal(today):
			dueToday = append(dueToday, Reminder{Kind: ReminderDueToday, Card: c, Day: today})
			continue
		}
		if len(c.ControlDates(today, today)) > 0 {
			control = append(control, Reminder{Kind: ReminderControlDate, Card: c, Day: today})
		}
	}

	out := make([]Reminder, 0, len(overdue)+len(dueToday)+len(control))
	out = append(out, overdue...)
	out = append(out, dueToday...)
	return append(out, control...), nil
}

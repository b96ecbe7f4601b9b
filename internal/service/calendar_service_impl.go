package service

import (
	"context"
	"time"

	"github.com/alexanderramin/cardcal/internal/auth"
	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/repository"
)

// CalendarOptions controls how months are laid out and captioned.
type CalendarOptions struct {
	WeekStart time.Weekday
	Language  calendar.Language
	Clock     calendar.Clock
}

type calendarService struct {
	authorizer
	cards repository.ControlCardRepo
	opts  CalendarOptions
}

func NewCalendarService(
	cards repository.ControlCardRepo,
	users repository.UserRepo,
	tokens *auth.TokenIssuer,
	opts CalendarOptions,
) CalendarService {
	if opts.Clock == nil {
		opts.Clock = calendar.SystemClock{}
	}
	if opts.Language == "" {
		opts.Language = calendar.LangRU
	}
	return &calendarService{
		authorizer: authorizer{tokens: tokens, users: users},
		cards:      cards,
		opts:       opts,
	}
}

func (s *calendarService) Events(ctx context.Context, token string, extra []domain.CalendarEvent) ([]domain.CalendarEvent, error) {
	viewer, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	cards, err := visibleCards(ctx, s.cards, viewer)
	if err != nil {
		return nil, err
	}
	events := make([]domain.CalendarEvent, 0, len(cards)+len(extra))
	for _, c := range cards {
		events = append(events, domain.CardEvent(c))
	}
	return append(events, extra...), nil
}

func (s *calendarService) Month(ctx context.Context, token string, month calendar.Date, extra []domain.CalendarEvent) (*MonthView, error) {
	events, err := s.Events(ctx, token, extra)
	if err != nil {
		return nil, err
	}
	first := month.FirstOfMonth()
	idx := calendar.BuildIndex(events)
	return &MonthView{
		Month:          first,
		Label:          calendar.MonthLabel(first, s.opts.Language),
		WeekdayHeaders: calendar.WeekdayHeaders(s.opts.WeekStart, s.opts.Language),
		Days:           calendar.BuildGridFrom(first, idx, calendar.Today(s.opts.Clock), s.opts.WeekStart),
	}, nil
}

func (s *calendarService) Day(ctx context.Context, token string, day calendar.Date, extra []domain.CalendarEvent) ([]domain.CalendarEvent, error) {
	events, err := s.Events(ctx, token, extra)
	if err != nil {
		return nil, err
	}
	out := calendar.BuildIndex(events).On(day)
	if out == nil {
		out = []domain.CalendarEvent{}
	}
	return out, nil
}

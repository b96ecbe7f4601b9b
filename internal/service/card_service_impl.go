package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alexanderramin/cardcal/internal/auth"
	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/db"
	"github.com/alexanderramin/cardcal/internal/domain"
	"github.com/alexanderramin/cardcal/internal/repository"
	"github.com/google/uuid"
)

type cardService struct {
	authorizer
	cards    repository.ControlCardRepo
	seq      repository.CardSequenceRepo
	uow      db.UnitOfWork
	clock    calendar.Clock
	observer UseCaseObserver
}

func NewCardService(
	cards repository.ControlCardRepo,
	users repository.UserRepo,
	seq repository.CardSequenceRepo,
	uow db.UnitOfWork,
	tokens *auth.TokenIssuer,
	clock calendar.Clock,
	observers ...UseCaseObserver,
) CardService {
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	return &cardService{
		authorizer: authorizer{tokens: tokens, users: users},
		cards:      cards,
		seq:        seq,
		uow:        uow,
		clock:      clock,
		observer:   useCaseObserverOrNoop(observers),
	}
}

// NextCardNumber previews the number the next card of year would receive.
func (s *cardService) NextCardNumber(ctx context.Context, token string, year int) (int, error) {
	if _, err := s.require(ctx, token, domain.RoleAdmin, domain.RoleController); err != nil {
		return 0, err
	}
	if year <= 0 {
		return 0, invalidInput("year must be positive")
	}
	return s.seq.Peek(ctx, year)
}

func (s *cardService) Create(ctx context.Context, token string, in CardInput) (card *domain.ControlCard, err error) {
	fields := map[string]any{"year": in.Year, "card_number": in.CardNumber}
	defer observe(ctx, s.observer, "create-card", time.Now(), fields, &err)

	caller, err := s.require(ctx, token, domain.RoleAdmin, domain.RoleController)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	card = &domain.ControlCard{
		ID:           uuid.New().String(),
		AuthorUserID: &caller.ID,
		CreatedAt:    now,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		users := repository.NewSQLiteUserRepo(tx)
		seq := repository.NewSQLiteCardSequenceRepo(tx)

		if err := s.apply(ctx, users, card, in, now); err != nil {
			return err
		}
		if err := s.number(ctx, seq, card, in); err != nil {
			return err
		}
		return repository.NewSQLiteControlCardRepo(tx).Create(ctx, card)
	})
	if err != nil {
		return nil, err
	}
	fields["year"] = card.Year
	fields["card_number"] = card.CardNumber
	return card, nil
}

func (s *cardService) Update(ctx context.Context, token, id string, in CardInput) (card *domain.ControlCard, err error) {
	fields := map[string]any{"card_id": id}
	defer observe(ctx, s.observer, "update-card", time.Now(), fields, &err)

	if _, err = s.require(ctx, token, domain.RoleAdmin, domain.RoleController); err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		cards := repository.NewSQLiteControlCardRepo(tx)
		existing, err := cards.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if in.Year == 0 {
			in.Year = existing.Year
		}
		if in.CardNumber == 0 && in.Year == existing.Year {
			in.CardNumber = existing.CardNumber
		}
		if in.IssuedOn == nil {
			issued := existing.IssuedOn
			in.IssuedOn = &issued
		}

		now := s.clock.Now().UTC()
		if err := s.apply(ctx, repository.NewSQLiteUserRepo(tx), existing, in, now); err != nil {
			return err
		}
		if err := s.number(ctx, repository.NewSQLiteCardSequenceRepo(tx), existing, in); err != nil {
			return err
		}
		if err := cards.Update(ctx, existing); err != nil {
			return err
		}
		card = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return card, nil
}

// apply validates in and copies it onto card.
func (s *cardService) apply(ctx context.Context, users repository.UserRepo, card *domain.ControlCard, in CardInput, now time.Time) error {
	summary := strings.TrimSpace(in.Summary)
	reporter := strings.TrimSpace(in.Reporter)
	if summary == "" {
		return invalidInput("summary is required")
	}
	if reporter == "" {
		return invalidInput("reporter is required")
	}
	if in.CardNumber < 0 {
		return invalidInput("card number must be positive")
	}
	if in.ExecutionPeriodType != nil && !in.ExecutionPeriodType.Valid() {
		return invalidInput("unknown execution period %q", *in.ExecutionPeriodType)
	}

	executor, err := s.lookupRole(ctx, users, in.ExecutorUserID, domain.RoleUser, "executor")
	if err != nil {
		return err
	}
	var controller *domain.User
	if in.ControllerUserID != "" {
		if controller, err = s.lookupRole(ctx, users, in.ControllerUserID, domain.RoleController, "controller"); err != nil {
			return err
		}
	}

	issued := calendar.Today(s.clock).Time(time.UTC)
	if in.IssuedOn != nil {
		issued = dateOnly(*in.IssuedOn)
	}
	execDeadline := dateOnlyPtr(in.ExecutionDeadline)
	extDeadline := dateOnlyPtr(in.ExtendedDeadline)
	if execDeadline != nil && execDeadline.Before(issued) {
		return invalidInput("execution deadline %s is before the issue date %s",
			execDeadline.Format("2006-01-02"), issued.Format("2006-01-02"))
	}
	if extDeadline != nil {
		if extDeadline.Before(issued) {
			return invalidInput("extended deadline %s is before the issue date %s",
				extDeadline.Format("2006-01-02"), issued.Format("2006-01-02"))
		}
		if execDeadline != nil && extDeadline.Before(*execDeadline) {
			return invalidInput("extended deadline must not precede the execution deadline")
		}
	}

	year := in.Year
	if year == 0 {
		year = issued.Year()
	}
	if year < 1 || year > 9999 {
		return invalidInput("year %d is out of range", year)
	}

	card.Year = year
	card.CardNumber = in.CardNumber
	card.Executor = executor.Username
	card.ExecutorUserID = &executor.ID
	card.Reporter = reporter
	card.Summary = summary
	card.DocumentReference = strings.TrimSpace(in.DocumentReference)
	card.IssuedOn = issued
	card.ReturnTo = domain.OptionalStr(strings.TrimSpace(in.ReturnTo))
	card.ExecutionDeadline = execDeadline
	card.ExecutionPeriodType = in.ExecutionPeriodType
	card.ExtendedDeadline = extDeadline
	card.Resolution = domain.OptionalStr(strings.TrimSpace(in.Resolution))
	card.Department = domain.OptionalStr(strings.TrimSpace(in.Department))
	card.ControllerUserID = nil
	card.Controller = domain.OptionalStr(strings.TrimSpace(in.Controller))
	if controller != nil {
		card.ControllerUserID = &controller.ID
		card.Controller = domain.OptionalStr(domain.CoalesceStr(strings.TrimSpace(in.Controller), controller.Username))
	}
	card.UpdatedAt = now
	return nil
}

// number allocates a card number when none was given and otherwise keeps
// the allocator ahead of the chosen one.
func (s *cardService) number(ctx context.Context, seq repository.CardSequenceRepo, card *domain.ControlCard, in CardInput) error {
	if in.CardNumber == 0 {
		n, err := seq.NextCardNumber(ctx, card.Year)
		if err != nil {
			return err
		}
		card.CardNumber = n
		return nil
	}
	return seq.Reserve(ctx, card.Year, card.CardNumber)
}

func (s *cardService) lookupRole(ctx context.Context, users repository.UserRepo, id string, role domain.Role, what string) (*domain.User, error) {
	if id == "" {
		return nil, invalidInput("%s is required", what)
	}
	u, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalidInput("%s user not found", what)
		}
		return nil, err
	}
	if u.Role != role {
		return nil, invalidInput("%s must be a user with role %q", what, role)
	}
	return u, nil
}

func (s *cardService) Get(ctx context.Context, token, id string) (*domain.ControlCard, error) {
	viewer, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canSee(viewer, card) {
		return nil, permissionDenied("you can only view cards where you are the executor")
	}
	return card, nil
}

func (s *cardService) List(ctx context.Context, token string) ([]*domain.ControlCard, error) {
	viewer, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return visibleCards(ctx, s.cards, viewer)
}

func (s *cardService) ListDue(ctx context.Context, token string, from, to calendar.Date) ([]*domain.ControlCard, error) {
	viewer, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, invalidInput("period end %s is before its start %s", to, from)
	}
	cards, err := s.cards.ListDueBetween(ctx, from.Time(time.UTC), to.Time(time.UTC))
	if err != nil {
		return nil, err
	}
	visible := cards[:0]
	for _, c := range cards {
		if canSee(viewer, c) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

func (s *cardService) ListAuthored(ctx context.Context, token string) ([]*domain.ControlCard, error) {
	viewer, err := s.resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.cards.ListByAuthor(ctx, viewer.ID)
}

func (s *cardService) Delete(ctx context.Context, token, id string) (err error) {
	fields := map[string]any{"card_id": id}
	defer observe(ctx, s.observer, "delete-card", time.Now(), fields, &err)

	if _, err = s.require(ctx, token, domain.RoleAdmin, domain.RoleController); err != nil {
		return err
	}
	return s.cards.Delete(ctx, id)
}

func dateOnly(t time.Time) time.Time {
	return calendar.DateOf(t).Time(time.UTC)
}

func dateOnlyPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOnly(*t)
	return &d
}

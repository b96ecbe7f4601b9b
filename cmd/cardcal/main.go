package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/cardcal/internal/auth"
	"github.com/alexanderramin/cardcal/internal/calendar"
	"github.com/alexanderramin/cardcal/internal/cli"
	"github.com/alexanderramin/cardcal/internal/config"
	"github.com/alexanderramin/cardcal/internal/db"
	"github.com/alexanderramin/cardcal/internal/repository"
	"github.com/alexanderramin/cardcal/internal/service"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config.LoadDotEnv()

	settingsPath := config.DefaultPath()
	settings, err := config.Load(settingsPath)
	if err != nil {
		return err
	}

	logger := newLogger(settings.Log.Level)

	// First run: persist a freshly generated token secret so sessions
	// survive restarts.
	if settings.EnsureTokenSecret() {
		if err := config.Save(settingsPath, settings); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		logger.WithField("path", settingsPath).Info("generated token secret")
	}

	database, err := db.OpenDB(settings.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	userRepo := repository.NewSQLiteUserRepo(database)
	cardRepo := repository.NewSQLiteControlCardRepo(database)
	seqRepo := repository.NewSQLiteCardSequenceRepo(database)

	// Wire unit of work for card numbering
	uow := db.NewSQLiteUnitOfWork(database)

	clock := calendar.SystemClock{}
	zoned := calendar.ZonedClock{Clock: clock, Location: settings.Location()}
	tokens := auth.NewTokenIssuer(settings.Token.Secret, settings.TokenTTL(), clock)
	observer := service.NewLogUseCaseObserver(logger)

	app := &cli.App{
		Auth:  service.NewAuthService(userRepo, tokens, clock, observer),
		Users: service.NewUserService(userRepo, tokens, observer),
		Cards: service.NewCardService(cardRepo, userRepo, seqRepo, uow, tokens, zoned, observer),
		Calendar: service.NewCalendarService(cardRepo, userRepo, tokens, service.CalendarOptions{
			WeekStart: settings.WeekStart(),
			Language:  calendar.Language(settings.Language),
			Clock:     zoned,
		}),
		Reminders: service.NewReminderService(cardRepo, userRepo, tokens),

		Settings:     &settings,
		SettingsPath: settingsPath,
		Clock:        clock,
		Log:          logger,
	}

	// Detect interactive terminal for the TUI entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

// newLogger writes text logs to stderr so they never mix with command output.
func newLogger(level string) *log.Logger {
	logger := log.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&log.TextFormatter{DisableTimestamp: !isatty.IsTerminal(os.Stderr.Fd())})

	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)

	// config.Load logs through the standard logger.
	log.SetOutput(os.Stderr)
	log.SetLevel(lvl)
	return logger
}

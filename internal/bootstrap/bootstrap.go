package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	profileinadapter "prapp/internal/modules/profile/adapter/in"
	profileoutadapter "prapp/internal/modules/profile/adapter/out"
	profileout "prapp/internal/modules/profile/port/out"
	profileservice "prapp/internal/modules/profile/service"
	profileusecase "prapp/internal/modules/profile/usecase"
	sessioninadapter "prapp/internal/modules/session/adapter/in"
	sessionservice "prapp/internal/modules/session/service"
	sessionusecase "prapp/internal/modules/session/usecase"
	"prapp/internal/platform/clock"
	"prapp/internal/platform/config"
	"prapp/internal/platform/id"
	"prapp/internal/platform/logging"
	uiapp "prapp/internal/ui/app"
)

type App struct {
	ProfileCLI profileinadapter.CLIHandler
	ProfileTUI profileinadapter.TUIHandler
	SessionCLI sessioninadapter.CLIHandler
	SessionTUI sessioninadapter.TUIHandler
	IDs        id.Generator
	Logger     hclog.Logger

	closers []io.Closer
}

func New(cfg config.Config, logger hclog.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	clk := clock.SystemClock{}

	storage, closer, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}
	app := &App{IDs: id.UUID{}, Logger: logger}
	if closer != nil {
		app.closers = append(app.closers, closer)
	}

	store := profileservice.NewStore(storage,
		profileservice.WithKey(cfg.StorageKey),
		profileservice.WithLogger(logger),
	)
	profileUC := profileusecase.NewInteractor(store,
		profileservice.NewBriefService(store, profileoutadapter.NewLocalDocumentReader()))

	sessionUC := sessionusecase.NewInteractor(
		sessionservice.NewSessionService(clk),
		profileUC,
		clk,
		sessionusecase.Options{
			Warmup:        cfg.WarmupDelay,
			RecordAborted: cfg.RecordAborted,
			Logger:        logger,
		},
	)

	app.ProfileCLI = profileinadapter.NewCLIHandler(profileUC)
	app.ProfileTUI = profileinadapter.NewTUIHandler(profileUC)
	app.SessionCLI = sessioninadapter.NewCLIHandler(sessionUC)
	app.SessionTUI = sessioninadapter.NewTUIHandler(sessionUC)
	logger.Debug("app wired", "driver", cfg.StorageDriver, "key", cfg.StorageKey)
	return app, nil
}

func newStorage(cfg config.Config) (profileout.LocalStorage, io.Closer, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		s, err := profileoutadapter.NewSQLiteLocalStorage(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("new sqlite storage: %w", err)
		}
		return s, s, nil
	case config.DriverFile:
		return profileoutadapter.NewFileLocalStorage(filepath.Join(cfg.StateDir(), "storage")), nil, nil
	case config.DriverMemory:
		return profileoutadapter.NewMemoryLocalStorage(), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// RunTUI runs the terminal UI. A non-empty sessionID, or startSession, opens
// the session screen first.
func RunTUI(app *App, startSession bool, sessionID string) error {
	model := uiapp.NewModel(app.ProfileTUI, app.SessionTUI, app.IDs)
	if startSession || sessionID != "" {
		model = model.WithSession(sessionID)
	}
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

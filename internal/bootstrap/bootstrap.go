package bootstrap

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	intakeinadapter "solve/internal/modules/intake/adapter/in"
	intakeoutadapter "solve/internal/modules/intake/adapter/out"
	intakeservice "solve/internal/modules/intake/service"
	intakeusecase "solve/internal/modules/intake/usecase"
	reportinadapter "solve/internal/modules/report/adapter/in"
	reportoutadapter "solve/internal/modules/report/adapter/out"
	reportservice "solve/internal/modules/report/service"
	reportusecase "solve/internal/modules/report/usecase"
	researchinadapter "solve/internal/modules/research/adapter/in"
	researchoutadapter "solve/internal/modules/research/adapter/out"
	researchservice "solve/internal/modules/research/service"
	researchusecase "solve/internal/modules/research/usecase"
	sessioninadapter "solve/internal/modules/session/adapter/in"
	sessionoutadapter "solve/internal/modules/session/adapter/out"
	sessionservice "solve/internal/modules/session/service"
	sessionusecase "solve/internal/modules/session/usecase"
	"solve/internal/platform/clock"
	"solve/internal/platform/config"
	"solve/internal/platform/httpapi"
	"solve/internal/platform/id"
	"solve/internal/platform/localstore"
	"solve/internal/platform/logging"
	uiapp "solve/internal/ui/app"
)

type App struct {
	Config      config.Config
	Logger      *zap.Logger
	SessionCLI  sessioninadapter.CLIHandler
	IntakeCLI   intakeinadapter.CLIHandler
	ResearchCLI researchinadapter.CLIHandler
	ReportCLI   reportinadapter.CLIHandler
	ReportTUI   reportinadapter.TUIHandler

	store *localstore.Store
}

func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	logger = logging.OrNop(logger)
	clk := clock.SystemClock{}
	ids := id.UUID{}

	client, err := httpapi.New(cfg.BackendURL, cfg.RequestTimeout, ids, logger.Named("http"))
	if err != nil {
		return nil, err
	}
	// analyze stays open for the whole job; the caller's context bounds it
	analyzeClient, err := httpapi.New(cfg.BackendURL, 0, ids, logger.Named("http"))
	if err != nil {
		return nil, err
	}

	store, err := localstore.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	sessionUC := sessionusecase.NewInteractor(sessionservice.NewSessionService(
		sessionoutadapter.NewHTTPIssuer(client),
		sessionoutadapter.NewLocalTokenStore(store),
		logger.Named("session"),
	))

	tracker := researchservice.NewTracker(
		researchoutadapter.NewHTTPFetcher(client),
		clk,
		logger.Named("research"),
		researchservice.TrackerOptions{
			PollInterval:   cfg.PollInterval,
			RequestTimeout: cfg.RequestTimeout,
			NavigateDelay:  cfg.NavigateDelay,
			StallThreshold: cfg.StallThreshold,
		},
	)
	researchUC := researchusecase.NewInteractor(tracker)

	intakeUC := intakeusecase.NewInteractor(
		intakeservice.NewIntakeService(intakeoutadapter.NewHTTPAnalyzer(analyzeClient), logger.Named("intake")),
		sessionUC,
		clk,
	)

	reportUC := reportusecase.NewInteractor(
		reportservice.NewReportService(
			reportoutadapter.NewHTTPSummaryReader(client),
			reportoutadapter.NewFileExportStore(),
			clk,
			logger.Named("report"),
		),
		researchUC,
	)

	return &App{
		Config:      cfg,
		Logger:      logger,
		SessionCLI:  sessioninadapter.NewCLIHandler(sessionUC),
		IntakeCLI:   intakeinadapter.NewCLIHandler(intakeUC),
		ResearchCLI: researchinadapter.NewCLIHandler(researchUC),
		ReportCLI:   reportinadapter.NewCLIHandler(reportUC),
		ReportTUI:   reportinadapter.NewTUIHandler(reportUC),
		store:       store,
	}, nil
}

// Close releases the local store and flushes the logger.
func (a *App) Close() error {
	_ = a.Logger.Sync()
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.SessionCLI, app.IntakeCLI, app.ResearchCLI, app.ReportTUI, app.Config.ReportsDir)
	program := tea.NewProgram(model, tea.WithAltScreen())
	final, err := program.Run()
	if m, ok := final.(uiapp.Model); ok {
		m.Close()
	} else {
		model.Close()
	}
	return err
}

package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/emiliopalmerini/sessiontrack/internal/adapters/genai"
	"github.com/emiliopalmerini/sessiontrack/internal/adapters/logger"
	"github.com/emiliopalmerini/sessiontrack/internal/adapters/otel"
	"github.com/emiliopalmerini/sessiontrack/internal/adapters/storage"
	"github.com/emiliopalmerini/sessiontrack/internal/adapters/turso"
	"github.com/emiliopalmerini/sessiontrack/internal/config"
	"github.com/emiliopalmerini/sessiontrack/internal/domain"
	"github.com/emiliopalmerini/sessiontrack/internal/insight"
	"github.com/emiliopalmerini/sessiontrack/internal/ports"
	"github.com/emiliopalmerini/sessiontrack/internal/projects"
	"github.com/emiliopalmerini/sessiontrack/internal/sessions"
)

// AppContext holds all shared dependencies for CLI commands.
type AppContext struct {
	Config   *config.Config
	Logger   domain.Logger
	DB       *sql.DB
	Metrics  ports.MetricsExporter
	Budget   *insight.Budget
	Sessions *sessions.Service
	Projects *projects.Service
}

// NewAppContext loads configuration and wires every dependency.
func NewAppContext(ctx context.Context) (*AppContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(os.Stderr, cfg.Debug)

	sessionStore, err := storage.NewSessionStore(cfg.SessionsDir())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session archive: %w", err)
	}
	projectStore, err := storage.NewProjectStore(cfg.ProjectsDir())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize project storage: %w", err)
	}

	db, err := openLedgerDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger database: %w", err)
	}

	ledger := domain.NewCostLedger(cfg.MonthlyBudget, cfg.Pricing(), domain.PeriodOf(time.Now()))
	budget := insight.NewBudget(ledger, turso.NewLedgerRepository(db), log)
	if err := budget.Load(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if cfg.AutoRollover {
		if _, err := budget.Rollover(ctx, time.Now()); err != nil {
			log.Error(fmt.Sprintf("Ledger rollover failed: %v", err))
		}
	}

	metrics := newMetricsExporter(ctx, cfg, log)

	generator := insight.NewGenerator(
		budget,
		genai.New(cfg.Gemini()),
		domain.NewDefaultExtractor(),
		metrics,
		log,
		insight.Options{OutputReserve: cfg.OutputReserve, Timeout: cfg.AITimeout},
	)

	return &AppContext{
		Config:   cfg,
		Logger:   log,
		DB:       db,
		Metrics:  metrics,
		Budget:   budget,
		Sessions: sessions.NewService(sessionStore, generator, log),
		Projects: projects.NewService(projectStore, log),
	}, nil
}

func openLedgerDB(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	if cfg.TursoDatabaseURL != "" {
		return turso.OpenRemote(ctx, cfg.TursoDatabaseURL, cfg.TursoAuthToken)
	}
	return turso.OpenLocal(ctx, cfg.LedgerPath())
}

func newMetricsExporter(ctx context.Context, cfg *config.Config, log domain.Logger) ports.MetricsExporter {
	if !cfg.OTEL().Active() {
		return otel.NewNoOpExporter()
	}
	exp, err := otel.NewExporter(ctx, cfg.OTEL())
	if err != nil {
		log.Error(fmt.Sprintf("OTEL exporter unavailable, metrics disabled: %v", err))
		return otel.NewNoOpExporter()
	}
	return exp
}

// Close flushes metrics and releases the database.
func (a *AppContext) Close(ctx context.Context) error {
	var errs []error
	if a.Metrics != nil {
		errs = append(errs, a.Metrics.Close(ctx))
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

// withApp runs fn with a fully wired AppContext and closes it afterwards.
func withApp(ctx context.Context, fn func(app *AppContext) error) (err error) {
	app, err := NewAppContext(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := app.Close(closeCtx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(app)
}

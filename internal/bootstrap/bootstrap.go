package bootstrap

import (
	"context"
	"io"
	"time"

	courseinadapter "coursemenu/internal/modules/course/adapter/in"
	courseoutadapter "coursemenu/internal/modules/course/adapter/out"
	courseout "coursemenu/internal/modules/course/port/out"
	courseservice "coursemenu/internal/modules/course/service"
	courseusecase "coursemenu/internal/modules/course/usecase"
	"coursemenu/internal/platform/clock"
	"coursemenu/internal/platform/config"
	"coursemenu/internal/platform/id"
	"coursemenu/internal/platform/logger"
	"coursemenu/internal/ui/picker"
)

// objectCacheTTL bounds how long fetched objects are reused within a process.
const objectCacheTTL = 10 * time.Minute

type Options struct {
	// Progress receives user-facing stage lines; nil disables them.
	Progress io.Writer
	// Index wires the sqlite export index. The database file is created on
	// the first recorded run, never by a failed or read-only command.
	Index bool
}

type App struct {
	CourseCLI courseinadapter.CLIHandler
	Log       *logger.Logger

	projector *courseoutadapter.SQLiteExportProjector
}

func New(cfg config.Config, log *logger.Logger, opts Options) (*App, error) {
	if log == nil {
		log = logger.NewNop()
	}

	auth := courseoutadapter.NewOAuthAuthenticator(log, courseoutadapter.OAuthConfig{
		BaseURL:      cfg.API.Host,
		ClientID:     cfg.API.ClientID,
		ClientSecret: cfg.API.ClientSecret,
	})
	fetcher := courseoutadapter.NewCachingFetcher(
		courseoutadapter.NewHTTPObjectFetcher(log, courseoutadapter.HTTPFetcherConfig{
			BaseURL: cfg.API.Host,
			Timeout: cfg.API.Timeout,
		}),
		objectCacheTTL,
	)

	app := &App{Log: log}
	var index courseout.ExportIndexProjector
	if opts.Index {
		projector := courseoutadapter.NewSQLiteExportProjector(cfg.IndexPath())
		app.projector = projector
		index = projector
	}
	var progress courseout.ProgressReporter
	if opts.Progress != nil {
		progress = courseoutadapter.NewWriterProgressReporter(opts.Progress)
	}

	svc := courseservice.NewExportService(
		log,
		clock.SystemClock{},
		id.UUID{},
		auth,
		fetcher,
		courseoutadapter.NewVaultExportStore(cfg.OutputDir),
		index,
		progress,
	)
	app.CourseCLI = courseinadapter.NewCLIHandler(courseusecase.NewInteractor(svc))
	return app, nil
}

func (a *App) Close() error {
	a.Log.Sync()
	if a.projector != nil {
		return a.projector.Close()
	}
	return nil
}

// PickCourse runs the interactive course picker.
func PickCourse(ctx context.Context, app *App) (int64, bool, error) {
	return picker.Run(ctx, app.CourseCLI)
}

package app

import (
	"context"
	"errors"
	"fmt"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/application/usecases/catalog"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/application/usecases/registration"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/config"
	edomain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/events"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/infrastructure/event_publisher"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/interfaces/http"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/observability"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/repository"
	commonHTTP "github.com/ThreeDotsLabs/go-event-driven/common/http"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
	"os"
	"time"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	logger         zerolog.Logger
	srv            *http.Server
	deps           Deps
	tracerProvider *tracesdk.TracerProvider
}

func NewApp(
	ctx context.Context,
	cfg config.Config,
	watermillLogger watermill.LoggerAdapter,
	deps Deps,
	events []edomain.Event,
) (*App, error) {
	tp, err := observability.ConfigureTraceProvider(ctx, cfg.OtelExporter, cfg.OtelEndpoint)
	if err != nil {
		return nil, err
	}

	eventBus, err := event_publisher.NewEventBus(deps.Publisher, watermillLogger)
	if err != nil {
		return nil, fmt.Errorf("creating event bus: %w", err)
	}

	catalogRepo := repository.NewCatalogRepo(events)
	for _, e := range events {
		observability.SpotsLeft.WithLabelValues(e.ID).Set(float64(e.SpotsLeft()))
	}

	eventsService := catalog.NewQueryEventsUsecase(catalogRepo)
	registerService := registration.NewRegisterUsecase(catalogRepo, deps.Drive, deps.Sheets, eventBus)

	e := commonHTTP.NewEcho()
	srv := http.NewServer(
		e,
		cfg.HTTPAddr,
		eventsService,
		registerService,
		deps.Sheets,
		deps.Drive,
	)

	return &App{
		logger:         zerolog.New(os.Stdout).With().Timestamp().Logger(),
		srv:            srv,
		deps:           deps,
		tracerProvider: tp,
	}, nil
}

// Run serves until ctx is cancelled, then shuts the server down and flushes
// spans.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Msg("starting server")
		return a.srv.Start()
	})

	g.Go(func() error {
		// Shut down
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := a.srv.Stop(shutdownCtx)
		if err != nil {
			a.logger.Err(err).Msg("error stopping server")
		}

		return errors.Join(err, a.close(shutdownCtx))
	})

	// Will block until all goroutines finish
	return g.Wait()
}

func (a *App) close(ctx context.Context) error {
	var errs []error

	if err := a.deps.Publisher.Close(); err != nil {
		a.logger.Err(err).Msg("error closing publisher")
		errs = append(errs, err)
	}
	if a.deps.redisClient != nil {
		if err := a.deps.redisClient.Close(); err != nil {
			a.logger.Err(err).Msg("error closing redis client")
			errs = append(errs, err)
		}
	}
	if err := a.tracerProvider.Shutdown(ctx); err != nil {
		a.logger.Err(err).Msg("error shutting down tracer provider")
		errs = append(errs, err)
	}

	a.logger.Info().Msg("stopped")

	return errors.Join(errs...)
}

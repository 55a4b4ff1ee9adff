package http

import (
	"context"
	"errors"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/application/usecases/catalog"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/application/usecases/registration"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/domain/proofs"
	rdomain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/registrations"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
	"time"
)

type SheetsService interface {
	Forward(ctx context.Context, sub rdomain.Submission) error
	AppendContact(ctx context.Context, msg rdomain.ContactMessage) error
}

type DriveService interface {
	Forward(ctx context.Context, proof proofs.Proof) (string, error)
}

type Server struct {
	e    *echo.Echo
	addr string
	now  func() time.Time

	eventsService   *catalog.QueryEventsUsecase
	registerService *registration.RegisterUsecase
	sheets          SheetsService
	drive           DriveService
}

func NewServer(
	e *echo.Echo,
	addr string,
	eventsService *catalog.QueryEventsUsecase,
	registerService *registration.RegisterUsecase,
	sheets SheetsService,
	drive DriveService,
) *Server {
	srv := &Server{
		e:               e,
		addr:            addr,
		now:             time.Now,
		eventsService:   eventsService,
		registerService: registerService,
		sheets:          sheets,
		drive:           drive,
	}

	// logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log.FromContext(c.Request().Context()).
				WithField("method", c.Request().Method).
				WithField("path", c.Request().URL.Path).
				Info("Handling a request")

			err := next(c)

			if err != nil {
				log.FromContext(c.Request().Context()).
					WithField("error", err).
					Error("Request handling error")
			}

			return err
		}
	})

	api := e.Group("/api")

	api.GET("/events", srv.ListEventsHandler)
	api.GET("/events/featured", srv.FeaturedEventsHandler)
	api.GET("/events/:id", srv.GetEventHandler)
	api.POST("/events/:id/register", srv.RegisterHandler)
	api.GET("/categories", srv.CategoriesHandler)
	api.POST("/contact", srv.ContactHandler)

	api.Any("/registrations", allowOnly(http.MethodPost, srv.RegistrationsProxyHandler))
	api.Any("/upload-proof", allowOnly(http.MethodPost, srv.UploadProofHandler))

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return srv
}

// WithClock replaces the clock used for derived event fields and contact
// timestamps.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

func (s *Server) Start() error {
	err := s.e.Start(s.addr)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func allowOnly(method string, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Method != method {
			c.Response().Header().Set(echo.HeaderAllow, method)
			return respondError(c, http.StatusMethodNotAllowed, "Method Not Allowed")
		}
		return next(c)
	}
}

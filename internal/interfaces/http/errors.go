package http

import (
	"errors"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/config"
	edomain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/events"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/domain/proofs"
	rdomain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/registrations"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/infrastructure/clients"
	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/labstack/echo/v4"
	"net/http"
)

const internalErrorMessage = "Internal Error"

type okResponse struct {
	Ok bool `json:"ok"`
}

type errorResponse struct {
	Ok     bool              `json:"ok"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondError(c echo.Context, status int, message string) error {
	return c.JSON(status, errorResponse{Error: message})
}

// respondFailure logs err and answers with message. Causes of server-side
// failures stay in the logs; webhook URLs must not leak to clients.
func respondFailure(c echo.Context, status int, message string, err error) error {
	entry := log.FromContext(c.Request().Context()).
		WithField("status", status).
		WithField("error", err)
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Info("Request rejected")
	}

	return respondError(c, status, message)
}

// respondUpstreamError covers the failures shared by every endpoint that
// talks to a webhook.
func respondUpstreamError(c echo.Context, err error, upstreamFallback string) error {
	var (
		missingEnvErr *config.MissingEnvError
		upstreamErr   *clients.UpstreamError
	)
	switch {
	case errors.As(err, &missingEnvErr):
		return respondFailure(c, http.StatusInternalServerError, missingEnvErr.Error(), err)
	case errors.As(err, &upstreamErr):
		return respondFailure(c, http.StatusBadGateway, upstreamErr.MessageOr(upstreamFallback), err)
	case errors.Is(err, clients.ErrWebhookUnavailable):
		return respondFailure(c, http.StatusBadGateway, upstreamFallback, err)
	case errors.Is(err, clients.ErrBadUploadResponse):
		return respondFailure(c, http.StatusBadGateway, clients.ErrBadUploadResponse.Error(), err)
	default:
		return respondFailure(c, http.StatusInternalServerError, internalErrorMessage, err)
	}
}

func respondRegistrationError(c echo.Context, err error) error {
	var (
		validationErr *rdomain.ValidationError
		missingEnvErr *config.MissingEnvError
		uploadErr     *rdomain.UploadError
		submissionErr *rdomain.SubmissionError
	)
	switch {
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error:  validationErr.Error(),
			Fields: validationErr.Fields,
		})
	case errors.Is(err, edomain.ErrEventNotFound):
		return respondError(c, http.StatusNotFound, "Event not found")
	case errors.Is(err, edomain.ErrEventFull):
		return respondError(c, http.StatusConflict, "Event is full")
	case proofs.IsPolicyError(err):
		return respondError(c, http.StatusBadRequest, proofs.PolicyMessage(err))
	case errors.As(err, &missingEnvErr):
		return respondFailure(c, http.StatusInternalServerError, missingEnvErr.Error(), err)
	case errors.As(err, &uploadErr):
		return respondFailure(c, http.StatusBadGateway, "Payment proof upload failed. Please try again.", err)
	case errors.As(err, &submissionErr):
		return respondFailure(c, http.StatusBadGateway, "Registration failed. Please try again.", err)
	default:
		return respondFailure(c, http.StatusInternalServerError, internalErrorMessage, err)
	}
}

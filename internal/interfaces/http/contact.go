package http

import (
	rdomain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/registrations"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/validation"
	"github.com/labstack/echo/v4"
	"net/http"
	"strings"
	"time"
)

type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (s *Server) ContactHandler(c echo.Context) error {
	var request ContactRequest
	if err := c.Bind(&request); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	form := validation.ContactForm{
		Name:    request.Name,
		Email:   request.Email,
		Phone:   request.Phone,
		Subject: request.Subject,
		Message: request.Message,
	}
	if fields := validation.ValidateContact(form); len(fields) > 0 {
		validationErr := &rdomain.ValidationError{Fields: fields}
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{
			Error:  validationErr.Error(),
			Fields: fields,
		})
	}

	err := s.sheets.AppendContact(c.Request().Context(), rdomain.ContactMessage{
		Kind:      rdomain.ContactKind,
		Name:      strings.TrimSpace(request.Name),
		Email:     strings.TrimSpace(request.Email),
		Phone:     strings.TrimSpace(request.Phone),
		Subject:   strings.TrimSpace(request.Subject),
		Message:   strings.TrimSpace(request.Message),
		Timestamp: s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return respondUpstreamError(c, err, "Failed to send message. Please try again.")
	}

	return c.JSON(http.StatusOK, okResponse{Ok: true})
}

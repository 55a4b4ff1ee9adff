package http

import (
	"github.com/Faheem-Musthafa/sip-n-sync/internal/application/usecases/registration"
	"github.com/Faheem-Musthafa/sip-n-sync/internal/domain/proofs"
	rdomain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/registrations"
	"github.com/labstack/echo/v4"
	"net/http"
)

type RegisterRequest struct {
	Name    string        `json:"name"`
	Email   string        `json:"email"`
	Phone   string        `json:"phone"`
	Message string        `json:"message"`
	Proof   *ProofRequest `json:"proof"`
}

type ProofRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	DataBase64  string `json:"dataBase64"`
}

func (p ProofRequest) missingFields() bool {
	return p.Filename == "" || p.ContentType == "" || p.DataBase64 == ""
}

// toProof also accepts data URLs, which is what browsers produce when reading
// a file.
func (p ProofRequest) toProof() proofs.Proof {
	return proofs.FromDataURL(p.Filename, p.ContentType, p.DataBase64)
}

type RegisterResponse struct {
	Ok           bool                 `json:"ok"`
	Registration rdomain.Registration `json:"registration"`
	Event        EventResponse        `json:"event"`
}

func (s *Server) RegisterHandler(c echo.Context) error {
	var request RegisterRequest
	if err := c.Bind(&request); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid request body")
	}

	req := registration.RegisterRequest{
		EventID: c.Param("id"),
		Name:    request.Name,
		Email:   request.Email,
		Phone:   request.Phone,
		Message: request.Message,
	}
	if request.Proof != nil {
		proof := request.Proof.toProof()
		req.Proof = &proof
	}

	result, err := s.registerService.Register(c.Request().Context(), req)
	if err != nil {
		return respondRegistrationError(c, err)
	}

	return c.JSON(http.StatusCreated, RegisterResponse{
		Ok:           true,
		Registration: result.Registration,
		Event:        s.toEventResponse(result.Event),
	})
}

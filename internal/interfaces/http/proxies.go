package http

import (
	"github.com/Faheem-Musthafa/sip-n-sync/internal/domain/proofs"
	rdomain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/registrations"
	"github.com/labstack/echo/v4"
	"net/http"
)

// RegistrationsProxyHandler forwards a submission record to the spreadsheet
// webhook. The record is decoded into the six-field contract, so unknown keys
// are dropped before forwarding.
func (s *Server) RegistrationsProxyHandler(c echo.Context) error {
	var sub rdomain.Submission
	if err := c.Bind(&sub); err != nil {
		return respondFailure(c, http.StatusInternalServerError, "Invalid JSON body", err)
	}

	if err := sub.Validate(); err != nil {
		return respondError(c, http.StatusBadRequest, rdomain.ErrMissingFields.Error())
	}

	if err := s.sheets.Forward(c.Request().Context(), sub); err != nil {
		return respondUpstreamError(c, err, "Upstream failed")
	}

	return c.JSON(http.StatusOK, okResponse{Ok: true})
}

type UploadProofResponse struct {
	Ok  bool   `json:"ok"`
	URL string `json:"url"`
}

// UploadProofHandler re-checks the proof policy before anything is sent
// upstream; clients cannot be trusted to have done it.
func (s *Server) UploadProofHandler(c echo.Context) error {
	var request ProofRequest
	if err := c.Bind(&request); err != nil {
		return respondFailure(c, http.StatusInternalServerError, "Invalid JSON body", err)
	}

	if request.missingFields() {
		return respondError(c, http.StatusBadRequest, proofs.ErrMissingFields.Error())
	}

	proof := request.toProof()
	if err := proof.Check(); err != nil {
		return respondError(c, http.StatusBadRequest, proofs.PolicyMessage(err))
	}

	url, err := s.drive.Forward(c.Request().Context(), proof)
	if err != nil {
		return respondUpstreamError(c, err, "Upload failed")
	}

	return c.JSON(http.StatusOK, UploadProofResponse{Ok: true, URL: url})
}

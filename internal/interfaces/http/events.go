package http

import (
	"errors"
	"github.com/AlekSi/pointer"
	edomain "github.com/Faheem-Musthafa/sip-n-sync/internal/domain/events"
	"github.com/labstack/echo/v4"
	"net/http"
	"strconv"
)

type EventResponse struct {
	edomain.Event
	SpotsLeft  int            `json:"spotsLeft"`
	Status     edomain.Status `json:"status"`
	PriceLabel string         `json:"priceLabel"`
}

type EventsResponse struct {
	Ok     bool            `json:"ok"`
	Events []EventResponse `json:"events"`
}

type GetEventResponse struct {
	Ok    bool          `json:"ok"`
	Event EventResponse `json:"event"`
}

type CategoriesResponse struct {
	Ok         bool               `json:"ok"`
	Categories []edomain.Category `json:"categories"`
}

func (s *Server) toEventResponse(e edomain.Event) EventResponse {
	return EventResponse{
		Event:      e,
		SpotsLeft:  e.SpotsLeft(),
		Status:     e.Status(s.now()),
		PriceLabel: edomain.PriceLabel(e.Price),
	}
}

func (s *Server) toEventResponses(events []edomain.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, s.toEventResponse(e))
	}
	return out
}

func (s *Server) ListEventsHandler(c echo.Context) error {
	params, err := filterParamsFromQuery(c)
	if err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	filters, err := edomain.NewFilters(params)
	if err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	events, err := s.eventsService.ListEvents(c.Request().Context(), filters)
	if err != nil {
		return respondFailure(c, http.StatusInternalServerError, internalErrorMessage, err)
	}

	return c.JSON(http.StatusOK, EventsResponse{
		Ok:     true,
		Events: s.toEventResponses(events),
	})
}

func (s *Server) FeaturedEventsHandler(c echo.Context) error {
	events, err := s.eventsService.FeaturedEvents(c.Request().Context())
	if err != nil {
		return respondFailure(c, http.StatusInternalServerError, internalErrorMessage, err)
	}

	return c.JSON(http.StatusOK, EventsResponse{
		Ok:     true,
		Events: s.toEventResponses(events),
	})
}

func (s *Server) GetEventHandler(c echo.Context) error {
	event, err := s.eventsService.GetEvent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondFailure(c, http.StatusInternalServerError, internalErrorMessage, err)
	}
	if event == nil {
		return respondError(c, http.StatusNotFound, "Event not found")
	}

	return c.JSON(http.StatusOK, GetEventResponse{
		Ok:    true,
		Event: s.toEventResponse(*event),
	})
}

func (s *Server) CategoriesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, CategoriesResponse{
		Ok:         true,
		Categories: s.eventsService.Categories(),
	})
}

func filterParamsFromQuery(c echo.Context) (edomain.FilterParams, error) {
	params := edomain.FilterParams{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Sort:     c.QueryParam("sort"),
	}

	if raw := c.QueryParam("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return edomain.FilterParams{}, errors.New("featured must be true or false")
		}
		params.Featured = pointer.ToBool(featured)
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return edomain.FilterParams{}, errors.New("limit must be a number")
		}
		params.Limit = limit
	}

	return params, nil
}

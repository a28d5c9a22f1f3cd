// Package citymatch exposes the city-name matcher collaborator over HTTP.
package citymatch

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/corpmatch/pkg/citymatch"
	"github.com/Ramsey-B/corpmatch/pkg/tracing"
)

var validate = validator.New()

// Handler handles city-name matching endpoints.
type Handler struct {
	matcher *citymatch.CityMatcher
}

// NewHandler creates a new city-match handler.
func NewHandler(matcher *citymatch.CityMatcher) *Handler {
	return &Handler{matcher: matcher}
}

// Register registers the city-match routes.
func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.Match)
}

// MatchRequest is the request body for POST /v1/city-match.
type MatchRequest struct {
	Place1 string `json:"place1" validate:"required"`
	Place2 string `json:"place2" validate:"required"`
}

// MatchResponse mirrors CityMatcher.MatchCityName's return shape.
type MatchResponse struct {
	Matched bool    `json:"matched"`
	Score   float64 `json:"score,omitempty"`
}

// Match scores two place names for the probability they name the same city.
func (h *Handler) Match(c echo.Context) error {
	_, span := tracing.StartSpan(c.Request().Context(), "citymatch_handler.Match")
	defer span.End()

	var req MatchRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	score, matched := h.matcher.MatchCityName(req.Place1, req.Place2)
	return c.JSON(http.StatusOK, MatchResponse{Matched: matched, Score: score})
}

// Package match exposes the corporate name matcher over HTTP.
package match

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/corpmatch/pkg/matching"
	"github.com/Ramsey-B/corpmatch/pkg/tracing"
)

var validate = validator.New()

// Handler handles corporate-name matching endpoints.
type Handler struct {
	matcher            *matching.Matcher
	defaultCountryCode string
}

// NewHandler creates a new match handler.
func NewHandler(matcher *matching.Matcher, defaultCountryCode string) *Handler {
	return &Handler{matcher: matcher, defaultCountryCode: defaultCountryCode}
}

// Register registers the match routes.
func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.Match)
}

// MatchRequest is the request body for POST /v1/match.
type MatchRequest struct {
	Name1    string `json:"name1" validate:"required"`
	Name2    string `json:"name2" validate:"required"`
	Country1 string `json:"country1,omitempty"`
	Country2 string `json:"country2,omitempty"`
}

// MatchResponse mirrors the Matcher.Match return shape: either a score and
// Matched=true, or Matched=false with Score omitted (no opinion).
type MatchResponse struct {
	Matched bool    `json:"matched"`
	Score   float64 `json:"score,omitempty"`
}

// Match scores two corporate names for the probability that they name the
// same legal entity.
func (h *Handler) Match(c echo.Context) error {
	_, span := tracing.StartSpan(c.Request().Context(), "match_handler.Match")
	defer span.End()

	var req MatchRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	country1 := req.Country1
	if country1 == "" {
		country1 = h.defaultCountryCode
	}
	country2 := req.Country2
	if country2 == "" {
		country2 = h.defaultCountryCode
	}

	score, matched := h.matcher.Match(req.Name1, req.Name2, country1, country2)

	return c.JSON(http.StatusOK, MatchResponse{Matched: matched, Score: score})
}

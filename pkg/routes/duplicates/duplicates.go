// Package duplicates exposes batch duplicate-finding and the audit trail
// of previously emitted matches over HTTP.
package duplicates

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/corpmatch/internal/store"
	"github.com/Ramsey-B/corpmatch/pkg/dedup"
	"github.com/Ramsey-B/corpmatch/pkg/matching"
	"github.com/Ramsey-B/corpmatch/pkg/tracing"
)

var validate = validator.New()

// Handler handles batch duplicate-finding endpoints.
type Handler struct {
	matcher            *matching.Matcher
	defaultCountryCode string
	findDuplicatesOpts dedup.Options
	repo               *store.Repository
}

// NewHandler creates a new duplicates handler. repo may be nil when the
// audit store is disabled; GetRecent then falls back to 503, and
// FindDuplicates simply skips persisting its results.
func NewHandler(matcher *matching.Matcher, defaultCountryCode string, opts dedup.Options, repo *store.Repository) *Handler {
	return &Handler{
		matcher:            matcher,
		defaultCountryCode: defaultCountryCode,
		findDuplicatesOpts: opts,
		repo:               repo,
	}
}

// Register registers the duplicates routes.
func (h *Handler) Register(g *echo.Group) {
	g.POST("", h.FindDuplicates)
	g.GET("/recent", h.GetRecent)
}

// FindDuplicatesRequest is the request body for POST /v1/duplicates.
type FindDuplicatesRequest struct {
	Names       []string `json:"names" validate:"required,min=2"`
	CountryCode string   `json:"country_code,omitempty"`
}

// MatchPair mirrors dedup.MatchResult for the wire format.
type MatchPair struct {
	Name1 string  `json:"name1"`
	Name2 string  `json:"name2"`
	Score float64 `json:"score"`
}

// FindDuplicatesResponse is the response for POST /v1/duplicates.
type FindDuplicatesResponse struct {
	Matches []MatchPair `json:"matches"`
}

// FindDuplicates scores every candidate pair within names and returns
// those whose similarity score clears dedup's fixed 0.85 threshold.
func (h *Handler) FindDuplicates(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "duplicates_handler.FindDuplicates")
	defer span.End()

	var req FindDuplicatesRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	opts := h.findDuplicatesOpts
	if req.CountryCode != "" {
		opts.CountryCode = req.CountryCode
	} else if opts.CountryCode == "" {
		opts.CountryCode = h.defaultCountryCode
	}

	results := dedup.FindDuplicates(ctx, h.matcher, req.Names, opts)

	matches := make([]MatchPair, 0, len(results))
	for _, r := range results {
		matches = append(matches, MatchPair{Name1: r.Name1, Name2: r.Name2, Score: r.Score})
	}

	// Best-effort audit persistence: its absence never fails the request.
	if repo, err := h.requireRepository(c); err == nil && len(results) > 0 {
		_ = repo.RecordMatches(ctx, results, opts.CountryCode)
	}

	return c.JSON(http.StatusOK, FindDuplicatesResponse{Matches: matches})
}

// GetRecent lists the most recently recorded audit rows.
func (h *Handler) GetRecent(c echo.Context) error {
	ctx, span := tracing.StartSpan(c.Request().Context(), "duplicates_handler.GetRecent")
	defer span.End()

	limit := 100
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	repo, err := h.requireRepository(c)
	if err != nil {
		return err
	}

	rows, err := repo.ListRecent(ctx, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, rows)
}

// requireRepository prefers the repository wired in at construction time,
// falling back to DI-from-context the way the graph query handler does,
// since the audit store is an optional dependency.
func (h *Handler) requireRepository(c echo.Context) (*store.Repository, error) {
	if h.repo != nil {
		return h.repo, nil
	}

	ctx := c.Request().Context()
	_, repo, err := ectoinject.GetContext[*store.Repository](ctx)
	if err != nil || repo == nil {
		return nil, httperror.NewHTTPError(http.StatusServiceUnavailable, "audit store not configured")
	}
	return repo, nil
}

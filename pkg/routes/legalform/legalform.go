// Package legalform exposes legal-form cleaning and retrieval over HTTP.
package legalform

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/corpmatch/pkg/legalform"
	"github.com/Ramsey-B/corpmatch/pkg/tracing"
)

var validate = validator.New()

// Handler handles legal-form cleaning and retrieval endpoints.
type Handler struct {
	catalog            *legalform.Catalog
	retriever          *legalform.Retriever
	defaultCountryCode string
}

// NewHandler creates a new legal-form handler.
func NewHandler(catalog *legalform.Catalog, retriever *legalform.Retriever, defaultCountryCode string) *Handler {
	return &Handler{catalog: catalog, retriever: retriever, defaultCountryCode: defaultCountryCode}
}

// Register registers the legal-form routes.
func (h *Handler) Register(g *echo.Group) {
	g.POST("/retrieve", h.Retrieve)
	g.POST("/strip", h.Strip)
	g.POST("/clean", h.Clean)
	g.POST("/clean-and-strip", h.CleanAndStrip)
}

// nameRequest is the request body shared by every legal-form endpoint.
type nameRequest struct {
	Name        string `json:"name" validate:"required"`
	CountryCode string `json:"country_code,omitempty"`
}

func (h *Handler) bindNameRequest(c echo.Context) (nameRequest, error) {
	var req nameRequest
	if err := c.Bind(&req); err != nil {
		return req, httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return req, httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.CountryCode == "" {
		req.CountryCode = h.defaultCountryCode
	}
	return req, nil
}

// RetrieveResponse is the response for POST /v1/legal-form/retrieve.
type RetrieveResponse struct {
	LegalForm string `json:"legal_form,omitempty"`
	Found     bool   `json:"found"`
}

// Retrieve returns the legal form detected in name, for country_code.
func (h *Handler) Retrieve(c echo.Context) error {
	_, span := tracing.StartSpan(c.Request().Context(), "legalform_handler.Retrieve")
	defer span.End()

	req, err := h.bindNameRequest(c)
	if err != nil {
		return err
	}

	form, ok := h.retriever.RetrieveLegalForm(req.Name, req.CountryCode)
	return c.JSON(http.StatusOK, RetrieveResponse{LegalForm: form, Found: ok})
}

// nameResponse is the response shape for the three string-returning endpoints.
type nameResponse struct {
	Name string `json:"name"`
}

// Strip returns name with its detected legal form removed.
func (h *Handler) Strip(c echo.Context) error {
	_, span := tracing.StartSpan(c.Request().Context(), "legalform_handler.Strip")
	defer span.End()

	req, err := h.bindNameRequest(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, nameResponse{Name: h.retriever.CompanyNameWithoutLegalForm(req.Name, req.CountryCode)})
}

// Clean returns name with punctuation and parenthesized suffixes stripped,
// independent of any catalog.
func (h *Handler) Clean(c echo.Context) error {
	_, span := tracing.StartSpan(c.Request().Context(), "legalform_handler.Clean")
	defer span.End()

	req, err := h.bindNameRequest(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, nameResponse{Name: legalform.Clean(req.Name)})
}

// CleanAndStrip cleans name and removes any catalog-matched legal form.
func (h *Handler) CleanAndStrip(c echo.Context) error {
	_, span := tracing.StartSpan(c.Request().Context(), "legalform_handler.CleanAndStrip")
	defer span.End()

	req, err := h.bindNameRequest(c)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, nameResponse{Name: h.catalog.CleanAndRemoveLegalForm(req.Name)})
}

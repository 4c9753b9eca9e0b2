package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"genelens/internal/engine"
	"genelens/internal/models"
	"genelens/internal/summary"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// Querier is the read-only dataset surface the handlers need.
type Querier interface {
	Search(query string) ([]models.GeneSummary, error)
	Detail(symbol string) (*models.GeneDetail, error)
	Export(symbol string) ([]byte, string, error)
	Overview() models.Overview
	Len() int
}

type Handler struct {
	data Querier
}

func NewHandler(data Querier) *Handler {
	return &Handler{data: data}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.GET("/download/:symbol", h.DownloadGene)

	api := e.Group("/api")
	api.GET("/search", h.SearchGenes)
	api.GET("/genes/:symbol", h.GetGene)
	api.GET("/summary/:symbol", h.GetSummary)
	api.GET("/overview", h.GetOverview)
}

type errorBody struct {
	Error string `json:"error"`
}

// --- HELPERS ---

// queryError maps engine errors to responses. Anything unexpected goes to
// echo's error handler.
func queryError(c echo.Context, symbol string, err error) error {
	switch {
	case errors.Is(err, engine.ErrNoIdentifierColumn):
		log.Error().Err(err).Msg("dataset misconfigured")
		return c.JSON(http.StatusInternalServerError, errorBody{Error: "No identifier column in dataset"})
	case errors.Is(err, engine.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorBody{Error: fmt.Sprintf("No data for %s", strings.ToUpper(strings.TrimSpace(symbol)))})
	default:
		return err
	}
}

// --- HANDLERS ---

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"rows":   h.data.Len(),
	})
}

// returns at most 20 matches
func (h *Handler) SearchGenes(c echo.Context) error {
	q := c.QueryParam("q")
	hits, err := h.data.Search(q)
	if err != nil {
		return queryError(c, q, err)
	}
	return c.JSON(http.StatusOK, hits)
}

func (h *Handler) GetGene(c echo.Context) error {
	symbol := c.Param("symbol")
	d, err := h.data.Detail(symbol)
	if err != nil {
		return queryError(c, symbol, err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) GetSummary(c echo.Context) error {
	symbol := c.Param("symbol")
	d, err := h.data.Detail(symbol)
	if errors.Is(err, engine.ErrNotFound) {
		return c.JSON(http.StatusOK, map[string]string{"summary": summary.NotAvailable})
	}
	if err != nil {
		return queryError(c, symbol, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"summary": summary.Render(d)})
}

func (h *Handler) DownloadGene(c echo.Context) error {
	symbol := c.Param("symbol")
	payload, name, err := h.data.Export(symbol)
	if errors.Is(err, engine.ErrNotFound) {
		return c.String(http.StatusNotFound, "No data found")
	}
	if err != nil {
		return queryError(c, symbol, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", payload)
}

func (h *Handler) GetOverview(c echo.Context) error {
	return c.JSON(http.StatusOK, h.data.Overview())
}

package api

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"genelens/internal/engine"
	"genelens/internal/models"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, headers []string, rows [][]string) *echo.Echo {
	t.Helper()
	ds := engine.NewDataset(headers, rows, engine.DefaultOptions())
	e := NewEcho(nil)
	NewHandler(ds).RegisterRoutes(e)
	return e
}

func defaultServer(t *testing.T) *echo.Echo {
	return newTestServer(t,
		[]string{"SYMBOL", "GENENAME", "Log2FC", "Pvalue", "AllMean"},
		[][]string{
			{"abc1", "ABC Transporter 1", "1.0", "0.02", "5.0"},
			{"xyz2", "Xyz Kinase", "-2", "NA", "4"},
			{"ABC1", "ABC Transporter 1 (rep)", "1.1", "0.03", "5.5"},
		})
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSearchGenes(t *testing.T) {
	e := defaultServer(t)

	rec := get(e, "/api/search?q=Kinase")
	require.Equal(t, http.StatusOK, rec.Code)

	var hits []models.GeneSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hits))
	require.Len(t, hits, 1)
	assert.Equal(t, "XYZ2", hits[0].Symbol)
	assert.Equal(t, -2.0, hits[0].FoldChange)
	assert.Zero(t, hits[0].PValue)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestSearchGenesBlank(t *testing.T) {
	e := defaultServer(t)

	for _, target := range []string{"/api/search", "/api/search?q=%20%20"} {
		rec := get(e, target)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	}
}

func TestGetGene(t *testing.T) {
	e := defaultServer(t)

	rec := get(e, "/api/genes/ABC1")
	require.Equal(t, http.StatusOK, rec.Code)

	var d models.GeneDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, "ABC1", d.Symbol)
	assert.Equal(t, "ABC Transporter 1", d.GeneName)
	assert.Equal(t, [2]float64{5, 10}, d.Chart.Values)
	assert.Equal(t, [2]string{"Earth (1G)", "Microgravity"}, d.Chart.Labels)
	assert.True(t, d.Chart.Synthetic)
}

func TestGetGeneNotFound(t *testing.T) {
	e := defaultServer(t)

	rec := get(e, "/api/genes/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No data for NOPE")
}

func TestMissingIdentifierColumn(t *testing.T) {
	e := newTestServer(t, []string{"gene", "log2fc"}, [][]string{{"abc1", "1"}})

	for _, target := range []string{"/api/genes/abc1", "/api/search?q=abc", "/download/abc1", "/api/summary/abc1"} {
		rec := get(e, target)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "No identifier column", target)
	}
}

func TestDownloadGene(t *testing.T) {
	e := defaultServer(t)

	rec := get(e, "/download/abc1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="ABC1_data.csv"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/csv"))

	records, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, "abc1", records[1][0])
	assert.Equal(t, "ABC1", records[2][0])
}

func TestDownloadGeneNotFound(t *testing.T) {
	e := defaultServer(t)

	rec := get(e, "/download/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No data found", rec.Body.String())
}

func TestGetSummary(t *testing.T) {
	e := defaultServer(t)

	var body map[string]string
	rec := get(e, "/api/summary/xyz2")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["summary"], "<b>Xyz Kinase</b> (XYZ2)")
	assert.Contains(t, body["summary"], "p-value of <b>N/A</b>")

	rec = get(e, "/api/summary/nope")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "No gene data available.", body["summary"])
}

func TestGetOverviewAndHealth(t *testing.T) {
	e := defaultServer(t)

	rec := get(e, "/api/overview")
	require.Equal(t, http.StatusOK, rec.Code)
	var ov models.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ov))
	assert.Equal(t, 3, ov.Rows)
	assert.Equal(t, 2, ov.Genes)
	assert.Equal(t, 2, ov.Significant)
	require.Len(t, ov.Downregulated, 1)
	assert.Equal(t, "XYZ2", ov.Downregulated[0].Symbol)

	rec = get(e, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","rows":3}`, rec.Body.String())
}

func TestJSONSerializerDeserialize(t *testing.T) {
	e := NewEcho(nil)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"q":"abc"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	var in struct {
		Q string `json:"q"`
	}
	require.NoError(t, c.Bind(&in))
	assert.Equal(t, "abc", in.Q)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"q":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c = e.NewContext(req, httptest.NewRecorder())
	assert.Error(t, c.Bind(&in))
}

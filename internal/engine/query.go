package engine

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strings"

	"genelens/internal/models"
)

const (
	// SearchLimit caps the number of search hits.
	SearchLimit = 20
	// ExportSuffix is appended to the upper-cased identifier to name downloads.
	ExportSuffix = "_data.csv"
)

// Search returns up to SearchLimit rows whose identifier or display name
// contains query, case-insensitively, in dataset order. A blank query
// returns an empty slice.
func (ds *Dataset) Search(query string) ([]models.GeneSummary, error) {
	out := make([]models.GeneSummary, 0)
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return out, nil
	}
	if ds.idCol < 0 {
		return nil, ErrNoIdentifierColumn
	}

	for i := range ds.rows {
		rec := &ds.rows[i]
		if strings.Contains(rec.Key, q) || strings.Contains(strings.ToLower(ds.displayName(rec)), q) {
			out = append(out, ds.summarize(rec))
			if len(out) == SearchLimit {
				break
			}
		}
	}
	return out, nil
}

// lookup returns the positions of every row whose identifier equals symbol.
func (ds *Dataset) lookup(symbol string) ([]int, error) {
	if ds.idCol < 0 {
		return nil, ErrNoIdentifierColumn
	}
	key := strings.ToLower(strings.TrimSpace(symbol))
	pos := ds.index[key]
	if key == "" || len(pos) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNotFound, strings.ToUpper(strings.TrimSpace(symbol)))
	}
	return pos, nil
}

// Detail returns the first row matching symbol exactly (case-insensitive),
// with a baseline vs. treatment comparison. When either group mean is
// unavailable both are synthesized from the mean and the fold change.
func (ds *Dataset) Detail(symbol string) (*models.GeneDetail, error) {
	pos, err := ds.lookup(symbol)
	if err != nil {
		return nil, err
	}
	rec := &ds.rows[pos[0]]

	d := &models.GeneDetail{GeneSummary: ds.summarize(rec)}
	values := make(map[Field]float64, len(Fields))
	for _, f := range Fields {
		if v, ok := Float(ds.field(rec, f)); ok {
			values[f] = v
		} else {
			d.Absent = append(d.Absent, string(f))
		}
	}

	d.Chart.Labels = ds.labels
	base, hasBase := values[FieldGroupMeanBaseline]
	treat, hasTreat := values[FieldGroupMeanTreatment]
	if hasBase && hasTreat {
		d.Chart.Values = [2]float64{base, treat}
		return d, nil
	}

	mean, hasMean := values[FieldMean]
	fold, hasFold := values[FieldFoldChange]
	base, treat = synthesize(mean, hasMean, fold, hasFold)
	d.Chart.Values = [2]float64{base, treat}
	d.Chart.Synthetic = true
	return d, nil
}

// synthesize derives a plausible baseline/treatment pair:
// baseline is the mean (1.0 when zero or absent), treatment is baseline*2^fold.
func synthesize(mean float64, hasMean bool, fold float64, hasFold bool) (float64, float64) {
	base := 1.0
	if hasMean && mean != 0 {
		base = mean
	}
	mult := 1.0
	if hasFold {
		if m := math.Pow(2, fold); !math.IsInf(m, 0) && !math.IsNaN(m) {
			mult = m
		}
	}
	return base, base * mult
}

// Export serializes every row matching symbol, with the header row, as CSV.
// Cells are written exactly as loaded.
func (ds *Dataset) Export(symbol string) ([]byte, string, error) {
	pos, err := ds.lookup(symbol)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(ds.headers); err != nil {
		return nil, "", fmt.Errorf("write header: %w", err)
	}
	line := make([]string, len(ds.headers))
	for _, p := range pos {
		for i, c := range ds.rows[p].Cells {
			line[i] = c.Raw
		}
		if err := w.Write(line); err != nil {
			return nil, "", fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), ExportFilename(symbol), nil
}

// ExportFilename is the suggested download name for symbol.
func ExportFilename(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol)) + ExportSuffix
}

package engine

import (
	"errors"
	"strings"

	"genelens/internal/models"
)

var (
	// ErrDatasetNotFound means the backing file does not exist.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrNoIdentifierColumn means no header matched the configured identifier column.
	ErrNoIdentifierColumn = errors.New("identifier column not found in dataset")
	// ErrNotFound means no row carries the requested identifier.
	ErrNotFound = errors.New("no data")
)

// Options controls how a Dataset interprets its headers.
type Options struct {
	IdentifierColumn  string
	DisplayNameColumn string
	Synonyms          map[Field][]string
	ComparisonLabels  [2]string
	// SignificanceThreshold and OverviewTop shape the precomputed Overview.
	SignificanceThreshold float64
	OverviewTop           int
}

func DefaultOptions() Options {
	return Options{
		IdentifierColumn:      "SYMBOL",
		DisplayNameColumn:     "GENENAME",
		Synonyms:              DefaultSynonyms(),
		ComparisonLabels:      [2]string{"Earth (1G)", "Microgravity"},
		SignificanceThreshold: 0.05,
		OverviewTop:           10,
	}
}

// Record is one dataset row. Cells keep the source values untouched; Key is
// the trimmed lower-case identifier used for matching.
type Record struct {
	Cells []Cell
	Key   string
}

// Dataset is the loaded table. It is immutable once NewDataset returns and
// safe for concurrent readers.
type Dataset struct {
	headers []string
	rows    []Record
	columns ColumnMap
	idCol   int
	nameCol int
	labels  [2]string

	// identifier key -> row positions in dataset order
	index    map[string][]int
	overview models.Overview
}

// NewDataset builds a Dataset from a header row and raw string rows. Rows are
// padded with missing cells up to the header width; extra fields are dropped.
func NewDataset(headers []string, rows [][]string, opts Options) *Dataset {
	hs := make([]string, len(headers))
	for i, h := range headers {
		hs[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	synonyms := opts.Synonyms
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}

	ds := &Dataset{
		headers: hs,
		rows:    make([]Record, 0, len(rows)),
		columns: ResolveColumns(hs, synonyms),
		idCol:   -1,
		nameCol: -1,
		labels:  opts.ComparisonLabels,
		index:   make(map[string][]int),
	}
	if ds.labels == ([2]string{}) {
		ds.labels = DefaultOptions().ComparisonLabels
	}
	if idx, ok := findHeader(hs, opts.IdentifierColumn); ok {
		ds.idCol = idx
	}
	if idx, ok := findHeader(hs, opts.DisplayNameColumn); ok {
		ds.nameCol = idx
	}

	for _, raw := range rows {
		rec := Record{Cells: make([]Cell, len(hs))}
		for i := range hs {
			if i < len(raw) {
				rec.Cells[i] = ParseCell(raw[i])
			}
		}
		if ds.idCol >= 0 && rec.Cells[ds.idCol].Valid {
			rec.Key = strings.ToLower(strings.TrimSpace(rec.Cells[ds.idCol].Raw))
			ds.index[rec.Key] = append(ds.index[rec.Key], len(ds.rows))
		}
		ds.rows = append(ds.rows, rec)
	}

	ds.overview = ds.aggregate(opts.SignificanceThreshold, opts.OverviewTop)
	return ds
}

// Headers returns a copy of the trimmed header row.
func (ds *Dataset) Headers() []string {
	return append([]string(nil), ds.headers...)
}

func (ds *Dataset) Len() int { return len(ds.rows) }

// Columns returns a copy of the resolved column map.
func (ds *Dataset) Columns() ColumnMap {
	m := make(ColumnMap, len(ds.columns))
	for f, c := range ds.columns {
		m[f] = c
	}
	return m
}

// IdentifierColumn returns the identifier header, if present.
func (ds *Dataset) IdentifierColumn() (string, bool) {
	if ds.idCol < 0 {
		return "", false
	}
	return ds.headers[ds.idCol], true
}

// DisplayNameColumn returns the display-name header, if present.
func (ds *Dataset) DisplayNameColumn() (string, bool) {
	if ds.nameCol < 0 {
		return "", false
	}
	return ds.headers[ds.nameCol], true
}

// Overview returns the summary computed at load time.
func (ds *Dataset) Overview() models.Overview {
	ov := ds.overview
	ov.Columns = make(map[string]string, len(ds.overview.Columns))
	for k, v := range ds.overview.Columns {
		ov.Columns[k] = v
	}
	ov.Upregulated = append([]models.GeneSummary{}, ds.overview.Upregulated...)
	ov.Downregulated = append([]models.GeneSummary{}, ds.overview.Downregulated...)
	return ov
}

func (ds *Dataset) field(rec *Record, f Field) Cell {
	col, ok := ds.columns[f]
	if !ok {
		return Cell{}
	}
	return rec.Cells[col.Index]
}

func (ds *Dataset) displayName(rec *Record) string {
	if ds.nameCol < 0 || !rec.Cells[ds.nameCol].Valid {
		return ""
	}
	return strings.TrimSpace(rec.Cells[ds.nameCol].Raw)
}

func (ds *Dataset) summarize(rec *Record) models.GeneSummary {
	return models.GeneSummary{
		Symbol:     strings.ToUpper(rec.Key),
		GeneName:   ds.displayName(rec),
		FoldChange: ToFloat(ds.field(rec, FieldFoldChange), 0),
		PValue:     ToFloat(ds.field(rec, FieldPValue), 0),
		Mean:       ToFloat(ds.field(rec, FieldMean), 0),
	}
}

package engine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// --- 1. READERS ---

func readDelimited(path string, delim rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = -1 // ragged rows are padded later
	r.LazyQuotes = true
	table, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return table, nil
}

// readXLSX reads the first sheet of a workbook.
func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", filepath.Base(path))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// --- 2. MAIN LOADER ---

// Load reads the dataset at path once and builds the immutable store.
// The format follows the extension: .xlsx/.xlsm (first sheet), .tsv/.tab
// (tab-delimited), anything else comma-delimited. A missing file yields
// ErrDatasetNotFound.
func Load(path string, opts Options) (*Dataset, error) {
	start := time.Now()
	log.Info().Str("path", path).Msg("Loading dataset...")

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, path)
		}
		return nil, fmt.Errorf("stat dataset: %w", err)
	}

	var (
		table [][]string
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		table, err = readXLSX(path)
	case ".tsv", ".tab":
		table, err = readDelimited(path, '\t')
	default:
		table, err = readDelimited(path, ',')
	}
	if err != nil {
		return nil, err
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("dataset %s has no header row", filepath.Base(path))
	}

	headers, rows := table[0], table[1:]
	wide := 0
	for _, r := range rows {
		if len(r) > len(headers) {
			wide++
		}
	}
	if wide > 0 {
		log.Warn().Int("rows", wide).Msg("rows wider than header; extra fields dropped")
	}

	ds := NewDataset(headers, rows, opts)
	logSchema(ds)

	log.Info().
		Int("rows", ds.Len()).
		Int("columns", len(ds.headers)).
		Dur("elapsed", time.Since(start)).
		Msg("Load complete")
	return ds, nil
}

func logSchema(ds *Dataset) {
	if name, ok := ds.IdentifierColumn(); ok {
		log.Debug().Str("column", name).Msg("identifier column")
	} else {
		log.Warn().Msg("no identifier column; lookups will fail")
	}
	for _, f := range Fields {
		if col, ok := ds.columns.Lookup(f); ok {
			log.Debug().Str("field", string(f)).Str("column", col.Name).Msg("resolved column")
		} else {
			log.Warn().Str("field", string(f)).Msg("no matching column")
		}
	}
}

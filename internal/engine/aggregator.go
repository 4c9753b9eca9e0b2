package engine

import (
	"sort"

	"genelens/internal/models"

	"github.com/montanaflynn/stats"
)

type scored struct {
	rec  *Record
	fold float64
}

// aggregate builds the dataset overview. It runs once, inside NewDataset.
func (ds *Dataset) aggregate(threshold float64, top int) models.Overview {
	ov := models.Overview{
		Rows:          len(ds.rows),
		Genes:         len(ds.index),
		Columns:       make(map[string]string, len(ds.columns)+2),
		Threshold:     threshold,
		Upregulated:   make([]models.GeneSummary, 0),
		Downregulated: make([]models.GeneSummary, 0),
	}

	// 1. Schema
	if name, ok := ds.IdentifierColumn(); ok {
		ov.Columns["identifier"] = name
	}
	if name, ok := ds.DisplayNameColumn(); ok {
		ov.Columns["display_name"] = name
	}
	for f, c := range ds.columns {
		ov.Columns[string(f)] = c.Name
	}

	// 2. Single pass over rows
	var folds stats.Float64Data
	var up, down []scored
	for i := range ds.rows {
		rec := &ds.rows[i]
		if p, ok := Float(ds.field(rec, FieldPValue)); ok && p < threshold {
			ov.Significant++
		}
		fold, ok := Float(ds.field(rec, FieldFoldChange))
		if !ok {
			continue
		}
		folds = append(folds, fold)
		switch {
		case fold > 0:
			up = append(up, scored{rec: rec, fold: fold})
		case fold < 0:
			down = append(down, scored{rec: rec, fold: fold})
		}
	}
	if len(folds) > 0 {
		ov.FoldChange = describe(folds)
	}

	// 3. Rank; ties keep dataset order
	sort.SliceStable(up, func(i, j int) bool { return up[i].fold > up[j].fold })
	sort.SliceStable(down, func(i, j int) bool { return down[i].fold < down[j].fold })
	for i := 0; i < len(up) && i < top; i++ {
		ov.Upregulated = append(ov.Upregulated, ds.summarize(up[i].rec))
	}
	for i := 0; i < len(down) && i < top; i++ {
		ov.Downregulated = append(ov.Downregulated, ds.summarize(down[i].rec))
	}
	return ov
}

// describe expects a non-empty sample.
func describe(data stats.Float64Data) *models.Distribution {
	d := &models.Distribution{Count: data.Len()}
	d.Min, _ = stats.Min(data)
	d.Max, _ = stats.Max(data)
	d.Mean, _ = stats.Mean(data)
	d.Median, _ = stats.Median(data)
	d.StdDev, _ = stats.StandardDeviation(data)
	return d
}

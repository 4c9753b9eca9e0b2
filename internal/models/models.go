package models

// GeneSummary is one search hit.
type GeneSummary struct {
	Symbol     string  `json:"symbol"`
	GeneName   string  `json:"genename"`
	FoldChange float64 `json:"log2fc"`
	PValue     float64 `json:"p_value"`
	Mean       float64 `json:"mean"`
}

// Comparison is the two-point baseline vs. treatment chart.
type Comparison struct {
	Labels    [2]string  `json:"labels"`
	Values    [2]float64 `json:"values"`
	Synthetic bool       `json:"synthetic"`
}

type GeneDetail struct {
	GeneSummary
	Chart Comparison `json:"chart"`
	// Absent names the numeric fields that had no usable value.
	Absent []string `json:"absent,omitempty"`
}

// IsAbsent reports whether field had no usable value.
func (d *GeneDetail) IsAbsent(field string) bool {
	for _, f := range d.Absent {
		if f == field {
			return true
		}
	}
	return false
}

type Distribution struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// Overview is computed once at load time.
type Overview struct {
	Rows          int               `json:"rows"`
	Genes         int               `json:"genes"`
	Columns       map[string]string `json:"columns"`
	FoldChange    *Distribution     `json:"fold_change,omitempty"`
	Significant   int               `json:"significant"`
	Threshold     float64           `json:"significance_threshold"`
	Upregulated   []GeneSummary     `json:"top_upregulated"`
	Downregulated []GeneSummary     `json:"top_downregulated"`
}

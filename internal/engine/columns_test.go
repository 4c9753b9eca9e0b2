package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Log2fc_(1G)v(uG_in_HARV)", "log2fc1gvuginharv"},
		{"P.value", "pvalue"},
		{"  All.Mean ", "allmean"},
		{"ÄÖü-μ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestResolveColumn(t *testing.T) {
	headers := []string{"SYMBOL", "GENENAME", "Log2fc_(1G)v(uG)", "P.value_(1G)v(uG)", "All.mean", "Group.Mean_(1G)", "Group.Mean_(uG)"}

	tests := []struct {
		name     string
		keywords []string
		want     int
		found    bool
	}{
		{"fold change", []string{"log2fc", "log2", "log2_fold"}, 2, true},
		{"p value spelled with dot", []string{"p.value"}, 3, true},
		{"all mean before generic mean", []string{"all.mean", "allmean", "mean"}, 4, true},
		{"baseline group", []string{"group.mean_1g", "groupmean1g"}, 5, true},
		{"treatment group", []string{"group.mean(ug)"}, 6, true},
		{"keyword priority beats header order", []string{"allmean", "symbol"}, 4, true},
		{"no match", []string{"qvalue", "fdr"}, -1, false},
		{"punctuation-only keyword is ignored", []string{"..", "__"}, -1, false},
		{"no keywords", nil, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveColumn(headers, tt.keywords...)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveColumnFirstHeaderWins(t *testing.T) {
	// generic "mean" matches both; declared order decides
	headers := []string{"group.mean_1g", "all.mean"}
	idx, ok := ResolveColumn(headers, "mean")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	// deterministic across calls
	for i := 0; i < 10; i++ {
		again, _ := ResolveColumn(headers, "mean")
		assert.Equal(t, idx, again)
	}
}

func TestResolveColumns(t *testing.T) {
	headers := []string{"SYMBOL", "log2FoldChange", "pvalue", "baseMean"}
	m := ResolveColumns(headers, DefaultSynonyms())

	col, ok := m.Lookup(FieldFoldChange)
	assert.True(t, ok)
	assert.Equal(t, Column{Name: "log2FoldChange", Index: 1}, col)

	col, ok = m.Lookup(FieldMean)
	assert.True(t, ok)
	assert.Equal(t, "baseMean", col.Name)

	_, ok = m.Lookup(FieldGroupMeanBaseline)
	assert.False(t, ok)
	_, ok = m.Lookup(FieldGroupMeanTreatment)
	assert.False(t, ok)
	assert.Len(t, m, 3)
}

func TestFindHeader(t *testing.T) {
	headers := []string{"symbol", "GeneName"}

	idx, ok := findHeader(headers, "SYMBOL")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	// exact match only
	_, ok = findHeader(headers, "GENE")
	assert.False(t, ok)

	_, ok = findHeader(headers, "  ")
	assert.False(t, ok)
}

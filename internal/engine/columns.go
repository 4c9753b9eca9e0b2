package engine

import (
	"strings"

	"github.com/samber/lo"
)

// Field is a canonical data concept, independent of how the source spells its column.
type Field string

const (
	FieldFoldChange         Field = "fold_change"
	FieldPValue             Field = "p_value"
	FieldMean               Field = "mean"
	FieldGroupMeanBaseline  Field = "group_mean_baseline"
	FieldGroupMeanTreatment Field = "group_mean_treatment"
)

// Fields lists every resolvable field in resolution order.
var Fields = []Field{
	FieldFoldChange,
	FieldPValue,
	FieldMean,
	FieldGroupMeanBaseline,
	FieldGroupMeanTreatment,
}

// DefaultSynonyms are tried most specific first.
func DefaultSynonyms() map[Field][]string {
	return map[Field][]string{
		FieldFoldChange:         {"log2fc", "log2", "log2_fold"},
		FieldPValue:             {"pvalue", "p.value", "p_value"},
		FieldMean:               {"all.mean", "allmean", "mean"},
		FieldGroupMeanBaseline:  {"group.mean_1g", "groupmean1g", "group.mean(1g)"},
		FieldGroupMeanTreatment: {"group.mean_ug", "groupmeanug", "group.mean(ug)"},
	}
}

// Column is a resolved header: its trimmed name and position in the row.
type Column struct {
	Name  string
	Index int
}

// ColumnMap maps canonical fields to the header they resolved to.
// Unresolved fields have no entry.
type ColumnMap map[Field]Column

// Lookup returns the column for f, if any header matched.
func (m ColumnMap) Lookup(f Field) (Column, bool) {
	c, ok := m[f]
	return c, ok
}

// Normalize lower-cases s and keeps only ASCII letters and digits.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveColumn returns the index of the first header whose normalized form
// contains a normalized keyword. Keywords are tried in order; headers are
// scanned in declared order.
func ResolveColumn(headers []string, keywords ...string) (int, bool) {
	normHeaders := lo.Map(headers, func(h string, _ int) string { return Normalize(h) })
	return resolveNormalized(normHeaders, keywords)
}

func resolveNormalized(normHeaders []string, keywords []string) (int, bool) {
	for _, k := range keywords {
		nk := Normalize(k)
		if nk == "" {
			// an empty pattern matches everything
			continue
		}
		for i, nh := range normHeaders {
			if strings.Contains(nh, nk) {
				return i, true
			}
		}
	}
	return -1, false
}

// ResolveColumns resolves every field in Fields against headers using synonyms.
// Fields without synonyms, or with no matching header, are left out.
func ResolveColumns(headers []string, synonyms map[Field][]string) ColumnMap {
	normHeaders := lo.Map(headers, func(h string, _ int) string { return Normalize(h) })
	m := make(ColumnMap, len(Fields))
	for _, f := range Fields {
		if idx, ok := resolveNormalized(normHeaders, synonyms[f]); ok {
			m[f] = Column{Name: headers[idx], Index: idx}
		}
	}
	return m
}

// findHeader is an exact, case-insensitive header lookup used for the
// identifier and display-name columns.
func findHeader(headers []string, name string) (int, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return -1, false
	}
	for i, h := range headers {
		if strings.EqualFold(h, name) {
			return i, true
		}
	}
	return -1, false
}

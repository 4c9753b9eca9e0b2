// Package summary renders the canned narrative shown next to a gene's detail
// page. It is plain template interpolation.
package summary

import (
	"html"
	"strconv"
	"strings"

	"genelens/internal/engine"
	"genelens/internal/models"

	"github.com/valyala/fasttemplate"
)

// NotAvailable is returned in place of a summary for unknown genes.
const NotAvailable = "No gene data available."

// Placeholder fills any blank without a value.
const Placeholder = "N/A"

const text = `<p><b>{{gene_name}}</b> ({{symbol}}) is a key gene showing measurable transcriptional adaptation when exposed to simulated microgravity compared to standard Earth gravity (1G) conditions.</p>

<p>In this dataset, the expression change quantified by Log2 Fold Change (Log2FC) is <b>{{log2fc}}</b>, while the mean transcriptional intensity across conditions is approximately <b>{{mean}}</b>.
The reported p-value of <b>{{p_value}}</b> indicates the statistical significance of this difference, reflecting the confidence in observed gene modulation under microgravity stress.</p>

<p>Such modulation patterns suggest possible involvement of <b>{{gene_name}}</b> in gravity-sensitive biological processes, including cell differentiation, DNA repair, and oxidative stress response.
These changes could represent early molecular adaptations critical to human spaceflight biology and bioengineering in low-gravity environments.</p>

<p>This data contributes to understanding how spaceflight conditions alter the expression landscape,
guiding future countermeasure development for astronaut health and long-duration missions beyond Earth orbit.</p>`

var tmpl = fasttemplate.New(text, "{{", "}}")

// Render interpolates d into the narrative. Fields listed in d.Absent render
// as Placeholder; a blank gene name renders as "Unknown gene". Text from the
// dataset is HTML-escaped.
func Render(d *models.GeneDetail) string {
	if d == nil {
		return NotAvailable
	}
	name := strings.TrimSpace(d.GeneName)
	if name == "" {
		name = "Unknown gene"
	}
	symbol := d.Symbol
	if symbol == "" {
		symbol = Placeholder
	}
	return tmpl.ExecuteString(map[string]interface{}{
		"gene_name": html.EscapeString(name),
		"symbol":    html.EscapeString(symbol),
		"log2fc":    number(d, engine.FieldFoldChange, d.FoldChange),
		"mean":      number(d, engine.FieldMean, d.Mean),
		"p_value":   number(d, engine.FieldPValue, d.PValue),
	})
}

func number(d *models.GeneDetail, f engine.Field, v float64) string {
	if d.IsAbsent(string(f)) {
		return Placeholder
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

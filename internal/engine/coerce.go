package engine

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Cell is a raw dataset value. Valid is false when the source marked it missing.
type Cell struct {
	Raw   string
	Valid bool
}

// missing markers, compared after trimming
var naValues = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"#N/A": {},
	"#NA":  {},
	"<NA>": {},
	"NaN":  {},
	"nan":  {},
	"-NaN": {},
	"-nan": {},
	"NULL": {},
	"null": {},
	"None": {},
}

// ParseCell tags raw as missing when it is blank or a conventional NA marker.
func ParseCell(raw string) Cell {
	if _, na := naValues[strings.TrimSpace(raw)]; na {
		return Cell{Raw: raw}
	}
	return Cell{Raw: raw, Valid: true}
}

var thousands = strings.NewReplacer(",", "")

// Float parses c as a number. Missing, malformed and non-finite values
// report false.
func Float(c Cell) (float64, bool) {
	if !c.Valid {
		return 0, false
	}
	f, err := cast.ToFloat64E(c.Raw)
	if err != nil {
		f, err = cast.ToFloat64E(strings.TrimSpace(thousands.Replace(c.Raw)))
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToFloat is Float with a fallback. It never fails.
func ToFloat(c Cell, def float64) float64 {
	if f, ok := Float(c); ok {
		return f
	}
	return def
}

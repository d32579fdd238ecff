package engine

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spektr-org/chartkit/dataset"
)

// ============================================================================
// AGGREGATORS — Grouping and summation by category
// ============================================================================
// Categories keep first-seen order. Values for a repeated category are
// summed, never overwritten.
// ============================================================================

// group is one category bucket.
type group struct {
	Label string
	Value float64
	Count int
	Row   int // first contributing row
}

// groupSet accumulates buckets in first-seen order.
type groupSet struct {
	index  map[string]int
	groups []group
}

func newGroupSet() *groupSet {
	return &groupSet{index: make(map[string]int)}
}

func (s *groupSet) add(label string, row int, v float64) {
	i, ok := s.index[label]
	if !ok {
		i = len(s.groups)
		s.index[label] = i
		s.groups = append(s.groups, group{Label: label, Row: row})
	}
	s.groups[i].Value += v
	s.groups[i].Count++
}

func (s *groupSet) Len() int { return len(s.groups) }

// dropNonFinite removes buckets whose sum overflowed and returns them.
func (s *groupSet) dropNonFinite() []group {
	var dropped []group
	kept := make([]group, 0, len(s.groups))
	for _, g := range s.groups {
		if math.IsInf(g.Value, 0) || math.IsNaN(g.Value) {
			dropped = append(dropped, g)
			continue
		}
		kept = append(kept, g)
	}
	if len(dropped) == 0 {
		return nil
	}
	s.groups = kept
	s.index = make(map[string]int, len(kept))
	for i, g := range kept {
		s.index[g.Label] = i
	}
	return dropped
}

// ============================================================================
// CELL COERCION
// ============================================================================

// categoryOf returns the X category text of a cell, or placeholder when the
// cell is absent or blank.
func categoryOf(v dataset.Value, placeholder string) string {
	text, ok := v.Text()
	if !ok || strings.TrimSpace(text) == "" {
		return placeholder
	}
	return text
}

// numericOf parses a Y cell. NaN and infinities count as non-numeric.
func numericOf(v dataset.Value) (float64, DiagnosticKind, bool) {
	f, err := v.Float()
	switch {
	case errors.Is(err, dataset.ErrMissing):
		return 0, DiagMissingValue, false
	case err != nil:
		return 0, DiagNonNumeric, false
	case math.IsNaN(f) || math.IsInf(f, 0):
		return 0, DiagNonNumeric, false
	}
	return f, "", true
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatNumber renders whole numbers without decimals and everything else
// with two decimals and comma separators.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	negative := v < 0
	if negative {
		v = -v
	}

	v = RoundTo2(v)
	intPart := int64(v)
	decPart := int64(math.Round((v - float64(intPart)) * 100))
	if decPart == 100 {
		intPart++
		decPart = 0
	}

	out := groupThousands(strconv.FormatInt(intPart, 10))
	if decPart != 0 {
		out += fmt.Sprintf(".%02d", decPart)
	}
	if negative && (intPart != 0 || decPart != 0) {
		out = "-" + out
	}
	return out
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// FormatPercent renders a percentage with one decimal, e.g. "42.9%".
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64) + "%"
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)
	return strings.Join(parts, ",")
}

// LabelForColumn returns a display label for a column name:
// underscores become spaces and the first letter is capitalized.
func LabelForColumn(column string) string {
	s := strings.TrimSpace(strings.ReplaceAll(column, "_", " "))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

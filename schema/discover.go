package schema

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/dataset"
)

// ============================================================================
// AUTO-DISCOVERY — Heuristic column classification
// ============================================================================
// Inspects a loaded dataset and profiles each column.
//
// Classification pipeline per column:
//   1. Sample values → detect type (numeric, date, bool, text)
//   2. Pattern matching → detect temporal text (Jan-2026, Q1-2026, ...)
//   3. Type + cardinality → classify role (category, value, skipped)
//
// Numeric detection uses the same parsing as the aggregation engine, so a
// value column always aggregates.
// ============================================================================

// ErrNoDataset is returned by Discover for a nil dataset.
var ErrNoDataset = errors.New("schema: no dataset")

// DiscoverOptions controls discovery behavior.
type DiscoverOptions struct {
	SampleSize int // Max rows to inspect (0 = all). Default: 1000
	MaxSamples int // Sample values kept per column. Default: 10
}

// DefaultDiscoverOptions returns sensible defaults.
func DefaultDiscoverOptions() DiscoverOptions {
	return DiscoverOptions{
		SampleSize: 1000,
		MaxSamples: 10,
	}
}

// Discover profiles every column of ds.
func Discover(ds *dataset.Dataset, opts ...DiscoverOptions) (*Profile, error) {
	if ds == nil {
		return nil, ErrNoDataset
	}
	opt := DefaultDiscoverOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if opt.MaxSamples <= 0 {
		opt.MaxSamples = 10
	}

	rows := ds.Len()
	if opt.SampleSize > 0 && rows > opt.SampleSize {
		rows = opt.SampleSize
	}

	p := &Profile{Rows: ds.Len()}
	for _, name := range ds.Columns() {
		p.Columns = append(p.Columns, analyzeColumn(ds, name, rows, opt.MaxSamples))
	}
	return p, nil
}

// ============================================================================
// COLUMN ANALYSIS
// ============================================================================

// nullTokens are cell texts treated as absent during profiling.
var nullTokens = map[string]bool{"null": true, "NULL": true, "N/A": true, "n/a": true}

func analyzeColumn(ds *dataset.Dataset, name string, rows, maxSamples int) ColumnProfile {
	col := ColumnProfile{
		Name:        name,
		DisplayName: toDisplayName(name),
		Type:        TypeText,
	}

	values := make([]string, 0, rows)
	unique := make(map[string]bool)
	for i := 0; i < rows; i++ {
		text, ok := ds.Value(i, name).Text()
		text = strings.TrimSpace(text)
		if !ok || text == "" || nullTokens[text] {
			col.Nulls++
			continue
		}
		values = append(values, text)
		unique[text] = true
	}
	col.Unique = len(unique)

	if len(values) == 0 {
		col.Role = RoleSkipped
		col.SkipReason = "All values are empty/null"
		return col
	}

	col.Sample = collectSamples(unique, maxSamples)
	col.Type = detectType(values)

	if col.Type == TypeNumeric {
		col.HasDecimals = slices.ContainsFunc(values, func(v string) bool { return strings.Contains(v, ".") })
	}
	switch col.Type {
	case TypeText:
		col.IsTemporal, col.TemporalFormat = detectTemporalPattern(col.Sample)
	case TypeDate:
		col.IsTemporal = true
	}

	col.classifyRole(rows)

	switch {
	case col.Unique <= 10:
		col.CardinalityHint = "low"
	case col.Unique <= 100:
		col.CardinalityHint = "medium"
	default:
		col.CardinalityHint = "high"
	}
	return col
}

// classifyRole decides category vs value vs skipped.
func (col *ColumnProfile) classifyRole(rows int) {
	switch col.Type {
	case TypeNumeric:
		if col.Unique == rows && rows > 10 && !col.HasDecimals {
			col.Role = RoleSkipped
			col.SkipReason = "Unique per row — likely an ID column"
			return
		}
		if col.HasDecimals {
			col.Role = RoleValue
			return
		}
		// few distinct integers relative to the row count read as codes
		ratio := float64(col.Unique) / float64(rows)
		if col.Unique < 20 && ratio < 0.3 {
			col.Role = RoleCategory
			return
		}
		col.Role = RoleValue

	case TypeDate, TypeBool:
		col.Role = RoleCategory

	default:
		if col.Unique == rows && rows > 10 {
			col.Role = RoleSkipped
			col.SkipReason = "Unique per row — likely an identifier"
			return
		}
		if col.Unique > rows/2 && col.Unique > 50 {
			col.Role = RoleSkipped
			col.SkipReason = fmt.Sprintf("High cardinality (%d unique values) — not useful for grouping", col.Unique)
			return
		}
		col.Role = RoleCategory
	}
}

// ============================================================================
// TYPE DETECTION
// ============================================================================

// detectType requires 80%+ of non-null values to match for numeric/date/bool.
func detectType(values []string) ValueType {
	var numCount, dateCount, boolCount int
	for _, v := range values {
		if isNumeric(v) {
			numCount++
		}
		if isDate(v) {
			dateCount++
		}
		if isBool(v) {
			boolCount++
		}
	}

	threshold := int(float64(len(values)) * 0.8)
	switch {
	case boolCount >= threshold && boolCount > 0:
		return TypeBool
	case dateCount >= threshold && dateCount > 0:
		return TypeDate
	case numCount >= threshold && numCount > 0:
		return TypeNumeric
	}
	return TypeText
}

func isNumeric(s string) bool {
	_, err := dataset.String(s).Float()
	return err == nil
}

var dateFormats = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"02/01/2006",
	"Jan-2006",
	"January 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

func isDate(s string) bool {
	for _, layout := range dateFormats {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false", "yes", "no":
		return true
	}
	return false
}

var temporalPatterns = []struct {
	re     *regexp.Regexp
	format string
}{
	{regexp.MustCompile(`^[A-Z][a-z]{2}-\d{4}$`), "MMM-yyyy"}, // Jan-2026
	{regexp.MustCompile(`^\d{4}-\d{2}$`), "yyyy-MM"},          // 2026-01
	{regexp.MustCompile(`^Q[1-4]-\d{4}$`), "QN-yyyy"},         // Q1-2026
	{regexp.MustCompile(`^Q[1-4]\s+\d{4}$`), "QN yyyy"},       // Q1 2026
	{regexp.MustCompile(`^[A-Z][a-z]+ \d{4}$`), "MMMM yyyy"},  // January 2026
}

// detectTemporalPattern checks if text values look like months or quarters.
func detectTemporalPattern(samples []string) (bool, string) {
	if len(samples) == 0 {
		return false, ""
	}
	for _, pattern := range temporalPatterns {
		matches := 0
		for _, s := range samples {
			if pattern.re.MatchString(s) {
				matches++
			}
		}
		if float64(matches)/float64(len(samples)) >= 0.8 {
			return true, pattern.format
		}
	}
	return false, ""
}

// ============================================================================
// AXIS SUGGESTION
// ============================================================================

// Suggestion is a starting chart configuration.
type Suggestion struct {
	Type chart.Type
	X    string
	Y    []string
}

// Suggest picks the first category column as X and up to maxY value
// columns as Y. A temporal X suggests a line chart. It reports false when
// the dataset has no usable pair.
func Suggest(p *Profile, maxY int) (Suggestion, bool) {
	if p == nil {
		return Suggestion{}, false
	}
	if maxY <= 0 {
		maxY = 1
	}

	var x ColumnProfile
	found := false
	for _, c := range p.Columns {
		if c.Role == RoleCategory {
			x, found = c, true
			break
		}
	}

	values := p.Values()
	if !found {
		// numeric-only data: plot the remaining value columns against the first one
		if len(values) < 2 {
			return Suggestion{}, false
		}
		x, _ = p.Column(values[0])
		values = values[1:]
	}
	if len(values) == 0 {
		return Suggestion{}, false
	}
	if len(values) > maxY {
		values = values[:maxY]
	}

	s := Suggestion{Type: chart.Bar, X: x.Name, Y: values}
	if x.IsTemporal {
		s.Type = chart.Line
	}
	return s, true
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toDisplayName cleans a header for human display.
// "story_points" → "Story Points", "assignee" → "Assignee"
func toDisplayName(s string) string {
	if strings.Contains(s, " ") {
		return strings.TrimSpace(s)
	}

	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// collectSamples picks up to maxSamples values in sorted order.
func collectSamples(unique map[string]bool, maxSamples int) []string {
	samples := make([]string, 0, len(unique))
	for v := range unique {
		samples = append(samples, v)
	}
	slices.Sort(samples)
	if len(samples) > maxSamples {
		samples = samples[:maxSamples]
	}
	return samples
}

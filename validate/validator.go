package validate

import (
	"fmt"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/dataset"
)

// ============================================================================
// VALIDATOR — Pure checks over a requested chart configuration
// ============================================================================
// An empty column name means "nothing selected".
// ============================================================================

const (
	msgNoData      = "No data loaded."
	msgUnknownType = "Please select a chart type."
	msgMissingX    = "Please select a column for the X-Axis."
	msgMissingY    = "Please select a column for the Y-Axis."
	msgSameAxes    = "X and Y axes cannot be the same."
	msgSwapMissing = "Select both X and Y axes to swap."
	msgNoValidY    = "None of the selected Y-Axis columns are in the dataset."
	msgUnknownX    = "Column %q is not in the dataset."
	msgDroppedY    = "Column %q is not in the dataset and was ignored."
	msgRepeatedY   = "Column %q was selected more than once."
)

// Validate checks a requested update against the current dataset.
//
// A nil dataset yields a single NoDataLoaded error and nothing else. Otherwise
// every problem is reported: unknown chart type, missing X or Y, X repeated
// in Y, X outside the dataset, and no usable Y column. Y columns that are not
// in the dataset or are repeated are dropped with a warning.
func Validate(ds *dataset.Dataset, t chart.Type, x string, ys []string) *Result {
	r := &Result{}
	if ds == nil {
		r.addError(FieldGeneral, CodeNoDataLoaded, "", msgNoData)
		return r
	}

	if !t.Valid() {
		r.addError(FieldGeneral, CodeUnknownChartType, "", msgUnknownType)
	}

	if x == "" {
		r.addError(FieldX, CodeMissingAxis, "", msgMissingX)
	}
	if len(ys) == 0 {
		r.addError(FieldY, CodeMissingAxis, "", msgMissingY)
	}

	if x != "" {
		for _, y := range ys {
			if y == x {
				r.addError(FieldY, CodeDuplicateAxis, y, msgSameAxes)
				break
			}
		}
		if !ds.HasColumn(x) {
			r.addError(FieldX, CodeUnknownColumn, x, fmt.Sprintf(msgUnknownX, x))
		}
	}

	if len(ys) > 0 {
		seen := make(map[string]bool, len(ys))
		for _, y := range ys {
			switch {
			case y == x:
				// reported as DuplicateAxis above
			case !ds.HasColumn(y):
				r.addWarning(FieldY, CodeUnknownColumn, y, fmt.Sprintf(msgDroppedY, y))
			case seen[y]:
				r.addWarning(FieldY, CodeDuplicateAxis, y, fmt.Sprintf(msgRepeatedY, y))
			default:
				seen[y] = true
				r.YColumns = append(r.YColumns, y)
			}
		}
		if len(r.YColumns) == 0 && !r.Has(FieldY, CodeDuplicateAxis) {
			r.addError(FieldY, CodeNoValidYColumns, "", msgNoValidY)
		}
	}

	return r
}

// ValidateSwap checks that the X and Y selections can trade places.
func ValidateSwap(ds *dataset.Dataset, x, y string) *Result {
	r := &Result{}
	if ds == nil {
		r.addError(FieldGeneral, CodeNoDataLoaded, "", msgNoData)
		return r
	}

	if x == "" {
		r.addError(FieldX, CodeMissingAxis, "", msgSwapMissing)
	}
	if y == "" {
		r.addError(FieldY, CodeMissingAxis, "", msgSwapMissing)
	}
	if x != "" && x == y {
		r.addError(FieldY, CodeDuplicateAxis, y, msgSameAxes)
	}
	if r.Valid() {
		r.YColumns = []string{x}
	}
	return r
}

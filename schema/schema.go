// Package schema profiles dataset columns and suggests a starting chart
// configuration.
package schema

// ============================================================================
// SCHEMA — Describes the shape of a dataset for axis selection
// ============================================================================
// Built by Discover from a loaded dataset. Category columns are candidates
// for the X axis; value columns are candidates for the Y axis.
// ============================================================================

// Profile describes every column of a dataset.
type Profile struct {
	Rows    int             `json:"rows"`
	Columns []ColumnProfile `json:"columns"`
}

// Role is how a column is best used on a chart.
type Role string

const (
	RoleCategory Role = "category" // X axis candidate
	RoleValue    Role = "value"    // Y axis candidate
	RoleSkipped  Role = "skipped"  // neither: empty, or an identifier
)

// ValueType is the detected type of the non-null cells of a column.
type ValueType string

const (
	TypeText    ValueType = "text"
	TypeNumeric ValueType = "numeric"
	TypeDate    ValueType = "date"
	TypeBool    ValueType = "bool"
)

// ColumnProfile describes one column.
type ColumnProfile struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"displayName"`
	Type        ValueType `json:"type"`
	Role        Role      `json:"role"`

	Unique int      `json:"unique"`
	Nulls  int      `json:"nulls"`
	Sample []string `json:"sample"`

	IsTemporal      bool   `json:"isTemporal,omitempty"`
	TemporalFormat  string `json:"temporalFormat,omitempty"`
	HasDecimals     bool   `json:"hasDecimals,omitempty"`
	CardinalityHint string `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
	SkipReason      string `json:"skipReason,omitempty"`
}

// Column returns the profile of one column.
func (p *Profile) Column(name string) (ColumnProfile, bool) {
	for _, c := range p.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnProfile{}, false
}

// Categories returns the names of category columns in dataset order.
func (p *Profile) Categories() []string {
	return p.names(RoleCategory)
}

// Values returns the names of value columns in dataset order.
func (p *Profile) Values() []string {
	return p.names(RoleValue)
}

// Numeric returns the names of every column whose cells are mostly numeric,
// whatever their role.
func (p *Profile) Numeric() []string {
	var out []string
	for _, c := range p.Columns {
		if c.Type == TypeNumeric {
			out = append(out, c.Name)
		}
	}
	return out
}

func (p *Profile) names(r Role) []string {
	var out []string
	for _, c := range p.Columns {
		if c.Role == r {
			out = append(out, c.Name)
		}
	}
	return out
}

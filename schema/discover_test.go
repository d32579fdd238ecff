package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/chartkit/chart"
	"github.com/spektr-org/chartkit/dataset"
	"github.com/spektr-org/chartkit/helpers"
)

// ============================================================================
// DISCOVERY TESTS
// ============================================================================

// Sample Jira CSV export
const jiraCSV = `Issue Key,Summary,Status,Priority,Issue Type,Assignee,Component,Sprint,Story Points,Time Spent Hours,Created,Resolved
PROJ-101,Login timeout on mobile,In Progress,P1 - Critical,Bug,alice@corp.com,Backend,Sprint 17,5,12.5,2026-01-15,
PROJ-102,Dashboard crash on Safari,To Do,P2 - High,Bug,bob@corp.com,Frontend,Sprint 17,3,0,2026-01-16,
PROJ-103,Add dark mode toggle,Done,P3 - Medium,Story,charlie@corp.com,Frontend,Sprint 16,8,16,2026-01-10,2026-01-20
PROJ-104,Update user docs,In Review,P4 - Low,Task,alice@corp.com,Documentation,Sprint 17,2,4,2026-01-18,
PROJ-105,Payment fails with expired card,In Progress,P1 - Critical,Bug,dave@corp.com,Backend,Sprint 17,8,20,2026-01-12,
PROJ-106,Optimize DB queries,Done,P2 - High,Task,eve@corp.com,Backend,Sprint 16,5,10,2026-01-08,2026-01-15
PROJ-107,Mobile push notifications,To Do,P2 - High,Story,frank@corp.com,Mobile,Sprint 18,13,0,2026-01-20,
PROJ-108,Fix memory leak in worker,In Progress,P1 - Critical,Bug,alice@corp.com,Infrastructure,Sprint 17,5,8,2026-01-14,
PROJ-109,Redesign settings page,Done,P3 - Medium,Story,bob@corp.com,Frontend,Sprint 15,8,14,2026-01-05,2026-01-12
PROJ-110,API rate limiting,Done,P2 - High,Story,charlie@corp.com,Backend,Sprint 16,5,9,2026-01-09,2026-01-18
PROJ-111,Add export to CSV,To Do,P3 - Medium,Story,dave@corp.com,Backend,Sprint 18,3,0,2026-01-22,
PROJ-112,Update SSL certs,Done,P1 - Critical,Task,eve@corp.com,Infrastructure,Sprint 16,1,2,2026-01-07,2026-01-07
`

// Sample finance CSV
const financeCSV = `Month,Location,Category,Currency,Amount
Jan-2026,Singapore,Income,SGD,8500.00
Jan-2026,Singapore,Expense,SGD,2200.00
Jan-2026,India,Income,INR,25000.00
Feb-2026,Singapore,Income,SGD,8500.00
Feb-2026,Singapore,Expense,SGD,49.90
Feb-2026,India,Transfer,INR,50000.00
`

func discoverCSV(t *testing.T, data string) *Profile {
	t.Helper()
	ds, err := helpers.ParseCSV(strings.NewReader(data))
	require.NoError(t, err)
	p, err := Discover(ds)
	require.NoError(t, err)
	return p
}

func role(t *testing.T, p *Profile, name string) Role {
	t.Helper()
	c, ok := p.Column(name)
	require.True(t, ok, "column %q missing", name)
	return c.Role
}

func TestDiscoverJiraCSV(t *testing.T) {
	p := discoverCSV(t, jiraCSV)
	assert.Equal(t, 12, p.Rows)

	for _, name := range []string{"Status", "Priority", "Issue Type", "Component", "Sprint", "Assignee", "Created"} {
		assert.Equal(t, RoleCategory, role(t, p, name), name)
	}
	for _, name := range []string{"Story Points", "Time Spent Hours"} {
		assert.Equal(t, RoleValue, role(t, p, name), name)
	}
	assert.Equal(t, RoleSkipped, role(t, p, "Issue Key"))
	assert.Equal(t, RoleSkipped, role(t, p, "Summary"))

	created, _ := p.Column("Created")
	assert.Equal(t, TypeDate, created.Type)
	assert.True(t, created.IsTemporal)

	resolved, _ := p.Column("Resolved")
	assert.Equal(t, 7, resolved.Nulls)
}

func TestDiscoverFinanceCSV(t *testing.T) {
	p := discoverCSV(t, financeCSV)

	month, ok := p.Column("Month")
	require.True(t, ok)
	assert.Equal(t, TypeDate, month.Type)
	assert.True(t, month.IsTemporal)

	amount, _ := p.Column("Amount")
	assert.Equal(t, TypeNumeric, amount.Type)
	assert.True(t, amount.HasDecimals)
	assert.Equal(t, RoleValue, amount.Role)

	assert.Equal(t, []string{"Month", "Location", "Category", "Currency"}, p.Categories())
	assert.Equal(t, []string{"Amount"}, p.Values())
	assert.Equal(t, "Feb-2026", month.Sample[0])
}

func TestDiscoverTemporalText(t *testing.T) {
	ds := dataset.MustNew([]string{"quarter", "revenue"}, []dataset.Row{
		{"quarter": dataset.String("Q1-2026"), "revenue": dataset.Number(1.5)},
		{"quarter": dataset.String("Q2-2026"), "revenue": dataset.Number(2.5)},
	})
	p, err := Discover(ds)
	require.NoError(t, err)

	q, _ := p.Column("quarter")
	assert.Equal(t, TypeText, q.Type)
	assert.True(t, q.IsTemporal)
	assert.Equal(t, "QN-yyyy", q.TemporalFormat)
}

func TestDiscoverEmptyColumnAndNil(t *testing.T) {
	ds := dataset.MustNew([]string{"a", "blank"}, []dataset.Row{
		{"a": dataset.String("x")},
		{"a": dataset.String("y"), "blank": dataset.String("N/A")},
	})
	p, err := Discover(ds)
	require.NoError(t, err)

	blank, _ := p.Column("blank")
	assert.Equal(t, RoleSkipped, blank.Role)
	assert.Equal(t, 2, blank.Nulls)

	_, err = Discover(nil)
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestDetectType(t *testing.T) {
	assert.Equal(t, TypeNumeric, detectType([]string{"1", "2.5", "-3"}))
	assert.Equal(t, TypeBool, detectType([]string{"yes", "no", "True"}))
	assert.Equal(t, TypeDate, detectType([]string{"2026-01-02", "2026-02-03"}))
	assert.Equal(t, TypeText, detectType([]string{"1,234", "abc"}))
}

// ============================================================================
// SUGGESTION TESTS
// ============================================================================

func TestSuggest(t *testing.T) {
	s, ok := Suggest(discoverCSV(t, financeCSV), 2)
	require.True(t, ok)
	assert.Equal(t, Suggestion{Type: chart.Line, X: "Month", Y: []string{"Amount"}}, s)

	s, ok = Suggest(discoverCSV(t, jiraCSV), 1)
	require.True(t, ok)
	assert.Equal(t, chart.Bar, s.Type)
	assert.Equal(t, "Status", s.X)
	assert.Equal(t, []string{"Story Points"}, s.Y)
}

func TestSuggestNumericOnly(t *testing.T) {
	ds := dataset.MustNew([]string{"x", "y"}, []dataset.Row{
		{"x": dataset.Number(1.5), "y": dataset.Number(2.5)},
		{"x": dataset.Number(2.5), "y": dataset.Number(3.5)},
	})
	p, err := Discover(ds)
	require.NoError(t, err)

	s, ok := Suggest(p, 3)
	require.True(t, ok)
	assert.Equal(t, "x", s.X)
	assert.Equal(t, []string{"y"}, s.Y)

	_, ok = Suggest(&Profile{}, 1)
	assert.False(t, ok)
}

func TestToDisplayName(t *testing.T) {
	assert.Equal(t, "Story Points", toDisplayName("story_points"))
	assert.Equal(t, "Issue Type", toDisplayName("Issue Type"))
}

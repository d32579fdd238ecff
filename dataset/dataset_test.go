package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsBadColumns(t *testing.T) {
	_, err := New([]string{"a", "a"}, nil)
	assert.ErrorContains(t, err, "duplicate column")

	_, err = New([]string{"a", " "}, nil)
	assert.ErrorContains(t, err, "empty name")

	_, err = New([]string{"a"}, []Row{{"b": String("x")}})
	assert.ErrorContains(t, err, "unknown column")
}

func TestDatasetIsImmutable(t *testing.T) {
	cols := []string{"region", "revenue"}
	rows := []Row{{"region": String("North"), "revenue": Number(3)}}

	ds, err := New(cols, rows)
	require.NoError(t, err)

	cols[0] = "changed"
	rows[0]["region"] = String("changed")
	assert.Equal(t, []string{"region", "revenue"}, ds.Columns())
	got, _ := ds.Value(0, "region").Text()
	assert.Equal(t, "North", got)

	out := ds.Columns()
	out[0] = "changed"
	assert.True(t, ds.HasColumn("region"))

	r := ds.Row(0)
	r["region"] = String("changed")
	got, _ = ds.Value(0, "region").Text()
	assert.Equal(t, "North", got)
}

func TestDatasetAccessors(t *testing.T) {
	ds := MustNew([]string{"x", "y"}, []Row{
		{"x": String("A"), "y": Number(1)},
		{"x": String("B")},
	})

	assert.Equal(t, 2, ds.Len())
	assert.False(t, ds.Empty())
	assert.True(t, ds.Value(1, "y").IsNull())
	assert.True(t, ds.Value(9, "x").IsNull())
	assert.Nil(t, ds.Column("z"))
	assert.Len(t, ds.Column("y"), 2)

	var seen []int
	for i := range ds.Values("x") {
		seen = append(seen, i)
	}
	assert.Equal(t, []int{0, 1}, seen)
}

func TestNilDatasetIsSafe(t *testing.T) {
	var ds *Dataset
	assert.Equal(t, 0, ds.Len())
	assert.True(t, ds.Empty())
	assert.False(t, ds.HasColumn("x"))
	assert.Nil(t, ds.Columns())
	assert.True(t, ds.Value(0, "x").IsNull())
}

func TestValueCoercion(t *testing.T) {
	f, err := String(" 4.5 ").Float()
	require.NoError(t, err)
	assert.Equal(t, 4.5, f)

	_, err = String("abc").Float()
	assert.ErrorIs(t, err, ErrNotNumeric)

	_, err = String("").Float()
	assert.ErrorIs(t, err, ErrMissing)

	_, err = Null().Float()
	assert.ErrorIs(t, err, ErrMissing)

	txt, ok := Number(7).Text()
	assert.True(t, ok)
	assert.Equal(t, "7", txt)

	txt, ok = Number(0.25).Text()
	assert.True(t, ok)
	assert.Equal(t, "0.25", txt)

	_, ok = Null().Text()
	assert.False(t, ok)
}

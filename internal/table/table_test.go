package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Table {
	t.Helper()
	tbl, err := FromRecords(
		[]string{"SbjNum", "Q1", "Q2", "Q3"},
		[]map[string]Value{
			{"SbjNum": int64(1), "Q1": "a", "Q2": "b", "Q3": "c"},
			{"SbjNum": int64(2), "Q1": "d", "Q3": "f"},
		},
	)
	require.NoError(t, err)
	return tbl
}

func TestFromRecords(t *testing.T) {
	tbl := sample(t)

	assert.Equal(t, 2, tbl.Rows())
	assert.Equal(t, 4, tbl.Width())
	assert.Equal(t, []string{"SbjNum", "Q1", "Q2", "Q3"}, tbl.Names())
	assert.Nil(t, tbl.Lookup("Q2").Values[1], "missing key should be an empty cell")
	assert.Equal(t, []Value{int64(2), "d", nil, "f"}, tbl.Row(1))
}

func TestIndex_FirstColumnIsFound(t *testing.T) {
	tbl := sample(t)

	pos, ok := tbl.Index("SbjNum")
	assert.True(t, ok)
	assert.Equal(t, 0, pos)

	_, ok = tbl.Index("missing")
	assert.False(t, ok)
}

func TestInsert(t *testing.T) {
	tbl := sample(t)

	require.NoError(t, tbl.Insert(1, "New", []Value{"x", "y"}))
	assert.Equal(t, []string{"SbjNum", "New", "Q1", "Q2", "Q3"}, tbl.Names())

	pos, ok := tbl.Index("Q3")
	require.True(t, ok)
	assert.Equal(t, 4, pos)

	require.NoError(t, tbl.Insert(tbl.Width(), "Tail", nil))
	assert.Equal(t, []Value{nil, nil}, tbl.Lookup("Tail").Values)
}

func TestInsert_Errors(t *testing.T) {
	tbl := sample(t)

	err := tbl.Insert(0, "Q1", nil)
	assert.ErrorIs(t, err, ErrDuplicateColumn)

	err = tbl.Insert(9, "Far", nil)
	assert.ErrorIs(t, err, ErrPosition)

	err = tbl.Insert(0, "Short", []Value{"only one"})
	assert.ErrorIs(t, err, ErrRowCount)
}

func TestRemoveRange(t *testing.T) {
	tbl := sample(t)

	removed, err := tbl.RemoveRange(1, 2)
	require.NoError(t, err)

	require.Len(t, removed, 2)
	assert.Equal(t, "Q1", removed[0].Name)
	assert.Equal(t, "Q2", removed[1].Name)
	assert.Equal(t, []string{"SbjNum", "Q3"}, tbl.Names())
	assert.False(t, tbl.Has("Q1"))

	pos, ok := tbl.Index("Q3")
	require.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestRemoveRange_Invalid(t *testing.T) {
	tbl := sample(t)

	_, err := tbl.RemoveRange(2, 1)
	assert.ErrorIs(t, err, ErrPosition)

	_, err = tbl.RemoveRange(0, 4)
	assert.ErrorIs(t, err, ErrPosition)
}

func TestRename(t *testing.T) {
	tbl := sample(t)

	ok, err := tbl.Rename("Q2", "Second")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"SbjNum", "Q1", "Second", "Q3"}, tbl.Names())

	ok, err = tbl.Rename("Second", "Q2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"SbjNum", "Q1", "Q2", "Q3"}, tbl.Names())
}

func TestRename_MissingIsNoop(t *testing.T) {
	tbl := sample(t)

	ok, err := tbl.Rename("OLD", "NEW")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, []string{"SbjNum", "Q1", "Q2", "Q3"}, tbl.Names())
}

func TestRename_Collision(t *testing.T) {
	tbl := sample(t)

	_, err := tbl.Rename("Q1", "Q3")
	assert.ErrorIs(t, err, ErrDuplicateColumn)
	assert.True(t, tbl.Has("Q1"))
}

func TestMapStrings(t *testing.T) {
	tbl := sample(t)

	tbl.MapStrings(func(s string) string { return s + "!" })

	assert.Equal(t, []Value{int64(1), "a!", "b!", "c!"}, tbl.Row(0))
	assert.Equal(t, []Value{int64(2), "d!", nil, "f!"}, tbl.Row(1))
}

func TestFill(t *testing.T) {
	tbl := sample(t)
	assert.Equal(t, []Value{"", ""}, tbl.Fill(""))
}

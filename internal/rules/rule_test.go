package rules

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"MULTIPLE", KindMultiple},
		{"Múltiple", KindMultiple},
		{" concatenar ", KindConcatenate},
		{"Concatenate", KindConcatenate},
		{"Renombrar", KindRename},
		{"rename", KindRename},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestParseKind_Unknown(t *testing.T) {
	_, err := ParseKind("split")
	assert.Error(t, err)
	assert.False(t, Kind("split").Valid())
}

func TestRuleNames(t *testing.T) {
	r := Rule{
		Kind:             KindMultiple,
		SourcePrefix:     "P5_",
		SourceStartLabel: "1",
		SourceEndLabel:   "12",
		DestPrefix:       "P5R",
		DestRange:        &Range{Start: 1, End: 3},
	}

	assert.Equal(t, "P5_1", r.SourceStart())
	assert.Equal(t, "P5_12", r.SourceEnd())
	assert.Equal(t, "P5R4", r.DestName(4))
	assert.Equal(t, 3, r.DestRange.Width())
	assert.Equal(t, "#0 MULTIPLE P5_1..P5_12 -> P5R[1..3]", r.String())
}

func TestNewSet_StableOrder(t *testing.T) {
	set := NewSet([]Rule{
		{OrderKey: 3, DestPrefix: "c"},
		{OrderKey: 1, DestPrefix: "a"},
		{OrderKey: 3, DestPrefix: "d"},
		{OrderKey: 2, DestPrefix: "b"},
	})

	var got []string
	for _, r := range set.Rules() {
		got = append(got, r.DestPrefix)
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
	assert.Equal(t, 4, set.Len())
}

func TestSet_RulesReturnsCopy(t *testing.T) {
	set := NewSet([]Rule{{OrderKey: 1, DestPrefix: "a"}})

	rs := set.Rules()
	rs[0].DestPrefix = "mutated"

	assert.Equal(t, "a", set.Rules()[0].DestPrefix)
}

func TestRuleValidate(t *testing.T) {
	valid := Rule{
		Kind:             KindMultiple,
		SourcePrefix:     "P5_",
		SourceStartLabel: "1",
		SourceEndLabel:   "3",
		DestPrefix:       "P5R",
		DestRange:        &Range{Start: 1, End: 3},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(r *Rule)
	}{
		{"unknown kind", func(r *Rule) { r.Kind = "SPLIT" }},
		{"no destination", func(r *Rule) { r.DestPrefix = "" }},
		{"no range", func(r *Rule) { r.DestRange = nil }},
		{"reversed range", func(r *Rule) { r.DestRange = &Range{Start: 4, End: 2} }},
		{"no span", func(r *Rule) { r.SourcePrefix, r.SourceStartLabel = "", "" }},
		{"range end beyond int32", func(r *Rule) { r.DestRange = &Range{Start: 1, End: 1<<32 + 2} }},
		{"range start below int32", func(r *Rule) { r.DestRange = &Range{Start: math.MinInt32 - 1, End: 1} }},
		{"range wider than a sheet", func(r *Rule) { r.DestRange = &Range{Start: 1, End: 2_000_000_000} }},
		{"range one past sheet width", func(r *Rule) { r.DestRange = &Range{Start: 1, End: excelize.MaxColumns + 1} }},
		{"order key beyond int32", func(r *Rule) { r.OrderKey = math.MaxInt32 + 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			assert.ErrorIs(t, r.Validate(), ErrInvalidRule)
		})
	}

	widest := valid
	widest.DestRange = &Range{Start: 1, End: excelize.MaxColumns}
	widest.OrderKey = math.MaxInt32
	assert.NoError(t, widest.Validate())

	rename := Rule{Kind: KindRename, SourcePrefix: "Q1", DestPrefix: "Edad"}
	assert.NoError(t, rename.Validate())

	rename.SourcePrefix = ""
	assert.ErrorIs(t, rename.Validate(), ErrInvalidRule)

	concat := Rule{Kind: KindConcatenate, SourcePrefix: "O", SourceStartLabel: "1", SourceEndLabel: "2", DestPrefix: "OTROS"}
	assert.NoError(t, concat.Validate())
}

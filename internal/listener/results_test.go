package listener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trl/internal/config"
)

func TestStatusMap_Code(t *testing.T) {
	m := StatusMap(config.New().StatusMap)

	code, err := m.Code("PASS")
	require.NoError(t, err)
	assert.Equal(t, 1, code)

	code, err = m.Code("FAIL")
	require.NoError(t, err)
	assert.Equal(t, 5, code)

	_, err = m.Code("SKIP")
	assert.ErrorIs(t, err, ErrUnmappedStatus)

	m["SKIP"] = 2
	code, err = m.Code("SKIP")
	require.NoError(t, err)
	assert.Equal(t, 2, code)
}

func TestFormatElapsed(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{0, "1s"},
		{-5, "1s"},
		{999, "1s"},
		{1000, "1s"},
		{1999, "1s"},
		{2500, "2s"},
		{61000, "61s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatElapsed(tt.ms), "FormatElapsed(%d)", tt.ms)
	}
}

func TestUnionCaseIDs(t *testing.T) {
	tests := []struct {
		name     string
		existing []int64
		added    []int64
		want     []int64
	}{
		{"both empty", nil, nil, []int64{}},
		{"only added", nil, []int64{3, 1}, []int64{3, 1}},
		{"disjoint", []int64{1, 2}, []int64{3}, []int64{1, 2, 3}},
		{"overlap keeps first position", []int64{1, 2, 3}, []int64{3, 4, 1}, []int64{1, 2, 3, 4}},
		{"duplicates in added", []int64{5}, []int64{6, 6, 5}, []int64{5, 6}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UnionCaseIDs(tt.existing, tt.added)
			assert.Equal(t, tt.want, got)
			// the union is a superset of both inputs
			for _, id := range append(append([]int64{}, tt.existing...), tt.added...) {
				assert.Contains(t, got, id)
			}
		})
	}
}

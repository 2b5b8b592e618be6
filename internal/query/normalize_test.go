package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePushesNotIntoPredicates(t *testing.T) {
	t.Parallel()

	expr, err := Parse("not size>10")
	require.NoError(t, err)

	normalized := Normalize(expr)
	assert.Equal(t, "size <= 10", normalized.String())
}

func TestNormalizeDeMorgan(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "not over and",
			input: "not (size>10 and depth<3)",
			want:  "(depth >= 3 or size <= 10)",
		},
		{
			name:  "not over or",
			input: "not (size>10 or depth<3)",
			want:  "(depth >= 3 and size <= 10)",
		},
		{
			name:  "double negation",
			input: "not not size>10",
			want:  "size > 10",
		},
		{
			name:  "comparator flips",
			input: "not (size>=10 or size<5 or name=a)",
			want:  "((name != a and size < 10) and size >= 5)",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			expr, err := Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, Normalize(expr).String())
		})
	}
}

func TestNormalizeReordersByWeight(t *testing.T) {
	t.Parallel()

	expr, err := Parse("contains=*x* and name=*.go")
	require.NoError(t, err)

	normalized := Normalize(expr)
	assert.Equal(t, "(name = *.go and contains = *x*)", normalized.String(),
		"the cheap name check should run before the content scan")
}

func TestNormalizeReordersDisjunctions(t *testing.T) {
	t.Parallel()

	expr, err := Parse("type=img or depth<2")
	require.NoError(t, err)

	normalized := Normalize(expr)
	assert.Equal(t, "(depth < 2 or type = img)", normalized.String())
}

func TestNormalizeFlattensChains(t *testing.T) {
	t.Parallel()

	expr, err := Parse("contains=*x* and size>10 and name=*.go and depth<4")
	require.NoError(t, err)

	normalized := Normalize(expr)
	assert.Equal(t, "(((name = *.go and depth < 4) and size > 10) and contains = *x*)",
		normalized.String())
}

func TestNormalizeIsStableForEqualWeights(t *testing.T) {
	t.Parallel()

	expr, err := Parse("name=a and ext=b")
	require.NoError(t, err)

	normalized := Normalize(expr)
	assert.Equal(t, "(name = a and extension = b)", normalized.String())
}

func TestPredicateWeights(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input  string
		weight int
	}{
		{input: "name=*.go", weight: 1},
		{input: `name=r".+"`, weight: 2},
		{input: "depth<3", weight: 1},
		{input: "size>10", weight: 4},
		{input: "mtime>now", weight: 4},
		{input: "perm=777", weight: 4},
		{input: "contains=*x*", weight: 8},
		{input: "type=img", weight: 16},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			expr, err := Parse(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.weight, Weight(expr))
		})
	}
}

func TestWeightOfCombinations(t *testing.T) {
	t.Parallel()

	and, err := Parse("name=a and size>1")
	require.NoError(t, err)
	assert.Equal(t, 5, Weight(and), "conjunction weight is the sum")

	or, err := Parse("name=a or size>1")
	require.NoError(t, err)
	assert.Equal(t, 4, Weight(or), "disjunction weight is the maximum")
}

package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinList_EmptyIsNA(t *testing.T) {
	assert.Equal(t, NA, JoinList(nil))
	assert.Equal(t, NA, JoinList([]string{}))
}

func TestJoinSplitList_RoundTrip(t *testing.T) {
	tests := [][]string{
		{"t1"},
		{"t1", "t2", "t3"},
	}
	for _, items := range tests {
		assert.Equal(t, items, SplitList(JoinList(items)))
	}
	assert.Nil(t, SplitList(NA))
	assert.Nil(t, SplitList(""))
}

func TestJoinDescriptions_SkipsBlanks(t *testing.T) {
	got := JoinDescriptions([]string{"first, with comma", "", NA, "second"})
	assert.Equal(t, "first, with comma|second", got)
	assert.Equal(t, []string{"first, with comma", "second"}, SplitDescriptions(got))
}

func TestJoinDescriptions_AllBlankIsNA(t *testing.T) {
	assert.Equal(t, NA, JoinDescriptions([]string{"", NA}))
	assert.Equal(t, NA, JoinDescriptions(nil))
}

func TestJoinPairs(t *testing.T) {
	tests := []struct {
		name  string
		pairs []Pair
		want  string
	}{
		{"none", nil, NA},
		{"one", []Pair{{"vendorA", "123"}}, "vendorA:123"},
		{"skips empty values", []Pair{{"vendorA", "123"}, {"vendorB", ""}}, "vendorA:123"},
		{"many", []Pair{{"vendorA", "123"}, {"vendorB", "x9"}}, "vendorA:123,vendorB:x9"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, JoinPairs(tc.pairs))
		})
	}
}

func TestSplitPairs_RoundTrip(t *testing.T) {
	pairs := []Pair{{"vendorA", "123"}, {"vendorB", "x9"}}
	assert.Equal(t, pairs, SplitPairs(JoinPairs(pairs)))
	assert.Nil(t, SplitPairs(NA))
}

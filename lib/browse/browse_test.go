package browse

import (
	"testing"
	"time"

	"ironman-results/lib/ironman"

	"github.com/stretchr/testify/require"
)

func results() []ironman.RaceResult {
	return []ironman.RaceResult{
		{Name: "Carl", AgeGroup: "M30-34", Status: ironman.StatusFinished, AgeGroupRank: 2, FinishTime: ironman.NewDuration(11 * time.Hour)},
		{Name: "alice", AgeGroup: "F30-34", Status: ironman.StatusFinished, AgeGroupRank: 1, FinishTime: ironman.NewDuration(10 * time.Hour)},
		{Name: "Dave", AgeGroup: "M30-34", Status: ironman.StatusDidNotFinish},
		{Name: "Bob", AgeGroup: "M30-34", Status: ironman.StatusFinished, AgeGroupRank: 1, FinishTime: ironman.NewDuration(9 * time.Hour)},
	}
}

func rowNames(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Result.Name
	}
	return out
}

func mustFilter(t testing.TB, expr string) Filter {
	f, err := ParseFilter(expr)
	require.NoError(t, err)
	return f
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(" age_group = M30-34 ")
	require.NoError(t, err)
	require.Equal(t, "age_group", f.Column.Name)
	require.Equal(t, "M30-34", f.Value)

	_, err = ParseFilter("age_group")
	require.Error(t, err)
	_, err = ParseFilter("shoe_size=44")
	require.Error(t, err)
}

func TestApply(t *testing.T) {
	testCases := []struct {
		name     string
		query    Query
		expected []string
	}{
		{name: "file order", query: Query{}, expected: []string{"Carl", "alice", "Dave", "Bob"}},
		{
			name:     "filter",
			query:    Query{Filters: []Filter{mustFilter(t, "age_group=m30-34")}},
			expected: []string{"Carl", "Dave", "Bob"},
		},
		{
			name: "filters are combined",
			query: Query{Filters: []Filter{
				mustFilter(t, "age_group=M30-34"),
				mustFilter(t, "finisher=true"),
			}},
			expected: []string{"Carl", "Bob"},
		},
		{
			name:     "missing values",
			query:    Query{Filters: []Filter{mustFilter(t, "overall_time=none")}},
			expected: []string{"Dave"},
		},
		{
			name:     "sort numeric, missing last",
			query:    Query{Sort: "overall_time"},
			expected: []string{"Bob", "alice", "Carl", "Dave"},
		},
		{
			name:     "sort descending, missing still last",
			query:    Query{Sort: "overall_time", Descending: true},
			expected: []string{"Carl", "alice", "Bob", "Dave"},
		},
		{
			name:     "sort text ignores case",
			query:    Query{Sort: "name"},
			expected: []string{"alice", "Bob", "Carl", "Dave"},
		},
		{
			name:     "stable sort",
			query:    Query{Sort: "age_group_rank"},
			expected: []string{"alice", "Bob", "Carl", "Dave"},
		},
		{
			name:     "only qualifiers",
			query:    Query{OnlyQualifiers: true},
			expected: []string{"alice", "Bob"},
		},
	}

	isQualifier := func(r ironman.RaceResult) bool {
		return r.AgeGroupRank == 1
	}
	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			rows, err := Apply(results(), test.query, isQualifier)
			require.NoError(t, err)
			require.Equal(t, test.expected, rowNames(rows))
		})
	}
}

func TestApplyMarksQualifiers(t *testing.T) {
	rows, err := Apply(results(), Query{}, nil)
	require.NoError(t, err)
	for _, r := range rows {
		require.False(t, r.Qualifier)
	}

	rows, err = Apply(results(), Query{Sort: "age_group_rank"}, func(r ironman.RaceResult) bool {
		return r.Name == "Bob"
	})
	require.NoError(t, err)
	require.True(t, rows[1].Qualifier)
	require.False(t, rows[0].Qualifier)

	_, err = Apply(results(), Query{Sort: "nope"}, nil)
	require.Error(t, err)
}

func TestColumnText(t *testing.T) {
	column, err := LookupColumn("overall_time")
	require.NoError(t, err)
	require.Equal(t, "10:00:00", column.Text(results()[1]))
	require.Equal(t, "", column.Text(results()[2]))

	column, err = LookupColumn("age_group_rank")
	require.NoError(t, err)
	require.Equal(t, "", column.Text(results()[2]))
	require.Equal(t, "2", column.Text(results()[0]))
}

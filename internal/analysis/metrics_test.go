package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintlens/sprintlens/pkg/types"
)

func mkIssue(key, priority string, created time.Time, ageDays int) types.Issue {
	return types.Issue{
		ID:       "1000" + key,
		Key:      key,
		Summary:  "Summary of " + key,
		Type:     "Bug",
		Status:   "Done",
		Priority: priority,
		Created:  created,
		Updated:  created.AddDate(0, 0, ageDays),
	}
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		name string
		want types.PriorityClass
	}{
		{"Highest", types.PriorityCritical},
		{"High", types.PriorityCritical},
		{"HIGH", types.PriorityCritical},
		{"Medium", types.PriorityMajor},
		{"medium", types.PriorityMajor},
		{"Low", types.PriorityMinor},
		{"Lowest", types.PriorityMinor},
		{"Blocker", types.PriorityMinor},
		{"", types.PriorityMinor},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyPriority(tt.name), "priority %q", tt.name)
	}
}

func TestCalculateResolutionMetrics(t *testing.T) {
	created := jan(1)
	issues := []types.Issue{
		mkIssue("LT-1", "High", created, 3),
		mkIssue("LT-2", "Low", created, 1),
		mkIssue("LT-3", "Medium", created, 5),
	}

	m := CalculateResolutionMetrics(issues)

	assert.Equal(t, 3, m.Count)
	assert.InDelta(t, 3.0, m.AvgDays, 1e-9)
	assert.Equal(t, 5, m.MaxDays)
	assert.Equal(t, 1, m.MinDays)
}

func TestCalculateResolutionMetricsTruncatesToWholeDays(t *testing.T) {
	created := time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC)
	issue := types.Issue{
		Key:     "LT-4",
		Created: created,
		Updated: created.Add(71*time.Hour + 59*time.Minute),
	}

	m := CalculateResolutionMetrics([]types.Issue{issue})

	assert.Equal(t, 2, m.MaxDays, "71h59m is two whole days, not three")
	assert.Equal(t, 2, m.MinDays)
}

func TestCalculateResolutionMetricsSkipsIssuesWithoutTimestamps(t *testing.T) {
	issues := []types.Issue{
		mkIssue("LT-1", "High", jan(1), 4),
		{Key: "LT-2", Updated: jan(9)},
		{Key: "LT-3"},
	}

	m := CalculateResolutionMetrics(issues)

	assert.Equal(t, 1, m.Count, "issues missing timestamps contribute nothing")
	assert.Equal(t, 4, m.MaxDays)
	assert.Equal(t, 4, m.MinDays)
	assert.InDelta(t, 4.0, m.AvgDays, 1e-9)
}

func TestCalculateResolutionMetricsEmpty(t *testing.T) {
	assert.Equal(t, types.ResolutionMetrics{}, CalculateResolutionMetrics(nil))
}

func TestCalculatePriorityDistribution(t *testing.T) {
	issues := []types.Issue{
		mkIssue("LT-1", "Highest", jan(1), 1),
		mkIssue("LT-2", "High", jan(1), 1),
		mkIssue("LT-3", "Medium", jan(1), 1),
		mkIssue("LT-4", "Low", jan(1), 1),
		mkIssue("LT-5", "Trivial", jan(1), 1),
		mkIssue("LT-6", "", jan(1), 1),
	}

	dist := CalculatePriorityDistribution(issues)

	assert.Equal(t, 2, dist.Critical)
	assert.Equal(t, 1, dist.Major)
	assert.Equal(t, 3, dist.Minor)
	assert.Equal(t, 6, dist.Total)
	assert.Equal(t, dist.Total, dist.Critical+dist.Major+dist.Minor,
		"every issue lands in exactly one bucket")
}

func TestLongestResolutionIssue(t *testing.T) {
	issues := []types.Issue{
		mkIssue("LT-1", "Low", jan(1), 2),
		mkIssue("LT-2", "High", jan(1), 6),
		mkIssue("LT-3", "Medium", jan(1), 4),
	}

	longest := LongestResolutionIssue(issues)

	require.NotNil(t, longest)
	assert.Equal(t, "LT-2", longest.Key)
	assert.Equal(t, "Summary of LT-2", longest.Summary)
	assert.Equal(t, "High", longest.Priority)
	assert.Equal(t, 6, longest.ResolutionDays)
}

func TestLongestResolutionIssueTiesKeepFirst(t *testing.T) {
	issues := []types.Issue{
		mkIssue("LT-1", "Low", jan(1), 5),
		mkIssue("LT-2", "High", jan(1), 5),
	}

	longest := LongestResolutionIssue(issues)

	require.NotNil(t, longest)
	assert.Equal(t, "LT-1", longest.Key)
}

func TestLongestResolutionIssueAllSameDayReturnsNil(t *testing.T) {
	issues := []types.Issue{
		mkIssue("LT-1", "Low", jan(1), 0),
		mkIssue("LT-2", "High", jan(1), 0),
	}

	assert.Nil(t, LongestResolutionIssue(issues),
		"same-day resolutions never qualify as longest")
	assert.Nil(t, LongestResolutionIssue(nil))
}

func TestSprintDetailedMetricsEmpty(t *testing.T) {
	m := SprintDetailedMetrics(nil)

	assert.Equal(t, 0, m.TotalIssues)
	assert.Equal(t, types.ResolutionMetrics{}, m.Resolution)
	assert.Nil(t, m.Longest)
	assert.Equal(t, 0, m.PriorityDistribution.Total)
}

func TestSummarizeIssue(t *testing.T) {
	issue := mkIssue("LT-7", "High", jan(3), 4)

	summary := SummarizeIssue(issue)

	assert.Equal(t, issue.ID, summary.ID)
	assert.Equal(t, "LT-7", summary.Key)
	assert.Equal(t, "Summary of LT-7", summary.Summary)
	assert.Equal(t, "High", summary.Priority)
	assert.Equal(t, issue.Created, summary.Created)
	assert.Equal(t, issue.Updated, summary.Updated)
	assert.Equal(t, 4, summary.ResolutionDays)
}

package analysis

import (
	"strings"
	"time"

	"github.com/sprintlens/sprintlens/pkg/types"
)

const day = 24 * time.Hour

// wholeDays truncates a duration to whole days
func wholeDays(d time.Duration) int {
	return int(d / day)
}

// resolutionDays returns the issue's creation-to-last-update age in
// whole days and whether the issue carries both timestamps
func resolutionDays(issue types.Issue) (int, bool) {
	if issue.Created.IsZero() || issue.Updated.IsZero() {
		return 0, false
	}
	return wholeDays(issue.Updated.Sub(issue.Created)), true
}

// ClassifyPriority maps a free-text priority name onto a reporting
// bucket. Matching is case-insensitive; unknown and missing priorities
// classify as minor so every issue lands in exactly one bucket.
func ClassifyPriority(name string) types.PriorityClass {
	switch strings.ToLower(name) {
	case "highest", "high":
		return types.PriorityCritical
	case "medium":
		return types.PriorityMajor
	case "low", "lowest":
		return types.PriorityMinor
	default:
		return types.PriorityMinor
	}
}

// CalculateResolutionMetrics aggregates resolution times over the given
// issues. Issues missing either timestamp are excluded from the count
// and every aggregate. An empty contribution yields the zero value.
func CalculateResolutionMetrics(issues []types.Issue) types.ResolutionMetrics {
	var m types.ResolutionMetrics
	var total int
	for _, issue := range issues {
		days, ok := resolutionDays(issue)
		if !ok {
			continue
		}
		if m.Count == 0 || days > m.MaxDays {
			m.MaxDays = days
		}
		if m.Count == 0 || days < m.MinDays {
			m.MinDays = days
		}
		total += days
		m.Count++
	}
	if m.Count > 0 {
		m.AvgDays = float64(total) / float64(m.Count)
	}
	return m
}

// CalculatePriorityDistribution counts issues per priority bucket
func CalculatePriorityDistribution(issues []types.Issue) types.PriorityDistribution {
	dist := types.PriorityDistribution{Total: len(issues)}
	for _, issue := range issues {
		switch ClassifyPriority(issue.Priority) {
		case types.PriorityCritical:
			dist.Critical++
		case types.PriorityMajor:
			dist.Major++
		default:
			dist.Minor++
		}
	}
	return dist
}

// LongestResolutionIssue returns the issue with the strictly longest
// resolution time. Ties keep the earliest issue in input order. Issues
// resolved in under a whole day never qualify, so an input where every
// issue resolved same-day returns nil.
func LongestResolutionIssue(issues []types.Issue) *types.LongestResolution {
	var longest *types.LongestResolution
	maxDays := 0
	for _, issue := range issues {
		days, ok := resolutionDays(issue)
		if !ok || days <= maxDays {
			continue
		}
		maxDays = days
		longest = &types.LongestResolution{
			Key:            issue.Key,
			Summary:        issue.Summary,
			Priority:       issue.Priority,
			ResolutionDays: days,
			Created:        issue.Created,
			Updated:        issue.Updated,
		}
	}
	return longest
}

// SprintDetailedMetrics bundles the per-sprint aggregations over the
// sprint's resolved bugs
func SprintDetailedMetrics(issues []types.Issue) types.SprintMetrics {
	return types.SprintMetrics{
		TotalIssues:          len(issues),
		Resolution:           CalculateResolutionMetrics(issues),
		Longest:              LongestResolutionIssue(issues),
		PriorityDistribution: CalculatePriorityDistribution(issues),
	}
}

// SummarizeIssue converts an issue into the record rendered in reports
func SummarizeIssue(issue types.Issue) types.IssueSummary {
	days, _ := resolutionDays(issue)
	return types.IssueSummary{
		ID:             issue.ID,
		Key:            issue.Key,
		Summary:        issue.Summary,
		Priority:       issue.Priority,
		Created:        issue.Created,
		Updated:        issue.Updated,
		ResolutionDays: days,
	}
}

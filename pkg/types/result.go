package types

import (
	"time"
)

// ResolutionMetrics aggregates issue resolution times in whole days
type ResolutionMetrics struct {
	Count   int
	AvgDays float64
	MaxDays int
	MinDays int
}

// PriorityClass buckets free-text tracker priorities for reporting
type PriorityClass string

const (
	PriorityCritical PriorityClass = "critical"
	PriorityMajor    PriorityClass = "major"
	PriorityMinor    PriorityClass = "minor"
)

// PriorityDistribution counts issues per priority bucket. Total always
// equals the number of classified issues.
type PriorityDistribution struct {
	Critical int
	Major    int
	Minor    int
	Total    int
}

// LongestResolution identifies the issue that took longest to resolve
type LongestResolution struct {
	Key            string
	Summary        string
	Priority       string
	ResolutionDays int
	Created        time.Time
	Updated        time.Time
}

// IssueSummary is the per-issue record carried into sprint results
type IssueSummary struct {
	ID             string
	Key            string
	Summary        string
	Priority       string
	Created        time.Time
	Updated        time.Time
	ResolutionDays int
}

// SprintMetrics bundles the aggregations computed over a sprint's
// resolved bugs
type SprintMetrics struct {
	TotalIssues          int
	Resolution           ResolutionMetrics
	Longest              *LongestResolution
	PriorityDistribution PriorityDistribution
}

// SprintResult is the complete analysis outcome for one sprint.
// MergedPRs is nil when code activity was not collected for the sprint.
type SprintResult struct {
	Sprint          Sprint
	Issues          []IssueSummary
	IssueCount      int
	Metrics         SprintMetrics
	StatusDurations map[string]time.Duration
	MergedPRs       *int
}

// BoardResult groups the sprint results of one board
type BoardResult struct {
	Board       Board
	Sprints     []SprintResult
	TotalIssues int
}

// Problem records a per-item failure tolerated during analysis instead
// of aborting the run
type Problem struct {
	Stage   string
	Ref     string
	Message string
}

// ProjectResult is the root of the analysis result tree for a project.
// TotalResolution is computed over the concatenation of every sprint's
// resolved-bug set, not over per-sprint averages.
type ProjectResult struct {
	Project         string
	Filter          SprintFilter
	Boards          []BoardResult
	TotalIssues     int
	TotalResolution ResolutionMetrics
	Problems        []Problem
}

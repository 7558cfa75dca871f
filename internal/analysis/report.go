package analysis

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sprintlens/sprintlens/pkg/types"
)

const reportDateLayout = "2006-01-02"

// Render turns a project result into a plain-text report. Output is
// deterministic for a given result: sections follow result order and
// status keys are sorted ascending.
func Render(result types.ProjectResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "=== Sprint Analysis Report for Project: %s ===\n", result.Project)
	fmt.Fprintf(&b, "Total Issues Analyzed: %d\n", result.TotalIssues)

	renderFilter(&b, result.Filter)

	if result.TotalResolution.Count > 0 {
		fmt.Fprintf(&b, "Average Resolution Time: %.1f days\n", result.TotalResolution.AvgDays)
		fmt.Fprintf(&b, "Max Resolution Time: %d days\n", result.TotalResolution.MaxDays)
		fmt.Fprintf(&b, "Min Resolution Time: %d days\n", result.TotalResolution.MinDays)
	}

	if len(result.Boards) == 0 {
		fmt.Fprintf(&b, "\nNo scrum boards found for project %s\n", result.Project)
	} else {
		b.WriteString("\n=== Board Details ===\n")
		for _, board := range result.Boards {
			renderBoard(&b, board)
		}
	}

	if len(result.Problems) > 0 {
		fmt.Fprintf(&b, "\nDiagnostics: %d problem(s) during analysis\n", len(result.Problems))
		for _, p := range result.Problems {
			fmt.Fprintf(&b, "  [%s] %s: %s\n", p.Stage, p.Ref, p.Message)
		}
	}

	return b.String()
}

// renderFilter echoes the active filter so a reader can tell which
// sprints the numbers cover. Nothing is printed when no filter is set.
func renderFilter(b *strings.Builder, filter types.SprintFilter) {
	if filter.IsZero() {
		return
	}
	b.WriteString("Filter Configuration:\n")
	if filter.DateRange.Enabled {
		fmt.Fprintf(b, "  Date Range: %s to %s\n",
			filter.DateRange.Start.Format(reportDateLayout),
			filter.DateRange.End.Format(reportDateLayout))
	}
	if len(filter.States) > 0 {
		fmt.Fprintf(b, "  Sprint States: %s\n", strings.Join(filter.States, ", "))
	}
	if len(filter.SprintIDs) > 0 {
		fmt.Fprintf(b, "  Specific Sprint IDs: %v\n", filter.SprintIDs)
	}
}

func renderBoard(b *strings.Builder, board types.BoardResult) {
	fmt.Fprintf(b, "\nBoard: %s (ID: %d)\n", board.Board.Name, board.Board.ID)
	fmt.Fprintf(b, "Total Issues: %d\n", board.TotalIssues)

	if len(board.Sprints) == 0 {
		b.WriteString("  No sprints matched the filter configuration\n")
		return
	}
	for _, sprint := range board.Sprints {
		renderSprint(b, sprint)
	}
}

func renderSprint(b *strings.Builder, sprint types.SprintResult) {
	fmt.Fprintf(b, "\n  Sprint: %s (%s) - %d issues\n",
		sprint.Sprint.Name, sprint.Sprint.State, sprint.IssueCount)

	if sprint.IssueCount == 0 {
		fmt.Fprintf(b, "    No resolved bugs found for sprint %s\n", sprint.Sprint.Name)
	}

	if dist := sprint.Metrics.PriorityDistribution; dist.Total > 0 {
		b.WriteString("    Priority Distribution:\n")
		fmt.Fprintf(b, "      Critical: %d\n", dist.Critical)
		fmt.Fprintf(b, "      Major: %d\n", dist.Major)
		fmt.Fprintf(b, "      Minor: %d\n", dist.Minor)
	}

	if longest := sprint.Metrics.Longest; longest != nil {
		fmt.Fprintf(b, "    Longest Resolution: %s - %d days\n", longest.Key, longest.ResolutionDays)
		fmt.Fprintf(b, "      Summary: %s\n", longest.Summary)
		fmt.Fprintf(b, "      Priority: %s\n", orNone(longest.Priority))
	}

	if res := sprint.Metrics.Resolution; res.Count > 0 {
		b.WriteString("    Resolution Metrics:\n")
		fmt.Fprintf(b, "      Average: %.1f days\n", res.AvgDays)
		fmt.Fprintf(b, "      Max: %d days\n", res.MaxDays)
		fmt.Fprintf(b, "      Min: %d days\n", res.MinDays)
	} else if sprint.IssueCount > 0 {
		b.WriteString("    No resolution data available\n")
	}

	if sprint.MergedPRs != nil {
		fmt.Fprintf(b, "    Merged Pull Requests: %d\n", *sprint.MergedPRs)
	}

	if len(sprint.StatusDurations) > 0 {
		b.WriteString("    Status Deltas:\n")
		for _, status := range sortedStatuses(sprint.StatusDurations) {
			fmt.Fprintf(b, "      %s: %d days\n", status, wholeDays(sprint.StatusDurations[status]))
		}
	} else {
		b.WriteString("    No status transitions recorded\n")
	}
}

func sortedStatuses(durations map[string]time.Duration) []string {
	statuses := make([]string, 0, len(durations))
	for status := range durations {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	return statuses
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}

package analysis

import (
	"fmt"
	"strings"

	"github.com/sprintlens/sprintlens/pkg/types"
)

// SelectSprints applies the filter to a board's sprints, preserving
// input order. A sprint whose data cannot be evaluated against the
// filter is excluded and reported as a problem rather than passed
// through.
func SelectSprints(sprints []types.Sprint, filter types.SprintFilter) ([]types.Sprint, []types.Problem) {
	var kept []types.Sprint
	var problems []types.Problem
	for _, sprint := range sprints {
		ok, err := sprintMatches(sprint, filter)
		if err != nil {
			problems = append(problems, types.Problem{
				Stage:   "filter",
				Ref:     fmt.Sprintf("sprint %d", sprint.ID),
				Message: err.Error(),
			})
			continue
		}
		if ok {
			kept = append(kept, sprint)
		}
	}
	return kept, problems
}

// sprintMatches evaluates the filter criteria in precedence order: an
// explicit id allow-list decides alone, otherwise the date range and
// state checks must both pass.
func sprintMatches(sprint types.Sprint, filter types.SprintFilter) (bool, error) {
	if len(filter.SprintIDs) > 0 {
		for _, id := range filter.SprintIDs {
			if id == sprint.ID {
				return true, nil
			}
		}
		return false, nil
	}
	if filter.DateRange.Enabled {
		ok, err := sprintOverlapsRange(sprint, filter)
		if err != nil || !ok {
			return false, err
		}
	}
	if len(filter.States) > 0 && !stateMatches(sprint.State, filter.States) {
		return false, nil
	}
	return true, nil
}

// sprintOverlapsRange checks inclusive overlap between the sprint span
// and the filter range: spans that merely touch a boundary count as
// overlapping. Sprints without an end date are included only when the
// filter says so.
func sprintOverlapsRange(sprint types.Sprint, filter types.SprintFilter) (bool, error) {
	if sprint.EndDate == nil {
		return filter.IncludeNoEndDate, nil
	}
	if sprint.StartDate.IsZero() {
		return false, fmt.Errorf("sprint %d has an end date but no start date", sprint.ID)
	}
	overlaps := !sprint.StartDate.After(filter.DateRange.End) &&
		!sprint.EndDate.Before(filter.DateRange.Start)
	return overlaps, nil
}

func stateMatches(state string, states []string) bool {
	for _, want := range states {
		if strings.EqualFold(state, want) {
			return true
		}
	}
	return false
}

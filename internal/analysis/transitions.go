package analysis

import (
	"sort"
	"time"

	"github.com/sprintlens/sprintlens/pkg/types"
)

// StatusDurations turns an issue's changelog into accumulated time per
// workflow status. Only entries that change status and fall inside the
// window participate; entries outside the window are dropped entirely,
// not clipped. Each adjacent pair of the remaining entries, ordered by
// timestamp, credits the gap between them to the status the later entry
// transitioned out of. A status an issue occupied more than once
// accumulates across all visits.
func StatusDurations(entries []types.ChangelogEntry, window types.Window) map[string]time.Duration {
	changes := make([]types.ChangelogEntry, 0, len(entries))
	for _, entry := range entries {
		if _, ok := entry.StatusItem(); !ok {
			continue
		}
		if !window.Contains(entry.Created) {
			continue
		}
		changes = append(changes, entry)
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Created.Before(changes[j].Created)
	})

	durations := make(map[string]time.Duration)
	for i := 1; i < len(changes); i++ {
		item, _ := changes[i].StatusItem()
		status := item.OriginStatus()
		if status == "" {
			continue
		}
		durations[status] += changes[i].Created.Sub(changes[i-1].Created)
	}
	return durations
}

// AverageStatusDurations averages per-issue status durations. Only
// issues that actually passed through a status count toward that
// status's denominator.
func AverageStatusDurations(perIssue []map[string]time.Duration) map[string]time.Duration {
	sums := make(map[string]time.Duration)
	counts := make(map[string]int)
	for _, durations := range perIssue {
		for status, d := range durations {
			sums[status] += d
			counts[status]++
		}
	}
	averages := make(map[string]time.Duration, len(sums))
	for status, sum := range sums {
		averages[status] = sum / time.Duration(counts[status])
	}
	return averages
}

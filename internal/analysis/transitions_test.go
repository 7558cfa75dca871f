package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprintlens/sprintlens/pkg/types"
)

func at(hour int) time.Time {
	return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(hour) * time.Hour)
}

func entry(created time.Time, items ...types.ChangelogItem) types.ChangelogEntry {
	return types.ChangelogEntry{Created: created, Items: items}
}

func statusChange(fromID, fromName, toID, toName string) types.ChangelogItem {
	return types.ChangelogItem{
		Field:    "status",
		FieldID:  types.StatusFieldID,
		From:     fromID,
		FromText: fromName,
		To:       toID,
		ToText:   toName,
	}
}

func fieldChange(field, from, to string) types.ChangelogItem {
	return types.ChangelogItem{Field: field, FieldID: field, From: from, To: to}
}

func TestStatusDurationsTwoEntries(t *testing.T) {
	// A->B at hour 0, B->C at hour 48: B is credited the 48h between them.
	entries := []types.ChangelogEntry{
		entry(at(0), statusChange("1", "To Do", "2", "In Progress")),
		entry(at(48), statusChange("2", "In Progress", "3", "Done")),
	}

	durations := StatusDurations(entries, types.Window{})

	require.Len(t, durations, 1)
	assert.Equal(t, 48*time.Hour, durations["2"])
}

func TestStatusDurationsCountsEveryAdjacentPair(t *testing.T) {
	entries := []types.ChangelogEntry{
		entry(at(0), statusChange("1", "To Do", "2", "In Progress")),
		entry(at(10), statusChange("2", "In Progress", "3", "In Review")),
		entry(at(34), statusChange("3", "In Review", "4", "Done")),
	}

	durations := StatusDurations(entries, types.Window{})

	assert.Equal(t, map[string]time.Duration{
		"2": 10 * time.Hour,
		"3": 24 * time.Hour,
	}, durations)
}

func TestStatusDurationsAccumulatesRepeatVisits(t *testing.T) {
	// The issue bounces back into status 2; both stays must add up.
	entries := []types.ChangelogEntry{
		entry(at(0), statusChange("1", "To Do", "2", "In Progress")),
		entry(at(5), statusChange("2", "In Progress", "3", "In Review")),
		entry(at(8), statusChange("3", "In Review", "2", "In Progress")),
		entry(at(20), statusChange("2", "In Progress", "4", "Done")),
	}

	durations := StatusDurations(entries, types.Window{})

	assert.Equal(t, map[string]time.Duration{
		"2": 17 * time.Hour,
		"3": 3 * time.Hour,
	}, durations)
}

func TestStatusDurationsIgnoresNonStatusEntries(t *testing.T) {
	entries := []types.ChangelogEntry{
		entry(at(0), statusChange("1", "To Do", "2", "In Progress")),
		entry(at(3), fieldChange("assignee", "alice", "bob")),
		entry(at(12), statusChange("2", "In Progress", "3", "Done")),
	}

	durations := StatusDurations(entries, types.Window{})

	assert.Equal(t, map[string]time.Duration{"2": 12 * time.Hour}, durations,
		"non-status entries must not act as pair boundaries")
}

func TestStatusDurationsSortsUnorderedEntries(t *testing.T) {
	entries := []types.ChangelogEntry{
		entry(at(34), statusChange("3", "In Review", "4", "Done")),
		entry(at(0), statusChange("1", "To Do", "2", "In Progress")),
		entry(at(10), statusChange("2", "In Progress", "3", "In Review")),
	}

	durations := StatusDurations(entries, types.Window{})

	assert.Equal(t, map[string]time.Duration{
		"2": 10 * time.Hour,
		"3": 24 * time.Hour,
	}, durations)
}

func TestStatusDurationsWindowDropsOutsideEntries(t *testing.T) {
	windowStart := at(6)
	windowEnd := at(40)
	entries := []types.ChangelogEntry{
		entry(at(0), statusChange("1", "To Do", "2", "In Progress")),
		entry(at(10), statusChange("2", "In Progress", "3", "In Review")),
		entry(at(34), statusChange("3", "In Review", "4", "Done")),
		entry(at(50), statusChange("4", "Done", "5", "Reopened")),
	}

	durations := StatusDurations(entries, types.Window{Start: windowStart, End: &windowEnd})

	// Entries at hours 0 and 50 are dropped, not clipped: only the
	// 10->34 pair remains.
	assert.Equal(t, map[string]time.Duration{"3": 24 * time.Hour}, durations)
}

func TestStatusDurationsSkipsUnresolvableOrigin(t *testing.T) {
	entries := []types.ChangelogEntry{
		entry(at(0), statusChange("1", "To Do", "2", "In Progress")),
		entry(at(10), statusChange("", "", "3", "In Review")),
		entry(at(16), statusChange("3", "In Review", "4", "Done")),
	}

	durations := StatusDurations(entries, types.Window{})

	// The hour-10 entry cannot be credited but still bounds the next pair.
	assert.Equal(t, map[string]time.Duration{"3": 6 * time.Hour}, durations)
}

func TestStatusDurationsFallsBackToReadableName(t *testing.T) {
	entries := []types.ChangelogEntry{
		entry(at(0), statusChange("1", "To Do", "", "In Progress")),
		entry(at(9), types.ChangelogItem{Field: "Status", FromText: "In Progress", ToText: "Done"}),
	}

	durations := StatusDurations(entries, types.Window{})

	assert.Equal(t, map[string]time.Duration{"In Progress": 9 * time.Hour}, durations)
}

func TestStatusDurationsDegenerateInputs(t *testing.T) {
	assert.Empty(t, StatusDurations(nil, types.Window{}))

	single := []types.ChangelogEntry{
		entry(at(0), statusChange("1", "To Do", "2", "In Progress")),
	}
	assert.Empty(t, StatusDurations(single, types.Window{}),
		"a single transition has no pair to measure")
}

func TestAverageStatusDurationsCountsContributorsOnly(t *testing.T) {
	perIssue := []map[string]time.Duration{
		{"2": 4 * day},
		{"2": 2 * day, "3": 3 * day},
		{},
	}

	averages := AverageStatusDurations(perIssue)

	// Status 3 was visited by one issue out of three; its average is
	// divided by one, not three.
	assert.Equal(t, map[string]time.Duration{
		"2": 3 * day,
		"3": 3 * day,
	}, averages)
}

package types

import (
	"time"
)

// Board represents an agile board attached to a project
type Board struct {
	ID   int
	Name string
	Type string
}

// Sprint represents a time-boxed iteration fetched from the tracker.
// An open-ended sprint carries a nil EndDate.
type Sprint struct {
	ID            int
	Name          string
	State         string
	Goal          string
	StartDate     time.Time
	EndDate       *time.Time
	CompleteDate  *time.Time
	OriginBoardID int
}

// Window returns the sprint's inclusive time span
func (s Sprint) Window() Window {
	return Window{Start: s.StartDate, End: s.EndDate}
}

// Window is an inclusive time span. A zero Start means no lower bound,
// a nil End means no upper bound.
type Window struct {
	Start time.Time
	End   *time.Time
}

// Contains reports whether t falls inside the window, boundaries included
func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if w.End != nil && t.After(*w.End) {
		return false
	}
	return true
}

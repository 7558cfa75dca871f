package types

import (
	"errors"
	"fmt"
	"time"
)

// DateRange is an inclusive overlap window applied to sprint spans
type DateRange struct {
	Enabled bool
	Start   time.Time
	End     time.Time
}

// SprintFilter narrows the sprints of a board before analysis. A
// non-empty SprintIDs list is the sole criterion and overrides the date
// range and state checks. When no criterion is configured every sprint
// passes.
type SprintFilter struct {
	SprintIDs        []int
	DateRange        DateRange
	States           []string
	IncludeNoEndDate bool
}

// IsZero reports whether no filter criteria are configured
func (f SprintFilter) IsZero() bool {
	return len(f.SprintIDs) == 0 && !f.DateRange.Enabled && len(f.States) == 0
}

// Validate reports filter configuration errors. These must surface
// before any tracker data is fetched.
func (f SprintFilter) Validate() error {
	if !f.DateRange.Enabled {
		return nil
	}
	if f.DateRange.Start.IsZero() || f.DateRange.End.IsZero() {
		return errors.New("enabled date range requires both start and end")
	}
	if f.DateRange.Start.After(f.DateRange.End) {
		return fmt.Errorf("date range start %s is after end %s",
			f.DateRange.Start.Format(time.RFC3339), f.DateRange.End.Format(time.RFC3339))
	}
	return nil
}

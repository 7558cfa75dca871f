package types

import (
	"time"
)

// Issue is a read-only snapshot of a tracker issue carrying the fields
// the analysis needs. Issues are always fetched per sprint, so sprint
// membership is implicit and not stored.
type Issue struct {
	ID       string
	Key      string
	Summary  string
	Type     string
	Status   string
	Priority string
	Created  time.Time
	Updated  time.Time
}

package types

import (
	"strings"
	"time"
)

// StatusFieldID is the tracker field identifier for workflow status
const StatusFieldID = "status"

// ChangelogEntry is one timestamped group of field changes on an issue
type ChangelogEntry struct {
	ID      string
	Author  string
	Created time.Time
	Items   []ChangelogItem
}

// ChangelogItem is a single field change within a changelog entry.
// From and To hold the raw tracker values (status ids for status
// changes), FromText and ToText the readable names.
type ChangelogItem struct {
	Field    string
	FieldID  string
	From     string
	FromText string
	To       string
	ToText   string
}

// IsStatus reports whether the item records a workflow-status change.
// The field id is authoritative when present; older tracker versions
// omit it, in which case the readable field name is matched instead.
func (i ChangelogItem) IsStatus() bool {
	if i.FieldID != "" {
		return i.FieldID == StatusFieldID
	}
	return strings.EqualFold(i.Field, StatusFieldID)
}

// OriginStatus returns the status the issue transitioned out of: the
// raw id when present, else the readable name. Empty when neither is
// resolvable.
func (i ChangelogItem) OriginStatus() string {
	if i.From != "" {
		return i.From
	}
	return i.FromText
}

// StatusItem returns the entry's first workflow-status change, if any
func (e ChangelogEntry) StatusItem() (ChangelogItem, bool) {
	for _, item := range e.Items {
		if item.IsStatus() {
			return item, true
		}
	}
	return ChangelogItem{}, false
}

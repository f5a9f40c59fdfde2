// Package event implements the per-table change feed and the realtime sync
// primitives built on top of it.
package event

import "time"

// ChangeType identifies the kind of row change a notification carries.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
)

// ChangeEvent is one change notification for a table. New carries the row
// image after the change (insert/update); Old carries the image before it
// (update/delete). Row images are typed values when delivered in-process and
// raw JSON when relayed through Redis.
type ChangeEvent struct {
	Table     string     `json:"table"`
	Type      ChangeType `json:"type"`
	New       any        `json:"new,omitempty"`
	Old       any        `json:"old,omitempty"`
	Timestamp int64      `json:"timestamp"`
}

// NewChangeEvent builds a change event stamped with the current time.
func NewChangeEvent(table string, changeType ChangeType, newRow, oldRow any) ChangeEvent {
	return ChangeEvent{
		Table:     table,
		Type:      changeType,
		New:       newRow,
		Old:       oldRow,
		Timestamp: time.Now().UnixNano(),
	}
}

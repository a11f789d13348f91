// Package models defines server-side data models persisted in the database.
package models

import "time"

// Snapshot triggers. Manual snapshots come from an explicit user action;
// the pre_* triggers mark automatic safety snapshots taken right before a
// risky operation.
const (
	TriggerManual        = "manual"
	TriggerPreImport     = "pre_import"
	TriggerPreRestore    = "pre_restore"
	TriggerPreBulkDelete = "pre_bulk_delete"
)

// ValidTrigger reports whether s is one of the known snapshot triggers.
func ValidTrigger(s string) bool {
	switch s {
	case TriggerManual, TriggerPreImport, TriggerPreRestore, TriggerPreBulkDelete:
		return true
	}
	return false
}

// Snapshot is an immutable point-in-time copy of a profile's journey
// document. Only the label may change after creation.
type Snapshot struct {
	ID      string
	OwnerID string
	Trigger string
	Label   string

	// State is the serialized journey document. The recovery core never
	// parses it.
	State []byte
	// ClientState is an optional JSON fragment supplied by the client at
	// capture time (overlay annotations, display style, goal list).
	ClientState []byte

	CreatedAt time.Time
}

// SnapshotSummary is the listing projection: everything but the payloads.
type SnapshotSummary struct {
	ID        string
	Trigger   string
	Label     string
	CreatedAt time.Time
}

package models

import "time"

// RecoverableKind discriminates the child-record tables that support
// soft delete with a grace period.
type RecoverableKind string

const (
	KindNote             RecoverableKind = "note"
	KindSavedItem        RecoverableKind = "saved_item"
	KindTraitObservation RecoverableKind = "trait_observation"
)

// ValidKind reports whether k names a known recoverable kind.
func ValidKind(k RecoverableKind) bool {
	switch k {
	case KindNote, KindSavedItem, KindTraitObservation:
		return true
	}
	return false
}

// RecoverableRecord is the kind-independent view of a soft-deletable child
// record. Label and Detail are per-kind projections of the record's own
// fields (title/content for notes, title for saved items, trait and
// observation text for trait observations).
type RecoverableRecord struct {
	ID      string
	OwnerID string
	Kind    RecoverableKind
	Label   string
	Detail  string

	// DeletedAt is nil for live records. All normal reads exclude records
	// where it is set.
	DeletedAt *time.Time
}

// DeletedRecord annotates a soft-deleted record with the days remaining in
// its grace window, clamped at zero.
type DeletedRecord struct {
	RecoverableRecord
	DaysLeft int
}

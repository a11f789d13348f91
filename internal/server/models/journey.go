package models

import "time"

// Journey is the live, mutable planning document of one profile. State is
// an opaque serialized blob; ClientState holds the structured client-side
// fields linked to it.
type Journey struct {
	OwnerID     string
	State       []byte
	ClientState []byte
	UpdatedAt   time.Time
}

// Package journeys persists the live journey document, one row per profile.
package journeys

import (
	"context"

	"github.com/mvoronova/journeykeeper/internal/server/models"
)

type Repository interface {
	// Get returns the profile's journey or common.ErrorNotFound.
	Get(ctx context.Context, ownerID string) (*models.Journey, error)

	// GetLocked is Get with an owner-scoped write lock so that concurrent
	// snapshot creates and restores for the same profile serialize. Must be
	// called inside a transaction.
	GetLocked(ctx context.Context, ownerID string) (*models.Journey, error)

	// SetState overwrites the document state. A nil clientState leaves the
	// stored client-state fragment untouched.
	SetState(ctx context.Context, ownerID string, state, clientState []byte) error
}

// Package secrets provides the storage facade for secret records: a
// PostgreSQL repository for production and an in-memory one for tests and
// development.
package secrets

import (
	"context"
	"time"

	"github.com/avolkovs/secretlink/internal/server/models"
)

// Repository is the thin CRUD facade the secret engine requires from the
// durable store. Owner-scoped operations return common.ErrorNotFound both
// for an absent id and for a record owned by someone else, so callers
// cannot probe for the existence of other owners' secrets.
type Repository interface {
	// Create persists a fully populated record.
	Create(ctx context.Context, secret *models.Secret) error

	// GetByID fetches a record regardless of owner (the public read path).
	GetByID(ctx context.Context, id string) (*models.Secret, error)

	// GetByIDForOwner fetches a record scoped strictly to ownerID.
	GetByIDForOwner(ctx context.Context, id string, ownerID string) (*models.Secret, error)

	// ListActiveForOwner returns the owner's non-expired records,
	// newest first by creation time.
	ListActiveForOwner(ctx context.Context, ownerID string, now time.Time) ([]*models.Secret, error)

	// Update applies a partial update scoped to ownerID.
	Update(ctx context.Context, id string, ownerID string, patch models.SecretPatch) error

	// MarkViewed unconditionally sets is_viewed and returns the updated
	// record. Idempotent; no expiry or prior-state re-check.
	MarkViewed(ctx context.Context, id string) (*models.Secret, error)

	// Delete removes a record. An empty ownerID is a system-triggered
	// delete (lazy expiry) and is not owner-scoped.
	Delete(ctx context.Context, id string, ownerID string) error
}

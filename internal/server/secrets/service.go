// Package secrets implements the secret lifecycle and access-control engine:
// encryption at rest, expiration and one-time-view semantics, the password
// gate, and the owner listing cache.
package secrets

import (
	"context"
	"fmt"
	"time"

	"github.com/avolkovs/secretlink/internal/common"
	"github.com/avolkovs/secretlink/internal/cryptox"
	"github.com/avolkovs/secretlink/internal/logging"
	"github.com/avolkovs/secretlink/internal/server/models"
	repo "github.com/avolkovs/secretlink/internal/server/repositories/secrets"
	"github.com/google/uuid"
)

type Service struct {
	repo       repo.Repository
	cipher     *cryptox.ContentCipher
	cache      *ListingCache
	logger     logging.Logger
	defaultTTL time.Duration
	now        func() time.Time
}

func NewService(r repo.Repository, cipher *cryptox.ContentCipher, cache *ListingCache, defaultTTL time.Duration, logger logging.Logger) *Service {
	return &Service{
		repo:       r,
		cipher:     cipher,
		cache:      cache,
		logger:     logger.With("module", "secrets"),
		defaultTTL: defaultTTL,
		now:        time.Now,
	}
}

// CreateRequest carries the fields of a new secret. A nil ExpiresAt defaults
// to the configured TTL from now; an empty Password means no gate.
type CreateRequest struct {
	Content   string
	IsOneTime bool
	ExpiresAt *time.Time
	Password  string
}

// UpdateRequest carries a partial update. Nil fields keep the stored values.
// Password: nil keeps the existing gate, a pointer to "" removes it, any
// other value replaces it.
type UpdateRequest struct {
	Content   *string
	IsOneTime *bool
	ExpiresAt *time.Time
	Password  *string
}

// Create encrypts and persists a new secret for ownerID and returns its id.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (string, error) {
	now := s.now()

	if req.Content == "" {
		return "", fmt.Errorf("%w: content must not be empty", common.ErrorValidation)
	}

	expiresAt := now.Add(s.defaultTTL)
	if req.ExpiresAt != nil {
		if !req.ExpiresAt.After(now) {
			return "", fmt.Errorf("%w: expiration must be in the future", common.ErrorValidation)
		}
		expiresAt = *req.ExpiresAt
	}

	ciphertext, iv, err := s.cipher.Encrypt(req.Content)
	if err != nil {
		s.logger.Error(ctx, "content encryption failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	var passwordHash *string
	if req.Password != "" {
		digest, err := cryptox.HashPassword(req.Password)
		if err != nil {
			s.logger.Error(ctx, "password hashing failed", "error", err.Error())
			return "", common.ErrorInternal
		}
		passwordHash = &digest
	}

	secret := &models.Secret{
		ID:               uuid.NewString(),
		EncryptedContent: ciphertext,
		ContentIV:        iv,
		IsOneTime:        req.IsOneTime,
		ExpiresAt:        expiresAt,
		Password:         passwordHash,
		CreatorID:        ownerID,
		CreatedAt:        now,
	}

	if err := s.repo.Create(ctx, secret); err != nil {
		s.logger.Error(ctx, "secret create failed", "error", err.Error())
		return "", common.ErrorInternal
	}

	s.cache.Invalidate(ownerID)
	s.logger.Info(ctx, "secret created", "id", secret.ID, "one_time", secret.IsOneTime)

	return secret.ID, nil
}

// Update applies a partial update to an owned secret. Expired and consumed
// secrets reject writes.
func (s *Service) Update(ctx context.Context, ownerID string, id string, req UpdateRequest) error {
	now := s.now()

	existing, err := s.repo.GetByIDForOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if existing.Expired(now) {
		return common.ErrorExpired
	}
	if existing.Consumed() {
		return common.ErrorConsumed
	}

	var patch models.SecretPatch

	if req.Content != nil {
		if *req.Content == "" {
			return fmt.Errorf("%w: content must not be empty", common.ErrorValidation)
		}
		ciphertext, iv, err := s.cipher.Encrypt(*req.Content)
		if err != nil {
			s.logger.Error(ctx, "content encryption failed", "error", err.Error())
			return common.ErrorInternal
		}
		patch.EncryptedContent = &ciphertext
		patch.ContentIV = &iv
	}

	if req.IsOneTime != nil {
		patch.IsOneTime = req.IsOneTime
	}

	if req.ExpiresAt != nil {
		if !req.ExpiresAt.After(now) {
			return fmt.Errorf("%w: expiration must be in the future", common.ErrorValidation)
		}
		patch.ExpiresAt = req.ExpiresAt
	}

	// An absent password field keeps the stored digest; an explicit empty
	// password removes the gate.
	if req.Password != nil {
		patch.SetPassword = true
		if *req.Password != "" {
			digest, err := cryptox.HashPassword(*req.Password)
			if err != nil {
				s.logger.Error(ctx, "password hashing failed", "error", err.Error())
				return common.ErrorInternal
			}
			patch.Password = &digest
		}
	}

	if err := s.repo.Update(ctx, id, ownerID, patch); err != nil {
		return err
	}

	s.cache.Invalidate(ownerID)
	s.logger.Info(ctx, "secret updated", "id", id)

	return nil
}

// Delete removes an owned secret. Absent and not-owned are indistinguishable.
func (s *Service) Delete(ctx context.Context, ownerID string, id string) error {
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		return err
	}

	s.cache.Invalidate(ownerID)
	s.logger.Info(ctx, "secret deleted", "id", id)

	return nil
}

// ListForOwner returns the owner's decrypted, non-expired secrets, newest
// first, served through the listing cache.
func (s *Service) ListForOwner(ctx context.Context, ownerID string) ([]models.SecretSummary, error) {
	if cached, ok := s.cache.Get(ownerID); ok {
		return cached, nil
	}

	records, err := s.repo.ListActiveForOwner(ctx, ownerID, s.now())
	if err != nil {
		s.logger.Error(ctx, "secret listing failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	summaries := make([]models.SecretSummary, 0, len(records))
	for _, r := range records {
		content, err := s.cipher.Decrypt(r.EncryptedContent, r.ContentIV)
		if err != nil {
			s.logger.Error(ctx, "content decryption failed", "id", r.ID, "error", err.Error())
			return nil, common.ErrorInternal
		}
		summaries = append(summaries, models.SecretSummary{
			ID:          r.ID,
			Content:     content,
			IsOneTime:   r.IsOneTime,
			IsViewed:    r.IsViewed,
			HasPassword: r.Password != nil,
			ExpiresAt:   r.ExpiresAt,
			CreatedAt:   r.CreatedAt,
		})
	}

	s.cache.Set(ownerID, summaries)

	return summaries, nil
}

package secrets

import (
	"context"
	"errors"

	"github.com/avolkovs/secretlink/internal/common"
	"github.com/avolkovs/secretlink/internal/cryptox"
	"github.com/avolkovs/secretlink/internal/server/models"
)

// Get runs the read-access state machine for a secret and, if it passes,
// returns the decrypted content with metadata.
//
// An expired record is deleted on the spot (lazy expiry); the deletion is
// unconditional and not reversible. A consumed one-time secret is left in
// place so the owner can still see its status in the listing. Reading does
// NOT flip IsViewed; consumption is the separate MarkViewed signal, so two
// concurrent reads of a one-time secret may both succeed.
func (s *Service) Get(ctx context.Context, id string, suppliedPassword string) (*models.SecretView, error) {
	secret, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		s.logger.Error(ctx, "secret fetch failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	if secret.Expired(s.now()) {
		if err := s.repo.Delete(ctx, id, ""); err != nil && !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, "lazy expiry delete failed", "id", id, "error", err.Error())
		}
		return nil, common.ErrorExpired
	}

	if secret.Consumed() {
		return nil, common.ErrorConsumed
	}

	if secret.Password != nil {
		if suppliedPassword == "" {
			return nil, common.ErrorPasswordRequired
		}
		ok, err := cryptox.VerifyPassword(suppliedPassword, *secret.Password)
		if err != nil {
			s.logger.Error(ctx, "password verification failed", "id", id, "error", err.Error())
			return nil, common.ErrorInternal
		}
		if !ok {
			return nil, common.ErrorInvalidPassword
		}
	}

	content, err := s.cipher.Decrypt(secret.EncryptedContent, secret.ContentIV)
	if err != nil {
		s.logger.Error(ctx, "content decryption failed", "id", id, "error", err.Error())
		return nil, common.ErrorInternal
	}

	return &models.SecretView{
		Content:   content,
		IsOneTime: secret.IsOneTime,
		IsViewed:  secret.IsViewed,
		ExpiresAt: secret.ExpiresAt,
		CreatedAt: secret.CreatedAt,
	}, nil
}

// MarkViewed unconditionally flags the secret as viewed and invalidates the
// owner's listing cache. Idempotent; it does not re-check expiration or
// prior viewed state.
func (s *Service) MarkViewed(ctx context.Context, id string) (*models.Secret, error) {
	secret, err := s.repo.MarkViewed(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		s.logger.Error(ctx, "mark viewed failed", "id", id, "error", err.Error())
		return nil, common.ErrorInternal
	}

	if secret.CreatorID != "" {
		s.cache.Invalidate(secret.CreatorID)
	}

	return secret, nil
}

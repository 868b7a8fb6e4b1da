package secrets

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/avolkovs/secretlink/internal/common"
	"github.com/avolkovs/secretlink/internal/server/models"
)

// Compile-time interface check.
var _ Repository = (*InMemoryRepository)(nil)

// InMemoryRepository keeps secrets in a mutex-guarded map. It mirrors the
// postgres repository's semantics and backs tests and the dev store mode.
type InMemoryRepository struct {
	mu      sync.RWMutex
	secrets map[string]*models.Secret
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{secrets: make(map[string]*models.Secret)}
}

func (r *InMemoryRepository) Create(ctx context.Context, secret *models.Secret) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *secret
	r.secrets[secret.ID] = &cp
	return nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.Secret, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.secrets[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *InMemoryRepository) GetByIDForOwner(ctx context.Context, id string, ownerID string) (*models.Secret, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.secrets[id]
	if !ok || s.CreatorID != ownerID {
		return nil, common.ErrorNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *InMemoryRepository) ListActiveForOwner(ctx context.Context, ownerID string, now time.Time) ([]*models.Secret, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Secret
	for _, s := range r.secrets {
		if s.CreatorID != ownerID || !s.ExpiresAt.After(now) {
			continue
		}
		cp := *s
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *InMemoryRepository) Update(ctx context.Context, id string, ownerID string, patch models.SecretPatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.secrets[id]
	if !ok || s.CreatorID != ownerID {
		return common.ErrorNotFound
	}

	if patch.EncryptedContent != nil {
		s.EncryptedContent = *patch.EncryptedContent
		s.ContentIV = *patch.ContentIV
	}
	if patch.IsOneTime != nil {
		s.IsOneTime = *patch.IsOneTime
	}
	if patch.ExpiresAt != nil {
		s.ExpiresAt = *patch.ExpiresAt
	}
	if patch.SetPassword {
		s.Password = patch.Password
	}
	return nil
}

func (r *InMemoryRepository) MarkViewed(ctx context.Context, id string) (*models.Secret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.secrets[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	s.IsViewed = true
	cp := *s
	return &cp, nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, id string, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.secrets[id]
	if !ok {
		return common.ErrorNotFound
	}
	if ownerID != "" && s.CreatorID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.secrets, id)
	return nil
}

package store

import (
	"context"
	"time"

	"budget/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CredentialStore struct{ db *gorm.DB }

func (s *Store) Credentials() *CredentialStore { return &CredentialStore{s.DB} }

func (cs *CredentialStore) CreatePassword(ctx context.Context, c *domain.PasswordCredential) error {
	now := time.Now().UTC()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	return translate(cs.db.WithContext(ctx).Create(c).Error)
}

func (cs *CredentialStore) GetPasswordByUserID(ctx context.Context, userID uuid.UUID) (*domain.PasswordCredential, error) {
	var out domain.PasswordCredential
	if err := cs.db.WithContext(ctx).First(&out, "user_id = ?", userID).Error; err != nil {
		return nil, translate(err)
	}
	return &out, nil
}

// UpdatePassword rewrites the stored hash, salt and parameters of c.
func (cs *CredentialStore) UpdatePassword(ctx context.Context, c *domain.PasswordCredential) error {
	return Records[domain.PasswordCredential]{db: cs.db}.Save(ctx, c)
}

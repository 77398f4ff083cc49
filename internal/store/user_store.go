package store

import (
	"context"
	"strings"

	"budget/internal/domain"

	"github.com/google/uuid"
)

type UserStore struct {
	Records[domain.User]
}

func (s *Store) Users() *UserStore { return &UserStore{Records[domain.User]{db: s.DB}} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	usr.Email = strings.ToLower(strings.TrimSpace(usr.Email))
	return u.Records.Create(ctx, usr)
}

func (u *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.Get(ctx, id)
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

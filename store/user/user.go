package user

import (
	"context"

	"cardmarket/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type userStore struct {
	db *db.DB
}

// New new user store
func New(db *db.DB) core.UserStore {
	return &userStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.User{})

		if err := tx.AutoMigrate(core.User{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *userStore) Create(ctx context.Context, user *core.User) error {
	return s.db.Update().Where("address = ?", user.Address).FirstOrCreate(user).Error
}

func (s *userStore) Find(ctx context.Context, id int64) (*core.User, error) {
	var user core.User
	err := s.db.View().Where("id = ?", id).First(&user).Error
	if store.IsErrNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) FindByAddress(ctx context.Context, address string) (*core.User, error) {
	var user core.User
	err := s.db.View().Where("address = ?", address).First(&user).Error
	if store.IsErrNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) FindByToken(ctx context.Context, token string) (*core.User, error) {
	var user core.User
	err := s.db.View().Where("access_token = ?", token).First(&user).Error
	if store.IsErrNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userStore) UpdateToken(ctx context.Context, user *core.User, token string) error {
	if err := s.db.Update().Model(user).Update("access_token", token).Error; err != nil {
		return err
	}

	user.AccessToken = token
	return nil
}

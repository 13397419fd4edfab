package user

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type userStore struct {
	db *db.DB
}

// New new user store
func New(db *db.DB) core.UserStore {
	return &userStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.User{})

		if err := tx.AutoMigrate(core.User{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_users_user_id", "user_id").Error; err != nil {
			return err
		}

		return nil
	})
}

// Save creates the user or updates its collateral mint
func (s *userStore) Save(ctx context.Context, user *core.User) error {
	return s.db.Tx(func(tx *db.DB) error {
		var existing core.User
		err := tx.Update().Where("user_id = ?", user.UserID).First(&existing).Error
		if store.IsErrNotFound(err) {
			return tx.Update().Create(user).Error
		} else if err != nil {
			return err
		}

		update := tx.Update().Model(&existing).Where("version = ?", existing.Version).
			Updates(map[string]interface{}{
				"collateral_mint": user.CollateralMint,
				"version":         existing.Version + 1,
			})
		if update.Error != nil {
			return update.Error
		}

		if update.RowsAffected == 0 {
			return db.ErrOptimisticLock
		}

		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
		user.Version = existing.Version + 1
		return nil
	})
}

func (s *userStore) Find(ctx context.Context, userID string) (*core.User, error) {
	var user core.User

	err := s.db.View().Where("user_id = ?", userID).First(&user).Error
	if store.IsErrNotFound(err) {
		return &core.User{}, nil
	}
	return &user, err
}

package position

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.PositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("position_idx", "user_id", "mint").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Find(ctx context.Context, userID, mint string) (*core.Position, error) {
	var position core.Position
	if err := s.db.View().Where("user_id = ? AND mint = ?", userID, mint).First(&position).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.Position{UserID: userID, Mint: mint}, nil
		}

		return nil, err
	}

	return &position, nil
}

func (s *positionStore) FindByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := s.db.View().Where("user_id = ?", userID).Order("id").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

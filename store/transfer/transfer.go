package transfer

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store/db"
)

type transferStore struct {
	db *db.DB
}

// New new transfer store
func New(db *db.DB) core.TransferStore {
	return &transferStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transfer{})
		if err := tx.AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("trace_idx", "trace_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transferStore) ListPending(ctx context.Context, limit int) ([]*core.Transfer, error) {
	var transfers []*core.Transfer
	if err := s.db.View().
		Where("status = ?", core.TransferStatusPending).
		Order("id ASC").
		Limit(limit).
		Find(&transfers).Error; err != nil {
		return nil, err
	}

	return transfers, nil
}

func (s *transferStore) MarkDelivered(ctx context.Context, transfer *core.Transfer) error {
	if err := s.db.Update().Model(transfer).Where("status = ?", core.TransferStatusPending).
		Update("status", core.TransferStatusDelivered).Error; err != nil {
		return err
	}

	transfer.Status = core.TransferStatusDelivered
	return nil
}

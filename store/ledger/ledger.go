package ledger

import (
	"context"

	"lending/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type ledgerStore struct {
	db *db.DB
}

// New new ledger store
func New(db *db.DB) core.LedgerStore {
	return &ledgerStore{db: db}
}

func (s *ledgerStore) Commit(ctx context.Context, cs *core.Changeset) error {
	return s.db.Tx(func(tx *db.DB) error {
		for _, bank := range cs.Banks {
			if err := updateBank(tx, bank); err != nil {
				return err
			}
		}

		for _, position := range cs.Positions {
			if err := savePosition(tx, position); err != nil {
				return err
			}
		}

		if t := cs.Transaction; t != nil {
			if err := tx.Update().Create(t).Error; err != nil {
				return err
			}
		}

		for _, transfer := range cs.Transfers {
			transfer.Status = core.TransferStatusPending
			if err := tx.Update().Where("trace_id = ?", transfer.TraceID).FirstOrCreate(transfer).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func updateBank(tx *db.DB, bank *core.Bank) error {
	update := tx.Update().Model(core.Bank{}).
		Where("mint = ? AND version = ?", bank.Mint, bank.Version).
		Updates(map[string]interface{}{
			"total_deposits":        bank.TotalDeposits,
			"total_deposit_shares":  bank.TotalDepositShares,
			"total_borrowed":        bank.TotalBorrowed,
			"total_borrowed_shares": bank.TotalBorrowedShares,
			"reserves":              bank.Reserves,
			"last_updated":          bank.LastUpdated,
			"version":               gorm.Expr("version + 1"),
		})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return core.ErrVersionConflict
	}

	bank.Version++
	return nil
}

func savePosition(tx *db.DB, position *core.Position) error {
	if position.ID == 0 {
		var count int
		if err := tx.Update().Model(core.Position{}).
			Where("user_id = ? AND mint = ?", position.UserID, position.Mint).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return core.ErrVersionConflict
		}

		position.Version = 1
		return tx.Update().Create(position).Error
	}

	update := tx.Update().Model(core.Position{}).
		Where("id = ? AND version = ?", position.ID, position.Version).
		Updates(map[string]interface{}{
			"deposited_shares": position.DepositedShares,
			"borrowed_shares":  position.BorrowedShares,
			"version":          gorm.Expr("version + 1"),
		})
	if update.Error != nil {
		return update.Error
	}

	if update.RowsAffected == 0 {
		return core.ErrVersionConflict
	}

	position.Version++
	return nil
}

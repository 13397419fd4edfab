package transaction

import (
	"context"
	"time"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type transactionStore struct {
	db *db.DB
}

// New new transaction store
func New(db *db.DB) core.TransactionStore {
	return &transactionStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transaction{})
		if err := tx.AutoMigrate(core.Transaction{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("idx_transactions_trace_id", "trace_id").Error; err != nil {
			return err
		}

		if err := tx.AddIndex("idx_transactions_user_id", "user_id").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transactionStore) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	var transaction core.Transaction
	if err := s.db.View().Where("trace_id = ?", traceID).First(&transaction).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.Transaction{}, nil
		}

		return nil, err
	}

	return &transaction, nil
}

func (s *transactionStore) List(ctx context.Context, userID string, offset time.Time, limit int) ([]*core.Transaction, error) {
	var transactions []*core.Transaction
	if limit <= 0 {
		limit = 500
	}

	query := s.db.View().Where("created_at >= ?", offset)
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}

	if err := query.Order("created_at ASC, id ASC").Limit(limit).Find(&transactions).Error; err != nil {
		return nil, err
	}

	return transactions, nil
}

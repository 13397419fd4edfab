package bank

import (
	"context"
	"strings"

	"lending/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type bankStore struct {
	db *db.DB
}

// New new bank store
func New(db *db.DB) core.BankStore {
	return &bankStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Bank{})
		if err := tx.AutoMigrate(core.Bank{}).Error; err != nil {
			return err
		}

		if err := tx.AddUniqueIndex("bank_mint_idx", "mint").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *bankStore) Create(ctx context.Context, bank *core.Bank) error {
	err := s.db.Update().Create(bank).Error
	if err != nil && isDuplicate(err) {
		return core.ErrAlreadyExists
	}

	return err
}

func (s *bankStore) Find(ctx context.Context, mint string) (*core.Bank, error) {
	var bank core.Bank
	if err := s.db.View().Where("mint = ?", mint).First(&bank).Error; err != nil {
		if store.IsErrNotFound(err) {
			return &core.Bank{}, nil
		}

		return nil, err
	}

	return &bank, nil
}

func (s *bankStore) All(ctx context.Context) ([]*core.Bank, error) {
	var banks []*core.Bank
	if err := s.db.View().Order("id").Find(&banks).Error; err != nil {
		return nil, err
	}

	return banks, nil
}

// unique violations of mysql, postgres and sqlite
func isDuplicate(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// Package memory keeps every store in process memory.
//
// Used by the memory storage mode and by service tests. Values are copied
// on the way in and out so callers never share state with the store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"lending/core"
)

// DB in-memory backing state shared by all stores
type DB struct {
	mu sync.RWMutex

	seq          uint64
	banks        map[string]*core.Bank
	positions    map[string]*core.Position
	users        map[string]*core.User
	transactions []*core.Transaction
	transfers    []*core.Transfer

	now func() time.Time
}

// New new in-memory db
func New() *DB {
	return &DB{
		banks:     map[string]*core.Bank{},
		positions: map[string]*core.Position{},
		users:     map[string]*core.User{},
		now:       time.Now,
	}
}

func (d *DB) nextID() uint64 {
	d.seq++
	return d.seq
}

func positionKey(userID, mint string) string {
	return userID + ":" + mint
}

// Banks bank store
func (d *DB) Banks() core.BankStore { return &bankStore{d} }

// Positions position store
func (d *DB) Positions() core.PositionStore { return &positionStore{d} }

// Users user store
func (d *DB) Users() core.UserStore { return &userStore{d} }

// Transactions transaction store
func (d *DB) Transactions() core.TransactionStore { return &transactionStore{d} }

// Transfers transfer store
func (d *DB) Transfers() core.TransferStore { return &transferStore{d} }

// Ledger ledger store
func (d *DB) Ledger() core.LedgerStore { return &ledgerStore{d} }

type bankStore struct{ *DB }

func (s *bankStore) Create(ctx context.Context, bank *core.Bank) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.banks[bank.Mint]; ok {
		return core.ErrAlreadyExists
	}

	now := s.now()
	bank.ID = s.nextID()
	bank.CreatedAt = now
	bank.UpdatedAt = now
	s.banks[bank.Mint] = bank.Clone()
	return nil
}

func (s *bankStore) Find(ctx context.Context, mint string) (*core.Bank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if bank, ok := s.banks[mint]; ok {
		return bank.Clone(), nil
	}

	return &core.Bank{}, nil
}

func (s *bankStore) All(ctx context.Context) ([]*core.Bank, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	banks := make([]*core.Bank, 0, len(s.banks))
	for _, bank := range s.banks {
		banks = append(banks, bank.Clone())
	}

	sort.Slice(banks, func(i, j int) bool {
		return banks[i].ID < banks[j].ID
	})

	return banks, nil
}

type positionStore struct{ *DB }

func (s *positionStore) Find(ctx context.Context, userID, mint string) (*core.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if position, ok := s.positions[positionKey(userID, mint)]; ok {
		return position.Clone(), nil
	}

	return &core.Position{UserID: userID, Mint: mint}, nil
}

func (s *positionStore) FindByUser(ctx context.Context, userID string) ([]*core.Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var positions []*core.Position
	for _, position := range s.positions {
		if position.UserID == userID {
			positions = append(positions, position.Clone())
		}
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].ID < positions[j].ID
	})

	return positions, nil
}

type userStore struct{ *DB }

func (s *userStore) Save(ctx context.Context, user *core.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if existing, ok := s.users[user.UserID]; ok {
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
		user.Version = existing.Version + 1
	} else {
		user.ID = int64(s.nextID())
		user.CreatedAt = now
	}

	user.UpdatedAt = now
	clone := *user
	s.users[user.UserID] = &clone
	return nil
}

func (s *userStore) Find(ctx context.Context, userID string) (*core.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if user, ok := s.users[userID]; ok {
		clone := *user
		return &clone, nil
	}

	return &core.User{}, nil
}

type transactionStore struct{ *DB }

func (s *transactionStore) FindByTraceID(ctx context.Context, traceID string) (*core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.transactions {
		if t.TraceID == traceID {
			clone := *t
			return &clone, nil
		}
	}

	return &core.Transaction{}, nil
}

func (s *transactionStore) List(ctx context.Context, userID string, offset time.Time, limit int) ([]*core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 500
	}

	var transactions []*core.Transaction
	for _, t := range s.transactions {
		if len(transactions) >= limit {
			break
		}

		if t.CreatedAt.Before(offset) || (userID != "" && t.UserID != userID) {
			continue
		}

		clone := *t
		transactions = append(transactions, &clone)
	}

	return transactions, nil
}

type transferStore struct{ *DB }

func (s *transferStore) ListPending(ctx context.Context, limit int) ([]*core.Transfer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var transfers []*core.Transfer
	for _, t := range s.transfers {
		if len(transfers) >= limit {
			break
		}

		if t.Status == core.TransferStatusPending {
			clone := *t
			transfers = append(transfers, &clone)
		}
	}

	return transfers, nil
}

func (s *transferStore) MarkDelivered(ctx context.Context, transfer *core.Transfer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.transfers {
		if t.TraceID == transfer.TraceID {
			t.Status = core.TransferStatusDelivered
			t.UpdatedAt = s.now()
		}
	}

	transfer.Status = core.TransferStatusDelivered
	return nil
}

type ledgerStore struct{ *DB }

func (s *ledgerStore) Commit(ctx context.Context, cs *core.Changeset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(cs); err != nil {
		return err
	}

	now := s.now()

	for _, bank := range cs.Banks {
		bank.Version++
		bank.UpdatedAt = now
		s.banks[bank.Mint] = bank.Clone()
	}

	for _, position := range cs.Positions {
		if position.ID == 0 {
			position.ID = s.nextID()
			position.CreatedAt = now
		}

		position.Version++
		position.UpdatedAt = now
		s.positions[positionKey(position.UserID, position.Mint)] = position.Clone()
	}

	if t := cs.Transaction; t != nil {
		t.ID = int64(s.nextID())
		t.CreatedAt = now
		t.UpdatedAt = now
		clone := *t
		s.transactions = append(s.transactions, &clone)
	}

	for _, transfer := range cs.Transfers {
		if s.hasTransfer(transfer.TraceID) {
			continue
		}

		transfer.ID = s.nextID()
		transfer.Status = core.TransferStatusPending
		transfer.CreatedAt = now
		transfer.UpdatedAt = now
		clone := *transfer
		s.transfers = append(s.transfers, &clone)
	}

	return nil
}

// check validates versions and uniqueness before anything is written
func (s *ledgerStore) check(cs *core.Changeset) error {
	for _, bank := range cs.Banks {
		stored, ok := s.banks[bank.Mint]
		if !ok || stored.Version != bank.Version {
			return core.ErrVersionConflict
		}
	}

	for _, position := range cs.Positions {
		stored, ok := s.positions[positionKey(position.UserID, position.Mint)]
		if position.ID == 0 {
			if ok {
				return core.ErrVersionConflict
			}

			continue
		}

		if !ok || stored.Version != position.Version {
			return core.ErrVersionConflict
		}
	}

	if t := cs.Transaction; t != nil {
		for _, stored := range s.transactions {
			if stored.TraceID == t.TraceID {
				return core.ErrVersionConflict
			}
		}
	}

	return nil
}

func (s *ledgerStore) hasTransfer(traceID string) bool {
	for _, t := range s.transfers {
		if t.TraceID == traceID {
			return true
		}
	}

	return false
}

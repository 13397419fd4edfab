package core

import "context"

// Changeset every write produced by one request
type Changeset struct {
	Banks       []*Bank
	Positions   []*Position
	Transaction *Transaction
	Transfers   []*Transfer
}

// AddBank add bank once
func (c *Changeset) AddBank(bank *Bank) {
	for _, b := range c.Banks {
		if b.Mint == bank.Mint {
			return
		}
	}

	c.Banks = append(c.Banks, bank)
}

// AddPosition add position once
func (c *Changeset) AddPosition(position *Position) {
	for _, p := range c.Positions {
		if p.UserID == position.UserID && p.Mint == position.Mint {
			return
		}
	}

	c.Positions = append(c.Positions, position)
}

// LedgerStore applies changesets atomically.
//
// Banks and positions are written only when their stored version still
// equals the version they were loaded with, otherwise ErrVersionConflict is
// returned and nothing is written. Versions are bumped on success.
type LedgerStore interface {
	Commit(ctx context.Context, cs *Changeset) error
}

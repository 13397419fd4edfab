package bank

import (
	"context"
	"fmt"

	"lending/core"
	"lending/internal/lending"
	"lending/pkg/id"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// state working copies of everything one request may touch
type state struct {
	req      *core.Request
	user     *core.User
	bank     *core.Bank
	position *core.Position
	// every bank the user holds a position in, keyed by mint
	banks     map[string]*core.Bank
	positions []*core.Position
}

func (st *state) account() *core.Account {
	return &core.Account{
		User:      st.user,
		Positions: st.positions,
		Banks:     st.banks,
	}
}

// applyFunc mutates the working copies and returns the shares issued or burned
type applyFunc func(ctx context.Context, st *state) (decimal.Decimal, error)

func (s *bankService) Deposit(ctx context.Context, req *core.Request) (*core.Transaction, error) {
	return s.handle(ctx, core.ActionTypeDeposit, req, deposit)
}

func (s *bankService) Withdraw(ctx context.Context, req *core.Request) (*core.Transaction, error) {
	return s.handle(ctx, core.ActionTypeWithdraw, req, withdraw)
}

func (s *bankService) Borrow(ctx context.Context, req *core.Request) (*core.Transaction, error) {
	return s.handle(ctx, core.ActionTypeBorrow, req, borrow)
}

func (s *bankService) Repay(ctx context.Context, req *core.Request) (*core.Transaction, error) {
	return s.handle(ctx, core.ActionTypeRepay, req, repay)
}

func deposit(ctx context.Context, st *state) (decimal.Decimal, error) {
	bank, position, amount := st.bank, st.position, st.req.Amount

	shares := lending.IssueShares(amount, bank.TotalDeposits, bank.TotalDepositShares)
	if !shares.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}

	bank.TotalDeposits = bank.TotalDeposits.Add(amount)
	bank.TotalDepositShares = bank.TotalDepositShares.Add(shares)
	position.DepositedShares = position.DepositedShares.Add(shares)
	return shares, nil
}

func withdraw(ctx context.Context, st *state) (decimal.Decimal, error) {
	bank, position, amount := st.bank, st.position, st.req.Amount

	value := lending.ShareValue(position.DepositedShares, bank.TotalDeposits, bank.TotalDepositShares)
	if amount.GreaterThan(value) {
		return decimal.Zero, core.ErrInsufficientFunds
	}

	if amount.GreaterThan(bank.Liquidity()) {
		return decimal.Zero, core.ErrInsufficientLiquidity
	}

	shares := position.DepositedShares
	if amount.LessThan(value) {
		shares = decimal.Min(
			lending.BurnShares(amount, bank.TotalDeposits, bank.TotalDepositShares),
			position.DepositedShares,
		)
	}

	bank.TotalDeposits = bank.TotalDeposits.Sub(amount)
	bank.TotalDepositShares = lending.SubFloor(bank.TotalDepositShares, shares)
	position.DepositedShares = position.DepositedShares.Sub(shares)
	return shares, nil
}

func borrow(ctx context.Context, st *state) (decimal.Decimal, error) {
	bank, position, amount := st.bank, st.position, st.req.Amount

	if amount.GreaterThan(bank.Liquidity()) {
		return decimal.Zero, core.ErrInsufficientLiquidity
	}

	shares := lending.IssueDebtShares(amount, bank.TotalBorrowed, bank.TotalBorrowedShares)
	bank.TotalBorrowed = bank.TotalBorrowed.Add(amount)
	bank.TotalBorrowedShares = bank.TotalBorrowedShares.Add(shares)
	position.BorrowedShares = position.BorrowedShares.Add(shares)
	return shares, nil
}

func repay(ctx context.Context, st *state) (decimal.Decimal, error) {
	bank, position, amount := st.bank, st.position, st.req.Amount

	debt := lending.DebtValue(position.BorrowedShares, bank.TotalBorrowed, bank.TotalBorrowedShares)
	if amount.GreaterThan(debt) {
		return decimal.Zero, core.ErrExceedsDebt
	}

	shares := position.BorrowedShares
	if amount.LessThan(debt) {
		shares = decimal.Min(
			lending.RepayShares(amount, bank.TotalBorrowed, bank.TotalBorrowedShares),
			position.BorrowedShares,
		)
	}

	bank.TotalBorrowed = lending.SubFloor(bank.TotalBorrowed, amount)
	bank.TotalBorrowedShares = lending.SubFloor(bank.TotalBorrowedShares, shares)
	position.BorrowedShares = position.BorrowedShares.Sub(shares)

	// rounding dust left without owners
	if bank.TotalBorrowedShares.IsZero() {
		bank.TotalBorrowed = decimal.Zero
	}

	return shares, nil
}

func validateRequest(req *core.Request) (*core.Request, error) {
	if ok, err := govalidator.ValidateStruct(req); !ok || err != nil {
		return nil, core.ErrInvalidParams
	}

	r := *req
	r.Amount = lending.NormalizeAmount(req.Amount)
	if !r.Amount.IsPositive() {
		return nil, core.ErrInvalidAmount
	}

	return &r, nil
}

func (s *bankService) handle(ctx context.Context, action core.ActionType, req *core.Request, apply applyFunc) (*core.Transaction, error) {
	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"action":   action.String(),
		"trace_id": req.TraceID,
		"user_id":  req.UserID,
		"mint":     req.Mint,
	})
	ctx = logger.WithContext(ctx, log)

	req, err := validateRequest(req)
	if err != nil {
		log.Infoln("invalid request")
		return nil, err
	}

	s.locker.Lock(core.UserLockKey(req.UserID))
	defer s.locker.Unlock(core.UserLockKey(req.UserID))

	if t, err := s.transactions.FindByTraceID(ctx, req.TraceID); err != nil {
		log.WithError(err).Errorln("transactions.FindByTraceID")
		return nil, err
	} else if t.ID > 0 {
		if t.Action != action || t.UserID != req.UserID || t.Mint != req.Mint || !t.Amount.Equal(req.Amount) {
			return nil, core.ErrInvalidParams
		}

		return t, nil
	}

	// banks are locked after the user, in mint order
	mints, err := s.involvedMints(ctx, action, req)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(mints))
	for _, mint := range mints {
		keys = append(keys, core.BankLockKey(mint))
	}
	release := s.locker.LockAll(keys...)
	defer release()

	st, err := s.load(ctx, req, mints)
	if err != nil {
		return nil, err
	}

	shares, err := apply(ctx, st)
	if err != nil {
		log.WithError(err).Infoln("rejected")
		return nil, err
	}

	if action.MovesFundsOut() {
		if err := s.accounts.CheckHealth(ctx, st.account()); err != nil {
			log.WithError(err).Infoln("health check failed")
			return nil, err
		}
	} else if err := s.verifyPayment(ctx, req); err != nil {
		return nil, err
	}

	cs := &core.Changeset{}
	for _, mint := range mints {
		cs.AddBank(st.banks[mint])
	}
	cs.AddPosition(st.position)

	extra := core.NewTransactionExtra()
	extra.Put(core.TransactionKeyExchangeRate, lending.ExchangeRate(st.bank.TotalDeposits, st.bank.TotalDepositShares))
	extra.Put(core.TransactionKeyTotalDeposits, st.bank.TotalDeposits)
	extra.Put(core.TransactionKeyTotalBorrowed, st.bank.TotalBorrowed)

	if action.MovesFundsOut() {
		transfer := &core.Transfer{
			TraceID: id.TraceIDFrom(req.TraceID, "transfer"),
			UserID:  req.UserID,
			Mint:    req.Mint,
			Amount:  req.Amount,
			Memo:    action.String(),
		}
		cs.Transfers = append(cs.Transfers, transfer)
		extra.Put(core.TransactionKeyTransfer, transfer.TraceID)
	}

	cs.Transaction = core.BuildTransaction(req, action, shares, extra)

	if err := s.ledger.Commit(ctx, cs); err != nil {
		log.WithError(err).Errorln("ledger.Commit")
		return nil, err
	}

	return cs.Transaction, nil
}

// involvedMints the target bank, plus every bank of the user when the
// action needs a health check
func (s *bankService) involvedMints(ctx context.Context, action core.ActionType, req *core.Request) ([]string, error) {
	mints := []string{req.Mint}
	if !action.MovesFundsOut() {
		return mints, nil
	}

	positions, err := s.positions.FindByUser(ctx, req.UserID)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("positions.FindByUser")
		return nil, err
	}

	for _, position := range positions {
		if !position.IsEmpty() && position.Mint != req.Mint {
			mints = append(mints, position.Mint)
		}
	}

	return mints, nil
}

func (s *bankService) load(ctx context.Context, req *core.Request, mints []string) (*state, error) {
	log := logger.FromContext(ctx)
	now := s.clock.Now()

	st := &state{
		req:   req,
		banks: make(map[string]*core.Bank, len(mints)),
	}

	for _, mint := range mints {
		bank, err := s.banks.Find(ctx, mint)
		if err != nil {
			log.WithError(err).Errorln("banks.Find")
			return nil, err
		}

		if bank.ID == 0 {
			return nil, core.ErrBankNotFound
		}

		if clamped := lending.AccrueInterest(bank, now); clamped {
			log.Warnf("bank %s total borrowed clamped to total deposits %s", bank.Mint, bank.TotalDeposits)
		}

		st.banks[mint] = bank
	}
	st.bank = st.banks[req.Mint]

	user, err := s.users.Find(ctx, req.UserID)
	if err != nil {
		log.WithError(err).Errorln("users.Find")
		return nil, err
	}

	if user.ID == 0 {
		user = &core.User{UserID: req.UserID}
	}
	st.user = user

	for _, mint := range mints {
		position, err := s.positions.Find(ctx, req.UserID, mint)
		if err != nil {
			log.WithError(err).Errorln("positions.Find")
			return nil, err
		}

		if mint == req.Mint {
			st.position = position
		}

		st.positions = append(st.positions, position)
	}

	return st, nil
}

func (s *bankService) verifyPayment(ctx context.Context, req *core.Request) error {
	log := logger.FromContext(ctx)

	ok, err := s.wallet.VerifyPayment(ctx, &core.Transfer{
		TraceID: req.TraceID,
		UserID:  req.UserID,
		Mint:    req.Mint,
		Amount:  req.Amount,
	})
	if err != nil {
		log.WithError(err).Errorln("wallet.VerifyPayment")
		return fmt.Errorf("verify payment: %w", err)
	}

	if !ok {
		log.Infoln("payment not confirmed")
		return core.ErrPaymentNotConfirmed
	}

	return nil
}

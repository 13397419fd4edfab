package bank

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"lending/core"
	"lending/internal/mocks"
	"lending/pkg/lock"
	"lending/pkg/number"
	"lending/service/account"
	"lending/service/oracle"
	"lending/service/user"
	"lending/store/memory"

	"github.com/facebookgo/clock"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const maxStaleness = time.Minute

type fixture struct {
	t      *testing.T
	ctx    context.Context
	db     *memory.DB
	clk    *clock.Mock
	feed   *mocks.MockPriceFeed
	wallet *mocks.MockWalletService
	quotes map[string]*core.PriceQuote
	svc    core.BankService
	users  core.UserStore
	locker *lock.Mutex
}

func newFixture(t *testing.T) *fixture {
	clk := clock.NewMock()
	clk.Add(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Sub(clk.Now()))

	db := memory.New()
	feed := &mocks.MockPriceFeed{}
	wallet := &mocks.MockWalletService{}
	wallet.On("VerifyPayment", mock.Anything, mock.Anything).Return(true, nil)

	oracles := oracle.New(feed, clk, oracle.Config{MaxConfidenceRatio: number.Decimal("0.01")})
	accounts := account.New(db.Users(), db.Banks(), db.Positions(), oracles, clk, account.Config{MaxStaleness: maxStaleness})
	locker := lock.New()
	svc := New(db.Banks(), db.Positions(), db.Users(), db.Transactions(), db.Ledger(), accounts, wallet, clk, locker)

	return &fixture{
		t:      t,
		ctx:    context.Background(),
		db:     db,
		clk:    clk,
		feed:   feed,
		wallet: wallet,
		quotes: map[string]*core.PriceQuote{},
		svc:    svc,
		users:  db.Users(),
		locker: locker,
	}
}

// setPrice publishes a quote of price with 8 decimals
func (f *fixture) setPrice(feedID string, price string) {
	quote := &core.PriceQuote{
		FeedID:      feedID,
		Price:       number.Decimal(price).Shift(8).IntPart(),
		Confidence:  1000,
		Exponent:    -8,
		PublishTime: f.clk.Now(),
	}

	if q, ok := f.quotes[feedID]; ok {
		*q = *quote
		return
	}

	f.quotes[feedID] = quote
	f.feed.On("LatestQuote", mock.Anything, feedID).Return(quote, nil)
}

// advance moves time forward and republishes every quote
func (f *fixture) advance(d time.Duration) {
	f.clk.Add(d)
	for _, q := range f.quotes {
		q.PublishTime = f.clk.Now()
	}
}

func (f *fixture) initBank(mint, threshold, rate, price string) *core.Bank {
	f.t.Helper()

	f.setPrice(mint+"-feed", price)
	bank, err := f.svc.InitBank(f.ctx, &core.BankParams{
		Mint:                 mint,
		Symbol:               mint,
		FeedID:               mint + "-feed",
		LiquidationThreshold: number.Decimal(threshold),
		InterestRate:         number.Decimal(rate),
	})
	require.Nil(f.t, err)
	return bank
}

func (f *fixture) request(userID, mint, amount string) *core.Request {
	return &core.Request{
		TraceID: uuid.New(),
		UserID:  userID,
		Mint:    mint,
		Amount:  number.Decimal(amount),
	}
}

func (f *fixture) deposit(userID, mint, amount string) (*core.Transaction, error) {
	return f.svc.Deposit(f.ctx, f.request(userID, mint, amount))
}

func (f *fixture) withdraw(userID, mint, amount string) (*core.Transaction, error) {
	return f.svc.Withdraw(f.ctx, f.request(userID, mint, amount))
}

func (f *fixture) borrow(userID, mint, amount string) (*core.Transaction, error) {
	return f.svc.Borrow(f.ctx, f.request(userID, mint, amount))
}

func (f *fixture) repay(userID, mint, amount string) (*core.Transaction, error) {
	return f.svc.Repay(f.ctx, f.request(userID, mint, amount))
}

func (f *fixture) mustDo(tx *core.Transaction, err error) *core.Transaction {
	f.t.Helper()
	require.Nil(f.t, err)
	return tx
}

func (f *fixture) bank(mint string) *core.Bank {
	f.t.Helper()
	bank, err := f.db.Banks().Find(f.ctx, mint)
	require.Nil(f.t, err)
	return bank
}

func (f *fixture) position(userID, mint string) *core.Position {
	f.t.Helper()
	position, err := f.db.Positions().Find(f.ctx, userID, mint)
	require.Nil(f.t, err)
	return position
}

func (f *fixture) depositedAmount(userID, mint string) decimal.Decimal {
	return account.DepositedAmount(f.position(userID, mint), f.bank(mint))
}

func (f *fixture) borrowedAmount(userID, mint string) decimal.Decimal {
	return account.BorrowedAmount(f.position(userID, mint), f.bank(mint))
}

func (f *fixture) pendingTransfers() []*core.Transfer {
	f.t.Helper()
	transfers, err := f.db.Transfers().ListPending(f.ctx, 100)
	require.Nil(f.t, err)
	return transfers
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, number.Decimal(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestInitBank(t *testing.T) {
	f := newFixture(t)

	bank := f.initBank("usdc", "0.8", "0.05", "1")
	assert.NotZero(t, bank.ID)
	assert.True(t, bank.TotalDeposits.IsZero())
	assert.Equal(t, f.clk.Now(), bank.LastUpdated)

	_, err := f.svc.InitBank(f.ctx, &core.BankParams{
		Mint:                 "usdc",
		FeedID:               "usdc-feed",
		LiquidationThreshold: number.Decimal("1"),
	})
	assert.Equal(t, core.ErrAlreadyExists, err)

	invalid := []*core.BankParams{
		{Mint: "sol", FeedID: "sol-feed"},
		{Mint: "sol", LiquidationThreshold: number.Decimal("1")},
		{Mint: "sol", FeedID: "sol-feed", LiquidationThreshold: number.Decimal("1"), InterestRate: number.Decimal("-0.1")},
		{Mint: "sol", FeedID: "sol-feed", LiquidationThreshold: number.Decimal("1"), ReserveFactor: number.Decimal("1")},
		{Mint: "sol", FeedID: "sol-feed", LiquidationThreshold: number.Decimal("1"), Kink: number.Decimal("1.5")},
	}
	for _, params := range invalid {
		_, err := f.svc.InitBank(f.ctx, params)
		assert.Equal(t, core.ErrInvalidParams, err)
	}

	banks, err := f.svc.All(f.ctx)
	require.Nil(t, err)
	assert.Len(t, banks, 1)

	_, err = f.svc.Find(f.ctx, "sol")
	assert.Equal(t, core.ErrBankNotFound, err)
}

func TestDeposit(t *testing.T) {
	f := newFixture(t)
	f.initBank("usdc", "0.8", "0", "1")

	tx := f.mustDo(f.deposit("alice", "usdc", "100"))
	assert.Equal(t, core.ActionTypeDeposit, tx.Action)
	assertDecimal(t, "100", tx.Shares)

	bank := f.bank("usdc")
	assertDecimal(t, "100", bank.TotalDeposits)
	assertDecimal(t, "100", bank.TotalDepositShares)
	assertDecimal(t, "100", f.position("alice", "usdc").DepositedShares)
	assert.Len(t, f.pendingTransfers(), 0)

	t.Run("invalid amount", func(t *testing.T) {
		_, err := f.deposit("alice", "usdc", "0")
		assert.Equal(t, core.ErrInvalidAmount, err)

		_, err = f.deposit("alice", "usdc", "-1")
		assert.Equal(t, core.ErrInvalidAmount, err)

		// below the amount precision
		_, err = f.deposit("alice", "usdc", "0.000000001")
		assert.Equal(t, core.ErrInvalidAmount, err)
	})

	t.Run("invalid request", func(t *testing.T) {
		req := f.request("alice", "usdc", "1")
		req.TraceID = "not-a-uuid"
		_, err := f.svc.Deposit(f.ctx, req)
		assert.Equal(t, core.ErrInvalidParams, err)
	})

	t.Run("unknown bank", func(t *testing.T) {
		_, err := f.deposit("alice", "sol", "1")
		assert.Equal(t, core.ErrBankNotFound, err)
	})

	t.Run("idempotent", func(t *testing.T) {
		req := f.request("alice", "usdc", "10")
		first, err := f.svc.Deposit(f.ctx, req)
		require.Nil(t, err)

		second, err := f.svc.Deposit(f.ctx, req)
		require.Nil(t, err)
		assert.Equal(t, first.ID, second.ID)
		assertDecimal(t, "110", f.bank("usdc").TotalDeposits)

		_, err = f.svc.Withdraw(f.ctx, req)
		assert.Equal(t, core.ErrInvalidParams, err)
	})

	t.Run("payment not confirmed", func(t *testing.T) {
		wallet := &mocks.MockWalletService{}
		wallet.On("VerifyPayment", mock.Anything, mock.Anything).Return(false, nil)
		svc := f.svc.(*bankService)
		svc.wallet = wallet
		defer func() { svc.wallet = f.wallet }()

		before := f.bank("usdc")
		_, err := f.deposit("alice", "usdc", "10")
		assert.Equal(t, core.ErrPaymentNotConfirmed, err)
		assert.Equal(t, before, f.bank("usdc"))
	})

	t.Run("custody error", func(t *testing.T) {
		wallet := &mocks.MockWalletService{}
		wallet.On("VerifyPayment", mock.Anything, mock.Anything).Return(false, errors.New("timeout"))
		svc := f.svc.(*bankService)
		svc.wallet = wallet
		defer func() { svc.wallet = f.wallet }()

		_, err := f.deposit("alice", "usdc", "10")
		assert.NotNil(t, err)
	})
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	f.initBank("usdc", "0.8", "0", "1")
	f.initBank("sol", "0.5", "0", "50")

	f.mustDo(f.deposit("alice", "usdc", "100"))

	_, err := f.withdraw("alice", "usdc", "100.00000001")
	assert.Equal(t, core.ErrInsufficientFunds, err)

	_, err = f.withdraw("bob", "usdc", "1")
	assert.Equal(t, core.ErrInsufficientFunds, err)

	tx := f.mustDo(f.withdraw("alice", "usdc", "40"))
	assertDecimal(t, "40", tx.Shares)
	assertDecimal(t, "60", f.depositedAmount("alice", "usdc"))

	transfers := f.pendingTransfers()
	require.Len(t, transfers, 1)
	assert.Equal(t, "alice", transfers[0].UserID)
	assertDecimal(t, "40", transfers[0].Amount)
	assert.Equal(t, "withdraw", transfers[0].Memo)

	t.Run("liquidity", func(t *testing.T) {
		f.mustDo(f.deposit("bob", "sol", "10"))
		f.mustDo(f.borrow("bob", "usdc", "50"))

		_, err := f.withdraw("alice", "usdc", "20")
		assert.Equal(t, core.ErrInsufficientLiquidity, err)

		f.mustDo(f.withdraw("alice", "usdc", "10"))
	})

	t.Run("health", func(t *testing.T) {
		// bob: 10 sol * 50 * 0.5 = 250 against 50 usdc of debt
		_, err := f.withdraw("bob", "sol", "9")
		assert.Equal(t, core.ErrInsufficientCollateral, err)

		f.mustDo(f.withdraw("bob", "sol", "8"))
	})

	t.Run("full withdraw burns every share", func(t *testing.T) {
		value := f.depositedAmount("alice", "usdc")
		f.mustDo(f.repay("bob", "usdc", "50"))
		f.mustDo(f.svc.Withdraw(f.ctx, &core.Request{
			TraceID: uuid.New(),
			UserID:  "alice",
			Mint:    "usdc",
			Amount:  value,
		}))

		assert.True(t, f.position("alice", "usdc").DepositedShares.IsZero())
		assert.True(t, f.bank("usdc").TotalDepositShares.IsZero())
	})
}

func TestBorrow(t *testing.T) {
	f := newFixture(t)
	f.initBank("usdc", "0.8", "0", "1")
	f.initBank("sol", "0.5", "0", "50")

	f.mustDo(f.deposit("treasury", "sol", "1000"))
	f.mustDo(f.deposit("alice", "usdc", "100"))

	t.Run("rejected borrow leaves state untouched", func(t *testing.T) {
		banksBefore, _ := f.db.Banks().All(f.ctx)
		req := f.request("alice", "sol", "2")

		_, err := f.svc.Borrow(f.ctx, req)
		assert.Equal(t, core.ErrInsufficientCollateral, err)

		banksAfter, _ := f.db.Banks().All(f.ctx)
		assert.Equal(t, banksBefore, banksAfter)
		assert.Zero(t, f.position("alice", "sol").ID)
		assert.Len(t, f.pendingTransfers(), 0)

		tx, _ := f.db.Transactions().FindByTraceID(f.ctx, req.TraceID)
		assert.Zero(t, tx.ID)
	})

	t.Run("liquidity", func(t *testing.T) {
		_, err := f.borrow("alice", "usdc", "100.00000001")
		assert.Equal(t, core.ErrInsufficientLiquidity, err)
	})

	t.Run("borrow then repay restores shares", func(t *testing.T) {
		tx := f.mustDo(f.borrow("alice", "sol", "1"))
		assertDecimal(t, "1", tx.Shares)
		assertDecimal(t, "1", f.position("alice", "sol").BorrowedShares)
		assertDecimal(t, "1", f.bank("sol").TotalBorrowed)

		transfers := f.pendingTransfers()
		require.Len(t, transfers, 1)
		assert.Equal(t, "borrow", transfers[0].Memo)

		f.mustDo(f.repay("alice", "sol", "1"))
		assert.True(t, f.position("alice", "sol").BorrowedShares.IsZero())
		assert.True(t, f.bank("sol").TotalBorrowed.IsZero())
		assert.True(t, f.bank("sol").TotalBorrowedShares.IsZero())
	})

	t.Run("stale price", func(t *testing.T) {
		f.clk.Add(maxStaleness + time.Second)
		defer f.advance(0)

		_, err := f.borrow("alice", "sol", "1")
		assert.Equal(t, core.ErrStalePrice, err)
	})

	t.Run("low confidence", func(t *testing.T) {
		f.quotes["sol-feed"].Confidence = 100000000 // 1 / 50
		defer func() { f.quotes["sol-feed"].Confidence = 1000 }()

		_, err := f.borrow("alice", "sol", "1")
		assert.Equal(t, core.ErrLowConfidence, err)
	})
}

func TestRepay(t *testing.T) {
	f := newFixture(t)
	f.initBank("usdc", "0.8", "0", "1")
	f.initBank("sol", "0.5", "0", "50")

	f.mustDo(f.deposit("treasury", "sol", "1000"))
	f.mustDo(f.deposit("alice", "usdc", "100"))
	f.mustDo(f.borrow("alice", "sol", "1"))

	_, err := f.repay("alice", "sol", "1.00000001")
	assert.Equal(t, core.ErrExceedsDebt, err)

	_, err = f.repay("bob", "sol", "1")
	assert.Equal(t, core.ErrExceedsDebt, err)

	tx := f.mustDo(f.repay("alice", "sol", "0.4"))
	assertDecimal(t, "0.4", tx.Shares)
	assertDecimal(t, "0.6", f.borrowedAmount("alice", "sol"))
	assert.Len(t, f.pendingTransfers(), 1)

	f.mustDo(f.repay("alice", "sol", "0.6"))
	assert.True(t, f.borrowedAmount("alice", "sol").IsZero())
}

func TestInterest(t *testing.T) {
	f := newFixture(t)
	f.initBank("usdc", "0.8", "0", "1")
	f.initBank("sol", "0.5", "0.25", "50")

	f.mustDo(f.deposit("treasury", "sol", "1000"))
	f.mustDo(f.deposit("bob", "usdc", "10000"))
	f.mustDo(f.borrow("bob", "sol", "100"))

	f.advance(365 * 24 * time.Hour)

	// reads accrue without persisting
	sol, err := f.svc.Find(f.ctx, "sol")
	require.Nil(t, err)
	assertDecimal(t, "125", sol.TotalBorrowed)
	assertDecimal(t, "1025", sol.TotalDeposits)
	assertDecimal(t, "100", f.bank("sol").TotalBorrowed)

	t.Run("borrow then repay at the same rate restores shares", func(t *testing.T) {
		f.mustDo(f.deposit("alice", "usdc", "1000"))

		tx := f.mustDo(f.borrow("alice", "sol", "5"))
		assertDecimal(t, "4", tx.Shares)
		assertDecimal(t, "130", f.bank("sol").TotalBorrowed)
		assert.Equal(t, f.clk.Now(), f.bank("sol").LastUpdated)

		f.mustDo(f.repay("alice", "sol", "5"))
		assert.True(t, f.position("alice", "sol").BorrowedShares.IsZero())

		f.mustDo(f.borrow("bob", "sol", "5"))
		assertDecimal(t, "104", f.position("bob", "sol").BorrowedShares)
		tx = f.mustDo(f.repay("bob", "sol", "5"))
		assertDecimal(t, "4", tx.Shares)
		assertDecimal(t, "100", f.position("bob", "sol").BorrowedShares)
		assertDecimal(t, "125", f.borrowedAmount("bob", "sol"))
	})

	t.Run("depositors earn the interest", func(t *testing.T) {
		assertDecimal(t, "1025", f.depositedAmount("treasury", "sol"))

		tx := f.mustDo(f.deposit("carol", "sol", "41"))
		assertDecimal(t, "40", tx.Shares)
		assertDecimal(t, "41", f.depositedAmount("carol", "sol"))
	})

	t.Run("interest is owed on repay", func(t *testing.T) {
		_, err := f.repay("bob", "sol", "125.00000001")
		assert.Equal(t, core.ErrExceedsDebt, err)

		f.mustDo(f.repay("bob", "sol", "125"))
		assert.True(t, f.bank("sol").TotalBorrowed.IsZero())
	})
}

func TestReadsDoNotCompoundInterest(t *testing.T) {
	f := newFixture(t)
	f.initBank("usdc", "0.8", "0", "1")
	f.initBank("sol", "0.5", "1", "50")

	f.mustDo(f.deposit("treasury", "sol", "1000"))
	f.mustDo(f.deposit("bob", "usdc", "100000"))
	f.mustDo(f.borrow("bob", "sol", "100"))

	for day := 0; day < 365; day++ {
		f.advance(24 * time.Hour)

		_, err := f.svc.Find(f.ctx, "sol")
		require.Nil(t, err)
		_, err = f.svc.All(f.ctx)
		require.Nil(t, err)
	}

	// one year at 100% accrued once, however often the bank was read
	assertDecimal(t, "100", f.bank("sol").TotalBorrowed)
	sol, err := f.svc.Find(f.ctx, "sol")
	require.Nil(t, err)
	assertDecimal(t, "200", sol.TotalBorrowed)

	f.mustDo(f.deposit("carol", "sol", "1"))
	assertDecimal(t, "200", f.bank("sol").TotalBorrowed)
	assertDecimal(t, "200", f.borrowedAmount("bob", "sol"))
}

func TestReserveFactorAtFullUtilization(t *testing.T) {
	f := newFixture(t)
	f.initBank("usdc", "0.8", "0", "1")

	f.setPrice("sol-feed", "50")
	_, err := f.svc.InitBank(f.ctx, &core.BankParams{
		Mint:                 "sol",
		FeedID:               "sol-feed",
		LiquidationThreshold: number.Decimal("0.5"),
		InterestRate:         number.Decimal("0.1"),
		ReserveFactor:        number.Decimal("0.5"),
	})
	require.Nil(t, err)

	f.mustDo(f.deposit("treasury", "sol", "100"))
	f.mustDo(f.deposit("bob", "usdc", "10000"))
	f.mustDo(f.borrow("bob", "sol", "100"))

	f.advance(365 * 24 * time.Hour)

	sol, err := f.svc.Find(f.ctx, "sol")
	require.Nil(t, err)
	assertDecimal(t, "110", sol.TotalBorrowed)
	assertDecimal(t, "110", sol.TotalDeposits)
	assertDecimal(t, "0", sol.Reserves)

	// principal plus the full year of interest is owed and accepted
	_, err = f.repay("bob", "sol", "110.00000001")
	assert.Equal(t, core.ErrExceedsDebt, err)
	f.mustDo(f.repay("bob", "sol", "110"))

	assert.True(t, f.bank("sol").TotalBorrowed.IsZero())
	assert.True(t, f.position("bob", "sol").BorrowedShares.IsZero())
	assertDecimal(t, "110", f.depositedAmount("treasury", "sol"))
}

func TestReplayWithDifferentAmount(t *testing.T) {
	f := newFixture(t)
	f.initBank("usdc", "0.8", "0", "1")

	req := f.request("alice", "usdc", "10")
	tx := f.mustDo(f.svc.Deposit(f.ctx, req))

	replay := *req
	replay.Amount = number.Decimal("11")
	_, err := f.svc.Deposit(f.ctx, &replay)
	assert.Equal(t, core.ErrInvalidParams, err)

	// equal once normalized to token precision
	replay.Amount = number.Decimal("10.000000001")
	again := f.mustDo(f.svc.Deposit(f.ctx, &replay))
	assert.Equal(t, tx.ID, again.ID)
	assertDecimal(t, "10", f.bank("usdc").TotalDeposits)
}

func TestDepositWithdrawPreservesValue(t *testing.T) {
	f := newFixture(t)
	f.initBank("usdc", "0.8", "0", "1")
	f.initBank("sol", "0.5", "0.1", "50")

	f.mustDo(f.deposit("treasury", "sol", "1000"))
	f.mustDo(f.deposit("bob", "usdc", "100000"))
	f.mustDo(f.borrow("bob", "sol", "333.33333333"))
	f.advance(17 * 24 * time.Hour)

	expected := decimal.Zero
	for _, amount := range []string{"33.33333333", "66.66666667", "0.00000001", "12.5"} {
		f.mustDo(f.deposit("alice", "sol", amount))
		expected = expected.Add(number.Decimal(amount))
	}

	for _, amount := range []string{"50", "0.12345678"} {
		f.mustDo(f.withdraw("alice", "sol", amount))
		expected = expected.Sub(number.Decimal(amount))
	}

	value := f.depositedAmount("alice", "sol")
	diff := expected.Sub(value).Abs()
	// each deposit may lose at most one unit of the last place to rounding
	assert.True(t, diff.LessThanOrEqual(number.Decimal("0.00000006")), "expected %s, got %s", expected, value)
	assert.True(t, value.LessThanOrEqual(expected))
}

func TestRandomSequencesKeepPoolSolvent(t *testing.T) {
	f := newFixture(t)
	f.initBank("usdc", "0.8", "0.1", "1")
	f.initBank("sol", "0.5", "0.3", "50")

	users := []string{"u1", "u2", "u3"}
	mints := []string{"usdc", "sol"}
	for _, user := range users {
		f.mustDo(f.deposit(user, "usdc", "1000"))
		f.mustDo(f.deposit(user, "sol", "20"))
	}

	r := rand.New(rand.NewSource(42))
	ops := []func(*core.Request) (*core.Transaction, error){
		func(req *core.Request) (*core.Transaction, error) { return f.svc.Deposit(f.ctx, req) },
		func(req *core.Request) (*core.Transaction, error) { return f.svc.Withdraw(f.ctx, req) },
		func(req *core.Request) (*core.Transaction, error) { return f.svc.Borrow(f.ctx, req) },
		func(req *core.Request) (*core.Transaction, error) { return f.svc.Repay(f.ctx, req) },
	}

	accepted := 0
	for i := 0; i < 300; i++ {
		req := &core.Request{
			TraceID: uuid.New(),
			UserID:  users[r.Intn(len(users))],
			Mint:    mints[r.Intn(len(mints))],
			Amount:  decimal.New(int64(r.Intn(50000)+1), -2),
		}

		if _, err := ops[r.Intn(len(ops))](req); err != nil {
			var code core.ErrorCode
			require.True(t, errors.As(err, &code), err.Error())
		} else {
			accepted++
		}

		for _, mint := range mints {
			bank := f.bank(mint)
			assert.True(t, bank.TotalBorrowed.LessThanOrEqual(bank.TotalDeposits),
				"step %d %s: borrowed %s > deposits %s", i, mint, bank.TotalBorrowed, bank.TotalDeposits)
			assert.False(t, bank.TotalBorrowedShares.IsNegative())
			assert.False(t, bank.TotalDepositShares.IsNegative())
		}

		f.advance(time.Duration(r.Intn(72)) * time.Hour)
	}

	assert.True(t, accepted > 0)
}

func TestConcurrentRequests(t *testing.T) {
	f := newFixture(t)
	f.initBank("usdc", "0.8", "0", "1")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.deposit(fmt.Sprintf("user-%d", i), "usdc", "1")
			assert.Nil(t, err)
		}(i)
	}
	wg.Wait()
	assertDecimal(t, "20", f.bank("usdc").TotalDeposits)

	f.mustDo(f.deposit("alice", "usdc", "10"))

	var succeeded int32
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.withdraw("alice", "usdc", "1"); err == nil {
				atomic.AddInt32(&succeeded, 1)
			} else {
				assert.Equal(t, core.ErrInsufficientFunds, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(10), succeeded)
	assertDecimal(t, "20", f.bank("usdc").TotalDeposits)
	assert.True(t, f.position("alice", "usdc").DepositedShares.IsZero())
}

// init usdc and sol banks, fund both pools, deposit, borrow, repay and
// withdraw the way the reference client drives the program
func TestEndToEndScenario(t *testing.T) {
	f := newFixture(t)
	users := user.New(f.db.Users(), f.db.Banks(), f.locker)

	usdc, err := f.svc.InitBank(f.ctx, &core.BankParams{
		Mint:                 "usdc",
		FeedID:               "usdc-feed",
		Index:                1,
		LiquidationThreshold: number.Decimal("1"),
	})
	require.Nil(t, err)
	f.setPrice(usdc.FeedID, "1")
	f.mustDo(f.deposit("treasury", "usdc", "10000000000000"))

	_, err = users.InitUser(f.ctx, "signer", "usdc")
	require.Nil(t, err)

	sol, err := f.svc.InitBank(f.ctx, &core.BankParams{
		Mint:                 "sol",
		FeedID:               "0xef0d8b6fda2ceba41da15d4095d1da392a0d2f8ed0c6c7bc0f4cfac8c280b56d",
		Index:                2,
		LiquidationThreshold: number.Decimal("1"),
	})
	require.Nil(t, err)
	f.setPrice(sol.FeedID, "141.1")
	f.mustDo(f.deposit("treasury", "sol", "10000000000000"))

	f.mustDo(f.deposit("signer", "usdc", "100000000000"))
	f.mustDo(f.borrow("signer", "sol", "1"))
	f.mustDo(f.repay("signer", "sol", "1"))
	f.mustDo(f.withdraw("signer", "usdc", "100"))

	assertDecimal(t, "99999999900", f.depositedAmount("signer", "usdc"))
	assert.True(t, f.position("signer", "sol").BorrowedShares.IsZero())
	assertDecimal(t, "10000000000000", f.bank("sol").TotalDeposits)
	assert.True(t, f.bank("sol").TotalBorrowed.IsZero())
	assertDecimal(t, "10099999999900", f.bank("usdc").TotalDeposits)

	transfers := f.pendingTransfers()
	require.Len(t, transfers, 2)
	assert.Equal(t, "borrow", transfers[0].Memo)
	assert.Equal(t, "withdraw", transfers[1].Memo)

	history, err := f.db.Transactions().List(f.ctx, "signer", time.Time{}, 10)
	require.Nil(t, err)
	require.Len(t, history, 4)
	assert.Equal(t, core.ActionTypeDeposit, history[0].Action)
	assert.Equal(t, core.ActionTypeWithdraw, history[3].Action)
}

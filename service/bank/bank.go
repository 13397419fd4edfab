package bank

import (
	"context"

	"lending/core"
	"lending/internal/lending"
	"lending/pkg/lock"

	"github.com/asaskevich/govalidator"
	"github.com/facebookgo/clock"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type bankService struct {
	banks        core.BankStore
	positions    core.PositionStore
	users        core.UserStore
	transactions core.TransactionStore
	ledger       core.LedgerStore
	accounts     core.AccountService
	wallet       core.WalletService
	clock        clock.Clock
	locker       *lock.Mutex
}

// New new bank service
func New(
	banks core.BankStore,
	positions core.PositionStore,
	users core.UserStore,
	transactions core.TransactionStore,
	ledger core.LedgerStore,
	accounts core.AccountService,
	wallet core.WalletService,
	clk clock.Clock,
	locker *lock.Mutex,
) core.BankService {
	return &bankService{
		banks:        banks,
		positions:    positions,
		users:        users,
		transactions: transactions,
		ledger:       ledger,
		accounts:     accounts,
		wallet:       wallet,
		clock:        clk,
		locker:       locker,
	}
}

func validateParams(params *core.BankParams) error {
	if ok, err := govalidator.ValidateStruct(params); !ok || err != nil {
		return core.ErrInvalidParams
	}

	one := decimal.NewFromInt(1)
	switch {
	case !params.LiquidationThreshold.IsPositive(),
		params.LiquidationBonus.IsNegative(),
		params.InterestRate.IsNegative(),
		params.Multiplier.IsNegative(),
		params.JumpMultiplier.IsNegative(),
		params.Kink.IsNegative(),
		params.Kink.GreaterThan(one),
		params.ReserveFactor.IsNegative(),
		params.ReserveFactor.GreaterThanOrEqual(one):
		return core.ErrInvalidParams
	}

	return nil
}

func (s *bankService) InitBank(ctx context.Context, params *core.BankParams) (*core.Bank, error) {
	log := logger.FromContext(ctx).WithField("mint", params.Mint)

	if err := validateParams(params); err != nil {
		log.Infoln("invalid bank params")
		return nil, err
	}

	s.locker.Lock(core.BankLockKey(params.Mint))
	defer s.locker.Unlock(core.BankLockKey(params.Mint))

	existing, err := s.banks.Find(ctx, params.Mint)
	if err != nil {
		log.WithError(err).Errorln("banks.Find")
		return nil, err
	}

	if existing.ID > 0 {
		return nil, core.ErrAlreadyExists
	}

	bank := &core.Bank{
		Mint:                 params.Mint,
		Symbol:               params.Symbol,
		FeedID:               params.FeedID,
		Index:                params.Index,
		TotalDeposits:        decimal.Zero,
		TotalDepositShares:   decimal.Zero,
		TotalBorrowed:        decimal.Zero,
		TotalBorrowedShares:  decimal.Zero,
		Reserves:             decimal.Zero,
		LiquidationThreshold: params.LiquidationThreshold,
		LiquidationBonus:     params.LiquidationBonus,
		InterestRate:         params.InterestRate,
		Multiplier:           params.Multiplier,
		JumpMultiplier:       params.JumpMultiplier,
		Kink:                 params.Kink,
		ReserveFactor:        params.ReserveFactor,
		LastUpdated:          s.clock.Now(),
	}

	if err := s.banks.Create(ctx, bank); err != nil {
		if err != core.ErrAlreadyExists {
			log.WithError(err).Errorln("banks.Create")
		}
		return nil, err
	}

	log.Infoln("bank initialized")
	return bank, nil
}

// Find bank accrued to now, not persisted
func (s *bankService) Find(ctx context.Context, mint string) (*core.Bank, error) {
	bank, err := s.banks.Find(ctx, mint)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("banks.Find")
		return nil, err
	}

	if bank.ID == 0 {
		return nil, core.ErrBankNotFound
	}

	lending.AccrueInterest(bank, s.clock.Now())
	return bank, nil
}

// All banks accrued to now, not persisted
func (s *bankService) All(ctx context.Context) ([]*core.Bank, error) {
	banks, err := s.banks.All(ctx)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("banks.All")
		return nil, err
	}

	now := s.clock.Now()
	for _, bank := range banks {
		lending.AccrueInterest(bank, now)
	}

	return banks, nil
}

package account

import (
	"context"
	"time"

	"lending/core"
	"lending/internal/lending"

	"github.com/facebookgo/clock"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// Config account service config
type Config struct {
	// oldest acceptable price age
	MaxStaleness time.Duration
}

type accountService struct {
	users     core.UserStore
	banks     core.BankStore
	positions core.PositionStore
	oracle    core.OracleService
	clock     clock.Clock
	cfg       Config
}

// New new account service
func New(
	users core.UserStore,
	banks core.BankStore,
	positions core.PositionStore,
	oracle core.OracleService,
	clk clock.Clock,
	cfg Config,
) core.AccountService {
	return &accountService{
		users:     users,
		banks:     banks,
		positions: positions,
		oracle:    oracle,
		clock:     clk,
		cfg:       cfg,
	}
}

// DepositedAmount underlying amount claimed by the position
func DepositedAmount(position *core.Position, bank *core.Bank) decimal.Decimal {
	return lending.ShareValue(position.DepositedShares, bank.TotalDeposits, bank.TotalDepositShares)
}

// BorrowedAmount underlying amount owed by the position
func BorrowedAmount(position *core.Position, bank *core.Bank) decimal.Decimal {
	return lending.DebtValue(position.BorrowedShares, bank.TotalBorrowed, bank.TotalBorrowedShares)
}

// DepositedValue deposited amount in quote currency
func DepositedValue(position *core.Position, bank *core.Bank, price decimal.Decimal) decimal.Decimal {
	return DepositedAmount(position, bank).Mul(price)
}

// BorrowedValue borrowed amount in quote currency
func BorrowedValue(position *core.Position, bank *core.Bank, price decimal.Decimal) decimal.Decimal {
	return BorrowedAmount(position, bank).Mul(price)
}

func (s *accountService) CheckHealth(ctx context.Context, account *core.Account) error {
	health, err := s.Evaluate(ctx, account)
	if err != nil {
		return err
	}

	if !health.Healthy {
		logger.FromContext(ctx).Infof("account %s unhealthy, collateral %s debt %s",
			health.UserID, health.RiskAdjustedCollateral, health.Debt)
		return core.ErrInsufficientCollateral
	}

	return nil
}

// Evaluate values the account at current prices.
//
// One price is fetched per feed. Any oracle failure aborts the evaluation.
func (s *accountService) Evaluate(ctx context.Context, account *core.Account) (*core.AccountHealth, error) {
	health := &core.AccountHealth{
		Collateral:             decimal.Zero,
		RiskAdjustedCollateral: decimal.Zero,
		Debt:                   decimal.Zero,
		HealthFactor:           decimal.Zero,
	}

	collateralMint := ""
	if account.User != nil {
		health.UserID = account.User.UserID
		collateralMint = account.User.CollateralMint
	}

	prices := map[string]decimal.Decimal{}
	priceOf := func(bank *core.Bank) (decimal.Decimal, error) {
		if price, ok := prices[bank.FeedID]; ok {
			return price, nil
		}

		quote, err := s.oracle.GetPrice(ctx, bank.FeedID, s.cfg.MaxStaleness)
		if err != nil {
			return decimal.Zero, err
		}

		prices[bank.FeedID] = quote.Value
		return quote.Value, nil
	}

	for _, position := range account.Positions {
		if position.IsEmpty() {
			continue
		}

		if health.UserID == "" {
			health.UserID = position.UserID
		}

		isCollateral := collateralMint == "" || collateralMint == position.Mint
		if !isCollateral && !position.BorrowedShares.IsPositive() {
			continue
		}

		bank, ok := account.Banks[position.Mint]
		if !ok {
			return nil, core.ErrBankNotFound
		}

		price, err := priceOf(bank)
		if err != nil {
			return nil, err
		}

		if isCollateral {
			value := DepositedValue(position, bank, price)
			health.Collateral = health.Collateral.Add(value)
			health.RiskAdjustedCollateral = health.RiskAdjustedCollateral.Add(value.Mul(bank.LiquidationThreshold))
		}

		health.Debt = health.Debt.Add(BorrowedValue(position, bank, price))
	}

	health.Healthy = health.RiskAdjustedCollateral.GreaterThanOrEqual(health.Debt)
	if health.Debt.IsPositive() {
		health.HealthFactor = health.RiskAdjustedCollateral.DivRound(health.Debt, 8)
	}

	return health, nil
}

// Health read only valuation of the stored account, banks accrued to now
func (s *accountService) Health(ctx context.Context, userID string) (*core.AccountHealth, error) {
	log := logger.FromContext(ctx)

	account, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	health, err := s.Evaluate(ctx, account)
	if err != nil {
		log.WithError(err).Errorln("accounts.Evaluate")
		return nil, err
	}

	return health, nil
}

func (s *accountService) load(ctx context.Context, userID string) (*core.Account, error) {
	log := logger.FromContext(ctx)

	user, err := s.users.Find(ctx, userID)
	if err != nil {
		log.WithError(err).Errorln("users.Find")
		return nil, err
	}

	if user.ID == 0 {
		user = &core.User{UserID: userID}
	}

	positions, err := s.positions.FindByUser(ctx, userID)
	if err != nil {
		log.WithError(err).Errorln("positions.FindByUser")
		return nil, err
	}

	now := s.clock.Now()
	banks := make(map[string]*core.Bank, len(positions))
	for _, position := range positions {
		bank, err := s.banks.Find(ctx, position.Mint)
		if err != nil {
			log.WithError(err).Errorln("banks.Find")
			return nil, err
		}

		if bank.ID == 0 {
			return nil, core.ErrBankNotFound
		}

		lending.AccrueInterest(bank, now)
		banks[bank.Mint] = bank
	}

	return &core.Account{
		User:      user,
		Positions: positions,
		Banks:     banks,
	}, nil
}

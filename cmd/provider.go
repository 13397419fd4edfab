package cmd

import (
	"time"

	"lending/config"
	"lending/core"
	"lending/pkg/lock"
	"lending/service/account"
	"lending/service/bank"
	"lending/service/oracle"
	"lending/service/user"
	"lending/service/wallet"
	"lending/store/memory"

	bankstore "lending/store/bank"
	"lending/store/ledger"
	"lending/store/position"
	"lending/store/transaction"
	"lending/store/transfer"
	userstore "lending/store/user"

	"github.com/facebookgo/clock"
	"github.com/fox-one/pkg/store/db"
)

type stores struct {
	banks        core.BankStore
	positions    core.PositionStore
	users        core.UserStore
	transactions core.TransactionStore
	transfers    core.TransferStore
	ledger       core.LedgerStore
	locker       *lock.Mutex
	close        func()
}

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

// provideStores every store on the configured backend
func provideStores() *stores {
	if cfg.Storage == config.StorageMemory {
		m := memory.New()
		return &stores{
			banks:        m.Banks(),
			positions:    m.Positions(),
			users:        m.Users(),
			transactions: m.Transactions(),
			transfers:    m.Transfers(),
			ledger:       m.Ledger(),
			locker:       lock.New(),
			close:        func() {},
		}
	}

	database := provideDatabase()
	return &stores{
		banks:        bankstore.New(database),
		positions:    position.New(database),
		users:        userstore.Cache(userstore.New(database), time.Minute),
		transactions: transaction.New(database),
		transfers:    transfer.New(database),
		ledger:       ledger.New(database),
		locker:       lock.New(),
		close:        func() { database.Close() },
	}
}

func provideClock() clock.Clock {
	return clock.New()
}

func provideWalletService() core.WalletService {
	return wallet.New(wallet.Config{Endpoint: cfg.Wallet.Endpoint})
}

func provideOracleService(clk clock.Clock) core.OracleService {
	feed := oracle.NewHermes(cfg.Oracle.Endpoint)
	return oracle.New(feed, clk, oracle.Config{MaxConfidenceRatio: cfg.Oracle.MaxConfidenceRatio})
}

func provideAccountService(s *stores, oracles core.OracleService, clk clock.Clock) core.AccountService {
	return account.New(s.users, s.banks, s.positions, oracles, clk, account.Config{
		MaxStaleness: cfg.Oracle.MaxStalenessDuration(),
	})
}

func provideBankService(s *stores, accounts core.AccountService, walletz core.WalletService, clk clock.Clock) core.BankService {
	return bank.New(s.banks, s.positions, s.users, s.transactions, s.ledger, accounts, walletz, clk, s.locker)
}

func provideUserService(s *stores) core.UserService {
	return user.New(s.users, s.banks, s.locker)
}

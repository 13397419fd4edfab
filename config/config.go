package config

import (
	"time"

	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

const (
	// StorageDB gorm backed stores
	StorageDB = "db"
	// StorageMemory in-process stores, state is lost on exit
	StorageMemory = "memory"
)

// Config lending node config
type Config struct {
	DB      db.Config `json:"db"`
	Storage string    `json:"storage"`
	Oracle  Oracle    `json:"oracle"`
	Wallet  Wallet    `json:"wallet"`
	Cashier Cashier   `json:"cashier"`
}

// Oracle price feed config
type Oracle struct {
	Endpoint string `json:"endpoint"`
	// seconds
	MaxStaleness       int64           `json:"max_staleness"`
	MaxConfidenceRatio decimal.Decimal `json:"max_confidence_ratio"`
}

// Wallet custody config
type Wallet struct {
	Endpoint string `json:"endpoint"`
}

// Cashier outbound transfer worker config
type Cashier struct {
	Batch    int   `json:"batch"`
	Capacity int64 `json:"capacity"`
	// seconds
	Interval int64 `json:"interval"`
}

// MaxStalenessDuration oldest acceptable price age
func (o Oracle) MaxStalenessDuration() time.Duration {
	return time.Duration(o.MaxStaleness) * time.Second
}

// IntervalDuration delay between idle cashier rounds
func (c Cashier) IntervalDuration() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

package core

import (
	"context"
	"time"
)

// User user model
type User struct {
	ID     int64  `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	UserID string `sql:"size:64;UNIQUE_INDEX:idx_users_user_id" json:"user_id,omitempty"`
	// designated collateral asset, empty means every deposit counts
	CollateralMint string    `sql:"size:64" json:"collateral_mint,omitempty"`
	Version        int64     `json:"version,omitempty"`
	CreatedAt      time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt      time.Time `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// UserLockKey serializes every write on behalf of the user
func UserLockKey(userID string) string {
	return "user:" + userID
}

// UserStore user store interface
type UserStore interface {
	Save(ctx context.Context, user *User) error
	// Find returns an empty user (ID == 0) when missing
	Find(ctx context.Context, userID string) (*User, error)
}

// UserService user service interface
type UserService interface {
	InitUser(ctx context.Context, userID, collateralMint string) (*User, error)
	Find(ctx context.Context, userID string) (*User, error)
}

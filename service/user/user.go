package user

import (
	"context"

	"lending/core"
	"lending/pkg/lock"

	"github.com/fox-one/pkg/logger"
)

type userService struct {
	users  core.UserStore
	banks  core.BankStore
	locker *lock.Mutex
}

// New new user service, locker must be the one shared with the bank service
func New(users core.UserStore, banks core.BankStore, locker *lock.Mutex) core.UserService {
	return &userService{
		users:  users,
		banks:  banks,
		locker: locker,
	}
}

// InitUser registers the user, optionally designating its collateral bank.
// Calling it again updates the designated collateral.
func (s *userService) InitUser(ctx context.Context, userID, collateralMint string) (*core.User, error) {
	log := logger.FromContext(ctx).WithField("user_id", userID)

	if userID == "" {
		return nil, core.ErrInvalidParams
	}

	// a pending borrow or withdraw finishes under the old designation first
	s.locker.Lock(core.UserLockKey(userID))
	defer s.locker.Unlock(core.UserLockKey(userID))

	if collateralMint != "" {
		bank, err := s.banks.Find(ctx, collateralMint)
		if err != nil {
			log.WithError(err).Errorln("banks.Find")
			return nil, err
		}

		if bank.ID == 0 {
			return nil, core.ErrBankNotFound
		}
	}

	user := &core.User{
		UserID:         userID,
		CollateralMint: collateralMint,
	}

	if err := s.users.Save(ctx, user); err != nil {
		log.WithError(err).Errorln("users.Save")
		return nil, err
	}

	return user, nil
}

func (s *userService) Find(ctx context.Context, userID string) (*core.User, error) {
	user, err := s.users.Find(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("users.Find")
		return nil, err
	}

	return user, nil
}

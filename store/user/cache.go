package user

import (
	"context"
	"fmt"
	"time"

	"lending/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache wraps the store with an lru cache of found users
func Cache(store core.UserStore, exp time.Duration) core.UserStore {
	return &cacheUserStore{
		UserStore: store,
		cache:     gcache.New(2048).LRU().Expiration(exp).Build(),
		sf:        &singleflight.Group{},
	}
}

type cacheUserStore struct {
	core.UserStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheUserStore) Save(ctx context.Context, user *core.User) error {
	if err := s.UserStore.Save(ctx, user); err != nil {
		s.cache.Remove(s.userKey(user.UserID))
		return err
	}

	s.cacheUser(user)
	return nil
}

func (s *cacheUserStore) Find(ctx context.Context, userID string) (*core.User, error) {
	key := s.userKey(userID)
	if v, err := s.cache.Get(key); err == nil {
		if user, ok := v.(*core.User); ok {
			clone := *user
			return &clone, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.UserStore.Find(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	user := v.(*core.User)
	if user.ID > 0 {
		s.cacheUser(user)
	}

	clone := *user
	return &clone, nil
}

func (s *cacheUserStore) cacheUser(user *core.User) {
	clone := *user
	s.cache.Set(s.userKey(user.UserID), &clone)
}

func (s *cacheUserStore) userKey(userID string) string {
	return fmt.Sprintf("user:id:%s", userID)
}

package accounts

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/pescuma/reviewers-by-blame/lib/caches"
	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/storages"
)

const accountCacheSize = 10000

// AccountCache loads account states. Accounts may be changed by other
// processes sharing the database, so a state is kept for at most ttl. With a
// ttl <= 0 every Get reads the storage.
type AccountCache struct {
	storage storages.Storage
	cache   *caches.Cache[model.AccountID, *model.AccountState]
}

func NewAccountCache(storage storages.Storage, ttl time.Duration) *AccountCache {
	result := &AccountCache{
		storage: storage,
	}

	if ttl > 0 {
		result.cache = caches.NewCache[model.AccountID, *model.AccountState](accountCacheSize, ttl)
	}

	return result
}

// Get returns nil and no error when the account does not exist.
func (c *AccountCache) Get(ctx context.Context, id model.AccountID) (*model.AccountState, error) {
	load := func(id model.AccountID) (*model.AccountState, error) {
		account, err := c.storage.LoadAccount(ctx, id)
		if errors.Is(err, storages.ErrNotFound) {
			return nil, nil
		} else if err != nil {
			return nil, err
		}

		return model.NewAccountState(account), nil
	}

	if c.cache == nil {
		return load(id)
	}

	return c.cache.Get(id, load)
}

func (c *AccountCache) Evict(id model.AccountID) {
	if c.cache != nil {
		c.cache.Evict(id)
	}
}

// Update writes the account and drops its cached state.
func (c *AccountCache) Update(ctx context.Context, account *model.Account) error {
	err := c.storage.WriteAccount(ctx, account)
	if err != nil {
		return err
	}

	c.Evict(account.ID)
	return nil
}

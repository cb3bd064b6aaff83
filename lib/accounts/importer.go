package accounts

import (
	"context"

	"github.com/pescuma/reviewers-by-blame/lib/consoles"
	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/storages"
)

// AuthorSource lists the commit authors of a repository.
type AuthorSource interface {
	ForEachAuthor(f func(name string, email string) error) error
}

type ImportOptions struct {
	// MergeByName also joins identities that share only a name.
	MergeByName bool
}

type ImportResult struct {
	Created int
	Updated int
}

// Importer creates accounts for the commit authors of a repository, so
// blamed lines can be resolved to reviewers.
type Importer struct {
	console consoles.Console
	storage storages.Storage
	cache   *AccountCache
}

func NewImporter(console consoles.Console, storage storages.Storage, cache *AccountCache) *Importer {
	return &Importer{
		console: console,
		storage: storage,
		cache:   cache,
	}
}

// Import groups the authors of source with the existing accounts. Groups
// without an account get a new active account. Groups with accounts get the
// emails none of them has added to the best matching one.
func (i *Importer) Import(ctx context.Context, source AuthorSource, opts ImportOptions) (*ImportResult, error) {
	existing, err := i.storage.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	grouper := newIdentityGrouper(opts.MergeByName)
	grouper.seed(existing)

	err = source.ForEachAuthor(func(name string, email string) error {
		grouper.add(name, email)
		return ctx.Err()
	})
	if err != nil {
		return nil, err
	}

	result := &ImportResult{}
	for _, r := range grouper.list() {
		account := r.findBestAccount()
		created := account == nil

		if created {
			account = model.NewAccount(0)
			account.FullName = r.Name
		}

		changed := created
		for _, e := range r.emails.Slice() {
			if !r.isOwned(e) {
				account.AddEmail(e)
				changed = true
			}
		}
		if !changed {
			continue
		}

		err = i.cache.Update(ctx, account)
		if err != nil {
			return nil, err
		}

		if created {
			i.console.Debugf("Created account %v for %v", account.ID, r.Name)
			result.Created++
		} else {
			i.console.Debugf("Added emails to account %v", account.ID)
			result.Updated++
		}
	}

	return result, nil
}

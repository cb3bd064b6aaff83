package accounts

import (
	"context"

	"github.com/hashicorp/go-set/v2"

	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/storages"
)

// Emails resolves commit author emails to accounts.
type Emails struct {
	storage storages.Storage
}

func NewEmails(storage storages.Storage) *Emails {
	return &Emails{
		storage: storage,
	}
}

// GetAccountsFor returns every account that has the email. An unknown email
// returns an empty set and no error.
func (e *Emails) GetAccountsFor(ctx context.Context, email string) (*set.Set[model.AccountID], error) {
	if model.NormalizeEmail(email) == "" {
		return set.New[model.AccountID](0), nil
	}

	ids, err := e.storage.QueryAccountsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return set.From(ids), nil
}

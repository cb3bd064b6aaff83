package storages

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pescuma/reviewers-by-blame/lib/model"
)

var ErrNotFound = errors.New("not found")

type Storage interface {
	// LoadAccount returns ErrNotFound when there is no account with the id.
	LoadAccount(ctx context.Context, id model.AccountID) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]*model.Account, error)
	// WriteAccount creates or updates an account and replaces its emails. When
	// the ID is 0 a new one is assigned.
	WriteAccount(ctx context.Context, account *model.Account) error
	QueryAccountsByEmail(ctx context.Context, email string) ([]model.AccountID, error)

	LoadProject(ctx context.Context, name string) (*model.Project, error)
	ListProjects(ctx context.Context) ([]*model.Project, error)
	WriteProject(ctx context.Context, project *model.Project) error

	LoadChange(ctx context.Context, id model.ChangeID) (*model.Change, error)
	LoadChangeByKey(ctx context.Context, key string) (*model.Change, error)
	// WriteChange creates or updates a change. When the ID is 0 a new one is
	// assigned.
	WriteChange(ctx context.Context, change *model.Change) error

	LoadPatchSet(ctx context.Context, change model.ChangeID, number int) (*model.PatchSet, error)
	ListPatchSets(ctx context.Context, change model.ChangeID) ([]*model.PatchSet, error)
	WritePatchSet(ctx context.Context, ps *model.PatchSet) error

	ListReviewers(ctx context.Context, change model.ChangeID) ([]model.AccountID, error)
	// AddReviewers adds the accounts that are not reviewers of the change yet
	// and returns how many were added.
	AddReviewers(ctx context.Context, change model.ChangeID, ids []model.AccountID) (int, error)

	Close() error
}

package reviewers

import (
	"context"

	"github.com/hashicorp/go-set/v2"

	"github.com/pescuma/reviewers-by-blame/lib/gitrepo"
	"github.com/pescuma/reviewers-by-blame/lib/model"
)

// Repository is what a pass reads from version control.
type Repository interface {
	ResolveCommit(id string) (*model.Commit, error)
	// Blame returns an error when the file can't be blamed. Callers skip the
	// file in that case.
	Blame(path string, start *model.Commit) (*model.BlameResult, error)
	PatchList(ctx context.Context, revision string) ([]*model.FileEdit, error)
}

// Repositories opens the repository of a project for the duration of fn and
// closes it on every exit path.
type Repositories interface {
	WithRepository(project string, fn func(Repository) error) error
}

type AccountResolver interface {
	// GetAccountsFor returns an empty set when no account has the email.
	GetAccountsFor(ctx context.Context, email string) (*set.Set[model.AccountID], error)
}

type AccountStates interface {
	// Get returns nil without error when the account does not exist.
	Get(ctx context.Context, id model.AccountID) (*model.AccountState, error)
}

type ConfigResolver interface {
	ResolveProjectConfig(ctx context.Context, project string) (*model.Configuration, error)
}

type Changes interface {
	LoadChange(ctx context.Context, id model.ChangeID) (*model.Change, error)
	LoadChangeByKey(ctx context.Context, key string) (*model.Change, error)
	LoadPatchSet(ctx context.Context, change model.ChangeID, number int) (*model.PatchSet, error)
	WritePatchSet(ctx context.Context, ps *model.PatchSet) error
}

type Poster interface {
	// PostReviewers adds the accounts as reviewers of the change. Adding an
	// existing reviewer is a no-op.
	PostReviewers(ctx context.Context, change *model.Change, ids *set.Set[model.AccountID]) error
}

type gitRepositories struct {
	manager *gitrepo.Manager
}

func GitRepositories(manager *gitrepo.Manager) Repositories {
	return &gitRepositories{
		manager: manager,
	}
}

func (g *gitRepositories) WithRepository(project string, fn func(Repository) error) error {
	return g.manager.WithRepository(project, func(repo *gitrepo.Repository) error {
		return fn(repo)
	})
}

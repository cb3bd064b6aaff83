package gitrepo

import (
	"context"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/reviewers-by-blame/lib/model"
)

// Repository is an open repository. It must not be used after Close and must
// not be shared between goroutines.
type Repository struct {
	manager *Manager
	project string
	repo    *git.Repository
	closer  io.Closer
	closed  bool
}

func newRepository(manager *Manager, project string, repo *git.Repository, closer io.Closer) *Repository {
	return &Repository{
		manager: manager,
		project: project,
		repo:    repo,
		closer:  closer,
	}
}

func (r *Repository) Project() string {
	return r.project
}

func (r *Repository) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

func (r *Repository) ResolveCommit(id string) (*model.Commit, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(id))
	if err != nil {
		return nil, errors.Wrapf(err, "error resolving revision %v in %v", id, r.project)
	}

	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading commit %v in %v", hash, r.project)
	}

	parents := lo.Map(commit.ParentHashes, func(h plumbing.Hash, _ int) string { return h.String() })

	return model.NewCommit(commit.Hash.String(), commit.Message, parents...), nil
}

// Blame computes the author of every line of path as of the start commit.
func (r *Repository) Blame(path string, start *model.Commit) (*model.BlameResult, error) {
	commit, err := r.repo.CommitObject(plumbing.NewHash(start.ID))
	if err != nil {
		return nil, errors.Wrapf(err, "error loading commit %v in %v", start.ID, r.project)
	}

	blame, err := git.Blame(commit, path)
	if err != nil {
		return nil, errors.Wrapf(err, "error computing blame of %v at %v", path, start.ShortID())
	}

	result := &model.BlameResult{
		Path:     path,
		Revision: start.ID,
		Lines:    make([]*model.BlameEntry, len(blame.Lines)),
	}
	for i, l := range blame.Lines {
		result.Lines[i] = &model.BlameEntry{
			Line:        i,
			CommitID:    l.Hash.String(),
			AuthorName:  l.AuthorName,
			AuthorEmail: l.Author,
		}
	}

	return result, nil
}

// PatchList returns the files changed by revision compared to its first
// parent. Patch lists are cached, since a revision never changes.
func (r *Repository) PatchList(ctx context.Context, revision string) ([]*model.FileEdit, error) {
	key := patchListKey{project: r.project, revision: revision}

	return r.manager.patchLists.Get(key, func(patchListKey) ([]*model.FileEdit, error) {
		return computePatchList(ctx, r.repo, plumbing.NewHash(revision))
	})
}

// ForEachAuthor calls f with the author of every commit reachable from HEAD.
// An empty repository has no authors.
func (r *Repository) ForEachAuthor(f func(name string, email string) error) error {
	head, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil
	} else if err != nil {
		return errors.Wrapf(err, "error resolving HEAD in %v", r.project)
	}

	commits, err := r.repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return errors.Wrapf(err, "error listing commits in %v", r.project)
	}
	defer commits.Close()

	return commits.ForEach(func(c *object.Commit) error {
		return f(c.Author.Name, c.Author.Email)
	})
}

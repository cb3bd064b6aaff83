// Package gittest builds in memory git repositories for tests.
package gittest

import (
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/require"
)

type Fixture struct {
	t        testing.TB
	worktree *git.Worktree
	when     time.Time

	Repo *git.Repository
}

func New(t testing.TB) *Fixture {
	repo, err := git.Init(memory.NewStorage(), memfs.New())
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	return &Fixture{
		t:        t,
		worktree: wt,
		when:     time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Repo:     repo,
	}
}

func (f *Fixture) Write(path string, content string) {
	err := util.WriteFile(f.worktree.Filesystem, path, []byte(content), 0o644)
	require.NoError(f.t, err)

	_, err = f.worktree.Add(path)
	require.NoError(f.t, err)
}

func (f *Fixture) Remove(path string) {
	_, err := f.worktree.Remove(path)
	require.NoError(f.t, err)
}

func (f *Fixture) Move(from, to string) {
	_, err := f.worktree.Move(from, to)
	require.NoError(f.t, err)
}

// Commit commits the staged changes on top of HEAD and returns the new hash.
func (f *Fixture) Commit(message, authorName, authorEmail string) string {
	return f.commit(message, authorName, authorEmail, nil)
}

// Merge creates a commit with HEAD and other as parents.
func (f *Fixture) Merge(message, authorName, authorEmail string, other string) string {
	head, err := f.Repo.Head()
	require.NoError(f.t, err)

	return f.commit(message, authorName, authorEmail, []plumbing.Hash{head.Hash(), plumbing.NewHash(other)})
}

func (f *Fixture) commit(message, authorName, authorEmail string, parents []plumbing.Hash) string {
	f.when = f.when.Add(time.Minute)

	sig := &object.Signature{
		Name:  authorName,
		Email: authorEmail,
		When:  f.when,
	}

	hash, err := f.worktree.Commit(message, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		Parents:           parents,
		AllowEmptyCommits: true,
	})
	require.NoError(f.t, err)

	return hash.String()
}

package gitrepo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pescuma/reviewers-by-blame/lib/gitrepo/gittest"
)

func TestOpenInMemoryRepository(t *testing.T) {
	t.Parallel()

	f := gittest.New(t)
	f.Write("a.txt", "a\n")
	hash := f.Commit("first", "Ann", "ann@example.com")

	m := NewManager("")
	m.AddRepository("proj", f.Repo)

	err := m.WithRepository("proj", func(repo *Repository) error {
		assert.Equal(t, "proj", repo.Project())

		commit, err := repo.ResolveCommit(hash)
		require.NoError(t, err)
		assert.Equal(t, hash, commit.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestOpenUnknownRepository(t *testing.T) {
	t.Parallel()

	m := NewManager(t.TempDir())

	_, err := m.OpenRepository("missing")
	assert.True(t, errors.Is(err, ErrRepositoryNotFound))
}

func TestOpenRepositoryFromDisk(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	_, err := git.PlainInit(filepath.Join(base, "bare.git"), true)
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(base, "group", "work"), 0o755))
	_, err = git.PlainInit(filepath.Join(base, "group", "work"), false)
	require.NoError(t, err)

	m := NewManager(base)

	for _, project := range []string{"bare", "group/work"} {
		repo, err := m.OpenRepository(project)
		require.NoError(t, err, project)
		assert.NoError(t, repo.Close())
		assert.NoError(t, repo.Close())
	}
}

func TestWithRepositoryReturnsCallbackError(t *testing.T) {
	t.Parallel()

	f := gittest.New(t)
	m := NewManager("")
	m.AddRepository("proj", f.Repo)

	expected := errors.New("failed")
	err := m.WithRepository("proj", func(*Repository) error {
		return expected
	})

	assert.Equal(t, expected, err)
}

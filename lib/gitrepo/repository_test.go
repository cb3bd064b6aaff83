package gitrepo

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pescuma/reviewers-by-blame/lib/caches"
	"github.com/pescuma/reviewers-by-blame/lib/gitrepo/gittest"
	"github.com/pescuma/reviewers-by-blame/lib/model"
)

func openFixture(t *testing.T, f *gittest.Fixture) *Repository {
	m := NewManager("")
	m.AddRepository("proj", f.Repo)

	repo, err := m.OpenRepository("proj")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func TestResolveCommit(t *testing.T) {
	t.Parallel()

	f := gittest.New(t)
	f.Write("a.txt", "a\n")
	first := f.Commit("first\n\nbody", "Ann", "ann@example.com")
	f.Write("a.txt", "b\n")
	second := f.Commit("second line\nwrapped", "Bob", "bob@example.com")

	repo := openFixture(t, f)

	c, err := repo.ResolveCommit(first)
	require.NoError(t, err)
	assert.Equal(t, "first", c.Subject)
	assert.Equal(t, 0, c.ParentCount())

	c, err = repo.ResolveCommit(second)
	require.NoError(t, err)
	assert.Equal(t, "second line wrapped", c.Subject)
	assert.Equal(t, []string{first}, c.Parents)

	c, err = repo.ResolveCommit("HEAD")
	require.NoError(t, err)
	assert.Equal(t, second, c.ID)

	_, err = repo.ResolveCommit("0123456789012345678901234567890123456789")
	assert.Error(t, err)
}

func TestBlame(t *testing.T) {
	t.Parallel()

	f := gittest.New(t)
	f.Write("a.txt", "1\n2\n3\n")
	first := f.Commit("first", "Ann", "ann@example.com")
	f.Write("a.txt", "1\nX\n3\n")
	second := f.Commit("second", "Bob", "bob@example.com")

	repo := openFixture(t, f)

	c, err := repo.ResolveCommit(second)
	require.NoError(t, err)

	blame, err := repo.Blame("a.txt", c)
	require.NoError(t, err)

	require.Equal(t, 3, blame.LineCount())
	assert.Equal(t, "ann@example.com", blame.Lines[0].AuthorEmail)
	assert.Equal(t, first, blame.Lines[0].CommitID)
	assert.Equal(t, "bob@example.com", blame.Lines[1].AuthorEmail)
	assert.Equal(t, "Bob", blame.Lines[1].AuthorName)
	assert.Equal(t, "ann@example.com", blame.Lines[2].AuthorEmail)

	_, ok := blame.Entry(3)
	assert.False(t, ok)

	_, err = repo.Blame("missing.txt", c)
	assert.Error(t, err)
}

func TestPatchList(t *testing.T) {
	t.Parallel()

	f := gittest.New(t)
	f.Write("keep.txt", "1\n2\n3\n4\n")
	f.Write("gone.txt", "a\nb\n")
	f.Write("image.bin", "\x00\x01\x02")
	first := f.Commit("first", "Ann", "ann@example.com")
	f.Write("keep.txt", "1\nX\n3\n4\n5\n")
	f.Remove("gone.txt")
	f.Write("new.txt", "n\n")
	f.Write("image.bin", "\x00\x03\x02")
	second := f.Commit("second", "Bob", "bob@example.com")

	repo := openFixture(t, f)

	edits, err := repo.PatchList(context.Background(), first)
	require.NoError(t, err)
	require.Len(t, edits, 3)
	for _, e := range edits {
		assert.Equal(t, model.FileAdded, e.Kind)
	}

	edits, err = repo.PatchList(context.Background(), second)
	require.NoError(t, err)
	require.Len(t, edits, 4)

	byPath := map[string]*model.FileEdit{}
	for _, e := range edits {
		byPath[e.Path] = e
	}

	assert.Equal(t, model.FileDeleted, byPath["gone.txt"].Kind)
	assert.Equal(t, []model.Edit{{BeginA: 0, EndA: 2, BeginB: 0, EndB: 0}}, byPath["gone.txt"].Edits)

	assert.Equal(t, model.FileAdded, byPath["new.txt"].Kind)
	assert.Equal(t, []model.Edit{{BeginA: 0, EndA: 0, BeginB: 0, EndB: 1}}, byPath["new.txt"].Edits)

	assert.Equal(t, model.FileModified, byPath["image.bin"].Kind)
	assert.Empty(t, byPath["image.bin"].Edits)

	keep := byPath["keep.txt"]
	assert.Equal(t, model.FileModified, keep.Kind)
	assert.Equal(t, []model.Edit{
		{BeginA: 1, EndA: 2, BeginB: 1, EndB: 2},
		{BeginA: 4, EndA: 4, BeginB: 4, EndB: 5},
	}, keep.Edits)
}

func TestPatchListDetectsRenames(t *testing.T) {
	t.Parallel()

	f := gittest.New(t)
	f.Write("old.txt", "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n")
	f.Commit("first", "Ann", "ann@example.com")
	f.Move("old.txt", "new.txt")
	second := f.Commit("rename", "Bob", "bob@example.com")

	repo := openFixture(t, f)

	edits, err := repo.PatchList(context.Background(), second)
	require.NoError(t, err)
	require.Len(t, edits, 1)

	assert.Equal(t, model.FileRenamed, edits[0].Kind)
	assert.Equal(t, "new.txt", edits[0].Path)
	assert.Equal(t, "old.txt", edits[0].OldPath)
	assert.Empty(t, edits[0].Edits)
}

func TestPatchListCacheIsBounded(t *testing.T) {
	t.Parallel()

	f := gittest.New(t)
	var revisions []string
	for i, content := range []string{"1\n", "2\n", "3\n"} {
		f.Write("a.txt", content)
		revisions = append(revisions, f.Commit(fmt.Sprintf("commit %v", i), "Ann", "ann@example.com"))
	}

	m := NewManager("")
	m.patchLists = caches.NewCache[patchListKey, []*model.FileEdit](2, 0)
	m.AddRepository("proj", f.Repo)

	repo, err := m.OpenRepository("proj")
	require.NoError(t, err)
	defer repo.Close()

	for _, r := range revisions {
		edits, err := repo.PatchList(context.Background(), r)
		require.NoError(t, err)
		require.Len(t, edits, 1)
		assert.Equal(t, "a.txt", edits[0].Path)
	}

	assert.Equal(t, 2, m.patchLists.Len())
}

func TestForEachAuthor(t *testing.T) {
	t.Parallel()

	f := gittest.New(t)
	repo := openFixture(t, f)

	var authors []string
	collect := func(name string, email string) error {
		authors = append(authors, name+" <"+email+">")
		return nil
	}

	require.NoError(t, repo.ForEachAuthor(collect))
	assert.Empty(t, authors)

	f.Write("a.txt", "1\n")
	f.Commit("first", "Ann", "ann@example.com")
	f.Write("a.txt", "2\n")
	f.Commit("second", "Bob", "bob@example.com")

	require.NoError(t, repo.ForEachAuthor(collect))
	assert.ElementsMatch(t, []string{"Ann <ann@example.com>", "Bob <bob@example.com>"}, authors)
}

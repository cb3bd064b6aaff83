package reviewers_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pescuma/reviewers-by-blame/lib/accounts"
	"github.com/pescuma/reviewers-by-blame/lib/consoles"
	"github.com/pescuma/reviewers-by-blame/lib/gitrepo"
	"github.com/pescuma/reviewers-by-blame/lib/gitrepo/gittest"
	"github.com/pescuma/reviewers-by-blame/lib/metrics"
	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/projectconfig"
	"github.com/pescuma/reviewers-by-blame/lib/reviewers"
	"github.com/pescuma/reviewers-by-blame/lib/storages"
	"github.com/pescuma/reviewers-by-blame/lib/storages/orm"
)

type world struct {
	storage  storages.Storage
	resolver *projectconfig.Resolver
	pipeline *reviewers.Pipeline
	ann      *model.Account
	bob      *model.Account
	carl     *model.Account
	change   *model.Change
}

func newWorld(t *testing.T) *world {
	ctx := context.Background()
	console := consoles.NewDiscardConsole()

	storage, err := orm.NewGormStorage(orm.WithSqliteInMemory(), console)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	w := &world{
		storage:  storage,
		resolver: projectconfig.NewResolver(storage, nil),
	}

	w.ann = w.account(t, "ann", "ann@example.com")
	w.bob = w.account(t, "bob", "bob@example.com", "robert@example.com")
	w.carl = w.account(t, "carl", "carl@example.com")

	_, err = w.resolver.CreateProject(ctx, "app", "")
	require.NoError(t, err)

	repo := gittest.New(t)
	repo.Write("a.txt", "1\n2\n3\n4\n5\n")
	repo.Commit("Add a", "Ann", "ann@example.com")
	repo.Write("b.txt", "x\ny\nz\n")
	repo.Commit("Add b", "Bob", "Robert@Example.com")
	repo.Write("a.txt", "1\nA\nB\nC\n5\n")
	repo.Write("b.txt", "x\nY\nz\n")
	repo.Write("c.txt", "new\nfile\n")
	revision := repo.Commit("Change everything", "Carl", "carl@example.com")

	manager := gitrepo.NewManager("")
	manager.AddRepository("app", repo.Repo)

	w.change = &model.Change{ID: 10, Key: "I10", Project: "app", Owner: w.carl.ID, Status: model.ChangeNew}
	require.NoError(t, storage.WriteChange(ctx, w.change))
	require.NoError(t, storage.WritePatchSet(ctx, &model.PatchSet{ChangeID: w.change.ID, Number: 1, Revision: revision, Uploader: w.carl.ID}))

	w.pipeline = reviewers.NewPipeline(console, reviewers.Collaborators{
		Configs:      w.resolver,
		Changes:      storage,
		Repositories: reviewers.GitRepositories(manager),
		Emails:       accounts.NewEmails(storage),
		Accounts:     accounts.NewAccountCache(storage, 0),
		Poster:       reviewers.NewStoragePoster(console, storage),
		Metrics:      metrics.New(),
	})

	return w
}

func (w *world) account(t *testing.T, username string, emails ...string) *model.Account {
	a := model.NewAccount(0)
	a.SetUsername(username)
	for _, e := range emails {
		a.AddEmail(e)
	}
	require.NoError(t, w.storage.WriteAccount(context.Background(), a))
	return a
}

func (w *world) request(post bool) reviewers.Request {
	return reviewers.Request{Project: "app", ChangeID: w.change.ID, PatchSet: 1, Post: post}
}

func TestEndToEndSelectsTheAuthorsOfTheReplacedLines(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	w := newWorld(t)

	result := w.pipeline.Run(ctx, w.request(true))

	require.Equal(t, reviewers.StatePosted, result.State, result.Err)
	assert.Equal(t, []model.AccountID{w.ann.ID, w.bob.ID}, reviewers.SortedIDs(result.Reviewers))

	posted, err := w.storage.ListReviewers(ctx, w.change.ID)
	require.NoError(t, err)
	assert.Equal(t, []model.AccountID{w.ann.ID, w.bob.ID}, posted)

	result = w.pipeline.Run(ctx, w.request(true))
	require.Equal(t, reviewers.StatePosted, result.State, result.Err)

	posted, err = w.storage.ListReviewers(ctx, w.change.ID)
	require.NoError(t, err)
	assert.Len(t, posted, 2)
}

func TestEndToEndHonorsProjectConfig(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	w := newWorld(t)

	require.NoError(t, w.resolver.SetProjectConfig(ctx, "app", projectconfig.KeyMaxReviewers, "1"))

	result := w.pipeline.Run(ctx, w.request(false))
	require.Equal(t, reviewers.StateSelected, result.State, result.Err)
	assert.Equal(t, []model.AccountID{w.ann.ID}, reviewers.SortedIDs(result.Reviewers))

	require.NoError(t, w.resolver.SetProjectConfig(ctx, "app", projectconfig.KeyIgnoredUsers, "ann"))

	result = w.pipeline.Run(ctx, w.request(false))
	require.Equal(t, reviewers.StateSelected, result.State, result.Err)
	assert.Equal(t, []model.AccountID{w.bob.ID}, reviewers.SortedIDs(result.Reviewers))

	require.NoError(t, w.resolver.SetProjectConfig(ctx, "app", projectconfig.KeyIgnoreFileRegEx, `b\.txt`))

	result = w.pipeline.Run(ctx, w.request(false))
	require.Equal(t, reviewers.StateSelected, result.State, result.Err)
	assert.True(t, result.Reviewers.Empty())

	require.NoError(t, w.resolver.SetProjectConfig(ctx, "app", projectconfig.KeyMaxReviewers, "0"))

	result = w.pipeline.Run(ctx, w.request(false))
	assert.Equal(t, reviewers.StateSkipped, result.State)
}

func TestEndToEndSuggestOnMergedChange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	w := newWorld(t)

	w.change.Status = model.ChangeMerged
	require.NoError(t, w.storage.WriteChange(ctx, w.change))

	_, err := w.pipeline.Suggest(ctx, w.request(false))
	assert.ErrorIs(t, err, reviewers.ErrChangeClosed)
}

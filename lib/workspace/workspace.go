package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/pescuma/reviewers-by-blame/lib/accounts"
	"github.com/pescuma/reviewers-by-blame/lib/consoles"
	"github.com/pescuma/reviewers-by-blame/lib/events"
	"github.com/pescuma/reviewers-by-blame/lib/gitrepo"
	"github.com/pescuma/reviewers-by-blame/lib/metrics"
	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/projectconfig"
	"github.com/pescuma/reviewers-by-blame/lib/reviewers"
	"github.com/pescuma/reviewers-by-blame/lib/server"
	"github.com/pescuma/reviewers-by-blame/lib/storages"
	"github.com/pescuma/reviewers-by-blame/lib/storages/orm"
	"github.com/pescuma/reviewers-by-blame/lib/utils"
)

// Workspace wires the storage, the repositories and the scoring pipeline
// described by a site config.
type Workspace struct {
	site    *projectconfig.SiteConfig
	console consoles.Console
	storage storages.Storage
	repos   *gitrepo.Manager
	metrics *metrics.Metrics

	resolver *projectconfig.Resolver
	accounts *accounts.AccountCache
	pipeline *reviewers.Pipeline
}

func NewWorkspace(site *projectconfig.SiteConfig) (*Workspace, error) {
	console, err := consoles.NewConsole(&consoles.Options{
		Level:  site.Logging.Level,
		Format: site.Logging.Format,
	})
	if err != nil {
		return nil, err
	}

	storage, err := openStorage(console, site.Database)
	if err != nil {
		return nil, err
	}

	basePath, err := utils.PathAbs(site.Repositories.BasePath)
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	return NewWorkspaceWith(console, storage, gitrepo.NewManager(basePath), site), nil
}

// NewWorkspaceWith creates a workspace over already open collaborators. The
// workspace takes ownership of the storage.
func NewWorkspaceWith(console consoles.Console, storage storages.Storage, repos *gitrepo.Manager, site *projectconfig.SiteConfig) *Workspace {
	w := &Workspace{
		site:     site,
		console:  console,
		storage:  storage,
		repos:    repos,
		metrics:  metrics.New(),
		resolver: projectconfig.NewResolver(storage, site),
		accounts: accounts.NewAccountCache(storage, site.Accounts.CacheTTL),
	}

	w.pipeline = reviewers.NewPipeline(console, reviewers.Collaborators{
		Configs:      w.resolver,
		Changes:      storage,
		Repositories: reviewers.GitRepositories(repos),
		Emails:       accounts.NewEmails(storage),
		Accounts:     w.accounts,
		Poster:       reviewers.NewStoragePoster(console, storage),
		Metrics:      w.metrics,
	})

	return w
}

func openStorage(console consoles.Console, db projectconfig.DatabaseConfig) (storages.Storage, error) {
	switch db.Driver {
	case "sqlite":
		if db.DSN == ":memory:" {
			return orm.NewGormStorage(orm.WithSqliteInMemory(), console)
		}

		file, err := utils.PathAbs(db.DSN)
		if err != nil {
			return nil, err
		}

		err = createDatabaseDir(console, file)
		if err != nil {
			return nil, err
		}

		return orm.NewGormStorage(orm.WithSqlite(file), console)

	case "mysql":
		d, err := orm.WithMySQL(db.DSN)
		if err != nil {
			return nil, err
		}

		return orm.NewGormStorage(d, console)

	default:
		return nil, errors.Errorf("unknown database driver %v", db.Driver)
	}
}

func createDatabaseDir(console consoles.Console, file string) error {
	path := filepath.Dir(file)

	if _, err := os.Stat(path); err != nil {
		console.Printf("Creating database dir at %v", path)
		err = os.MkdirAll(path, 0o700)
		if err != nil {
			return err
		}
	}

	return nil
}

func (w *Workspace) Close() error {
	return w.storage.Close()
}

func (w *Workspace) Console() consoles.Console {
	return w.console
}

func (w *Workspace) Storage() storages.Storage {
	return w.storage
}

func (w *Workspace) Pipeline() *reviewers.Pipeline {
	return w.pipeline
}

func (w *Workspace) Metrics() *metrics.Metrics {
	return w.metrics
}

// Serve runs the event listener and the http server until ctx is done, then
// waits for the queued passes.
func (w *Workspace) Serve(ctx context.Context) error {
	listener := events.NewListener(w.console, w.pipeline, w.site, w.site.Workers)
	defer listener.Close()

	return server.Run(ctx, w.console, server.Dependencies{
		Listener:  listener,
		Suggester: w.pipeline,
		Storage:   w.storage,
		Metrics:   w.metrics,
	}, &server.Options{
		Host: w.site.Server.Host,
		Port: uint(w.site.Server.Port),
	})
}

type ChangeSuggestion struct {
	Change   model.ChangeID
	PatchSet int
	Result   *reviewers.Result
}

// SuggestForChanges scores the latest patch set of each change in parallel.
// Changes without patch sets are reported as skipped.
func (w *Workspace) SuggestForChanges(ctx context.Context, project string, changes []model.ChangeID, post bool, showProgress bool) ([]*ChangeSuggestion, error) {
	console := w.console
	var bar interface{ Add(int) error }
	if showProgress {
		b := utils.NewProgressBar(len(changes), "Suggesting")
		defer b.Finish()
		bar = b
	}

	group := utils.ParallelFor(changes, func(id model.ChangeID) (*ChangeSuggestion, error) {
		pss, err := w.storage.ListPatchSets(ctx, id)
		if err != nil {
			return nil, err
		}

		if len(pss) == 0 {
			console.Warnf("%v: change %v has no patch sets", project, id)
			return &ChangeSuggestion{
				Change: id,
				Result: &reviewers.Result{State: reviewers.StateSkipped, Reason: "patch set not found"},
			}, nil
		}

		latest := pss[len(pss)-1]

		return &ChangeSuggestion{
			Change:   id,
			PatchSet: latest.Number,
			Result: w.pipeline.Run(ctx, reviewers.Request{
				Project:  project,
				ChangeID: id,
				PatchSet: latest.Number,
				Post:     post,
			}),
		}, nil
	}, utils.ParallelOptions{Routines: w.site.Workers, Context: ctx})

	var result []*ChangeSuggestion
	for s := range group.Output {
		result = append(result, s)
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	err := group.Error()
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Change < result[j].Change })
	return result, nil
}

func (w *Workspace) AddAccount(ctx context.Context, username string, fullName string, emails []string) (*model.Account, error) {
	a := model.NewAccount(0)
	a.SetUsername(username)
	a.FullName = fullName
	for _, e := range emails {
		if strings.TrimSpace(e) != "" {
			a.AddEmail(e)
		}
	}

	err := w.accounts.Update(ctx, a)
	if err != nil {
		return nil, err
	}

	return a, nil
}

func (w *Workspace) ListAccounts(ctx context.Context) ([]*model.Account, error) {
	return w.storage.ListAccounts(ctx)
}

func (w *Workspace) SetAccountActive(ctx context.Context, id model.AccountID, active bool) error {
	a, err := w.storage.LoadAccount(ctx, id)
	if err != nil {
		return err
	}

	a.Active = active
	return w.accounts.Update(ctx, a)
}

// ImportAccounts creates accounts for the commit authors of the project
// repository.
func (w *Workspace) ImportAccounts(ctx context.Context, project string, mergeByName bool) (*accounts.ImportResult, error) {
	var result *accounts.ImportResult

	err := w.repos.WithRepository(project, func(repo *gitrepo.Repository) error {
		var err error
		result, err = accounts.NewImporter(w.console, w.storage, w.accounts).
			Import(ctx, repo, accounts.ImportOptions{MergeByName: mergeByName})
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (w *Workspace) CreateProject(ctx context.Context, name string, parent string) (*model.Project, error) {
	return w.resolver.CreateProject(ctx, name, parent)
}

func (w *Workspace) SetProjectConfig(ctx context.Context, project string, key string, value string) error {
	return w.resolver.SetProjectConfig(ctx, project, key, value)
}

func (w *Workspace) ResolveProjectConfig(ctx context.Context, project string) (*model.Configuration, error) {
	return w.resolver.ResolveProjectConfig(ctx, project)
}

// CreatePatchSet stores a patch set, creating its change when it does not
// exist yet.
func (w *Workspace) CreatePatchSet(ctx context.Context, change *model.Change, ps *model.PatchSet) error {
	_, err := w.storage.LoadChange(ctx, change.ID)
	if errors.Is(err, storages.ErrNotFound) {
		err = w.storage.WriteChange(ctx, change)
	}
	if err != nil {
		return err
	}

	ps.ChangeID = change.ID
	return w.storage.WritePatchSet(ctx, ps)
}

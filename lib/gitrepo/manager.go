package gitrepo

import (
	"io"
	"path/filepath"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/pkg/errors"

	"github.com/pescuma/reviewers-by-blame/lib/caches"
	"github.com/pescuma/reviewers-by-blame/lib/model"
)

var ErrRepositoryNotFound = errors.New("repository not found")

const patchListCacheSize = 256

// Manager opens the repositories of projects. Repositories are looked up
// under the base path as <project>.git and then <project>.
type Manager struct {
	basePath string

	mutex    sync.RWMutex
	inMemory map[string]*git.Repository

	patchLists *caches.Cache[patchListKey, []*model.FileEdit]
}

type patchListKey struct {
	project  string
	revision string
}

func NewManager(basePath string) *Manager {
	return &Manager{
		basePath:   basePath,
		inMemory:   map[string]*git.Repository{},
		patchLists: caches.NewCache[patchListKey, []*model.FileEdit](patchListCacheSize, 0),
	}
}

// AddRepository registers an already open repository for a project. It takes
// precedence over the repositories on disk and is never closed by the manager.
func (m *Manager) AddRepository(project string, repo *git.Repository) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.inMemory[project] = repo
}

func (m *Manager) OpenRepository(project string) (*Repository, error) {
	m.mutex.RLock()
	repo, ok := m.inMemory[project]
	m.mutex.RUnlock()

	if ok {
		return newRepository(m, project, repo, nil), nil
	}

	if m.basePath == "" {
		return nil, errors.Wrapf(ErrRepositoryNotFound, "%v", project)
	}

	for _, dir := range []string{
		filepath.Join(m.basePath, filepath.FromSlash(project)+".git"),
		filepath.Join(m.basePath, filepath.FromSlash(project)),
	} {
		repo, err := git.PlainOpen(dir)
		if errors.Is(err, git.ErrRepositoryNotExists) {
			continue
		} else if err != nil {
			return nil, errors.Wrapf(err, "error opening repository %v", dir)
		}

		closer, _ := repo.Storer.(io.Closer)
		return newRepository(m, project, repo, closer), nil
	}

	return nil, errors.Wrapf(ErrRepositoryNotFound, "%v", project)
}

// WithRepository opens the repository of the project, runs fn and closes the
// repository, no matter how fn returns.
func (m *Manager) WithRepository(project string, fn func(*Repository) error) (err error) {
	repo, err := m.OpenRepository(project)
	if err != nil {
		return err
	}

	defer func() {
		cerr := repo.Close()
		if err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "error closing repository of %v", project)
		}
	}()

	return fn(repo)
}

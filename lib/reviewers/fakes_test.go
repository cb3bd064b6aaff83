package reviewers

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"

	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/storages"
)

type fakeEmails struct {
	accounts map[string][]model.AccountID
	err      error
	calls    int
}

func (f *fakeEmails) GetAccountsFor(_ context.Context, email string) (*set.Set[model.AccountID], error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return set.From(f.accounts[model.NormalizeEmail(email)]), nil
}

type fakeAccounts struct {
	states map[model.AccountID]*model.AccountState
	err    error
}

func (f *fakeAccounts) Get(_ context.Context, id model.AccountID) (*model.AccountState, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.states[id], nil
}

func (f *fakeAccounts) add(id model.AccountID, username string, active bool) {
	a := model.NewAccount(id)
	a.SetUsername(username)
	a.Active = active
	f.states[id] = model.NewAccountState(a)
}

type fakeRepo struct {
	commits  map[string]*model.Commit
	edits    []*model.FileEdit
	blames   map[string]*model.BlameResult
	patchErr error

	blameCalls int
	blamed     []string
}

func (f *fakeRepo) ResolveCommit(id string) (*model.Commit, error) {
	c, ok := f.commits[id]
	if !ok {
		return nil, errors.Errorf("object not found: %v", id)
	}
	return c, nil
}

func (f *fakeRepo) Blame(path string, start *model.Commit) (*model.BlameResult, error) {
	f.blameCalls++
	f.blamed = append(f.blamed, path)

	b, ok := f.blames[path]
	if !ok {
		return nil, errors.Errorf("file not found at %v: %v", start.ID, path)
	}
	return b, nil
}

func (f *fakeRepo) PatchList(_ context.Context, _ string) ([]*model.FileEdit, error) {
	if f.patchErr != nil {
		return nil, f.patchErr
	}
	return f.edits, nil
}

type fakeRepos struct {
	repo    *fakeRepo
	openErr error
	opens   int
	closes  int
}

func (f *fakeRepos) WithRepository(_ string, fn func(Repository) error) error {
	f.opens++
	if f.openErr != nil {
		return f.openErr
	}
	defer func() { f.closes++ }()
	return fn(f.repo)
}

type fakeConfigs struct {
	config *model.Configuration
	err    error
}

func (f *fakeConfigs) ResolveProjectConfig(_ context.Context, _ string) (*model.Configuration, error) {
	return f.config, f.err
}

type fakeChanges struct {
	changes   map[model.ChangeID]*model.Change
	patchSets map[string]*model.PatchSet
	err       error
	writeErr  error
}

func (f *fakeChanges) LoadChange(_ context.Context, id model.ChangeID) (*model.Change, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.changes[id]
	if !ok {
		return nil, storages.ErrNotFound
	}
	return c, nil
}

func (f *fakeChanges) LoadChangeByKey(_ context.Context, key string) (*model.Change, error) {
	for _, c := range f.changes {
		if c.Key == key {
			return c, nil
		}
	}
	return nil, storages.ErrNotFound
}

func (f *fakeChanges) LoadPatchSet(_ context.Context, change model.ChangeID, number int) (*model.PatchSet, error) {
	ps, ok := f.patchSets[fmt.Sprintf("%v/%v", change, number)]
	if !ok {
		return nil, storages.ErrNotFound
	}
	return ps, nil
}

func (f *fakeChanges) WritePatchSet(_ context.Context, ps *model.PatchSet) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.patchSets[fmt.Sprintf("%v/%v", ps.ChangeID, ps.Number)] = ps
	return nil
}

type fakePoster struct {
	posted []*set.Set[model.AccountID]
	err    error
}

func (f *fakePoster) PostReviewers(_ context.Context, _ *model.Change, ids *set.Set[model.AccountID]) error {
	if f.err != nil {
		return f.err
	}
	f.posted = append(f.posted, ids)
	return nil
}

// blameOf builds a blame where line i was last touched by emails[i].
func blameOf(path string, emails ...string) *model.BlameResult {
	result := &model.BlameResult{Path: path, Revision: "parent"}
	for i, e := range emails {
		result.Lines = append(result.Lines, &model.BlameEntry{
			Line:        i,
			CommitID:    fmt.Sprintf("c%v", i),
			AuthorEmail: e,
		})
	}
	return result
}

func repeat(s string, n int) []string {
	result := make([]string, n)
	for i := range result {
		result[i] = s
	}
	return result
}

func modified(path string, edits ...model.Edit) *model.FileEdit {
	return &model.FileEdit{Path: path, OldPath: path, Kind: model.FileModified, Edits: edits}
}

func deleted(path string, lines int) *model.FileEdit {
	return &model.FileEdit{Path: path, OldPath: path, Kind: model.FileDeleted, Edits: []model.Edit{{BeginA: 0, EndA: lines}}}
}

func replaced(begin, end int) model.Edit {
	return model.Edit{BeginA: begin, EndA: end, BeginB: begin, EndB: end}
}

package gitrepo

import (
	"context"
	"sort"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"github.com/pkg/errors"

	"github.com/pescuma/reviewers-by-blame/lib/linediff"
	"github.com/pescuma/reviewers-by-blame/lib/model"
)

func computePatchList(ctx context.Context, repo *git.Repository, hash plumbing.Hash) ([]*model.FileEdit, error) {
	commit, err := repo.CommitObject(hash)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading commit %v", hash)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, errors.Wrapf(err, "error loading tree of %v", hash)
	}

	var parentTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, errors.Wrapf(err, "error loading parent of %v", hash)
		}

		parentTree, err = parent.Tree()
		if err != nil {
			return nil, errors.Wrapf(err, "error loading tree of %v", parent.Hash)
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, errors.Wrapf(err, "error computing changes of %v", hash)
	}

	result := make([]*model.FileEdit, 0, len(changes))
	for _, change := range changes {
		fe, err := toFileEdit(change)
		if err != nil {
			return nil, errors.Wrapf(err, "error computing changes of %v", hash)
		}

		result = append(result, fe)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Path < result[j].Path
	})

	return result, nil
}

func toFileEdit(change *object.Change) (*model.FileEdit, error) {
	action, err := change.Action()
	if err != nil {
		return nil, err
	}

	from, to, err := change.Files()
	if err != nil {
		return nil, err
	}

	result := &model.FileEdit{}

	switch action {
	case merkletrie.Insert:
		result.Kind = model.FileAdded
		result.Path = change.To.Name
	case merkletrie.Delete:
		result.Kind = model.FileDeleted
		result.Path = change.From.Name
		result.OldPath = change.From.Name
	default:
		result.Path = change.To.Name
		result.OldPath = change.From.Name
		if change.From.Name != change.To.Name {
			result.Kind = model.FileRenamed
		} else {
			result.Kind = model.FileModified
		}
	}

	oldContent, oldIsBinary, err := fileContent(from)
	if err != nil {
		return nil, err
	}

	newContent, newIsBinary, err := fileContent(to)
	if err != nil {
		return nil, err
	}

	if oldIsBinary || newIsBinary {
		return result, nil
	}

	oldLines := linediff.CountLines(oldContent)
	newLines := linediff.CountLines(newContent)

	switch {
	case oldLines == 0 && newLines == 0:
	case oldLines == 0:
		result.Edits = []model.Edit{{BeginA: 0, EndA: 0, BeginB: 0, EndB: newLines}}
	case newLines == 0:
		result.Edits = []model.Edit{{BeginA: 0, EndA: oldLines, BeginB: 0, EndB: 0}}
	default:
		result.Edits = linediff.Edits(linediff.Do(oldContent, newContent))
	}

	return result, nil
}

func fileContent(f *object.File) (string, bool, error) {
	if f == nil {
		return "", false, nil
	}

	isBinary, err := f.IsBinary()
	if err != nil {
		return "", false, err
	}

	if isBinary {
		return "", true, nil
	}

	content, err := f.Contents()
	if err != nil {
		return "", false, err
	}

	return content, false, nil
}

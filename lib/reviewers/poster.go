package reviewers

import (
	"context"
	"sort"

	"github.com/hashicorp/go-set/v2"

	"github.com/pescuma/reviewers-by-blame/lib/consoles"
	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/storages"
)

// StoragePoster adds reviewers to the changes kept in the storage.
type StoragePoster struct {
	console consoles.Console
	storage storages.Storage
}

func NewStoragePoster(console consoles.Console, storage storages.Storage) *StoragePoster {
	return &StoragePoster{
		console: console,
		storage: storage,
	}
}

func (p *StoragePoster) PostReviewers(ctx context.Context, change *model.Change, ids *set.Set[model.AccountID]) error {
	list := SortedIDs(ids)

	added, err := p.storage.AddReviewers(ctx, change.ID, list)
	if err != nil {
		return err
	}

	p.console.Debugf("%v: added %v of %v suggested", change, added, len(list))
	return nil
}

func SortedIDs(ids *set.Set[model.AccountID]) []model.AccountID {
	if ids == nil {
		return []model.AccountID{}
	}

	result := ids.Slice()
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}

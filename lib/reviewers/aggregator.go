package reviewers

import (
	"context"

	"github.com/hashicorp/go-set/v2"

	"github.com/pescuma/reviewers-by-blame/lib/model"
)

// aggregator sums, per account, the blamed lines touched by a change. Email
// and account lookups are remembered for the duration of the pass.
type aggregator struct {
	emails AccountResolver
	states AccountStates
	config *model.Configuration
	owner  model.AccountID

	accountsByEmail map[string]*set.Set[model.AccountID]
	eligible        map[model.AccountID]bool

	weights map[model.AccountID]int
	files   int
	lines   int
}

func newAggregator(emails AccountResolver, states AccountStates, config *model.Configuration, owner model.AccountID) *aggregator {
	return &aggregator{
		emails:          emails,
		states:          states,
		config:          config,
		owner:           owner,
		accountsByEmail: map[string]*set.Set[model.AccountID]{},
		eligible:        map[model.AccountID]bool{},
		weights:         map[model.AccountID]int{},
	}
}

// shouldBlame tells if a file can contribute to the weights. Added files have
// no previous author, so only modified and deleted files count.
func shouldBlame(config *model.Configuration, fe *model.FileEdit) bool {
	if fe.Kind != model.FileModified && fe.Kind != model.FileDeleted {
		return false
	}

	return !config.IgnoresFile(fe.Path)
}

// addFile credits the authors of the parent lines replaced or removed by the
// edits. Only lookup failures are returned; unknown emails are not errors.
func (a *aggregator) addFile(ctx context.Context, fe *model.FileEdit, blame *model.BlameResult) error {
	a.files++

	for _, edit := range fe.Edits {
		for i := edit.BeginA; i < edit.EndA; i++ {
			entry, ok := blame.Entry(i)
			if !ok {
				continue
			}

			a.lines++

			ids, err := a.accountsFor(ctx, entry.AuthorEmail)
			if err != nil {
				return err
			}

			for _, id := range ids.Slice() {
				eligible, err := a.isEligible(ctx, id)
				if err != nil {
					return err
				}

				if eligible {
					a.weights[id]++
				}
			}
		}
	}

	return nil
}

func (a *aggregator) accountsFor(ctx context.Context, email string) (*set.Set[model.AccountID], error) {
	key := model.NormalizeEmail(email)

	if ids, ok := a.accountsByEmail[key]; ok {
		return ids, nil
	}

	ids, err := a.emails.GetAccountsFor(ctx, email)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = set.New[model.AccountID](0)
	}

	a.accountsByEmail[key] = ids
	return ids, nil
}

func (a *aggregator) isEligible(ctx context.Context, id model.AccountID) (bool, error) {
	if eligible, ok := a.eligible[id]; ok {
		return eligible, nil
	}

	state, err := a.states.Get(ctx, id)
	if err != nil {
		return false, err
	}

	eligible := state != nil &&
		state.IsActive() &&
		id != a.owner &&
		!a.config.IgnoresUser(state.Username)

	a.eligible[id] = eligible
	return eligible, nil
}

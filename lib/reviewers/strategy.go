package reviewers

import (
	"context"

	"github.com/hashicorp/go-set/v2"

	"github.com/pescuma/reviewers-by-blame/lib/common"
	"github.com/pescuma/reviewers-by-blame/lib/metrics"
	"github.com/pescuma/reviewers-by-blame/lib/model"
)

type Strategy interface {
	ProduceReviewerSet(ctx context.Context, inv *Invocation) (*set.Set[model.AccountID], error)
}

// ByBlame suggests the people that last touched the lines the change replaces
// or removes.
type ByBlame struct {
	emails  AccountResolver
	states  AccountStates
	metrics *metrics.Metrics
}

func NewByBlame(emails AccountResolver, states AccountStates, m *metrics.Metrics) *ByBlame {
	return &ByBlame{
		emails:  emails,
		states:  states,
		metrics: m,
	}
}

func (s *ByBlame) ProduceReviewerSet(ctx context.Context, inv *Invocation) (*set.Set[model.AccountID], error) {
	edits, err := inv.Repo.PatchList(ctx, inv.Commit.ID)
	if err != nil {
		return nil, newPassError(StageVCS, err)
	}

	agg := newAggregator(s.emails, s.states, inv.Config, inv.Change.Owner)

	for _, fe := range edits {
		if !shouldBlame(inv.Config, fe) {
			continue
		}

		blame, err := inv.Repo.Blame(fe.Path, inv.Parent)
		if err != nil {
			inv.Console.Errorf("Couldn't execute blame of %v for commit %v: %v", fe.Path, inv.Parent.ShortID(), err)
			s.metrics.BlameFailed()
			continue
		}

		err = agg.addFile(ctx, fe, blame)
		if err != nil {
			return nil, newPassError(StageLookup, err)
		}
	}

	inv.Console.Debugf("Blamed %v in %v, %v with weight",
		common.Count(agg.lines, "line"), common.Count(agg.files, "file"), common.Count(len(agg.weights), "account"))

	return findTopReviewers(agg.weights, inv.Config.MaxReviewers), nil
}

// FixedList always suggests the reviewers listed in the configuration, minus
// the ones that could not review the change.
type FixedList struct {
	states AccountStates
}

func NewFixedList(states AccountStates) *FixedList {
	return &FixedList{
		states: states,
	}
}

func (s *FixedList) ProduceReviewerSet(ctx context.Context, inv *Invocation) (*set.Set[model.AccountID], error) {
	agg := newAggregator(nil, s.states, inv.Config, inv.Change.Owner)

	result := set.New[model.AccountID](len(inv.Config.FixedReviewers))
	for _, id := range inv.Config.FixedReviewers {
		eligible, err := agg.isEligible(ctx, id)
		if err != nil {
			return nil, newPassError(StageLookup, err)
		}

		if eligible {
			result.Insert(id)
		}
	}

	return result, nil
}

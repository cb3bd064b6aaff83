package reviewers

import (
	"github.com/hashicorp/go-set/v2"
	"github.com/oleiade/lane/v2"

	"github.com/pescuma/reviewers-by-blame/lib/model"
)

// findTopReviewers returns the k accounts with the greatest weights. Accounts
// tied at the boundary weight are picked in no particular order.
func findTopReviewers(weights map[model.AccountID]int, k int) *set.Set[model.AccountID] {
	if k <= 0 {
		return set.New[model.AccountID](0)
	}

	result := set.New[model.AccountID](min(k, len(weights)))

	queue := lane.NewMaxPriorityQueue[model.AccountID, int]()
	for id, weight := range weights {
		queue.Push(id, weight)
	}

	for result.Size() < k {
		id, _, ok := queue.Pop()
		if !ok {
			break
		}

		result.Insert(id)
	}

	return result
}

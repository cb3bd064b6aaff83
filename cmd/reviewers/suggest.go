package main

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/reviewers-by-blame/lib/common"
	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/reviewers"
	"github.com/pescuma/reviewers-by-blame/lib/workspace"
)

type SuggestCmd struct {
	Project  string `short:"p" required:"" help:"Project of the changes."`
	Change   []int  `arg:"" help:"Changes to score. Without --patch-set the latest patch set of each one is scored."`
	PatchSet int    `short:"s" help:"Patch set to score. Only valid with a single change."`
	Revision string `help:"Revision to score instead of the one of the patch set. Only valid with a single change."`
	Post     bool   `help:"Add the suggested reviewers to the changes."`
}

func (c *SuggestCmd) Run(ctx *appContext) error {
	changes := lo.Map(c.Change, func(id int, _ int) model.ChangeID { return model.ChangeID(id) })

	if c.PatchSet > 0 || c.Revision != "" {
		if len(changes) != 1 {
			return errors.New("--patch-set and --revision need a single change")
		}
		if c.PatchSet <= 0 {
			return errors.New("--revision needs --patch-set")
		}

		result := ctx.ws.Pipeline().Run(ctx.ctx, reviewers.Request{
			Project:  c.Project,
			ChangeID: changes[0],
			PatchSet: c.PatchSet,
			Revision: c.Revision,
			Post:     c.Post,
		})

		return c.print(ctx, []*workspace.ChangeSuggestion{{Change: changes[0], PatchSet: c.PatchSet, Result: result}})
	}

	result, err := ctx.ws.SuggestForChanges(ctx.ctx, c.Project, changes, c.Post, len(changes) > 1)
	if err != nil {
		return err
	}

	return c.print(ctx, result)
}

func (c *SuggestCmd) print(ctx *appContext, result []*workspace.ChangeSuggestion) error {
	failed := 0

	for _, s := range result {
		r := s.Result

		switch r.State {
		case reviewers.StateFailed:
			failed++
			fmt.Printf("%v/%v: failed: %v\n", s.Change, s.PatchSet, r.Err)

		case reviewers.StateSkipped:
			fmt.Printf("%v/%v: skipped: %v\n", s.Change, s.PatchSet, r.Reason)

		default:
			names, err := c.names(ctx, r.Reviewers)
			if err != nil {
				return err
			}

			fmt.Printf("%v/%v: %v %v: %v\n", s.Change, s.PatchSet, r.State, common.Count(len(names), "reviewer"), strings.Join(names, ", "))
		}
	}

	if failed > 0 {
		return errors.Errorf("%v failed", common.Count(failed, "pass"))
	}

	return nil
}

func (c *SuggestCmd) names(ctx *appContext, ids *set.Set[model.AccountID]) ([]string, error) {
	var result []string

	for _, id := range reviewers.SortedIDs(ids) {
		a, err := ctx.ws.Storage().LoadAccount(ctx.ctx, id)
		if err != nil {
			return nil, err
		}

		result = append(result, accountName(a))
	}

	return result, nil
}

func accountName(a *model.Account) string {
	if a.Username != nil {
		return fmt.Sprintf("%v (%v)", *a.Username, a.ID)
	}
	return a.ID.String()
}

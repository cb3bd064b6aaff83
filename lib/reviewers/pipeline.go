package reviewers

import (
	"context"
	"time"

	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"

	"github.com/pescuma/reviewers-by-blame/lib/common"
	"github.com/pescuma/reviewers-by-blame/lib/consoles"
	"github.com/pescuma/reviewers-by-blame/lib/metrics"
	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/storages"
)

type State string

const (
	StateStart          State = "start"
	StateConfigResolved State = "config-resolved"
	StateEligible       State = "eligible"
	StateBlameScan      State = "blame-scan"
	StateSelected       State = "selected"
	StatePosted         State = "posted"
	StateSkipped        State = "skipped"
	StateFailed         State = "failed"
)

// Request identifies the patch set to score. The change is looked up by ID,
// or by Key when ID is 0.
type Request struct {
	Project   string
	ChangeID  model.ChangeID
	ChangeKey string
	PatchSet  int
	// Revision overrides the revision stored in the patch set.
	Revision string
	// Post adds the selected reviewers to the change. Without it the pass only
	// reports them.
	Post bool
	// RequireOpen fails the pass with ErrChangeClosed when the change is not open.
	RequireOpen bool
	// RegisterPatchSet stores a patch set the change does not know yet, using
	// Revision. Events announce patch sets before anything else records them.
	RegisterPatchSet bool
}

type Result struct {
	State     State
	Reason    string
	Reviewers *set.Set[model.AccountID]
	Err       error
}

type Collaborators struct {
	Configs      ConfigResolver
	Changes      Changes
	Repositories Repositories
	Emails       AccountResolver
	Accounts     AccountStates
	Poster       Poster
	Metrics      *metrics.Metrics
}

// Pipeline runs scoring passes. Passes share nothing but the collaborators, so
// a Pipeline can run many passes at the same time.
type Pipeline struct {
	console consoles.Console
	c       Collaborators
	byBlame Strategy
	fixed   Strategy
}

func NewPipeline(console consoles.Console, c Collaborators) *Pipeline {
	return &Pipeline{
		console: console,
		c:       c,
		byBlame: NewByBlame(c.Emails, c.Accounts, c.Metrics),
		fixed:   NewFixedList(c.Accounts),
	}
}

type pass struct {
	id      model.PassID
	console consoles.Console
	result  *Result
}

func (p *pass) skip(reason string) *Result {
	p.result.State = StateSkipped
	p.result.Reason = reason
	return p.result
}

func (p *pass) fail(stage Stage, err error) *Result {
	p.result.State = StateFailed
	p.result.Err = newPassError(stage, err)
	p.result.Reviewers = set.New[model.AccountID](0)
	return p.result
}

// Run executes one pass. Collaborator errors are not returned: the outcome,
// failures included, is in the Result.
func (p *Pipeline) Run(ctx context.Context, req Request) *Result {
	start := time.Now()

	changeRef := req.ChangeKey
	if req.ChangeID != 0 {
		changeRef = req.ChangeID.String()
	}

	ps := &pass{
		id: model.NewPassID(),
		result: &Result{
			State:     StateStart,
			Reviewers: set.New[model.AccountID](0),
		},
	}
	ps.console = p.console.WithPrefix("%v change %v/%v [%v]: ", req.Project, changeRef, req.PatchSet, ps.id)

	result := p.run(ctx, ps, req)

	switch result.State {
	case StateFailed:
		if errors.Is(result.Err, ErrChangeClosed) {
			ps.console.Printf("Not suggesting reviewers: %v", result.Err)
		} else {
			ps.console.Errorf("%v", result.Err)
		}
	case StateSkipped:
		ps.console.Debugf("Skipped: %v", result.Reason)
	default:
		ps.console.Printf("%v %v in %v", outcomeVerb(result.State), common.Count(result.Reviewers.Size(), "reviewer"), time.Since(start).Round(time.Millisecond))
	}

	p.c.Metrics.PassFinished(string(result.State), time.Since(start))
	if result.State == StatePosted || result.State == StateSelected {
		p.c.Metrics.ReviewersSuggested(result.Reviewers.Size())
	}

	return result
}

func outcomeVerb(s State) string {
	if s == StatePosted {
		return "Posted"
	}
	return "Selected"
}

func (p *Pipeline) run(ctx context.Context, ps *pass, req Request) *Result {
	change, err := p.loadChange(ctx, req)
	if errors.Is(err, storages.ErrNotFound) {
		ps.console.Warnf("Change not found")
		return ps.skip("change not found")
	} else if err != nil {
		return ps.fail(StageLookup, err)
	}

	project := req.Project
	if project == "" {
		project = change.Project
	} else if project != change.Project {
		ps.console.Warnf("Change belongs to project %v", change.Project)
		return ps.skip("change not found")
	}

	if req.RequireOpen && !change.IsOpen() {
		return ps.fail(StageLookup, errors.Wrapf(ErrChangeClosed, "change is %v", change.Status))
	}

	config, err := p.c.Configs.ResolveProjectConfig(ctx, project)
	if err != nil {
		return ps.fail(StageConfig, err)
	}
	ps.result.State = StateConfigResolved

	if !config.Enabled() {
		return ps.skip("maxReviewers <= 0")
	}

	patchSet, err := p.c.Changes.LoadPatchSet(ctx, change.ID, req.PatchSet)
	if errors.Is(err, storages.ErrNotFound) && req.RegisterPatchSet && req.Revision != "" {
		patchSet, err = p.registerPatchSet(ctx, ps, change, req)
	}
	if errors.Is(err, storages.ErrNotFound) {
		ps.console.Warnf("Patch set not found")
		return ps.skip("patch set not found")
	} else if err != nil {
		return ps.fail(StageLookup, err)
	}

	if patchSet.Draft && config.IgnoreDrafts {
		return ps.skip("draft patch set")
	}

	revision := req.Revision
	if revision == "" {
		revision = patchSet.Revision
	}

	err = p.c.Repositories.WithRepository(project, func(repo Repository) error {
		commit, err := repo.ResolveCommit(revision)
		if err != nil {
			return newPassError(StageVCS, err)
		}

		if commit.ParentCount() != 1 {
			return skipped("merge or initial commit")
		}

		if config.IgnoresSubject(commit.Subject) {
			return skipped("subject ignored")
		}
		ps.result.State = StateEligible

		parent, err := repo.ResolveCommit(commit.Parent())
		if err != nil {
			return newPassError(StageVCS, err)
		}

		inv := &Invocation{
			PassID:   ps.id,
			Console:  ps.console,
			Config:   config,
			Change:   change,
			PatchSet: patchSet,
			Commit:   commit,
			Parent:   parent,
			Repo:     repo,
		}

		ps.result.State = StateBlameScan

		reviewers, err := p.strategyFor(config).ProduceReviewerSet(ctx, inv)
		if err != nil {
			return err
		}

		ps.result.State = StateSelected
		ps.result.Reviewers = reviewers
		return nil
	})

	var skip *skipError
	var passErr *PassError
	switch {
	case errors.As(err, &skip):
		return ps.skip(skip.reason)
	case errors.As(err, &passErr):
		return ps.fail(passErr.Stage, passErr.Err)
	case err != nil:
		return ps.fail(StageVCS, err)
	}

	if !req.Post || ps.result.Reviewers.Empty() {
		return ps.result
	}

	err = p.c.Poster.PostReviewers(ctx, change, ps.result.Reviewers)
	if err != nil {
		return ps.fail(StagePost, err)
	}

	ps.result.State = StatePosted
	return ps.result
}

type skipError struct {
	reason string
}

func skipped(reason string) error {
	return &skipError{reason: reason}
}

func (e *skipError) Error() string {
	return "skipped: " + e.reason
}

func (p *Pipeline) loadChange(ctx context.Context, req Request) (*model.Change, error) {
	if req.ChangeID != 0 {
		return p.c.Changes.LoadChange(ctx, req.ChangeID)
	}
	return p.c.Changes.LoadChangeByKey(ctx, req.ChangeKey)
}

func (p *Pipeline) strategyFor(config *model.Configuration) Strategy {
	switch config.Strategy {
	case model.StrategyFixedList:
		return p.fixed
	default:
		return p.byBlame
	}
}

// Suggest runs a pass for an open change and returns the selected reviewers.
// Skipped passes return an empty set.
func (p *Pipeline) Suggest(ctx context.Context, req Request) (*set.Set[model.AccountID], error) {
	req.RequireOpen = true

	result := p.Run(ctx, req)
	if result.State == StateFailed {
		return nil, result.Err
	}

	return result.Reviewers, nil
}

func (p *Pipeline) registerPatchSet(ctx context.Context, ps *pass, change *model.Change, req Request) (*model.PatchSet, error) {
	result := &model.PatchSet{
		ChangeID: change.ID,
		Number:   req.PatchSet,
		Revision: req.Revision,
	}

	err := p.c.Changes.WritePatchSet(ctx, result)
	if err != nil {
		return nil, errors.Wrapf(err, "error registering patch set %v", req.PatchSet)
	}

	ps.console.Debugf("Registered patch set %v at %v", req.PatchSet, req.Revision)
	return result, nil
}

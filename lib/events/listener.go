// Package events turns repository events into scoring passes that run on a
// bounded pool of workers.
package events

import (
	"context"

	"github.com/pescuma/reviewers-by-blame/lib/consoles"
	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/reviewers"
	"github.com/pescuma/reviewers-by-blame/lib/utils"
)

type Runner interface {
	Run(ctx context.Context, req reviewers.Request) *reviewers.Result
}

type ProjectFilter interface {
	IsProjectEnabled(project string) bool
}

type Listener struct {
	console consoles.Console
	runner  Runner
	filter  ProjectFilter
	queue   *utils.WorkQueue

	ctx    context.Context
	cancel context.CancelFunc
}

// NewListener creates a listener that runs passes with the given number of
// workers. A nil filter accepts every project.
func NewListener(console consoles.Console, runner Runner, filter ProjectFilter, workers int) *Listener {
	ctx, cancel := context.WithCancel(context.Background())

	l := &Listener{
		console: console,
		runner:  runner,
		filter:  filter,
		ctx:     ctx,
		cancel:  cancel,
	}

	l.queue = utils.NewWorkQueue(workers, func(err error) {
		console.Errorf("%v", err)
	})

	return l
}

// OnPatchSetCreated queues a pass for the new patch set. It returns false when
// the event was ignored.
func (l *Listener) OnPatchSetCreated(e *model.PatchSetCreatedEvent) (bool, error) {
	if !l.accepts(e.Project) {
		return false, nil
	}

	if e.RefName != "" && !model.IsChangeRef(e.RefName) {
		l.console.Debugf("%v: ignoring patch set on %v", e.Project, e.RefName)
		return false, nil
	}

	err := l.submit(reviewers.Request{
		Project:   e.Project,
		ChangeID:  e.ChangeID,
		ChangeKey: e.ChangeKey,
		PatchSet:  e.PatchSet,
		Revision:  e.Revision,
		Post:      true,

		RegisterPatchSet: true,
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// OnRefUpdated queues a pass for every updated patch set ref and returns how
// many were queued. Other refs and deletions are ignored.
func (l *Listener) OnRefUpdated(e *model.RefUpdatedEvent) (int, error) {
	if !l.accepts(e.Project) {
		return 0, nil
	}

	queued := 0
	for _, u := range e.Updates {
		if !model.IsChangeRef(u.RefName) || u.IsDelete() {
			continue
		}

		change, ps, err := model.ParsePatchSetRef(u.RefName)
		if err != nil {
			// refs/changes/NN/<change>/meta and the like
			l.console.Debugf("%v: %v", e.Project, err)
			continue
		}

		err = l.submit(reviewers.Request{
			Project:  e.Project,
			ChangeID: change,
			PatchSet: ps,
			Revision: u.NewObjectID,
			Post:     true,

			RegisterPatchSet: true,
		})
		if err != nil {
			return queued, err
		}

		queued++
	}

	return queued, nil
}

func (l *Listener) accepts(project string) bool {
	if l.filter != nil && !l.filter.IsProjectEnabled(project) {
		l.console.Debugf("%v: project not enabled", project)
		return false
	}

	return true
}

func (l *Listener) submit(req reviewers.Request) error {
	return l.queue.Submit(func() {
		l.runner.Run(l.ctx, req)
	})
}

// Close stops accepting events and waits for the queued passes.
func (l *Listener) Close() {
	l.queue.Close()
	l.cancel()
}

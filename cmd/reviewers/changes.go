package main

import (
	"fmt"

	"github.com/pescuma/reviewers-by-blame/lib/model"
)

type ChangesCreateCmd struct {
	Project  string `short:"p" required:"" help:"Project of the change."`
	Change   int    `arg:"" help:"Change number."`
	PatchSet int    `short:"s" default:"1" help:"Patch set number."`
	Revision string `short:"r" required:"" help:"Commit of the patch set."`
	Owner    int    `short:"o" required:"" help:"Account that owns the change."`
	Key      string `short:"k" help:"Change key. Default is I<change>."`
	Subject  string `help:"Subject of the change."`
	Branch   string `default:"master" help:"Destination branch."`
	Draft    bool   `help:"Mark the patch set as a draft."`
}

func (c *ChangesCreateCmd) Run(ctx *appContext) error {
	key := c.Key
	if key == "" {
		key = fmt.Sprintf("I%v", c.Change)
	}

	change := &model.Change{
		ID:      model.ChangeID(c.Change),
		Key:     key,
		Project: c.Project,
		Branch:  c.Branch,
		Owner:   model.AccountID(c.Owner),
		Subject: c.Subject,
		Status:  model.ChangeNew,
	}

	ps := &model.PatchSet{
		Number:   c.PatchSet,
		Revision: c.Revision,
		Uploader: model.AccountID(c.Owner),
		Draft:    c.Draft,
	}

	err := ctx.ws.CreatePatchSet(ctx.ctx, change, ps)
	if err != nil {
		return err
	}

	fmt.Printf("Registered %v as %v\n", ps, ps.RefName())
	return nil
}

package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/pescuma/reviewers-by-blame/lib/projectconfig"
	"github.com/pescuma/reviewers-by-blame/lib/workspace"
)

var cli struct {
	Config string `short:"c" help:"Site config file. Default is ./reviewers.yaml or ~/.reviewers/reviewers.yaml." type:"path"`

	Serve   ServeCmd   `cmd:"" help:"Listen to repository events and suggest reviewers for new patch sets."`
	Suggest SuggestCmd `cmd:"" help:"Suggest reviewers for changes."`

	Accounts struct {
		Add        AccountsAddCmd        `cmd:"" help:"Create an account."`
		List       AccountsListCmd       `cmd:"" help:"List accounts."`
		Activate   AccountsActivateCmd   `cmd:"" help:"Make an account eligible to review again."`
		Deactivate AccountsDeactivateCmd `cmd:"" help:"Make an account not eligible to review."`
		Import     AccountsImportCmd     `cmd:"" help:"Create accounts for the commit authors of a project."`
	} `cmd:""`

	Projects struct {
		Create     ProjectsCreateCmd     `cmd:"" help:"Create a project."`
		SetConfig  ProjectsSetConfigCmd  `cmd:"" help:"Set configuration parameters of a project."`
		ShowConfig ProjectsShowConfigCmd `cmd:"" help:"Show the effective configuration of a project."`
	} `cmd:""`

	Changes struct {
		Create ChangesCreateCmd `cmd:"" help:"Register a patch set of a change, creating the change if needed."`
	} `cmd:""`
}

type appContext struct {
	ctx context.Context
	ws  *workspace.Workspace
}

func main() {
	ctx := kong.Parse(&cli, kong.ShortUsageOnError())

	site, err := projectconfig.LoadSiteConfig(cli.Config)
	ctx.FatalIfErrorf(err)

	ws, err := workspace.NewWorkspace(site)
	ctx.FatalIfErrorf(err)

	err = ctx.Run(&appContext{
		ctx: context.Background(),
		ws:  ws,
	})

	closeErr := ws.Close()
	if err == nil {
		err = closeErr
	}
	ctx.FatalIfErrorf(err)
}

package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/projectconfig"
)

type ProjectsCreateCmd struct {
	Name   string `arg:"" help:"Name of the project. Its repository is <base_path>/<name>.git or <base_path>/<name>."`
	Parent string `help:"Project to inherit the configuration from. Default is All-Projects."`
}

func (c *ProjectsCreateCmd) Run(ctx *appContext) error {
	p, err := ctx.ws.CreateProject(ctx.ctx, c.Name, c.Parent)
	if err != nil {
		return err
	}

	parent := p.ParentName()
	if parent == "" {
		fmt.Printf("Created project %v\n", p.Name)
	} else {
		fmt.Printf("Created project %v, child of %v\n", p.Name, parent)
	}
	return nil
}

type ProjectsSetConfigCmd struct {
	Project string `arg:"" help:"Project to configure."`
	Config  string `arg:"" help:"Configuration name to change."`
	Value   string `arg:"" optional:"" help:"Configuration value to set. Empty inherits the value from the parent project."`
}

func (c *ProjectsSetConfigCmd) Run(ctx *appContext) error {
	return ctx.ws.SetProjectConfig(ctx.ctx, c.Project, c.Config, c.Value)
}

type ProjectsShowConfigCmd struct {
	Project string `arg:"" help:"Project to show."`
}

func (c *ProjectsShowConfigCmd) Run(ctx *appContext) error {
	config, err := ctx.ws.ResolveProjectConfig(ctx.ctx, c.Project)
	if err != nil {
		return err
	}

	values := map[string]string{
		projectconfig.KeyMaxReviewers:       fmt.Sprint(config.MaxReviewers),
		projectconfig.KeyIgnoreFileRegEx:    config.IgnoreFileRegEx,
		projectconfig.KeyIgnoreSubjectRegEx: config.IgnoreSubjectRegEx,
		projectconfig.KeyIgnoredUsers:       strings.Join(config.IgnoredUsers, ","),
		projectconfig.KeyIgnoreDrafts:       fmt.Sprint(config.IgnoreDrafts),
		projectconfig.KeyStrategy:           string(config.Strategy),
		projectconfig.KeyFixedReviewers: strings.Join(lo.Map(config.FixedReviewers, func(id model.AccountID, _ int) string {
			return id.String()
		}), ","),
	}

	for _, k := range projectconfig.Keys() {
		fmt.Printf("%v = %v\n", k, values[k])
	}
	return nil
}

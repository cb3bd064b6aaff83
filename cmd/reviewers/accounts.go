package main

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/pescuma/reviewers-by-blame/lib/common"
	"github.com/pescuma/reviewers-by-blame/lib/model"
)

type AccountsAddCmd struct {
	Username string   `arg:"" help:"Username of the account."`
	Name     string   `short:"n" help:"Full name."`
	Email    []string `short:"e" help:"Emails used by the account in commits."`
}

func (c *AccountsAddCmd) Run(ctx *appContext) error {
	a, err := ctx.ws.AddAccount(ctx.ctx, c.Username, c.Name, c.Email)
	if err != nil {
		return err
	}

	fmt.Printf("Created account %v\n", accountName(a))
	return nil
}

type AccountsListCmd struct {
	Inactive bool `help:"Also list inactive accounts."`
}

func (c *AccountsListCmd) Run(ctx *appContext) error {
	accounts, err := ctx.ws.ListAccounts(ctx.ctx)
	if err != nil {
		return err
	}

	if !c.Inactive {
		accounts = lo.Filter(accounts, func(a *model.Account, _ int) bool { return a.Active })
	}

	for _, a := range accounts {
		fmt.Printf("%v\t%v\t%v%v\n", accountName(a), a.FullName, strings.Join(a.ListEmails(), ", "),
			lo.Ternary(a.Active, "", "\t(inactive)"))
	}

	fmt.Printf("%v\n", common.Count(len(accounts), "account"))
	return nil
}

type AccountsActivateCmd struct {
	ID int `arg:"" help:"ID of the account."`
}

func (c *AccountsActivateCmd) Run(ctx *appContext) error {
	return ctx.ws.SetAccountActive(ctx.ctx, model.AccountID(c.ID), true)
}

type AccountsDeactivateCmd struct {
	ID int `arg:"" help:"ID of the account."`
}

func (c *AccountsDeactivateCmd) Run(ctx *appContext) error {
	return ctx.ws.SetAccountActive(ctx.ctx, model.AccountID(c.ID), false)
}

type AccountsImportCmd struct {
	Project     string `arg:"" help:"Project whose repository is read."`
	MergeByName bool   `help:"Also join authors that share only a name."`
}

func (c *AccountsImportCmd) Run(ctx *appContext) error {
	result, err := ctx.ws.ImportAccounts(ctx.ctx, c.Project, c.MergeByName)
	if err != nil {
		return err
	}

	fmt.Printf("Created %v, updated %v\n", common.Count(result.Created, "account"), common.Count(result.Updated, "account"))
	return nil
}

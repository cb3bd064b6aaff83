package reviewers

import (
	"github.com/pescuma/reviewers-by-blame/lib/consoles"
	"github.com/pescuma/reviewers-by-blame/lib/model"
)

// Invocation is everything a strategy needs to know about one pass. It is
// created once per pass and never changed.
type Invocation struct {
	PassID   model.PassID
	Console  consoles.Console
	Config   *model.Configuration
	Change   *model.Change
	PatchSet *model.PatchSet
	Commit   *model.Commit
	Parent   *model.Commit
	Repo     Repository
}

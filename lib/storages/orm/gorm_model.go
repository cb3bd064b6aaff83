package orm

import (
	"time"

	"github.com/samber/lo"

	"github.com/pescuma/reviewers-by-blame/lib/model"
)

type sqlAccount struct {
	ID       model.AccountID `gorm:"primaryKey;autoIncrement"`
	Username *string         `gorm:"uniqueIndex;size:255"`
	FullName string
	Active   bool

	Emails []sqlAccountEmail `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newSqlAccount(a *model.Account) *sqlAccount {
	return &sqlAccount{
		ID:       a.ID,
		Username: a.Username,
		FullName: a.FullName,
		Active:   a.Active,
	}
}

func (s *sqlAccount) ToModel() *model.Account {
	result := model.NewAccount(s.ID)
	if s.Username != nil {
		result.SetUsername(*s.Username)
	}
	result.FullName = s.FullName
	result.Active = s.Active

	for _, e := range s.Emails {
		result.AddEmail(e.Email)
	}

	return result
}

// sqlAccountEmail links emails to accounts. The same email may belong to more
// than one account.
type sqlAccountEmail struct {
	Email     string          `gorm:"primaryKey;size:255"`
	AccountID model.AccountID `gorm:"primaryKey;index"`

	CreatedAt time.Time
}

type sqlProject struct {
	Name   string            `gorm:"primaryKey;size:255"`
	Parent string            `gorm:"size:255"`
	Config map[string]string `gorm:"serializer:json"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newSqlProject(p *model.Project) *sqlProject {
	return &sqlProject{
		Name:   p.Name,
		Parent: p.Parent,
		Config: encodeMap(p.Config),
	}
}

func (s *sqlProject) ToModel() *model.Project {
	result := model.NewProject(s.Name)
	result.Parent = s.Parent
	for k, v := range s.Config {
		result.Config[k] = v
	}
	return result
}

type sqlChange struct {
	ID      model.ChangeID `gorm:"primaryKey;autoIncrement"`
	Key     string         `gorm:"column:change_key;index;size:255"`
	Project string         `gorm:"index;size:255"`
	Branch  string
	OwnerID model.AccountID
	Subject string
	Status  model.ChangeStatus

	PatchSets []sqlPatchSet `gorm:"foreignKey:ChangeID;constraint:OnDelete:CASCADE"`
	Reviewers []sqlReviewer `gorm:"foreignKey:ChangeID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newSqlChange(c *model.Change) *sqlChange {
	return &sqlChange{
		ID:      c.ID,
		Key:     c.Key,
		Project: c.Project,
		Branch:  c.Branch,
		OwnerID: c.Owner,
		Subject: c.Subject,
		Status:  c.Status,
	}
}

func (s *sqlChange) ToModel() *model.Change {
	return &model.Change{
		ID:      s.ID,
		Key:     s.Key,
		Project: s.Project,
		Branch:  s.Branch,
		Owner:   s.OwnerID,
		Subject: s.Subject,
		Status:  s.Status,
	}
}

type sqlPatchSet struct {
	ChangeID   model.ChangeID `gorm:"primaryKey;autoIncrement:false"`
	Number     int            `gorm:"primaryKey;autoIncrement:false"`
	Revision   string         `gorm:"index;size:64"`
	UploaderID model.AccountID
	Draft      bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func newSqlPatchSet(ps *model.PatchSet) *sqlPatchSet {
	return &sqlPatchSet{
		ChangeID:   ps.ChangeID,
		Number:     ps.Number,
		Revision:   ps.Revision,
		UploaderID: ps.Uploader,
		Draft:      ps.Draft,
	}
}

func (s *sqlPatchSet) ToModel() *model.PatchSet {
	return &model.PatchSet{
		ChangeID: s.ChangeID,
		Number:   s.Number,
		Revision: s.Revision,
		Uploader: s.UploaderID,
		Draft:    s.Draft,
	}
}

type sqlReviewer struct {
	ChangeID  model.ChangeID  `gorm:"primaryKey;autoIncrement:false"`
	AccountID model.AccountID `gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time
}

func toAccountIDs(rows []*sqlReviewer) []model.AccountID {
	return lo.Map(rows, func(r *sqlReviewer, _ int) model.AccountID { return r.AccountID })
}

func encodeMap[K comparable, V any](m map[K]V) map[K]V {
	if len(m) == 0 {
		return nil
	}

	return lo.Assign(m)
}

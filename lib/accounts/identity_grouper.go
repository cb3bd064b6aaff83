package accounts

import (
	"sort"
	"strings"

	"github.com/hashicorp/go-set/v2"
	"github.com/samber/lo"

	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/utils"
)

// identityGrouper joins commit identities that share an email, and
// optionally a name, into one group per person.
type identityGrouper struct {
	mergeByName bool

	byEmail map[string]*identity
	byName  map[string]*identity
}

type identity struct {
	Name string

	names    *set.Set[string]
	emails   *set.Set[string]
	accounts *set.Set[*model.Account]
}

func newIdentity() *identity {
	return &identity{
		names:    set.New[string](2),
		emails:   set.New[string](2),
		accounts: set.New[*model.Account](1),
	}
}

func newIdentityGrouper(mergeByName bool) *identityGrouper {
	return &identityGrouper{
		mergeByName: mergeByName,
		byEmail:     map[string]*identity{},
		byName:      map[string]*identity{},
	}
}

// seed adds the existing accounts, so new identities attach to them.
func (g *identityGrouper) seed(accounts []*model.Account) {
	for _, a := range accounts {
		emails := a.ListEmails()
		if len(emails) == 0 {
			continue
		}

		r := newIdentity()
		r.accounts.Insert(a)
		r.emails.InsertSlice(emails)
		if strings.TrimSpace(a.FullName) != "" {
			r.names.Insert(strings.TrimSpace(a.FullName))
		}

		g.join(r)
	}
}

func (g *identityGrouper) add(name string, email string) {
	name = strings.TrimSpace(name)
	email = model.NormalizeEmail(email)
	if email == "" {
		return
	}

	r := newIdentity()
	r.emails.Insert(email)
	if name != "" {
		r.names.Insert(name)
	}

	g.join(r)
}

func (g *identityGrouper) join(r *identity) {
	found := set.New[*identity](2)
	for _, e := range r.emails.Slice() {
		if o, ok := g.byEmail[g.key(e)]; ok {
			found.Insert(o)
		}
	}
	if g.mergeByName {
		for _, n := range r.names.Slice() {
			if o, ok := g.byName[g.key(n)]; ok {
				found.Insert(o)
			}
		}
	}

	for _, o := range found.Slice() {
		r.names.InsertSet(o.names)
		r.emails.InsertSet(o.emails)
		r.accounts.InsertSet(o.accounts)
	}

	g.store(r)
}

func (g *identityGrouper) store(r *identity) {
	for _, e := range r.emails.Slice() {
		g.byEmail[g.key(e)] = r
	}
	if g.mergeByName {
		for _, n := range r.names.Slice() {
			if !utils.IsEmail(n) {
				g.byName[g.key(n)] = r
			}
		}
	}
}

// list returns the groups ordered by their first email, each with its best
// name chosen.
func (g *identityGrouper) list() []*identity {
	result := lo.Uniq(append(lo.Values(g.byEmail), lo.Values(g.byName)...))

	for _, r := range result {
		g.removeNamesThatAreEmails(r)
		r.Name = g.findBestName(r.names.Slice())
	}

	sort.Slice(result, func(i, j int) bool {
		return firstEmail(result[i]) < firstEmail(result[j])
	})

	return result
}

func (g *identityGrouper) removeNamesThatAreEmails(r *identity) {
	names := r.names.Slice()
	es := lo.Filter(names, func(n string, _ int) bool { return utils.IsEmail(n) })
	if len(names) > len(es) {
		for _, n := range es {
			r.names.Remove(n)
		}
	}
}

func (g *identityGrouper) findBestName(names []string) string {
	sort.Strings(names)

	return lo.MaxBy(names, func(a string, b string) bool {
		emailA := utils.IsEmail(a)
		emailB := utils.IsEmail(b)
		if emailA != emailB {
			return emailB
		}

		dashA := strings.Contains(a, "-")
		dashB := strings.Contains(b, "-")
		if dashA != dashB {
			return dashB
		}

		return len(a) > len(b)
	})
}

// findBestAccount prefers the existing account with the group name.
func (r *identity) findBestAccount() *model.Account {
	accounts := r.accounts.Slice()
	if len(accounts) == 0 {
		return nil
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })

	sameName := lo.Filter(accounts, func(a *model.Account, _ int) bool { return a.FullName == r.Name })
	if len(sameName) > 0 {
		return sameName[0]
	}
	return accounts[0]
}

func (r *identity) isOwned(email string) bool {
	for _, a := range r.accounts.Slice() {
		if a.HasEmail(email) {
			return true
		}
	}
	return false
}

func (g *identityGrouper) key(s string) string {
	return strings.TrimSpace(utils.ToLowerNoAccents(s))
}

func firstEmail(r *identity) string {
	emails := r.emails.Slice()
	sort.Strings(emails)
	return emails[0]
}

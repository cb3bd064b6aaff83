package model

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

type Account struct {
	ID       AccountID
	Username *string
	FullName string
	Active   bool

	emails map[string]bool
}

func NewAccount(id AccountID) *Account {
	return &Account{
		ID:     id,
		Active: true,
		emails: map[string]bool{},
	}
}

func (a *Account) AddEmail(email string) {
	a.emails[NormalizeEmail(email)] = true
}

func (a *Account) HasEmail(email string) bool {
	return a.emails[NormalizeEmail(email)]
}

func (a *Account) ListEmails() []string {
	result := lo.Keys(a.emails)
	sort.Strings(result)
	return result
}

func (a *Account) SetUsername(username string) {
	username = strings.TrimSpace(username)
	if username == "" {
		a.Username = nil
	} else {
		a.Username = &username
	}
}

// AccountState is the read-only view of an account used when deciding
// whether it can review a change.
type AccountState struct {
	Account  *Account
	Username *string
}

func NewAccountState(account *Account) *AccountState {
	return &AccountState{
		Account:  account,
		Username: account.Username,
	}
}

func (s *AccountState) IsActive() bool {
	return s.Account.Active
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

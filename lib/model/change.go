package model

import "fmt"

type ChangeStatus int

const (
	ChangeNew ChangeStatus = iota
	ChangeMerged
	ChangeAbandoned
)

func (s ChangeStatus) String() string {
	switch s {
	case ChangeNew:
		return "NEW"
	case ChangeMerged:
		return "MERGED"
	case ChangeAbandoned:
		return "ABANDONED"
	default:
		return fmt.Sprintf("ChangeStatus(%d)", int(s))
	}
}

type Change struct {
	ID      ChangeID
	Key     string
	Project string
	Branch  string
	Owner   AccountID
	Subject string
	Status  ChangeStatus
}

func (c *Change) IsOpen() bool {
	return c.Status == ChangeNew
}

func (c *Change) String() string {
	return fmt.Sprintf("%v:%v", c.Project, c.ID)
}

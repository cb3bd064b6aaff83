package model

import "strings"

type Commit struct {
	ID      string
	Subject string
	Parents []string
}

func NewCommit(id string, message string, parents ...string) *Commit {
	return &Commit{
		ID:      id,
		Subject: SubjectOf(message),
		Parents: parents,
	}
}

func (c *Commit) ParentCount() int {
	return len(c.Parents)
}

func (c *Commit) Parent() string {
	return c.Parents[0]
}

func (c *Commit) ShortID() string {
	if len(c.ID) <= 7 {
		return c.ID
	}
	return c.ID[:7]
}

// SubjectOf returns the first paragraph of a commit message joined in a
// single line, the same way git computes the short message.
func SubjectOf(message string) string {
	message = strings.TrimSpace(message)

	end := strings.Index(message, "\n\n")
	if end >= 0 {
		message = message[:end]
	}

	lines := strings.Split(message, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.Join(lines, " ")
}

package model

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

type Strategy string

const (
	StrategyByBlame   Strategy = "blame"
	StrategyFixedList Strategy = "fixed"
)

const (
	DefaultMaxReviewers = 3
)

// Configuration holds the resolved settings of one project. It is created
// once per pass and must not be changed after Compile.
type Configuration struct {
	MaxReviewers       int
	IgnoreFileRegEx    string
	IgnoreSubjectRegEx string
	IgnoredUsers       []string
	IgnoreDrafts       bool
	Strategy           Strategy
	FixedReviewers     []AccountID

	ignoreFile    *regexp.Regexp
	ignoreSubject *regexp.Regexp
	ignoredUsers  map[string]bool
}

func NewConfiguration() *Configuration {
	return &Configuration{
		MaxReviewers: DefaultMaxReviewers,
		Strategy:     StrategyByBlame,
	}
}

func (c *Configuration) Compile() error {
	var err error

	c.ignoreFile, err = CompileWholeMatch(c.IgnoreFileRegEx)
	if err != nil {
		return errors.Wrap(err, "ignoreFileRegEx")
	}

	c.ignoreSubject, err = CompileWholeMatch(c.IgnoreSubjectRegEx)
	if err != nil {
		return errors.Wrap(err, "ignoreSubjectRegEx")
	}

	c.ignoredUsers = make(map[string]bool, len(c.IgnoredUsers))
	for _, u := range c.IgnoredUsers {
		u = strings.TrimSpace(u)
		if u != "" {
			c.ignoredUsers[u] = true
		}
	}

	switch c.Strategy {
	case "":
		c.Strategy = StrategyByBlame
	case StrategyByBlame, StrategyFixedList:
	default:
		return errors.Errorf("unknown strategy: %v", c.Strategy)
	}

	return nil
}

func (c *Configuration) Enabled() bool {
	return c.MaxReviewers > 0
}

func (c *Configuration) IgnoresFile(path string) bool {
	return c.ignoreFile != nil && c.ignoreFile.MatchString(path)
}

func (c *Configuration) IgnoresSubject(subject string) bool {
	return c.ignoreSubject != nil && c.ignoreSubject.MatchString(subject)
}

func (c *Configuration) IgnoresUser(username *string) bool {
	return username != nil && c.ignoredUsers[*username]
}

// CompileWholeMatch compiles a pattern that must match the whole input, not
// only a part of it. An empty pattern returns nil.
func CompileWholeMatch(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}

	return regexp.Compile("^(?:" + pattern + ")$")
}

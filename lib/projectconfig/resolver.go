package projectconfig

import (
	"context"
	"regexp/syntax"
	"strconv"
	"strings"
	"unicode"

	"github.com/hashicorp/go-set/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/reviewers-by-blame/lib/model"
	"github.com/pescuma/reviewers-by-blame/lib/storages"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidRegEx    = errors.New("invalid regular expression")
	ErrInvalidConfig   = errors.New("invalid project configuration")
)

const (
	KeyMaxReviewers       = "maxReviewers"
	KeyIgnoreFileRegEx    = "ignoreFileRegEx"
	KeyIgnoreSubjectRegEx = "ignoreSubjectRegEx"
	KeyIgnoredUsers       = "ignoredUsers"
	KeyIgnoreDrafts       = "ignoreDrafts"
	KeyStrategy           = "strategy"
	KeyFixedReviewers     = "fixedReviewers"
)

var keys = []string{
	KeyMaxReviewers, KeyIgnoreFileRegEx, KeyIgnoreSubjectRegEx, KeyIgnoredUsers,
	KeyIgnoreDrafts, KeyStrategy, KeyFixedReviewers,
}

func Keys() []string {
	return append([]string(nil), keys...)
}

// Resolver computes the effective configuration of projects. Values not set in
// a project are inherited from its parents, up to All-Projects.
type Resolver struct {
	storage storages.Storage
	site    *SiteConfig
}

func NewResolver(storage storages.Storage, site *SiteConfig) *Resolver {
	return &Resolver{
		storage: storage,
		site:    site,
	}
}

func (r *Resolver) ResolveProjectConfig(ctx context.Context, project string) (*model.Configuration, error) {
	values, err := r.inheritedValues(ctx, project)
	if err != nil {
		return nil, err
	}

	result, err := parse(project, values)
	if err != nil {
		return nil, err
	}

	if r.site != nil {
		if !r.site.IsProjectEnabled(project) {
			result.MaxReviewers = 0
		} else if o, ok := r.site.project(project); ok && o.MaxReviewers != nil {
			result.MaxReviewers = *o.MaxReviewers
		}
	}

	err = compile(project, result)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *Resolver) inheritedValues(ctx context.Context, project string) (map[string]string, error) {
	p, err := r.storage.LoadProject(ctx, project)
	if errors.Is(err, storages.ErrNotFound) {
		return nil, errors.Wrapf(ErrProjectNotFound, "%v", project)
	} else if err != nil {
		return nil, err
	}

	result := map[string]string{}
	visited := set.New[string](5)

	for p != nil {
		if !visited.Insert(p.Name) {
			return nil, errors.Wrapf(ErrInvalidConfig, "%v: cycle in project parents at %v", project, p.Name)
		}

		for k, v := range p.Config {
			if _, ok := result[k]; !ok {
				result[k] = v
			}
		}

		parent := p.ParentName()
		if parent == "" {
			break
		}

		p, err = r.storage.LoadProject(ctx, parent)
		if errors.Is(err, storages.ErrNotFound) {
			p = nil
		} else if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func parse(project string, values map[string]string) (*model.Configuration, error) {
	result := model.NewConfiguration()

	if v, ok := values[KeyMaxReviewers]; ok {
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "%v: %v is not a number: %v", project, KeyMaxReviewers, v)
		}
		result.MaxReviewers = i
	}

	result.IgnoreFileRegEx = values[KeyIgnoreFileRegEx]
	result.IgnoreSubjectRegEx = values[KeyIgnoreSubjectRegEx]
	result.IgnoredUsers = splitList(values[KeyIgnoredUsers])

	if v, ok := values[KeyIgnoreDrafts]; ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "%v: %v is not a boolean: %v", project, KeyIgnoreDrafts, v)
		}
		result.IgnoreDrafts = b
	}

	if v, ok := values[KeyStrategy]; ok {
		result.Strategy = model.Strategy(strings.ToLower(strings.TrimSpace(v)))
	}

	for _, v := range splitList(values[KeyFixedReviewers]) {
		id, err := model.StringToAccountID(v)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidConfig, "%v: %v", project, err)
		}
		result.FixedReviewers = append(result.FixedReviewers, id)
	}

	return result, nil
}

func compile(project string, c *model.Configuration) error {
	err := c.Compile()
	if err == nil {
		return nil
	}

	var syntaxErr *syntax.Error
	if errors.As(err, &syntaxErr) {
		return errors.Wrapf(ErrInvalidRegEx, "%v: %v", project, err)
	}
	return errors.Wrapf(ErrInvalidConfig, "%v: %v", project, err)
}

func splitList(v string) []string {
	return strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func (r *Resolver) CreateProject(ctx context.Context, name string, parent string) (*model.Project, error) {
	if name == "" {
		return nil, errors.New("project name can't be empty")
	}

	_, err := r.storage.LoadProject(ctx, name)
	if err == nil {
		return nil, errors.Errorf("project already exists: %v", name)
	} else if !errors.Is(err, storages.ErrNotFound) {
		return nil, err
	}

	p := model.NewProject(name)
	p.Parent = lo.Ternary(name == model.RootProject, "", parent)

	err = r.storage.WriteProject(ctx, p)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetProjectConfig changes one key of a project. An empty value removes the
// key, so the value is inherited again.
func (r *Resolver) SetProjectConfig(ctx context.Context, project string, key string, value string) error {
	if !lo.Contains(keys, key) {
		return errors.Wrapf(ErrInvalidConfig, "unknown key: %v (valid keys: %v)", key, strings.Join(keys, ", "))
	}

	p, err := r.storage.LoadProject(ctx, project)
	if errors.Is(err, storages.ErrNotFound) {
		return errors.Wrapf(ErrProjectNotFound, "%v", project)
	} else if err != nil {
		return err
	}

	if !p.SetConfig(key, strings.TrimSpace(value)) {
		return nil
	}

	c, err := parse(project, p.Config)
	if err != nil {
		return err
	}

	err = compile(project, c)
	if err != nil {
		return err
	}

	return r.storage.WriteProject(ctx, p)
}

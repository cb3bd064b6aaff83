package model

import (
	"sort"

	"github.com/samber/lo"
)

const RootProject = "All-Projects"

type Project struct {
	Name   string
	Parent string

	Config map[string]string
}

func NewProject(name string) *Project {
	return &Project{
		Name:   name,
		Config: map[string]string{},
	}
}

func (p *Project) ParentName() string {
	if p.Name == RootProject {
		return ""
	}
	if p.Parent == "" {
		return RootProject
	}
	return p.Parent
}

func (p *Project) SetConfig(key string, value string) bool {
	old, ok := p.Config[key]
	if ok && old == value {
		return false
	}

	if value == "" {
		delete(p.Config, key)
	} else {
		p.Config[key] = value
	}
	return true
}

func (p *Project) ListConfigKeys() []string {
	result := lo.Keys(p.Config)
	sort.Strings(result)
	return result
}

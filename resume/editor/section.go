// Package editor applies form edits to a resume. Every operation returns a
// new resume value and never writes to the slices of its input.
package editor

import (
	"resume-builder/resume/model"
)

// Section edits one list of a resume.
type Section[T any] struct {
	Name  string
	fresh func() T
	get   func(model.Resume) []T
	set   func(*model.Resume, []T)
	apply func(entry T, field string, value any) T
}

// Add appends a blank entry with a fresh id.
func (s Section[T]) Add(r model.Resume) model.Resume {
	items := s.get(r)
	next := make([]T, len(items), len(items)+1)
	copy(next, items)
	s.set(&r, append(next, s.fresh()))
	return r
}

// Update sets field of the entry at index. Unknown fields and values of the
// wrong type leave the entry as it was. index must be in range.
func (s Section[T]) Update(r model.Resume, index int, field string, value any) model.Resume {
	items := s.get(r)
	entry := items[index]
	next := make([]T, len(items))
	copy(next, items)
	next[index] = s.apply(entry, field, value)
	s.set(&r, next)
	return r
}

// Remove drops the entry at index, keeping the order of the rest.
func (s Section[T]) Remove(r model.Resume, index int) model.Resume {
	items := s.get(r)
	_ = items[index]
	next := make([]T, 0, len(items)-1)
	next = append(next, items[:index]...)
	next = append(next, items[index+1:]...)
	s.set(&r, next)
	return r
}

// Len reports the number of entries in the section.
func (s Section[T]) Len(r model.Resume) int { return len(s.get(r)) }

var Education = Section[model.Education]{
	Name: "education",
	fresh: func() model.Education {
		return model.Education{ID: model.NewID(model.EducationIDPrefix)}
	},
	get: func(r model.Resume) []model.Education { return r.Education },
	set: func(r *model.Resume, v []model.Education) { r.Education = v },
	apply: func(e model.Education, field string, value any) model.Education {
		s, ok := asString(value)
		if !ok {
			return e
		}
		switch field {
		case "institution":
			e.Institution = s
		case "degree":
			e.Degree = s
		case "field":
			e.Field = s
		case "startDate":
			e.StartDate = s
		case "endDate":
			e.EndDate = s
		case "description":
			e.Description = s
		}
		return e
	},
}

var Experience = Section[model.Experience]{
	Name: "experience",
	fresh: func() model.Experience {
		return model.Experience{ID: model.NewID(model.ExperienceIDPrefix)}
	},
	get:   func(r model.Resume) []model.Experience { return r.Experience },
	set:   func(r *model.Resume, v []model.Experience) { r.Experience = v },
	apply: applyExperience,
}

func applyExperience(e model.Experience, field string, value any) model.Experience {
	if field == "current" {
		current, ok := asBool(value)
		if !ok {
			return e
		}
		e.Current = current
		if current {
			e.EndDate = model.Present
		}
		return e
	}

	s, ok := asString(value)
	if !ok {
		return e
	}
	switch field {
	case "company":
		e.Company = s
	case "position":
		e.Position = s
	case "location":
		e.Location = s
	case "startDate":
		e.StartDate = s
	case "endDate":
		// The end date is pinned while the role is current.
		if !e.Current {
			e.EndDate = s
		}
	case "description":
		e.Description = s
	}
	return e
}

// DefaultSkillLevel is the level given to a new skill.
const DefaultSkillLevel = 3

var Skills = Section[model.Skill]{
	Name: "skills",
	fresh: func() model.Skill {
		return model.Skill{ID: model.NewID(model.SkillIDPrefix), Level: DefaultSkillLevel}
	},
	get: func(r model.Resume) []model.Skill { return r.Skills },
	set: func(r *model.Resume, v []model.Skill) { r.Skills = v },
	apply: func(sk model.Skill, field string, value any) model.Skill {
		switch field {
		case "name":
			if s, ok := asString(value); ok {
				sk.Name = s
			}
		case "level":
			if lvl, ok := asLevel(value); ok {
				sk.Level = lvl
			}
		}
		return sk
	},
}

var Projects = Section[model.Project]{
	Name: "projects",
	fresh: func() model.Project {
		return model.Project{ID: model.NewID(model.ProjectIDPrefix)}
	},
	get: func(r model.Resume) []model.Project { return r.Projects },
	set: func(r *model.Resume, v []model.Project) { r.Projects = v },
	apply: func(p model.Project, field string, value any) model.Project {
		s, ok := asString(value)
		if !ok {
			return p
		}
		switch field {
		case "name":
			p.Name = s
		case "description":
			p.Description = s
		case "technologies":
			p.Technologies = s
		case "link":
			p.Link = s
		}
		return p
	},
}

// Editor is a Section with its element type erased, for callers that pick a
// section by name.
type Editor interface {
	Add(r model.Resume) model.Resume
	Update(r model.Resume, index int, field string, value any) model.Resume
	Remove(r model.Resume, index int) model.Resume
	Len(r model.Resume) int
}

var byName = map[string]Editor{
	Education.Name:  Education,
	Experience.Name: Experience,
	Skills.Name:     Skills,
	Projects.Name:   Projects,
}

// Lookup returns the editor for a section name such as "skills".
func Lookup(name string) (Editor, bool) {
	e, ok := byName[name]
	return e, ok
}

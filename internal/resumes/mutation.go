package resumes

import (
	"fmt"

	"resume-builder/resume/editor"
	"resume-builder/resume/model"
)

// Mutation transforms a loaded resume before it is committed.
type Mutation func(model.Resume) (model.Resume, error)

// SetPersonal updates one personal info field.
func SetPersonal(field string, value any) Mutation {
	return func(r model.Resume) (model.Resume, error) {
		return editor.SetField(r, field, value), nil
	}
}

// SetContact updates one contact channel.
func SetContact(field string, value any) Mutation {
	return func(r model.Resume) (model.Resume, error) {
		return editor.SetContactField(r, field, value), nil
	}
}

// SetTemplate switches the resume's template.
func SetTemplate(templateID string) Mutation {
	return func(r model.Resume) (model.Resume, error) {
		return editor.SetTemplate(r, templateID), nil
	}
}

// SetTitle renames the resume.
func SetTitle(title string) Mutation {
	return func(r model.Resume) (model.Resume, error) {
		return editor.SetTitle(r, title), nil
	}
}

// AddEntry appends a blank entry to section.
func AddEntry(section string) Mutation {
	return func(r model.Resume) (model.Resume, error) {
		e, err := lookup(section)
		if err != nil {
			return r, err
		}
		return e.Add(r), nil
	}
}

// UpdateEntry sets one field of the entry at index.
func UpdateEntry(section string, index int, field string, value any) Mutation {
	return func(r model.Resume) (model.Resume, error) {
		e, err := lookupAt(r, section, index)
		if err != nil {
			return r, err
		}
		return e.Update(r, index, field, value), nil
	}
}

// RemoveEntry drops the entry at index.
func RemoveEntry(section string, index int) Mutation {
	return func(r model.Resume) (model.Resume, error) {
		e, err := lookupAt(r, section, index)
		if err != nil {
			return r, err
		}
		return e.Remove(r, index), nil
	}
}

// Chain applies mutations in order, stopping at the first error.
func Chain(ms ...Mutation) Mutation {
	return func(r model.Resume) (model.Resume, error) {
		var err error
		for _, m := range ms {
			if r, err = m(r); err != nil {
				return r, err
			}
		}
		return r, nil
	}
}

func lookup(section string) (editor.Editor, error) {
	e, ok := editor.Lookup(section)
	if !ok {
		return nil, fmt.Errorf("%w: unknown section %q", ErrInvalidInput, section)
	}
	return e, nil
}

func lookupAt(r model.Resume, section string, index int) (editor.Editor, error) {
	e, err := lookup(section)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= e.Len(r) {
		return nil, fmt.Errorf("%w: %s index %d out of range", ErrInvalidInput, section, index)
	}
	return e, nil
}

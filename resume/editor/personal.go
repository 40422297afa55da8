package editor

import "resume-builder/resume/model"

// SetField updates one personal info field. Unknown fields are ignored.
func SetField(r model.Resume, field string, value any) model.Resume {
	s, ok := asString(value)
	if !ok {
		return r
	}
	p := &r.PersonalInfo
	switch field {
	case "firstName":
		p.FirstName = s
	case "lastName":
		p.LastName = s
	case "jobTitle":
		p.JobTitle = s
	case "summary":
		p.Summary = s
	}
	return r
}

// SetContactField updates one contact channel. Unknown fields are ignored.
func SetContactField(r model.Resume, field string, value any) model.Resume {
	s, ok := asString(value)
	if !ok {
		return r
	}
	c := &r.PersonalInfo.Contact
	switch field {
	case "email":
		c.Email = s
	case "phone":
		c.Phone = s
	case "address":
		c.Address = s
	case "linkedin":
		c.LinkedIn = s
	case "github":
		c.GitHub = s
	case "website":
		c.Website = s
	}
	return r
}

// SetTemplate switches the template, normalising unknown ids.
func SetTemplate(r model.Resume, templateID string) model.Resume {
	r.TemplateID = model.NormalizeTemplateID(templateID)
	return r
}

// SetTitle renames the resume.
func SetTitle(r model.Resume, title string) model.Resume {
	r.Title = title
	return r
}

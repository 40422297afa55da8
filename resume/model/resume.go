package model

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Present is the endDate sentinel for ongoing entries.
const Present = "Present"

// DefaultTemplateID is used when a resume carries no recognised template.
const DefaultTemplateID = "modern"

const defaultTitle = "Untitled Resume"

// Resume is the canonical, serializable resume document.
type Resume struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	Title        string       `json:"title"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	TemplateID   string       `json:"templateId"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Education    []Education  `json:"education"`
	Experience   []Experience `json:"experience"`
	Skills       []Skill      `json:"skills"`
	Projects     []Project    `json:"projects"`
}

// PersonalInfo captures identity and summary details.
type PersonalInfo struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	JobTitle  string  `json:"jobTitle"`
	Summary   string  `json:"summary"`
	Contact   Contact `json:"contact"`
}

// Contact holds optional contact channels. Empty values are omitted when rendered.
type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Website  string `json:"website"`
}

// Education represents an education entry. Dates are free-form.
type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

// Experience represents a work history entry.
// When Current is true, EndDate is Present.
type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// Skill is a named proficiency on a 1-5 scale.
type Skill struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Level float64 `json:"level"`
}

// Project represents a notable project. Technologies is free text.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	Link         string `json:"link"`
}

// NewEmpty returns a resume with every string empty and every list empty.
func NewEmpty(id, userID, templateID string, now time.Time) Resume {
	return Resume{
		ID:         id,
		UserID:     userID,
		Title:      defaultTitle,
		CreatedAt:  now,
		UpdatedAt:  now,
		TemplateID: NormalizeTemplateID(templateID),
		Education:  []Education{},
		Experience: []Experience{},
		Skills:     []Skill{},
		Projects:   []Project{},
	}
}

// TemplateIDs lists the known template identifiers in catalog order.
var TemplateIDs = []string{"modern", "professional", "creative", "minimal"}

// NormalizeTemplateID returns id when it names a known template and
// DefaultTemplateID otherwise.
func NormalizeTemplateID(id string) string {
	clean := strings.ToLower(strings.TrimSpace(id))
	for _, known := range TemplateIDs {
		if clean == known {
			return known
		}
	}
	return DefaultTemplateID
}

// DisplayName joins first and last name with a single space, even when
// either is empty.
func (r Resume) DisplayName() string {
	return r.PersonalInfo.FirstName + " " + r.PersonalInfo.LastName
}

// Initials returns the first character of each name.
func (r Resume) Initials() string {
	return firstRune(r.PersonalInfo.FirstName) + firstRune(r.PersonalInfo.LastName)
}

func firstRune(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(s)
	return s[:size]
}

// Clone returns a deep copy whose slices share no backing arrays with r.
func (r Resume) Clone() Resume {
	out := r
	out.Education = append([]Education{}, r.Education...)
	out.Experience = append([]Experience{}, r.Experience...)
	out.Skills = append([]Skill{}, r.Skills...)
	out.Projects = append([]Project{}, r.Projects...)
	return out
}

// Normalize fills nil lists and repairs the template id. It is applied to
// documents arriving from outside the editors (JSON payloads, storage).
func (r *Resume) Normalize() {
	r.TemplateID = NormalizeTemplateID(r.TemplateID)
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Experience == nil {
		r.Experience = []Experience{}
	}
	if r.Skills == nil {
		r.Skills = []Skill{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	for i := range r.Experience {
		if r.Experience[i].Current {
			r.Experience[i].EndDate = Present
		}
	}
}

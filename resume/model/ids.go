package model

import "github.com/google/uuid"

// ID prefixes for list entities.
const (
	EducationIDPrefix  = "edu_"
	ExperienceIDPrefix = "exp_"
	SkillIDPrefix      = "skill_"
	ProjectIDPrefix    = "proj_"
	ResumeIDPrefix     = "resume_"
)

// NewID returns a process-unique opaque identifier with the given prefix.
// Ids carry no ordering; list position is the only order.
func NewID(prefix string) string {
	return prefix + uuid.NewString()
}

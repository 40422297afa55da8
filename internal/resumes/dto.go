package resumes

import (
	"time"

	"resume-builder/resume/model"
)

// SummaryResponse is the dashboard listing entry for a resume.
type SummaryResponse struct {
	ResumeID   string    `json:"resumeId"`
	Title      string    `json:"title"`
	TemplateID string    `json:"templateId"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func toSummary(doc model.Resume) SummaryResponse {
	return SummaryResponse{
		ResumeID:   doc.ID,
		Title:      doc.Title,
		TemplateID: doc.TemplateID,
		Name:       doc.DisplayName(),
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

type createRequest struct {
	TemplateID string `json:"templateId"`
}

type patchRequest struct {
	Title      *string `json:"title"`
	TemplateID *string `json:"templateId"`
}

// addEntryResponse reports the resume and the index of the new entry.
type addEntryResponse struct {
	Index  int          `json:"index"`
	Resume model.Resume `json:"resume"`
}

package exports

import "time"

// Record describes one finished export of a resume revision.
type Record struct {
	ID         string    `json:"exportId"`
	ResumeID   string    `json:"resumeId"`
	UserID     string    `json:"-"`
	TemplateID string    `json:"templateId"`
	FileName   string    `json:"fileName"`
	StorageKey string    `json:"-"`
	SizeBytes  int64     `json:"sizeBytes"`
	PageWidth  int       `json:"pageWidth"`
	PageHeight int       `json:"pageHeight"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Archived reports whether the PDF bytes were kept in the object store.
func (r Record) Archived() bool {
	return r.StorageKey != ""
}

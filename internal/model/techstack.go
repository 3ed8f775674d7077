package model

import "time"

type TechCategory string

const (
	TechLanguage  TechCategory = "language"
	TechFramework TechCategory = "framework"
	TechDatabase  TechCategory = "database"
	TechHosting   TechCategory = "hosting"
	TechOther     TechCategory = "other"
)

// TechStackItem is one technology choice of a project. Locking is
// all-or-nothing across a project's items; LockedBy records who holds the
// lock so a transient unlock/re-lock cycle can preserve it.
type TechStackItem struct {
	ID        int64        `json:"id"`
	ProjectID int64        `json:"project_id"`
	Name      string       `json:"name"`
	Category  TechCategory `json:"category"`
	IsLocked  bool         `json:"is_locked"`
	LockedBy  *int64       `json:"locked_by,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

package model

import "time"

type ProjectStatus string

const (
	ProjectPlanning  ProjectStatus = "planning"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectOnHold    ProjectStatus = "on_hold"
)

// Project is the root of the entity graph. Every other entity belongs to
// exactly one project and dies with it.
type Project struct {
	ID        int64         `json:"id"`
	Key       string        `json:"key"`
	Name      string        `json:"name"`
	Status    ProjectStatus `json:"status"`
	ManagerID int64         `json:"manager_id"`
	Progress  int           `json:"progress"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

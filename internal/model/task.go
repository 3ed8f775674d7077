package model

import "time"

type TaskCategory string

const (
	TaskFrontend TaskCategory = "frontend"
	TaskBackend  TaskCategory = "backend"
	TaskDesign   TaskCategory = "design"
	TaskDevOps   TaskCategory = "devops"
	TaskQA       TaskCategory = "qa"
)

// Column is a per-project board column. The terminal column marks tasks as
// done for phase gating.
type Column struct {
	ID         int64  `json:"id"`
	ProjectID  int64  `json:"project_id"`
	Title      string `json:"title"`
	Position   int    `json:"position"`
	IsTerminal bool   `json:"is_terminal"`
}

type Task struct {
	ID        int64        `json:"id"`
	ProjectID int64        `json:"project_id"`
	ColumnID  int64        `json:"column_id"`
	Title     string       `json:"title"`
	Category  TaskCategory `json:"category"`
	CreatedAt time.Time    `json:"created_at"`
}

type ChecklistItem struct {
	ID          int64  `json:"id"`
	TaskID      int64  `json:"task_id"`
	Title       string `json:"title"`
	IsCompleted bool   `json:"is_completed"`
}

type TaskTag struct {
	ID     int64  `json:"id"`
	TaskID int64  `json:"task_id"`
	Label  string `json:"label"`
}

type TaskComment struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"task_id"`
	AuthorID  int64     `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskDependency is an edge "task depends on other task". A task must not
// depend on itself; cycle freedom is expected of callers but not enforced
// here.
type TaskDependency struct {
	TaskID          int64 `json:"task_id"`
	DependsOnTaskID int64 `json:"depends_on_task_id"`
}

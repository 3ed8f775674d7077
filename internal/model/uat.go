package model

import "time"

type FeedbackStatus string

const (
	FeedbackPending   FeedbackStatus = "pending"
	FeedbackAddressed FeedbackStatus = "addressed"
	FeedbackRejected  FeedbackStatus = "rejected"
)

type UATFeedback struct {
	ID        int64          `json:"id"`
	ProjectID int64          `json:"project_id"`
	Content   string         `json:"content"`
	Status    FeedbackStatus `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
}

type SignoffType string

const (
	SignoffUAT    SignoffType = "uat"
	SignoffGoLive SignoffType = "go_live"
)

// Signoff records a formal approval. A UAT signoff cannot be created while
// any feedback for the project is still pending.
type Signoff struct {
	ID        int64       `json:"id"`
	ProjectID int64       `json:"project_id"`
	Type      SignoffType `json:"signoff_type"`
	SignedBy  int64       `json:"signed_by"`
	SignedAt  time.Time   `json:"signed_at"`
}

package model

import "time"

type ResourceType string

const (
	ResourceSitemap    ResourceType = "sitemap"
	ResourceSRS        ResourceType = "srs"
	ResourceWireframe  ResourceType = "wireframe"
	ResourceMockup     ResourceType = "mockup"
	ResourceFigmaLink  ResourceType = "figma_link"
	ResourceAsset      ResourceType = "asset"
	ResourceCredential ResourceType = "credential"
)

type ResourceStatus string

const (
	ResourcePending  ResourceStatus = "pending"
	ResourceApproved ResourceStatus = "approved"
	ResourceRejected ResourceStatus = "rejected"
)

// Resource is a project deliverable. Re-uploading bumps the version counter
// and resets status to pending; approval stamps approver and timestamp.
type Resource struct {
	ID         int64          `json:"id"`
	ProjectID  int64          `json:"project_id"`
	Type       ResourceType   `json:"resource_type"`
	Name       string         `json:"name"`
	URL        string         `json:"url"`
	Status     ResourceStatus `json:"status"`
	Version    int            `json:"version"`
	ApprovedBy *int64         `json:"approved_by,omitempty"`
	ApprovedAt *time.Time     `json:"approved_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

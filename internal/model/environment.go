package model

import "time"

type EnvironmentName string

const (
	EnvLocal      EnvironmentName = "local"
	EnvStaging    EnvironmentName = "staging"
	EnvProduction EnvironmentName = "production"
)

// EnvironmentNames lists the three environments every project owns, exactly
// one of each.
var EnvironmentNames = []EnvironmentName{EnvLocal, EnvStaging, EnvProduction}

type Environment struct {
	ID             int64           `json:"id"`
	ProjectID      int64           `json:"project_id"`
	Name           EnvironmentName `json:"name"`
	CurrentVersion string          `json:"current_version"`
	SSLEnabled     bool            `json:"ssl_enabled"`
	URL            string          `json:"url"`
}

type DeploymentStatus string

const (
	DeploySuccess  DeploymentStatus = "success"
	DeployFailed   DeploymentStatus = "failed"
	DeployRollback DeploymentStatus = "rollback"
)

// DeploymentRecord is one entry of an environment's ordered deployment
// history.
type DeploymentRecord struct {
	ID            int64            `json:"id"`
	EnvironmentID int64            `json:"environment_id"`
	Version       string           `json:"version"`
	Status        DeploymentStatus `json:"status"`
	DeployedAt    time.Time        `json:"deployed_at"`
}

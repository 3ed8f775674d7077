// Package cascade implements project deletion with the all-or-nothing
// guarantee: afterwards either the project and every dependent row are fully
// present, or fully absent. Every table holding a project id must be
// registered here as a Dependent.
package cascade

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/apperr"
	"project-service/pkg/metrics"
	"project-service/pkg/mq"
	"project-service/pkg/rbac"
)

// Dependent is one dependent table of the projects table. Keeping the set an
// explicit registered list makes exhaustiveness auditable: a new entity store
// that is not registered here silently breaks the cascade invariant.
type Dependent interface {
	TableName() string
	// DeleteByProjectID removes all rows for the project inside tx and
	// reports how many were deleted.
	DeleteByProjectID(ctx context.Context, tx pgx.Tx, projectID int64) (int64, error)
	// CountByProjectID counts remaining rows for the project inside tx.
	CountByProjectID(ctx context.Context, tx pgx.Tx, projectID int64) (int64, error)
}

// DB is the transaction source; satisfied by *pgxpool.Pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type ProjectStore interface {
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	DeleteTx(ctx context.Context, tx pgx.Tx, id int64) error
}

type Locker interface {
	Acquire(ctx context.Context, projectID int64) (func(), error)
}

type Publisher interface {
	Publish(routingKey string, payload any) error
}

type Coordinator struct {
	db       DB
	projects ProjectStore
	deps     []Dependent
	locks    Locker
	pub      Publisher
	logger   *zap.Logger
}

func NewCoordinator(db DB, projects ProjectStore, deps []Dependent, locks Locker, pub Publisher, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		db:       db,
		projects: projects,
		deps:     deps,
		locks:    locks,
		pub:      pub,
		logger:   logger,
	}
}

// Dependents exposes the registered dependent tables, in deletion order.
func (c *Coordinator) Dependents() []Dependent {
	return c.deps
}

// DeleteProject removes the project and every dependent row as one atomic
// unit, serialized against transitions for the same project.
func (c *Coordinator) DeleteProject(ctx context.Context, projectID int64, role string) error {
	if err := rbac.CheckPermission(role, rbac.PermissionDeleteProject); err != nil {
		return err
	}

	start := time.Now()

	release, err := c.locks.Acquire(ctx, projectID)
	if err != nil {
		return err
	}
	defer release()

	project, err := c.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return &apperr.TransientFault{Op: "begin cascade delete", Err: err}
	}
	defer tx.Rollback(ctx)

	var totalDeleted int64
	for _, dep := range c.deps {
		rows, err := dep.DeleteByProjectID(ctx, tx, projectID)
		if err != nil {
			c.logger.Error("Cascade delete failed, rolling back",
				zap.Int64("project_id", projectID),
				zap.String("table", dep.TableName()),
				zap.Error(err),
			)
			return &apperr.TransientFault{Op: "cascade delete " + dep.TableName(), Err: err}
		}
		totalDeleted += rows
		c.logger.Debug("Deleted dependent rows",
			zap.Int64("project_id", projectID),
			zap.String("table", dep.TableName()),
			zap.Int64("rows", rows),
		)
	}

	if err := c.projects.DeleteTx(ctx, tx, projectID); err != nil {
		return err
	}

	// Residual rows after the fan-out are a defect, not a user error.
	for _, dep := range c.deps {
		remaining, err := dep.CountByProjectID(ctx, tx, projectID)
		if err != nil {
			return &apperr.TransientFault{Op: "verify cascade delete", Err: err}
		}
		if remaining > 0 {
			c.logger.Error("Residual rows after cascade delete, rolling back",
				zap.Int64("project_id", projectID),
				zap.String("table", dep.TableName()),
				zap.Int64("remaining", remaining),
			)
			return &apperr.IntegrityFault{
				ProjectID: projectID,
				Detail:    "residual rows in " + dep.TableName() + " after cascade delete",
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &apperr.TransientFault{Op: "commit cascade delete", Err: err}
	}

	c.logger.Info("Project deleted",
		zap.Int64("project_id", projectID),
		zap.String("key", project.Key),
		zap.Int64("dependent_rows", totalDeleted),
	)

	if c.pub != nil {
		payload := mq.ProjectDeletedPayload{
			ProjectID:   projectID,
			ProjectKey:  project.Key,
			DeletedRows: totalDeleted,
		}
		if err := c.pub.Publish(mq.RoutingKeyProjectDeleted, payload); err != nil {
			c.logger.Warn("Failed to publish project.deleted event",
				zap.Int64("project_id", projectID),
				zap.Error(err),
			)
		}
	}
	metrics.RecordCascadeDelete(time.Since(start))
	return nil
}

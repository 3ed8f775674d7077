// Package techstack manages a project's technology choices: advisory
// compatibility checking and the all-or-nothing stack lock.
package techstack

import (
	"context"

	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/pkg/apperr"
	"project-service/pkg/rbac"
)

// Store is the tech stack entity store contract.
type Store interface {
	Insert(ctx context.Context, item *model.TechStackItem) (int64, error)
	FindByProject(ctx context.Context, projectID int64) ([]model.TechStackItem, error)
	FindByID(ctx context.Context, id int64) (*model.TechStackItem, error)
	Update(ctx context.Context, id int64, name string, category model.TechCategory) error
	Delete(ctx context.Context, id int64) error
	SetLockedAll(ctx context.Context, projectID int64, locked bool, lockedBy *int64) error
}

type Service struct {
	// table maps a technology name to the set of names it is known
	// compatible with. Injected read-only configuration.
	table  map[string][]string
	store  Store
	logger *zap.Logger
}

func NewService(table map[string][]string, store Store, logger *zap.Logger) *Service {
	if table == nil {
		table = map[string][]string{}
	}
	return &Service{table: table, store: store, logger: logger}
}

// AddItem inserts the item and returns the advisory compatibility result.
// Incompatibility does not block the add; a locked stack does.
func (s *Service) AddItem(ctx context.Context, item *model.TechStackItem) (CompatibilityResult, error) {
	existing, err := s.store.FindByProject(ctx, item.ProjectID)
	if err != nil {
		return CompatibilityResult{}, err
	}
	for _, ex := range existing {
		if ex.IsLocked {
			return CompatibilityResult{}, &apperr.ValidationRejection{
				Reasons: []string{"tech stack is locked"},
			}
		}
	}

	result := s.CheckCompatibility(*item, existing)

	id, err := s.store.Insert(ctx, item)
	if err != nil {
		return CompatibilityResult{}, err
	}
	item.ID = id

	s.logger.Info("Tech stack item added",
		zap.Int64("project_id", item.ProjectID),
		zap.String("name", item.Name),
		zap.Int("incompatible_with", len(result.Incompatible)),
	)
	return result, nil
}

// CheckAgainstProject runs the advisory check for a candidate item against
// the project's current stack without persisting anything.
func (s *Service) CheckAgainstProject(ctx context.Context, projectID int64, candidate model.TechStackItem) (CompatibilityResult, error) {
	existing, err := s.store.FindByProject(ctx, projectID)
	if err != nil {
		return CompatibilityResult{}, err
	}
	return s.CheckCompatibility(candidate, existing), nil
}

// LockStack re-validates the whole set and locks every item, or refuses if
// any incompatibility remains. Manager/Admin only.
func (s *Service) LockStack(ctx context.Context, projectID int64, role string, actorID int64) error {
	if err := rbac.CheckPermission(role, rbac.PermissionLockTechStack); err != nil {
		return err
	}

	items, err := s.store.FindByProject(ctx, projectID)
	if err != nil {
		return err
	}
	if reasons := s.stackIncompatibilities(items); len(reasons) > 0 {
		s.logger.Info("Tech stack lock refused",
			zap.Int64("project_id", projectID),
			zap.Strings("reasons", reasons),
		)
		return &apperr.ValidationRejection{Reasons: reasons}
	}

	if err := s.store.SetLockedAll(ctx, projectID, true, &actorID); err != nil {
		return err
	}
	s.logger.Info("Tech stack locked",
		zap.Int64("project_id", projectID),
		zap.Int64("locked_by", actorID),
	)
	return nil
}

// UnlockStack removes the lock from every item. Manager/Admin only.
func (s *Service) UnlockStack(ctx context.Context, projectID int64, role string) error {
	if err := rbac.CheckPermission(role, rbac.PermissionUnlockTechStack); err != nil {
		return err
	}
	if err := s.store.SetLockedAll(ctx, projectID, false, nil); err != nil {
		return err
	}
	s.logger.Info("Tech stack unlocked", zap.Int64("project_id", projectID))
	return nil
}

// UpdateItem mutates one item. On a locked stack only Manager/Admin may
// proceed, via transient unlock, mutate, re-lock; the original lock owner is
// preserved across the cycle.
func (s *Service) UpdateItem(ctx context.Context, itemID int64, name string, category model.TechCategory, role string) error {
	return s.mutateItem(ctx, itemID, role, func() error {
		return s.store.Update(ctx, itemID, name, category)
	})
}

// DeleteItem removes one item, with the same lock handling as UpdateItem.
func (s *Service) DeleteItem(ctx context.Context, itemID int64, role string) error {
	return s.mutateItem(ctx, itemID, role, func() error {
		return s.store.Delete(ctx, itemID)
	})
}

func (s *Service) mutateItem(ctx context.Context, itemID int64, role string, mutate func() error) error {
	item, err := s.store.FindByID(ctx, itemID)
	if err != nil {
		return err
	}

	if !item.IsLocked {
		return mutate()
	}

	if err := rbac.CheckPermission(role, rbac.PermissionMutateLockedStack); err != nil {
		return err
	}

	// Transient unlock cycle. The lock owner recorded on the stack stays
	// the same after the re-lock.
	lockOwner := item.LockedBy
	if err := s.store.SetLockedAll(ctx, item.ProjectID, false, nil); err != nil {
		return err
	}
	mutErr := mutate()
	if err := s.store.SetLockedAll(ctx, item.ProjectID, true, lockOwner); err != nil {
		s.logger.Error("Failed to re-lock tech stack after transient unlock",
			zap.Int64("project_id", item.ProjectID),
			zap.Error(err),
		)
		return err
	}
	return mutErr
}

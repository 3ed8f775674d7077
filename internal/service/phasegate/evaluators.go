package phasegate

import (
	"context"
	"errors"
	"fmt"

	"project-service/internal/model"
	"project-service/pkg/apperr"
)

// sitemapSRSEvaluator: at least one sitemap or SRS resource is approved.
type sitemapSRSEvaluator struct {
	resources ResourceStore
}

func (e *sitemapSRSEvaluator) Code() string { return ReqSitemapSRSApproved }

func (e *sitemapSRSEvaluator) Evaluate(ctx context.Context, projectID int64) (Result, error) {
	resources, err := e.resources.FindByProject(ctx, projectID)
	if err != nil {
		return Result{}, err
	}
	for _, res := range resources {
		if (res.Type == model.ResourceSitemap || res.Type == model.ResourceSRS) &&
			res.Status == model.ResourceApproved {
			return Result{Code: e.Code(), Satisfied: true}, nil
		}
	}
	return Result{
		Code:   e.Code(),
		Detail: "SITEMAP/SRS not approved",
	}, nil
}

// techStackSelectedEvaluator: the project has at least one tech stack item.
type techStackSelectedEvaluator struct {
	stack TechStackStore
}

func (e *techStackSelectedEvaluator) Code() string { return ReqTechStackSelected }

func (e *techStackSelectedEvaluator) Evaluate(ctx context.Context, projectID int64) (Result, error) {
	count, err := e.stack.CountByProject(ctx, projectID)
	if err != nil {
		return Result{}, err
	}
	if count == 0 {
		return Result{
			Code:   e.Code(),
			Detail: "tech stack not selected",
		}, nil
	}
	return Result{Code: e.Code(), Satisfied: true}, nil
}

// srsProxyEvaluator: DB schema and API doc approval are proxied by the SRS
// resource being approved.
type srsProxyEvaluator struct {
	code      string
	detail    string
	resources ResourceStore
}

func (e *srsProxyEvaluator) Code() string { return e.code }

func (e *srsProxyEvaluator) Evaluate(ctx context.Context, projectID int64) (Result, error) {
	resources, err := e.resources.FindByProject(ctx, projectID)
	if err != nil {
		return Result{}, err
	}
	for _, res := range resources {
		if res.Type == model.ResourceSRS && res.Status == model.ResourceApproved {
			return Result{Code: e.code, Satisfied: true}, nil
		}
	}
	return Result{Code: e.code, Detail: e.detail}, nil
}

// designApprovedEvaluator: at least one wireframe, mockup or Figma link is
// approved.
type designApprovedEvaluator struct {
	resources ResourceStore
}

func (e *designApprovedEvaluator) Code() string { return ReqDesignApproved }

func (e *designApprovedEvaluator) Evaluate(ctx context.Context, projectID int64) (Result, error) {
	resources, err := e.resources.FindByProject(ctx, projectID)
	if err != nil {
		return Result{}, err
	}
	for _, res := range resources {
		switch res.Type {
		case model.ResourceWireframe, model.ResourceMockup, model.ResourceFigmaLink:
			if res.Status == model.ResourceApproved {
				return Result{Code: e.Code(), Satisfied: true}, nil
			}
		}
	}
	return Result{
		Code:   e.Code(),
		Detail: "no approved design resource (wireframe, mockup or Figma link)",
	}, nil
}

// stagingDeployedEvaluator: the staging environment has a URL and a current
// version, and its most recent deployment succeeded.
type stagingDeployedEvaluator struct {
	envs EnvironmentStore
}

func (e *stagingDeployedEvaluator) Code() string { return ReqStagingDeployed }

func (e *stagingDeployedEvaluator) Evaluate(ctx context.Context, projectID int64) (Result, error) {
	env, err := e.envs.FindByName(ctx, projectID, model.EnvStaging)
	if err != nil {
		var notFound *apperr.NotFound
		if errors.As(err, &notFound) {
			return Result{Code: e.Code(), Detail: "staging environment not configured"}, nil
		}
		return Result{}, err
	}
	if env.URL == "" || env.CurrentVersion == "" {
		return Result{
			Code:   e.Code(),
			Detail: "staging environment has no URL or deployed version",
		}, nil
	}

	latest, err := e.envs.LatestDeployment(ctx, env.ID)
	if err != nil {
		var notFound *apperr.NotFound
		if errors.As(err, &notFound) {
			return Result{Code: e.Code(), Detail: "staging has no deployment history"}, nil
		}
		return Result{}, err
	}
	if latest.Status != model.DeploySuccess {
		return Result{
			Code:   e.Code(),
			Detail: fmt.Sprintf("last staging deployment status is %s", latest.Status),
		}, nil
	}
	return Result{Code: e.Code(), Satisfied: true}, nil
}

// devTasksCompleteEvaluator: every task sits in the terminal column, or
// every checklist item across all tasks is completed. A project with zero
// tasks passes.
type devTasksCompleteEvaluator struct {
	tasks TaskStore
}

func (e *devTasksCompleteEvaluator) Code() string { return ReqAllDevTasksComplete }

func (e *devTasksCompleteEvaluator) Evaluate(ctx context.Context, projectID int64) (Result, error) {
	total, err := e.tasks.CountByProject(ctx, projectID)
	if err != nil {
		return Result{}, err
	}
	if total == 0 {
		return Result{Code: e.Code(), Satisfied: true}, nil
	}

	outside, err := e.tasks.CountOutsideTerminalColumn(ctx, projectID)
	if err != nil {
		return Result{}, err
	}
	if outside == 0 {
		return Result{Code: e.Code(), Satisfied: true}, nil
	}

	incomplete, err := e.tasks.CountIncompleteChecklistItems(ctx, projectID)
	if err != nil {
		return Result{}, err
	}
	if incomplete == 0 {
		return Result{Code: e.Code(), Satisfied: true}, nil
	}
	return Result{
		Code:   e.Code(),
		Detail: fmt.Sprintf("%d task(s) not done, %d checklist item(s) open", outside, incomplete),
	}, nil
}

// noCriticalBugsEvaluator: zero critical bugs outside a terminal status.
type noCriticalBugsEvaluator struct {
	bugs BugStore
}

func (e *noCriticalBugsEvaluator) Code() string { return ReqNoCriticalBugs }

func (e *noCriticalBugsEvaluator) Evaluate(ctx context.Context, projectID int64) (Result, error) {
	count, err := e.bugs.CountOpenCritical(ctx, projectID)
	if err != nil {
		return Result{}, err
	}
	if count > 0 {
		return Result{
			Code:   e.Code(),
			Detail: fmt.Sprintf("%d critical bug(s) unresolved", count),
		}, nil
	}
	return Result{Code: e.Code(), Satisfied: true}, nil
}

package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"project-service/internal/handler"
)

type Handlers struct {
	Projects  *handler.ProjectHandler
	Phases    *handler.PhaseHandler
	Resources *handler.ResourceHandler
	TechStack *handler.TechStackHandler
	QA        *handler.QAHandler
}

func NewRouter(h Handlers, jwtSecret string, logger *zap.Logger, db *pgxpool.Pool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/phases/display", h.Phases.DisplayInfo)

	api := r.Group("/")
	api.Use(IdentityMiddleware(jwtSecret, logger))

	api.POST("/projects", h.Projects.Create)
	api.GET("/projects", h.Projects.List)
	api.GET("/projects/:id", h.Projects.Get)
	api.DELETE("/projects/:id", h.Projects.Delete)

	api.GET("/projects/:id/transition", h.Phases.Validate)
	api.POST("/projects/:id/transition", h.Phases.Execute)

	api.POST("/projects/:id/resources", h.Resources.Upload)
	api.GET("/projects/:id/resources", h.Resources.List)
	api.PUT("/projects/:id/resources/:rid", h.Resources.Reupload)
	api.PUT("/projects/:id/resources/:rid/approve", h.Resources.Approve)
	api.PUT("/projects/:id/resources/:rid/reject", h.Resources.Reject)

	api.POST("/projects/:id/techstack", h.TechStack.Add)
	api.PUT("/projects/:id/techstack/:tid", h.TechStack.Update)
	api.DELETE("/projects/:id/techstack/:tid", h.TechStack.Delete)
	api.POST("/projects/:id/techstack/lock", h.TechStack.Lock)
	api.POST("/projects/:id/techstack/unlock", h.TechStack.Unlock)
	api.POST("/projects/:id/techstack/check", h.TechStack.Check)

	api.POST("/projects/:id/environments/:env/deployments", h.Projects.RecordDeployment)
	api.PUT("/projects/:id/tasks/:tid/checklist/:cid/toggle", h.Projects.ToggleChecklistItem)

	api.POST("/projects/:id/bugs", h.QA.ReportBug)
	api.GET("/projects/:id/bugs", h.QA.ListBugs)
	api.PUT("/projects/:id/bugs/:bid/status", h.QA.UpdateBugStatus)

	api.POST("/projects/:id/feedback", h.QA.SubmitFeedback)
	api.GET("/projects/:id/feedback", h.QA.ListFeedback)
	api.PUT("/projects/:id/feedback/:fid/status", h.QA.UpdateFeedbackStatus)

	api.POST("/projects/:id/signoffs", h.QA.CreateSignoff)
	api.GET("/projects/:id/signoffs", h.QA.ListSignoffs)

	return r
}

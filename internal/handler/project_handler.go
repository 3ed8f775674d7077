package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/internal/service/cascade"
	"project-service/internal/service/project"
)

type ProjectHandler struct {
	projects *project.Service
	cascade  *cascade.Coordinator
	logger   *zap.Logger
}

func NewProjectHandler(projects *project.Service, cascade *cascade.Coordinator, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projects: projects, cascade: cascade, logger: logger}
}

type createProjectRequest struct {
	Key       string `json:"key" binding:"required"`
	Name      string `json:"name" binding:"required"`
	ManagerID int64  `json:"manager_id" binding:"required"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("CreateProject: invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.projects.Create(c.Request.Context(), &model.Project{
		Key:       req.Key,
		Name:      req.Name,
		ManagerID: req.ManagerID,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	detail, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

// Delete removes the project and every dependent entity as one unit.
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}

	role := c.GetString("role")
	h.logger.Info("DeleteProject request received",
		zap.Int64("project_id", id),
		zap.String("role", role),
		zap.String("client_ip", c.ClientIP()),
	)

	if err := h.cascade.DeleteProject(c.Request.Context(), id, role); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type recordDeploymentRequest struct {
	Version string `json:"version" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

func (h *ProjectHandler) RecordDeployment(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}

	var req recordDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.projects.RecordDeployment(
		c.Request.Context(),
		id,
		model.EnvironmentName(c.Param("env")),
		req.Version,
		model.DeploymentStatus(req.Status),
	)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

func (h *ProjectHandler) ToggleChecklistItem(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, h.logger, "cid")
	if !ok {
		return
	}

	if err := h.projects.ToggleChecklistItem(c.Request.Context(), id, itemID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// pathID parses a path parameter as an int64 id, writing the 400 itself.
func pathID(c *gin.Context, logger *zap.Logger, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		logger.Warn("Invalid id in path",
			zap.String("param", name),
			zap.String("value", raw),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

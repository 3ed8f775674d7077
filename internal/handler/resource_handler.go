package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/internal/service/resource"
)

type ResourceHandler struct {
	resources *resource.Service
	logger    *zap.Logger
}

func NewResourceHandler(resources *resource.Service, logger *zap.Logger) *ResourceHandler {
	return &ResourceHandler{resources: resources, logger: logger}
}

type uploadResourceRequest struct {
	Type string `json:"resource_type" binding:"required"`
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
}

func (h *ResourceHandler) Upload(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}

	var req uploadResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.resources.Upload(c.Request.Context(), &model.Resource{
		ProjectID: id,
		Type:      model.ResourceType(req.Type),
		Name:      req.Name,
		URL:       req.URL,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *ResourceHandler) Reupload(c *gin.Context) {
	resID, ok := pathID(c, h.logger, "rid")
	if !ok {
		return
	}

	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.resources.Reupload(c.Request.Context(), resID, req.URL)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ResourceHandler) Approve(c *gin.Context) {
	resID, ok := pathID(c, h.logger, "rid")
	if !ok {
		return
	}

	res, err := h.resources.Approve(c.Request.Context(), resID, c.GetInt64("user_id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ResourceHandler) Reject(c *gin.Context) {
	resID, ok := pathID(c, h.logger, "rid")
	if !ok {
		return
	}

	res, err := h.resources.Reject(c.Request.Context(), resID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *ResourceHandler) List(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}

	list, err := h.resources.List(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"resources": list})
}

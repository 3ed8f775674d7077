package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/internal/service/techstack"
)

type TechStackHandler struct {
	stack  *techstack.Service
	logger *zap.Logger
}

func NewTechStackHandler(stack *techstack.Service, logger *zap.Logger) *TechStackHandler {
	return &TechStackHandler{stack: stack, logger: logger}
}

type techStackItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category" binding:"required"`
}

func (h *TechStackHandler) Add(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}

	var req techStackItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := &model.TechStackItem{
		ProjectID: id,
		Name:      req.Name,
		Category:  model.TechCategory(req.Category),
	}
	result, err := h.stack.AddItem(c.Request.Context(), item)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"item":          item,
		"compatibility": result,
	})
}

func (h *TechStackHandler) Update(c *gin.Context) {
	itemID, ok := pathID(c, h.logger, "tid")
	if !ok {
		return
	}

	var req techStackItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.stack.UpdateItem(
		c.Request.Context(),
		itemID,
		req.Name,
		model.TechCategory(req.Category),
		c.GetString("role"),
	)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *TechStackHandler) Delete(c *gin.Context) {
	itemID, ok := pathID(c, h.logger, "tid")
	if !ok {
		return
	}
	if err := h.stack.DeleteItem(c.Request.Context(), itemID, c.GetString("role")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *TechStackHandler) Lock(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}

	role := c.GetString("role")
	actorID := c.GetInt64("user_id")
	h.logger.Info("LockTechStack request received",
		zap.Int64("project_id", id),
		zap.String("role", role),
	)

	if err := h.stack.LockStack(c.Request.Context(), id, role, actorID); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "locked"})
}

func (h *TechStackHandler) Unlock(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	if err := h.stack.UnlockStack(c.Request.Context(), id, c.GetString("role")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "unlocked"})
}

// Check runs the advisory compatibility check without persisting anything.
func (h *TechStackHandler) Check(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}

	var req techStackItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.stack.CheckAgainstProject(c.Request.Context(), id, model.TechStackItem{
		ProjectID: id,
		Name:      req.Name,
		Category:  model.TechCategory(req.Category),
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

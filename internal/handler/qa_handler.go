package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-service/internal/model"
	"project-service/internal/service/qa"
)

type QAHandler struct {
	qa     *qa.Service
	logger *zap.Logger
}

func NewQAHandler(svc *qa.Service, logger *zap.Logger) *QAHandler {
	return &QAHandler{qa: svc, logger: logger}
}

type reportBugRequest struct {
	Title    string `json:"title" binding:"required"`
	Severity string `json:"severity" binding:"required"`
}

func (h *QAHandler) ReportBug(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}

	var req reportBugRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bug := &model.BugReport{
		ProjectID: id,
		Title:     req.Title,
		Severity:  model.BugSeverity(req.Severity),
	}
	bugID, err := h.qa.ReportBug(c.Request.Context(), bug)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	bug.ID = bugID
	c.JSON(http.StatusCreated, bug)
}

func (h *QAHandler) ListBugs(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	bugs, err := h.qa.ListBugs(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bugs": bugs})
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *QAHandler) UpdateBugStatus(c *gin.Context) {
	bugID, ok := pathID(c, h.logger, "bid")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.qa.UpdateBugStatus(c.Request.Context(), bugID, model.BugStatus(req.Status)); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type submitFeedbackRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *QAHandler) SubmitFeedback(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}

	var req submitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fb := &model.UATFeedback{ProjectID: id, Content: req.Content}
	fbID, err := h.qa.SubmitFeedback(c.Request.Context(), fb)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	fb.ID = fbID
	c.JSON(http.StatusCreated, fb)
}

func (h *QAHandler) ListFeedback(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	list, err := h.qa.ListFeedback(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"feedback": list})
}

func (h *QAHandler) UpdateFeedbackStatus(c *gin.Context) {
	fbID, ok := pathID(c, h.logger, "fid")
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.qa.UpdateFeedbackStatus(c.Request.Context(), fbID, model.FeedbackStatus(req.Status)); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type createSignoffRequest struct {
	Type string `json:"signoff_type" binding:"required"`
}

func (h *QAHandler) CreateSignoff(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}

	var req createSignoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	signoff := &model.Signoff{
		ProjectID: id,
		Type:      model.SignoffType(req.Type),
		SignedBy:  c.GetInt64("user_id"),
	}
	signoffID, err := h.qa.CreateSignoff(c.Request.Context(), signoff)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	signoff.ID = signoffID
	c.JSON(http.StatusCreated, signoff)
}

func (h *QAHandler) ListSignoffs(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}
	list, err := h.qa.ListSignoffs(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"signoffs": list})
}

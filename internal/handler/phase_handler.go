package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"project-service/internal/service/phasegate"
)

type PhaseHandler struct {
	validator *phasegate.Validator
	executor  *phasegate.Executor
	logger    *zap.Logger
}

func NewPhaseHandler(validator *phasegate.Validator, executor *phasegate.Executor, logger *zap.Logger) *PhaseHandler {
	return &PhaseHandler{validator: validator, executor: executor, logger: logger}
}

// Validate reports whether the project can advance and which requirements
// are still unmet. Read-only.
func (h *PhaseHandler) Validate(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}

	result, err := h.validator.ValidateTransition(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Execute advances the project to the next phase if all gate requirements
// hold. A rejection is a 409 carrying the missing requirements verbatim.
func (h *PhaseHandler) Execute(c *gin.Context) {
	id, ok := pathID(c, h.logger, "id")
	if !ok {
		return
	}

	h.logger.Info("ExecuteTransition request received",
		zap.Int64("project_id", id),
		zap.String("client_ip", c.ClientIP()),
	)

	result, err := h.executor.ExecuteTransition(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if !result.Transitioned {
		c.JSON(http.StatusConflict, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DisplayInfo serves the static per-phase presentation table.
func (h *PhaseHandler) DisplayInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"phases": phasegate.AllPhaseDisplayInfo()})
}

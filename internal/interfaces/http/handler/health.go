package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/easyml-code/ocr-data-insertion/internal/infrastructure/logger"
	"github.com/easyml-code/ocr-data-insertion/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger reports whether the database answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler answers GET /health
type HealthHandler struct {
	BaseHandler
	db      Pinger
	timeout time.Duration
	now     func() time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, timeout: 3 * time.Second, now: time.Now}
}

// Health godoc
// @Summary      Health check
// @Description  Pings the database within a short timeout
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=dto.HealthResponse}
// @Failure      503 {object} dto.Response{data=dto.HealthResponse,error=dto.ErrorInfo}
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	body := dto.HealthResponse{
		Status:   "healthy",
		Time:     h.now().Format(time.RFC3339),
		Database: "ok",
	}
	if err := h.db.Ping(ctx); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		body.Status = "unhealthy"
		body.Database = "error"
		c.JSON(http.StatusServiceUnavailable, dto.NewFailedResponse(
			dto.ErrCodeServiceUnavailable, "database unreachable", getRequestID(c), body))
		return
	}
	h.Success(c, body)
}

package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"community-portal/internal/classifieds/entity"
	"community-portal/internal/classifieds/repo/persistent"
	"community-portal/internal/moderation/usecase"
	"community-portal/pkg/logger"
	"community-portal/pkg/queue"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderation  usecase.ModerationUseCase
	queueClient *queue.Client
	logger      *logger.Logger
}

func NewModerationHandler(moderation usecase.ModerationUseCase, queueClient *queue.Client, logger *logger.Logger) *ModerationHandler {
	return &ModerationHandler{
		moderation:  moderation,
		queueClient: queueClient,
		logger:      logger,
	}
}

type RejectRequest struct {
	Reason *string `json:"reason"`
}

// PendingQueue godoc
// @Summary      List pending classifieds
// @Description  Oldest submissions last; the console works the queue from the bottom.
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Page size (default 50)"
// @Param        offset query int false "Page offset"
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /console/moderation/pending [get]
func (h *ModerationHandler) PendingQueue(c *gin.Context) {
	limit := 50
	offset := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}

	ads, err := h.moderation.PendingQueue(limit, offset)
	if err != nil {
		h.logger.Error("Failed to load pending queue: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"ads":   []*entity.Ad{},
			"count": 0,
			"error": "Unable to load the moderation queue. Please try again later.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ads": ads, "count": len(ads)})
}

// Counts godoc
// @Summary      Moderation counts
// @Description  Pending/approved/rejected tallies derived from the live list, plus the last time the data changed.
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /console/moderation/counts [get]
func (h *ModerationHandler) Counts(c *gin.Context) {
	counts, err := h.moderation.Counts()
	if err != nil {
		h.logger.Error("Failed to derive moderation counts: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "counts unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"counts":      counts,
		"last_update": h.moderation.LastUpdate().UTC().Format(time.RFC3339),
	})
}

// Approve godoc
// @Summary      Approve a classified
// @Description  Idempotent per click burst: while a decision for the ad is in flight, further calls are dropped.
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ad id"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /console/moderation/approve/{id} [post]
func (h *ModerationHandler) Approve(c *gin.Context) {
	id := c.Param("id")

	executed, err := h.moderation.ApproveOne(id)
	if !executed {
		c.JSON(http.StatusOK, gin.H{"status": "in_progress", "id": id})
		return
	}
	if err != nil {
		h.logger.Error("Failed to approve ad %s: %v", id, err)
		h.respondDecisionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "approved", "id": id})
}

// Reject godoc
// @Summary      Reject a classified
// @Description  Stores the given reason as-is. When the body carries no reason at all, a default is filled in here.
// @Tags         moderation
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ad id"
// @Param        request body RejectRequest false "Rejection reason"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}
// @Router       /console/moderation/reject/{id} [post]
func (h *ModerationHandler) Reject(c *gin.Context) {
	id := c.Param("id")

	var req RejectRequest
	_ = c.ShouldBindJSON(&req)

	// Absent reason gets the default; an explicit empty string is kept
	reason := "No reason provided"
	if req.Reason != nil {
		reason = *req.Reason
	}

	executed, err := h.moderation.RejectOne(id, reason)
	if !executed {
		c.JSON(http.StatusOK, gin.H{"status": "in_progress", "id": id})
		return
	}
	if err != nil {
		h.logger.Error("Failed to reject ad %s: %v", id, err)
		h.respondDecisionError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "rejected", "id": id, "reason": reason})
}

// A store outage is not a missing ad; everything else on the decision
// path is.
func (h *ModerationHandler) respondDecisionError(c *gin.Context, err error) {
	if errors.Is(err, persistent.ErrStoreUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "classified store unavailable"})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "classified not found"})
}

// BulkApprove godoc
// @Summary      Approve the oldest pending classifieds
// @Description  Approves at most five pending ads per call, oldest first, one request at a time.
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  usecase.BulkResult
// @Failure      503  {object}  map[string]interface{}
// @Router       /console/moderation/bulk-approve [post]
func (h *ModerationHandler) BulkApprove(c *gin.Context) {
	result, err := h.moderation.BulkApprove()
	if err != nil {
		h.logger.Error("Bulk approve failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "bulk approve unavailable"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ClearOverrides godoc
// @Summary      Drop cached moderation decisions
// @Description  Recovery action: discards the cached decision overrides and returns a fresh list from the store.
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /console/moderation/clear-overrides [post]
func (h *ModerationHandler) ClearOverrides(c *gin.Context) {
	ads, err := h.moderation.ClearLocalOverrides()
	if err != nil {
		h.logger.Error("Failed to reload after clearing overrides: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"ads":   []*entity.Ad{},
			"count": 0,
			"error": "Unable to load classifieds. Please try again later.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ads": ads, "count": len(ads)})
}

// Stats godoc
// @Summary      Moderation statistics
// @Description  Counts plus the depth of the decision notification queue when the broker is reachable.
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /console/moderation/stats [get]
func (h *ModerationHandler) Stats(c *gin.Context) {
	counts, err := h.moderation.Counts()
	if err != nil {
		h.logger.Error("Failed to derive moderation stats: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stats unavailable"})
		return
	}

	stats := gin.H{
		"counts":      counts,
		"last_update": h.moderation.LastUpdate().UTC().Format(time.RFC3339),
	}

	if h.queueClient != nil {
		if depth, err := h.queueClient.GetQueueLength(); err == nil {
			stats["notification_queue_depth"] = depth
		}
	}

	c.JSON(http.StatusOK, stats)
}

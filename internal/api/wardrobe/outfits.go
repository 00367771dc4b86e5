package wardrobe

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aimd54/wardrobe-stylist/internal/service/outfits"
	"github.com/aimd54/wardrobe-stylist/internal/service/wear"
)

type reviewRequest struct {
	LogID    uint   `json:"log_id" binding:"required"`
	DirtyIDs []uint `json:"dirty_ids"`
}

// ConfirmWear records that the user wore an outfit today.
// POST /api/v1/wear.
func (h *Handler) ConfirmWear(c *gin.Context) {
	var req wear.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TopID == 0 {
		h.errorResponse(c, http.StatusBadRequest, "top_id is required")
		return
	}

	result, err := h.svc.Wear.ConfirmWear(currentUser(c), req)
	if err != nil {
		h.serviceError(c, err, "Failed to confirm wear")
		return
	}
	if result.Declined != nil {
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// PendingReview returns the outfit awaiting a laundry review.
// GET /api/v1/wear/pending.
func (h *Handler) PendingReview(c *gin.Context) {
	result, err := h.svc.Wear.PendingReview(currentUser(c))
	if err != nil {
		h.serviceError(c, err, "Failed to get pending review")
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitReview closes a pending wear log, dirtying the named items.
// POST /api/v1/wear/review.
func (h *Handler) SubmitReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "log_id is required")
		return
	}

	result, err := h.svc.Wear.SubmitReview(currentUser(c), req.LogID, req.DirtyIDs)
	if err != nil {
		h.serviceError(c, err, "Failed to submit review")
		return
	}
	c.JSON(http.StatusOK, result)
}

// WearHistory returns the user's recent wear logs.
// GET /api/v1/wear/history?limit=30.
func (h *Handler) WearHistory(c *gin.Context) {
	limit, err := parseLimit(c, 30)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	logs, err := h.svc.Wear.History(currentUser(c), limit)
	if err != nil {
		h.serviceError(c, err, "Failed to get wear history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": len(logs)})
}

// SaveOutfit bookmarks an outfit.
// POST /api/v1/outfits.
func (h *Handler) SaveOutfit(c *gin.Context) {
	var req outfits.Outfit
	if err := c.ShouldBindJSON(&req); err != nil || req.TopID == 0 {
		h.errorResponse(c, http.StatusBadRequest, "top_id is required")
		return
	}

	result, err := h.svc.Outfits.SaveOutfit(currentUser(c), req)
	if err != nil {
		h.serviceError(c, err, "Failed to save outfit")
		return
	}
	if result.Declined != nil {
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// ListOutfits returns the user's saved outfits.
// GET /api/v1/outfits.
func (h *Handler) ListOutfits(c *gin.Context) {
	views, err := h.svc.Outfits.ListSavedOutfits(currentUser(c))
	if err != nil {
		h.serviceError(c, err, "Failed to list outfits")
		return
	}
	c.JSON(http.StatusOK, gin.H{"outfits": views, "total": len(views)})
}

// DeleteOutfit removes a saved outfit.
// DELETE /api/v1/outfits/:id.
func (h *Handler) DeleteOutfit(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Outfits.DeleteSavedOutfit(currentUser(c), id); err != nil {
		h.serviceError(c, err, "Failed to delete outfit")
		return
	}
	c.Status(http.StatusNoContent)
}

// PlanOutfit sets the outfit for a calendar day, replacing any earlier plan.
// PUT /api/v1/plans/:date.
func (h *Handler) PlanOutfit(c *gin.Context) {
	var req outfits.Outfit
	if err := c.ShouldBindJSON(&req); err != nil || req.TopID == 0 {
		h.errorResponse(c, http.StatusBadRequest, "top_id is required")
		return
	}

	result, err := h.svc.Outfits.PlanOutfit(currentUser(c), c.Param("date"), req)
	if err != nil {
		h.serviceError(c, err, "Failed to plan outfit")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetPlan returns the outfit planned for a day.
// GET /api/v1/plans/:date.
func (h *Handler) GetPlan(c *gin.Context) {
	result, err := h.svc.Outfits.PlanFor(currentUser(c), c.Param("date"))
	if err != nil {
		h.serviceError(c, err, "Failed to get plan")
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpcomingPlans lists plans from today on.
// GET /api/v1/plans.
func (h *Handler) UpcomingPlans(c *gin.Context) {
	today := h.svc.Accounts.Today()
	plans, err := h.svc.Outfits.Upcoming(currentUser(c), today)
	if err != nil {
		h.serviceError(c, err, "Failed to list plans")
		return
	}
	c.JSON(http.StatusOK, gin.H{"from": today, "plans": plans})
}

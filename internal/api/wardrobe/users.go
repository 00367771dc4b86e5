package wardrobe

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aimd54/wardrobe-stylist/internal/service/leaderboard"
)

type premiumRequest struct {
	Days int `json:"days"` // 0 never expires
}

// GetProfile returns a user's XP, league and today's action counts.
// GET /api/v1/users/:username/profile.
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.svc.Accounts.Profile(c.Param("username"))
	if err != nil {
		h.serviceError(c, err, "Failed to get profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetStanding returns a user's leaderboard position.
// GET /api/v1/users/:username/standing?period=month.
func (h *Handler) GetStanding(c *gin.Context) {
	period := c.DefaultQuery("period", leaderboard.PeriodAllTime)
	standing, err := h.svc.Leaderboard.GetUserStanding(c.Request.Context(), c.Param("username"), period)
	if err != nil {
		h.serviceError(c, err, "Failed to get standing")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"standing":     standing,
		"generated_at": time.Now().UTC(),
	})
}

// UpgradePremium activates premium for a number of days.
// POST /api/v1/users/:username/premium {"days": 30}.
func (h *Handler) UpgradePremium(c *gin.Context) {
	var req premiumRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.errorResponse(c, http.StatusBadRequest, "invalid request body")
			return
		}
	}
	if req.Days < 0 {
		h.errorResponse(c, http.StatusBadRequest, "days cannot be negative")
		return
	}

	username := c.Param("username")
	user, err := h.svc.Accounts.UpgradePremium(username, time.Duration(req.Days)*24*time.Hour)
	if err != nil {
		h.serviceError(c, err, "Failed to upgrade premium")
		return
	}

	h.log.Info().Str("owner", username).Int("days", req.Days).Msg("Premium upgraded")
	c.JSON(http.StatusOK, gin.H{
		"username":       user.Username,
		"is_premium":     user.IsPremium,
		"premium_expiry": user.PremiumExpiry,
	})
}

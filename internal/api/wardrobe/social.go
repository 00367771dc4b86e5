package wardrobe

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aimd54/wardrobe-stylist/internal/service/leaderboard"
	"github.com/aimd54/wardrobe-stylist/internal/service/social"
)

type commentRequest struct {
	PostID uint   `json:"post_id" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

type voteRequest struct {
	WinnerID uint `json:"winner_id" binding:"required"`
}

// ShareOutfit posts an outfit to the feed.
// POST /api/v1/social/share.
func (h *Handler) ShareOutfit(c *gin.Context) {
	var req social.ShareRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.TopID == 0 {
		h.errorResponse(c, http.StatusBadRequest, "top_id is required")
		return
	}

	result, err := h.svc.Social.ShareOutfit(currentUser(c), req)
	if err != nil {
		h.serviceError(c, err, "Failed to share outfit")
		return
	}
	if result.Declined != nil {
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetFeed returns the latest posts.
// GET /api/v1/social/feed.
func (h *Handler) GetFeed(c *gin.Context) {
	posts, err := h.svc.Social.Feed()
	if err != nil {
		h.serviceError(c, err, "Failed to get feed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "total": len(posts)})
}

// LikePost likes a post.
// POST /api/v1/social/posts/:id/like.
func (h *Handler) LikePost(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.Social.Like(id); err != nil {
		h.serviceError(c, err, "Failed to like post")
		return
	}
	c.Status(http.StatusNoContent)
}

// PostComment comments on a post.
// POST /api/v1/social/comments.
func (h *Handler) PostComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "post_id and text are required")
		return
	}

	result, err := h.svc.Social.Comment(currentUser(c), req.PostID, req.Text)
	if err != nil {
		h.serviceError(c, err, "Failed to comment")
		return
	}
	c.JSON(http.StatusCreated, result)
}

// GetComments returns a post's comments.
// GET /api/v1/social/posts/:id/comments.
func (h *Handler) GetComments(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	comments, err := h.svc.Social.Comments(id)
	if err != nil {
		h.serviceError(c, err, "Failed to get comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post_id": id, "comments": comments})
}

// GetDuelPair returns two random posts to vote on.
// GET /api/v1/social/duel.
func (h *Handler) GetDuelPair(c *gin.Context) {
	result, err := h.svc.Social.DuelPair()
	if err != nil {
		h.serviceError(c, err, "Failed to pick duel")
		return
	}
	c.JSON(http.StatusOK, result)
}

// DuelVote records a duel win.
// POST /api/v1/social/duel/vote.
func (h *Handler) DuelVote(c *gin.Context) {
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "winner_id is required")
		return
	}

	result, err := h.svc.Social.DuelVote(currentUser(c), req.WinnerID)
	if err != nil {
		h.serviceError(c, err, "Failed to record vote")
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetXPLeaderboard ranks users by XP.
// GET /api/v1/leaderboard/xp?period=week&limit=10.
func (h *Handler) GetXPLeaderboard(c *gin.Context) {
	period := c.DefaultQuery("period", leaderboard.PeriodAllTime)
	limit, err := parseLimit(c, 10)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.svc.Leaderboard.XPLeaderboard(c.Request.Context(), period, limit)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard":   entries,
		"period":        period,
		"total_entries": len(entries),
		"generated_at":  time.Now().UTC(),
	})
}

// GetDuelLeaderboard ranks posts by duel wins.
// GET /api/v1/leaderboard/duels?limit=10.
func (h *Handler) GetDuelLeaderboard(c *gin.Context) {
	limit, err := parseLimit(c, 10)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.svc.Leaderboard.DuelLeaderboard(limit)
	if err != nil {
		h.serviceError(c, err, "Failed to retrieve duel leaderboard")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"leaderboard":   entries,
		"total_entries": len(entries),
		"generated_at":  time.Now().UTC(),
	})
}

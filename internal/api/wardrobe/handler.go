// Package wardrobe provides the REST API for wardrobes, outfits, wear
// tracking, the social feed and gamification.
package wardrobe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/service/leaderboard"
	"github.com/aimd54/wardrobe-stylist/internal/service/ledger"
	"github.com/aimd54/wardrobe-stylist/internal/service/outfits"
	"github.com/aimd54/wardrobe-stylist/internal/service/social"
	"github.com/aimd54/wardrobe-stylist/internal/service/stylist"
	wardrobesvc "github.com/aimd54/wardrobe-stylist/internal/service/wardrobe"
	"github.com/aimd54/wardrobe-stylist/internal/service/wear"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

// UserHeader carries the acting username.
const UserHeader = "X-Username"

const (
	userKey          = "username"
	maxUsernameLen   = 255
	defaultMaxUpload = 10 << 20
)

// ItemService interface for wardrobe item operations.
type ItemService interface {
	Upload(ctx context.Context, owner string, req wardrobesvc.UploadRequest) (*wardrobesvc.UploadResult, error)
	ImportItem(ctx context.Context, owner string, req wardrobesvc.ImportRequest) (*wardrobesvc.ImportResult, error)
	List(owner, category string) ([]models.ClothingItem, error)
	ListDirty(owner string) ([]models.ClothingItem, error)
	MarkDirty(owner string, ids []uint) (int64, error)
	Wash(owner string, ids []uint) (int64, error)
	Showcase(owner, kind string) ([]models.ClothingItem, error)
	Stats(owner string) (*wardrobesvc.Stats, error)
	Update(owner string, id uint, req wardrobesvc.UpdateRequest) (*models.ClothingItem, error)
	Delete(ctx context.Context, owner string, id uint) error
}

// StylistService interface for outfit recommendations.
type StylistService interface {
	Recommend(ctx context.Context, owner string, req stylist.RecommendRequest) (*stylist.Recommendation, error)
}

// WearService interface for the wear and review cycle.
type WearService interface {
	ConfirmWear(owner string, req wear.ConfirmRequest) (*wear.ConfirmResult, error)
	PendingReview(owner string) (*wear.PendingResult, error)
	SubmitReview(owner string, logID uint, dirtyIDs []uint) (*wear.ReviewResult, error)
	History(owner string, limit int) ([]models.WearLog, error)
}

// OutfitService interface for saved and planned outfits.
type OutfitService interface {
	SaveOutfit(owner string, o outfits.Outfit) (*outfits.SaveResult, error)
	ListSavedOutfits(owner string) ([]models.OutfitView, error)
	DeleteSavedOutfit(owner string, id uint) error
	PlanOutfit(owner, day string, o outfits.Outfit) (*outfits.PlanResult, error)
	PlanFor(owner, day string) (*outfits.PlanResult, error)
	Upcoming(owner, day string) ([]models.PlannedOutfit, error)
}

// SocialService interface for the feed, comments and duels.
type SocialService interface {
	ShareOutfit(owner string, req social.ShareRequest) (*social.PostResult, error)
	Feed() ([]models.FeedPost, error)
	Like(postID uint) error
	Comment(username string, postID uint, text string) (*social.CommentResult, error)
	Comments(postID uint) ([]models.Comment, error)
	DuelPair() (*social.DuelResult, error)
	DuelVote(voter string, winnerID uint) (*social.VoteResult, error)
}

// AccountService interface for accounts, XP and premium.
type AccountService interface {
	EnsureUser(username string) (*models.User, error)
	Profile(username string) (*ledger.Profile, error)
	UpgradePremium(username string, duration time.Duration) (*models.User, error)
	Today() string
}

// LeaderboardService interface for leaderboard operations.
type LeaderboardService interface {
	XPLeaderboard(ctx context.Context, period string, limit int) ([]leaderboard.Entry, error)
	DuelLeaderboard(limit int) ([]leaderboard.DuelEntry, error)
	GetUserStanding(ctx context.Context, username, period string) (*leaderboard.UserStanding, error)
}

// Services bundles the handler's dependencies.
type Services struct {
	Items       ItemService
	Stylist     StylistService
	Wear        WearService
	Outfits     OutfitService
	Social      SocialService
	Accounts    AccountService
	Leaderboard LeaderboardService
}

// Handler handles wardrobe API requests.
type Handler struct {
	svc            Services
	maxUploadBytes int64
	log            *logger.Logger
}

// NewHandler creates a new API handler. maxUploadMB bounds uploaded image
// size; zero or less uses 10 MB.
func NewHandler(svc Services, maxUploadMB int, log *logger.Logger) *Handler {
	limit := int64(defaultMaxUpload)
	if maxUploadMB > 0 {
		limit = int64(maxUploadMB) << 20
	}
	return &Handler{svc: svc, maxUploadBytes: limit, log: log}
}

// RegisterRoutes mounts the API on api (normally the /api/v1 group).
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Public
	api.GET("/users/:username/profile", h.GetProfile)
	api.GET("/users/:username/standing", h.GetStanding)
	api.POST("/users/:username/premium", h.UpgradePremium)
	api.GET("/social/feed", h.GetFeed)
	api.GET("/social/duel", h.GetDuelPair)
	api.POST("/social/posts/:id/like", h.LikePost)
	api.GET("/social/posts/:id/comments", h.GetComments)
	api.GET("/leaderboard/xp", h.GetXPLeaderboard)
	api.GET("/leaderboard/duels", h.GetDuelLeaderboard)

	user := api.Group("", h.RequireUser)

	user.POST("/items", h.UploadItem)
	user.POST("/items/import", h.ImportItem)
	user.GET("/items", h.ListItems)
	user.GET("/items/dirty", h.ListDirty)
	user.POST("/items/dirty", h.MarkDirty)
	user.POST("/items/wash", h.Wash)
	user.GET("/items/showcase/:kind", h.Showcase)
	user.PATCH("/items/:id", h.UpdateItem)
	user.DELETE("/items/:id", h.DeleteItem)
	user.GET("/stats", h.GetStats)

	user.GET("/recommend", h.Recommend)

	user.POST("/wear", h.ConfirmWear)
	user.GET("/wear/pending", h.PendingReview)
	user.POST("/wear/review", h.SubmitReview)
	user.GET("/wear/history", h.WearHistory)

	user.POST("/outfits", h.SaveOutfit)
	user.GET("/outfits", h.ListOutfits)
	user.DELETE("/outfits/:id", h.DeleteOutfit)
	user.GET("/plans", h.UpcomingPlans)
	user.PUT("/plans/:date", h.PlanOutfit)
	user.GET("/plans/:date", h.GetPlan)

	user.POST("/social/share", h.ShareOutfit)
	user.POST("/social/comments", h.PostComment)
	user.POST("/social/duel/vote", h.DuelVote)
}

// RequireUser resolves the acting user from the X-Username header and makes
// sure an account row exists for it.
func (h *Handler) RequireUser(c *gin.Context) {
	username := strings.TrimSpace(c.GetHeader(UserHeader))
	if username == "" || len(username) > maxUsernameLen {
		h.errorResponse(c, http.StatusBadRequest, UserHeader+" header is required")
		c.Abort()
		return
	}

	if _, err := h.svc.Accounts.EnsureUser(username); err != nil {
		h.serviceError(c, err, "Failed to resolve user")
		c.Abort()
		return
	}

	c.Set(userKey, username)
	c.Next()
}

// Helper functions

func currentUser(c *gin.Context) string {
	return c.GetString(userKey)
}

// parseID extracts a numeric id from the named URL parameter.
func parseID(c *gin.Context, name string) (uint, error) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s: %s", name, idStr)
	}
	return uint(id), nil
}

// parseLimit extracts and validates the limit query parameter.
func parseLimit(c *gin.Context, defaultLimit int) (int, error) {
	limitStr := c.Query("limit")
	if limitStr == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil {
		return 0, fmt.Errorf("invalid limit parameter: %s", limitStr)
	}

	if limit < 1 {
		return 0, fmt.Errorf("limit must be greater than 0")
	}

	if limit > 1000 {
		return 0, fmt.Errorf("limit cannot exceed 1000")
	}

	return limit, nil
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrInvalidCategory):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// serviceError reports a service failure. Client errors carry the error
// text; server errors are logged and replaced by message.
func (h *Handler) serviceError(c *gin.Context, err error, message string) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Str("owner", currentUser(c)).Str("path", c.FullPath()).Msg(message)
		h.errorResponse(c, status, message)
		return
	}
	h.errorResponse(c, status, err.Error())
}

// errorResponse sends a standardized error response.
func (h *Handler) errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error":     message,
		"timestamp": time.Now().UTC(),
	})
}

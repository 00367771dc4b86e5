package models

import "errors"

// Decline describes an expected, user-actionable refusal. Operations return
// it inside their result instead of as an error.
type Decline struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

// Decline reasons.
const (
	ReasonQuotaExceeded   = "quota_exceeded"
	ReasonWardrobeFull    = "wardrobe_full"
	ReasonDuplicateImage  = "duplicate_image"
	ReasonEmptyWardrobe   = "empty_wardrobe"
	ReasonStylistBusy     = "stylist_busy"
	ReasonNoPendingReview = "no_pending_review"
	ReasonUnknownItem     = "unknown_item"
	ReasonNotEnoughPosts  = "not_enough_posts"
)

// NewDecline builds a Decline.
func NewDecline(reason, message string) *Decline {
	return &Decline{Reason: reason, Message: message}
}

// Sentinel errors shared by repositories and services.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidInput    = errors.New("invalid input")
)

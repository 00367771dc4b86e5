// Package social runs the public feed: shared outfits, comments, likes and
// outfit duels.
package social

import (
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/aimd54/wardrobe-stylist/internal/metrics"
	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
	"github.com/aimd54/wardrobe-stylist/internal/service/ledger"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

const (
	feedSize         = 50
	maxCommentLength = 500
)

// Rewarder grants XP for social actions.
type Rewarder interface {
	Reward(username, action string, limit, points int) bool
}

// Service manages the feed.
type Service struct {
	items  *repository.ClothingRepository
	feed   *repository.FeedRepository
	ledger Rewarder
	policy *bluemonday.Policy
	log    *logger.Logger
}

// NewService creates a new social service.
func NewService(db *repository.DB, rewarder Rewarder, log *logger.Logger) *Service {
	return &Service{
		items:  repository.NewClothingRepository(db),
		feed:   repository.NewFeedRepository(db),
		ledger: rewarder,
		policy: bluemonday.StrictPolicy(),
		log:    log,
	}
}

// ShareRequest names the outfit to share.
type ShareRequest struct {
	DisplayName string `json:"user_name"`
	TopID       uint   `json:"top_id"`
	BottomID    *uint  `json:"bottom_id"`
	ShoeID      *uint  `json:"shoe_id"`
}

// PostResult carries a feed post or the reason it was not created.
type PostResult struct {
	Post     *models.FeedPost `json:"post,omitempty"`
	Declined *models.Decline  `json:"declined,omitempty"`
}

// ShareOutfit publishes one of owner's outfits on the feed.
func (s *Service) ShareOutfit(owner string, req ShareRequest) (*PostResult, error) {
	if req.BottomID != nil && *req.BottomID == 0 {
		req.BottomID = nil
	}
	if req.ShoeID != nil && *req.ShoeID == 0 {
		req.ShoeID = nil
	}

	view, err := s.items.ResolveOutfit(owner, req.TopID, req.BottomID, req.ShoeID)
	if err != nil {
		return nil, err
	}
	if view.Top == nil || (req.BottomID != nil && view.Bottom == nil) || (req.ShoeID != nil && view.Shoe == nil) {
		return &PostResult{Declined: models.NewDecline(models.ReasonUnknownItem,
			"One of these items is not in your wardrobe.")}, nil
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = owner
	}
	post := &models.FeedPost{
		DisplayName:    name,
		UsernameHandle: owner,
		TopURL:         view.Top.ImageURL,
		TopID:          req.TopID,
		BottomID:       req.BottomID,
		ShoeID:         req.ShoeID,
	}
	if view.Bottom != nil {
		post.BottomURL = view.Bottom.ImageURL
	}
	if view.Shoe != nil {
		post.ShoeURL = view.Shoe.ImageURL
	}

	if err := s.feed.CreatePost(post); err != nil {
		return nil, err
	}
	s.log.ForOwner(owner).Info().Uint("post_id", post.ID).Msg("Outfit shared")
	return &PostResult{Post: post}, nil
}

// Feed returns the newest posts.
func (s *Service) Feed() ([]models.FeedPost, error) {
	return s.feed.ListPosts(feedSize)
}

// Like adds a like to a post.
func (s *Service) Like(postID uint) error {
	return s.feed.IncrementLikes(postID)
}

// CommentResult carries a stored comment.
type CommentResult struct {
	Comment   *models.Comment `json:"comment"`
	XPAwarded int             `json:"xp_awarded"`
}

// Comment adds a comment to a post. Markup is stripped from text.
func (s *Service) Comment(username string, postID uint, text string) (*CommentResult, error) {
	clean := strings.TrimSpace(s.policy.Sanitize(text))
	if clean == "" {
		return nil, fmt.Errorf("%w: comment is empty", models.ErrInvalidInput)
	}
	if len([]rune(clean)) > maxCommentLength {
		return nil, fmt.Errorf("%w: comment longer than %d characters", models.ErrInvalidInput, maxCommentLength)
	}

	if _, err := s.feed.GetPost(postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, Username: username, Text: clean}
	if err := s.feed.CreateComment(comment); err != nil {
		return nil, err
	}

	result := &CommentResult{Comment: comment}
	if s.ledger.Reward(username, models.ActionComment, ledger.NoLimit, models.XPComment) {
		result.XPAwarded = models.XPComment
	}
	return result, nil
}

// Comments returns a post's comments, oldest first.
func (s *Service) Comments(postID uint) ([]models.Comment, error) {
	return s.feed.ListComments(postID)
}

// DuelResult is a pair of posts to vote between.
type DuelResult struct {
	Left     *models.FeedPost `json:"left,omitempty"`
	Right    *models.FeedPost `json:"right,omitempty"`
	Declined *models.Decline  `json:"declined,omitempty"`
}

// DuelPair picks two random posts.
func (s *Service) DuelPair() (*DuelResult, error) {
	posts, err := s.feed.RandomPosts(2)
	if err != nil {
		return nil, err
	}
	if len(posts) < 2 {
		return &DuelResult{Declined: models.NewDecline(models.ReasonNotEnoughPosts,
			"Not enough outfits for a duel yet. Be the first to share!")}, nil
	}
	return &DuelResult{Left: &posts[0], Right: &posts[1]}, nil
}

// VoteResult is the winning post after a vote.
type VoteResult struct {
	Post      *models.FeedPost `json:"post"`
	XPAwarded int              `json:"xp_awarded"`
}

// DuelVote records a win for a post and rewards its author.
func (s *Service) DuelVote(voter string, winnerID uint) (*VoteResult, error) {
	if err := s.feed.IncrementDuelWins(winnerID); err != nil {
		return nil, err
	}
	post, err := s.feed.GetPost(winnerID)
	if err != nil {
		return nil, err
	}

	result := &VoteResult{Post: post}
	if s.ledger.Reward(post.UsernameHandle, models.ActionDuelWin, ledger.NoLimit, models.XPDuelWin) {
		result.XPAwarded = models.XPDuelWin
	}
	metrics.RecordDuelVote()
	s.log.Debug().Str("voter", voter).Uint("post_id", winnerID).Str("winner", post.UsernameHandle).Msg("Duel vote")
	return result, nil
}

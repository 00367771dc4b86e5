package stylist

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/aimd54/wardrobe-stylist/internal/metrics"
	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/repository"
	"github.com/aimd54/wardrobe-stylist/internal/service/ledger"
	"github.com/aimd54/wardrobe-stylist/pkg/logger"
)

// ItemReader reads a user's wardrobe.
type ItemReader interface {
	ListByOwner(owner string, filter repository.ItemFilter) ([]models.ClothingItem, error)
}

// Ledger gates recommendations.
type Ledger interface {
	IsPremium(username string) (bool, error)
	CanAward(username, action string, limit int) (bool, error)
	TryLogAction(username, action string, limit, points int) (bool, error)
}

// Recommendation is an outfit built from the requester's clean items. A
// part is nil when the suggester left it out or named an item outside the
// candidate set; such parts are listed in Unresolved.
type Recommendation struct {
	Message    string               `json:"message,omitempty"`
	Top        *models.ClothingItem `json:"top"`
	Bottom     *models.ClothingItem `json:"bottom"`
	Shoe       *models.ClothingItem `json:"shoe"`
	Accessory  *models.ClothingItem `json:"accessory"`
	Dress      *models.ClothingItem `json:"dress"`
	Unresolved []string             `json:"unresolved,omitempty"`
	Declined   *models.Decline      `json:"declined,omitempty"`
}

// RecommendRequest holds the constraints of a recommendation.
type RecommendRequest struct {
	Season     string
	Style      string
	Occasion   string
	OutfitType string
}

// Service recommends outfits.
type Service struct {
	items        ItemReader
	ledger       Ledger
	suggester    Suggester
	freeDailyCap int
	shuffle      func(items []models.ClothingItem)
	log          *logger.Logger
}

// NewService creates a new stylist service with concrete dependencies.
func NewService(
	items *repository.ClothingRepository,
	ledgerSvc *ledger.Service,
	suggester Suggester,
	freeDailyCap int,
	log *logger.Logger,
) *Service {
	return NewServiceWithInterfaces(items, ledgerSvc, suggester, freeDailyCap, log)
}

// NewServiceWithInterfaces creates a new stylist service with interface dependencies (useful for testing).
func NewServiceWithInterfaces(
	items ItemReader,
	ledgerSvc Ledger,
	suggester Suggester,
	freeDailyCap int,
	log *logger.Logger,
) *Service {
	return &Service{
		items:        items,
		ledger:       ledgerSvc,
		suggester:    suggester,
		freeDailyCap: freeDailyCap,
		shuffle: func(items []models.ClothingItem) {
			rand.Shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })
		},
		log: log,
	}
}

// SetShuffle replaces the inventory shuffle. Used by tests.
func (s *Service) SetShuffle(fn func(items []models.ClothingItem)) {
	s.shuffle = fn
}

// Recommend builds an outfit for owner. Expected refusals (quota, empty
// wardrobe, suggester trouble) come back as Declined; only store failures
// are returned as errors.
func (s *Service) Recommend(ctx context.Context, owner string, req RecommendRequest) (*Recommendation, error) {
	log := s.log.ForOwner(owner)
	provider := s.suggester.Name()

	premium, err := s.ledger.IsPremium(owner)
	if err != nil {
		return nil, err
	}
	limit := s.freeDailyCap
	if premium {
		limit = ledger.NoLimit
	}

	allowed, err := s.ledger.CanAward(owner, models.ActionAIGen, limit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		metrics.RecordRecommendation(provider, metrics.StatusDeclined)
		return declined(models.ReasonQuotaExceeded,
			"Your daily outfit suggestions are used up. Go premium for an unlimited stylist."), nil
	}

	clean := true
	wardrobe, err := s.items.ListByOwner(owner, repository.ItemFilter{Clean: &clean})
	if err != nil {
		return nil, err
	}
	if len(wardrobe) == 0 {
		metrics.RecordRecommendation(provider, metrics.StatusDeclined)
		return declined(models.ReasonEmptyWardrobe,
			"Your wardrobe is empty or everything is in the laundry."), nil
	}
	s.shuffle(wardrobe)

	outfitType := req.OutfitType
	if outfitType != OutfitDress {
		outfitType = OutfitNormal
	}

	start := time.Now()
	suggestion, err := s.suggester.Suggest(ctx, &Request{
		Season:     req.Season,
		Style:      req.Style,
		Occasion:   req.Occasion,
		OutfitType: outfitType,
		Inventory:  inventory(wardrobe),
	})
	metrics.ObserveSuggesterDuration(provider, time.Since(start).Seconds())
	if err != nil {
		log.Warn().Err(err).Str("provider", provider).Msg("Suggester failed")
		metrics.RecordRecommendation(provider, metrics.StatusFailed)
		return declined(models.ReasonStylistBusy, "The stylist is busy right now. Try again in a moment."), nil
	}

	// Logged only after a usable answer so suggester failures do not burn quota.
	logged, err := s.ledger.TryLogAction(owner, models.ActionAIGen, limit, models.XPAIGen)
	if err != nil {
		return nil, err
	}
	if !logged {
		metrics.RecordRecommendation(provider, metrics.StatusDeclined)
		return declined(models.ReasonQuotaExceeded,
			"Your daily outfit suggestions are used up. Go premium for an unlimited stylist."), nil
	}

	rec := resolve(wardrobe, suggestion, outfitType)
	if len(rec.Unresolved) > 0 {
		log.Warn().Strs("parts", rec.Unresolved).Msg("Suggester named items outside the candidate set")
	}
	metrics.RecordRecommendation(provider, metrics.StatusSuccess)
	return rec, nil
}

func declined(reason, message string) *Recommendation {
	return &Recommendation{Declined: models.NewDecline(reason, message)}
}

func inventory(items []models.ClothingItem) []InventoryItem {
	out := make([]InventoryItem, len(items))
	for i := range items {
		it := &items[i]
		out[i] = InventoryItem{
			ID:       it.ID,
			Color:    it.Color,
			Category: it.Category,
			Detail:   it.Detail(),
			Season:   it.Season,
			Style:    it.Style,
		}
	}
	return out
}

// resolve maps suggested ids back to candidate items. Ids outside the
// candidate set, including other users' items, resolve to nil.
func resolve(candidates []models.ClothingItem, sg *Suggestion, outfitType string) *Recommendation {
	byID := make(map[uint]*models.ClothingItem, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}

	rec := &Recommendation{Message: sg.Message}
	if rec.Message == "" {
		rec.Message = "Ready!"
	}

	lookup := func(part string, id *uint) *models.ClothingItem {
		if id == nil {
			return nil
		}
		item, ok := byID[*id]
		if !ok {
			rec.Unresolved = append(rec.Unresolved, part)
			return nil
		}
		return item
	}

	if outfitType == OutfitDress {
		rec.Dress = lookup("dress", sg.TopID)
	} else {
		rec.Top = lookup("top", sg.TopID)
	}
	rec.Bottom = lookup("bottom", sg.BottomID)
	rec.Shoe = lookup("shoe", sg.ShoeID)
	rec.Accessory = lookup("accessory", sg.AccessoryID)
	return rec
}

package wardrobe

import (
	"context"
	"strings"

	"github.com/aimd54/wardrobe-stylist/internal/models"
	"github.com/aimd54/wardrobe-stylist/internal/service/ledger"
)

// ImportRequest is a product image fetched from a shop page.
type ImportRequest struct {
	Data      []byte
	Title     string
	SourceURL string
	Category  string // optional; guessed from Title when empty or unknown
}

// ImportResult extends UploadResult with the tags that were guessed.
type ImportResult struct {
	UploadResult
	Title string `json:"title"`
}

type keywordRule struct {
	value    string
	keywords []string
}

var categoryRules = []keywordRule{
	{models.CategoryBottom, []string{"pantolon", "şort", "etek", "jean", "tayt", "trousers", "pants", "shorts", "skirt"}},
	{models.CategoryDress, []string{"elbise", "tulum", "dress", "jumpsuit"}},
	{models.CategoryShoe, []string{"ayakkabı", "bot", "çizme", "sneaker", "shoe", "boot"}},
	{models.CategoryAccessory, []string{"çanta", "saat", "gözlük", "kolye", "küpe", "şapka", "toka", "bag", "watch", "sunglass"}},
}

var accessoryRules = []keywordRule{
	{"glasses", []string{"gözlük", "gozluk", "sunglass", "eyewear"}},
	{"bag", []string{"çanta", "canta", "bag", "backpack", "cuzdan", "wallet", "clutch"}},
	{"watch", []string{"saat", "watch", "kordon"}},
	{"hat", []string{"şapka", "sapka", "cap", "hat", "bere", "beanie"}},
	{"jewelry", []string{"kolye", "küpe", "bileklik", "yüzük", "taki", "jewelry", "ring", "necklace", "earring"}},
	{"belt", []string{"kemer", "belt", "askı"}},
}

var topRules = []keywordRule{
	{"tshirt", []string{"t-shirt", "tshirt", "tişört"}},
	{"shirt", []string{"gömlek", "shirt"}},
	{"knitwear", []string{"kazak", "hırka", "sweat", "cardigan", "sweater"}},
}

// GuessCategory infers a category from a product title. Unmatched titles
// are tops.
func GuessCategory(title string) string {
	if v := match(strings.ToLower(title), categoryRules); v != "" {
		return v
	}
	return models.CategoryTop
}

// GuessSubCategory infers a sub-category from the product title and link.
// Only accessories and tops are refined; unmatched accessories are "other".
func GuessSubCategory(category, title, sourceURL string) *string {
	text := strings.ToLower(title + " " + sourceURL)

	var v string
	switch category {
	case models.CategoryAccessory:
		v = match(text, accessoryRules)
		if v == "" {
			v = "other"
		}
	case models.CategoryTop:
		v = match(text, topRules)
	}
	if v == "" {
		return nil
	}
	return &v
}

func match(text string, rules []keywordRule) string {
	for _, r := range rules {
		for _, k := range r.keywords {
			if strings.Contains(text, k) {
				return r.value
			}
		}
	}
	return ""
}

// ImportItem adds a product image from a shop link to owner's wardrobe.
// Tags the caller did not give are guessed from the title and link, and the
// item is filed as an all-season casual piece.
func (s *Service) ImportItem(ctx context.Context, owner string, req ImportRequest) (*ImportResult, error) {
	category, ok := models.ParseCategory(req.Category)
	if !ok {
		category = GuessCategory(req.Title)
	}

	d := draft{
		category:    category,
		subCategory: GuessSubCategory(category, req.Title, req.SourceURL),
		season:      models.SeasonAllYear,
		style:       models.StyleCasual,
	}

	result, err := s.ingest(ctx, owner, req.Data, d, SourceImport)
	if err != nil {
		return nil, err
	}

	out := &ImportResult{UploadResult: *result, Title: req.Title}
	if result.Declined != nil {
		return out, nil
	}
	if s.ledger.Reward(owner, models.ActionImport, ledger.NoLimit, models.XPImport) {
		out.XPAwarded = models.XPImport
	}
	return out, nil
}

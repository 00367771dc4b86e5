// Package models defines domain models for the wardrobe stylist.
package models

import (
	"strings"
	"time"
)

// ClothingItem is a garment owned by one user.
type ClothingItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Owner       string    `gorm:"size:255;not null;index:idx_clothes_owner_clean,priority:1" json:"owner"`
	ImageURL    string    `gorm:"column:url;type:text" json:"url"`
	Category    string    `gorm:"size:32;not null;index" json:"category"`
	SubCategory *string   `gorm:"size:64" json:"sub_category"`
	Season      string    `gorm:"size:64" json:"season"`
	Style       string    `gorm:"size:64" json:"style"`
	Color       string    `gorm:"column:color_name;size:32" json:"color_name"`
	WearCount   int       `gorm:"not null;default:0" json:"wear_count"`
	IsClean     bool      `gorm:"not null;default:true;index:idx_clothes_owner_clean,priority:2" json:"is_clean"`
	ImageHash   *string   `gorm:"size:32" json:"-"` // nil for legacy rows and unreadable uploads
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for ClothingItem model.
func (ClothingItem) TableName() string {
	return "clothes"
}

// Detail returns the sub-category when set, otherwise the style.
func (c *ClothingItem) Detail() string {
	if c.SubCategory != nil && *c.SubCategory != "" {
		return *c.SubCategory
	}
	return c.Style
}

// Category constants.
const (
	CategoryTop       = "top"
	CategoryBottom    = "bottom"
	CategoryDress     = "dress"
	CategoryShoe      = "shoe"
	CategoryAccessory = "accessory"
)

// Categories lists every valid category in display order.
var Categories = []string{CategoryTop, CategoryBottom, CategoryDress, CategoryShoe, CategoryAccessory}

var legacyCategories = map[string]string{
	"ust_giyim": CategoryTop,
	"alt_giyim": CategoryBottom,
	"elbise":    CategoryDress,
	"ayakkabi":  CategoryShoe,
	"aksesuar":  CategoryAccessory,
}

// ParseCategory normalises a category name, accepting the legacy Turkish keys.
func ParseCategory(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if s == c {
			return c, true
		}
	}
	if c, ok := legacyCategories[s]; ok {
		return c, true
	}
	return "", false
}

// Default tags applied to items imported from a product link.
const (
	SeasonAllYear = "all-season"
	StyleCasual   = "casual"
)

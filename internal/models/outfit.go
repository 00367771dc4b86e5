package models

import (
	"time"
)

// SavedOutfit is a favourite combination. Rows are removed when any of the
// referenced items is deleted.
type SavedOutfit struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:255;not null;index" json:"username"`
	TopID     uint      `gorm:"index" json:"top_id"`
	BottomID  *uint     `gorm:"index" json:"bottom_id"`
	ShoeID    *uint     `gorm:"index" json:"shoe_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for SavedOutfit model.
func (SavedOutfit) TableName() string {
	return "saved_outfits"
}

// PlannedOutfit is the outfit planned for one calendar day. There is at most
// one plan per user and day.
type PlannedOutfit struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:255;not null;uniqueIndex:idx_plan_user_date,priority:1" json:"username"`
	PlanDate string `gorm:"type:varchar(10);not null;uniqueIndex:idx_plan_user_date,priority:2" json:"plan_date"`
	TopID    uint   `json:"top_id"`
	BottomID *uint  `json:"bottom_id"`
	ShoeID   *uint  `json:"shoe_id"`
}

// TableName specifies the table name for PlannedOutfit model.
func (PlannedOutfit) TableName() string {
	return "planned_outfits"
}

// OutfitView is an outfit with its items resolved. A part is nil when the id
// was not set or the item no longer exists.
type OutfitView struct {
	ID     uint          `json:"id"`
	Date   string        `json:"date,omitempty"`
	Top    *ClothingItem `json:"top"`
	Bottom *ClothingItem `json:"bottom"`
	Shoe   *ClothingItem `json:"shoe"`
}

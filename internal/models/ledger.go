package models

import (
	"time"
)

// DailyActionLog is one qualifying action for quota and XP accounting.
// Seq numbers the rows of a (username, action_type, log_date) triple from 1,
// and the unique index on the four columns makes concurrent writers for the
// same triple conflict instead of both passing a cap.
type DailyActionLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Username   string    `gorm:"size:255;not null;uniqueIndex:idx_action_log_slot,priority:1" json:"username"`
	ActionType string    `gorm:"size:50;not null;uniqueIndex:idx_action_log_slot,priority:2" json:"action_type"`
	LogDate    string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_action_log_slot,priority:3;index" json:"log_date"` // YYYY-MM-DD
	Seq        int       `gorm:"not null;uniqueIndex:idx_action_log_slot,priority:4" json:"seq"`
	XPAmount   int       `gorm:"not null;default:0" json:"xp_amount"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for DailyActionLog model.
func (DailyActionLog) TableName() string {
	return "xp_logs"
}

// Action types recorded in the daily action log.
const (
	ActionUpload     = "upload"
	ActionAIGen      = "ai_gen"
	ActionSaveOutfit = "save_outfit"
	ActionComment    = "comment"
	ActionImport     = "import"
	ActionDuelWin    = "duel_win"
)

// XP rewards per action.
const (
	XPUpload     = 5
	XPSaveOutfit = 2
	XPComment    = 1
	XPImport     = 15
	XPDuelWin    = 3
	XPAIGen      = 0
)

// DayFormat is the layout of calendar day keys.
const DayFormat = "2006-01-02"

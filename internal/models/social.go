package models

import (
	"time"
)

// FeedPost is a shared outfit on the public feed.
type FeedPost struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	DisplayName    string    `gorm:"column:user_name;size:255" json:"user_name"`
	UsernameHandle string    `gorm:"size:255;not null;index" json:"username_handle"`
	TopURL         string    `gorm:"type:text" json:"top_url"`
	BottomURL      string    `gorm:"type:text" json:"bottom_url"`
	ShoeURL        string    `gorm:"type:text" json:"shoe_url"`
	TopID          uint      `json:"top_id"`
	BottomID       *uint     `json:"bottom_id"`
	ShoeID         *uint     `json:"shoe_id"`
	Likes          int       `gorm:"not null;default:0" json:"likes"`
	DuelWins       int       `gorm:"not null;default:0;index" json:"duel_wins"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName specifies the table name for FeedPost model.
func (FeedPost) TableName() string {
	return "social_feed"
}

// Comment is a sanitised comment on a feed post.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	Username  string    `gorm:"size:255;not null" json:"username"`
	Text      string    `gorm:"type:text" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Comment model.
func (Comment) TableName() string {
	return "comments"
}

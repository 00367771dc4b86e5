package models

// WearLog records one outfit worn on a day. Item references are plain ids;
// the items may have been deleted since.
type WearLog struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Username   string `gorm:"size:255;not null;index:idx_wear_pending,priority:1" json:"username"`
	TopID      uint   `json:"top_id"`
	BottomID   *uint  `json:"bottom_id"`
	ShoeID     *uint  `json:"shoe_id"`
	WearDate   string `gorm:"type:varchar(10);not null;index:idx_wear_pending,priority:3" json:"wear_date"`
	IsReviewed bool   `gorm:"not null;default:false;index:idx_wear_pending,priority:2" json:"is_reviewed"`
}

// TableName specifies the table name for WearLog model.
func (WearLog) TableName() string {
	return "wear_logs"
}

// ItemIDs returns the ids worn, top first.
func (w *WearLog) ItemIDs() []uint {
	ids := []uint{w.TopID}
	if w.BottomID != nil {
		ids = append(ids, *w.BottomID)
	}
	if w.ShoeID != nil {
		ids = append(ids, *w.ShoeID)
	}
	return ids
}

// WearState constants.
const (
	WearStatePending  = "pending"
	WearStateReviewed = "reviewed"
)

// State returns the review state of the log.
func (w *WearLog) State() string {
	if w.IsReviewed {
		return WearStateReviewed
	}
	return WearStatePending
}

package models

import "time"

// Column binds a feed selector to one slot of a desk
type Column struct {
	ID        string    `gorm:"type:varchar(36);primaryKey;column:id" json:"id"`
	DeskID    string    `gorm:"type:varchar(36);not null;index:goatcast_columns_desk_idx;column:desk_id" json:"desk_id"`
	Name      string    `gorm:"type:varchar(64);not null;column:name" json:"name"`
	FeedType  string    `gorm:"type:varchar(32);not null;column:feed_type" json:"feed_type"`
	Keyword   string    `gorm:"type:varchar(128);not null;default:'';column:keyword" json:"keyword,omitempty"`
	ChannelID string    `gorm:"type:varchar(64);not null;default:'';column:channel_id" json:"channel_id,omitempty"`
	TargetFID int64     `gorm:"not null;default:0;column:target_fid" json:"target_fid,omitempty"`
	UserID    string    `gorm:"type:varchar(32);not null;index:goatcast_columns_user_idx;column:user_id" json:"user_id"`
	Position  int       `gorm:"not null;default:0;column:position" json:"position"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Column
func (Column) TableName() string {
	return "goatcast_columns"
}

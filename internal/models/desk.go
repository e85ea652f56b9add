package models

import "time"

// Desk is a user-defined named collection of columns
type Desk struct {
	ID        string    `gorm:"type:varchar(36);primaryKey;column:id" json:"id"`
	Name      string    `gorm:"type:varchar(64);not null;column:name" json:"name"`
	UserID    string    `gorm:"type:varchar(32);not null;index:goatcast_desks_user_idx;column:user_id" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;column:updated_at" json:"updated_at"`
}

// TableName specifies the table name for Desk
func (Desk) TableName() string {
	return "goatcast_desks"
}

package models

import "time"

// User mirrors a signed-in identity in the store so sessions survive
// across devices. Keyed by the protocol fid.
type User struct {
	FID            int64     `gorm:"primaryKey;column:fid" json:"fid"`
	Username       string    `gorm:"type:varchar(64);not null;column:username" json:"username"`
	DisplayName    string    `gorm:"type:varchar(128);not null;default:'';column:display_name" json:"display_name"`
	PfpURL         string    `gorm:"type:varchar(1024);not null;default:'';column:pfp_url" json:"pfp_url"`
	Bio            string    `gorm:"type:varchar(512);not null;default:'';column:bio" json:"bio"`
	FollowerCount  int64     `gorm:"not null;default:0;column:follower_count" json:"follower_count"`
	FollowingCount int64     `gorm:"not null;default:0;column:following_count" json:"following_count"`
	FirstLoginAt   time.Time `gorm:"not null;column:first_login_at" json:"first_login_at"`
	LastLoginAt    time.Time `gorm:"not null;column:last_login_at" json:"last_login_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "goatcast_users"
}

package domain

import "time"

// Generation records one successful image generation. ImageID is the key the
// image store saved the picture under.
type Generation struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"userId" gorm:"index;not null"`
	ImageID   string    `json:"imageId" gorm:"not null"`
	Prompt    string    `json:"prompt" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

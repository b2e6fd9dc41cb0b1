package model

import (
	"time"
)

// Video represents an uploaded video and its catalog metadata
type Video struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Title         string `gorm:"size:200;not null" json:"title"`
	Description   string `gorm:"size:2000;not null" json:"description"`
	VideoPath     string `gorm:"size:500;not null" json:"videoUrl"`
	ThumbnailPath string `gorm:"size:500;not null" json:"thumbnailUrl"`
	// Duration is the display string formatted as MM:SS, computed once at
	// ingestion time and never recomputed
	Duration  string    `gorm:"size:10;not null" json:"duration"`
	UserID    uint      `gorm:"index;not null" json:"user"`
	Views     uint64    `gorm:"default:0" json:"views"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the table name for Video
func (Video) TableName() string {
	return "videos"
}

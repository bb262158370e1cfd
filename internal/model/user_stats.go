package model

import "time"

// swagger:model UserStats
type UserStats struct {
	UserID       string    `gorm:"primaryKey;size:128" json:"userId"`
	Level        int       `gorm:"default:0" json:"level"`
	XP           int       `gorm:"default:0" json:"xp"`
	TotalQuizzes int       `gorm:"default:0" json:"totalQuizzes"`
	AverageScore float64   `gorm:"default:0" json:"averageScore"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (UserStats) TableName() string {
	return "user_stats"
}

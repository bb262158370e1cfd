package model

import (
	"time"

	"gorm.io/datatypes"
)

// swagger:model Course
// Structure 保存外部提供的原始单元结构，读取时再规范化
type Course struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	Title     string         `gorm:"size:255" json:"title"`
	Structure datatypes.JSON `json:"structure"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (Course) TableName() string {
	return "courses"
}

// StudyProgress 内容学习深度（0-3），由客户端根据观看记录上报
type StudyProgress struct {
	UserID    string    `gorm:"primaryKey;size:128" json:"userId"`
	CourseID  string    `gorm:"primaryKey;size:64" json:"courseId"`
	Depth     int       `gorm:"default:0" json:"depth"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (StudyProgress) TableName() string {
	return "study_progress"
}

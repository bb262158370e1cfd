package model

import "time"

type Mistake struct {
	QuestionIndex int    `json:"questionIndex"`
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

// swagger:model AttemptRecord
// AttemptRecord 创建后不再修改
type AttemptRecord struct {
	UUIDBase

	CourseID         string      `gorm:"size:64;not null;uniqueIndex:idx_attempt_key,priority:1;index:idx_attempt_owner,priority:1" json:"courseId"`
	UserID           string      `gorm:"size:128;not null;uniqueIndex:idx_attempt_key,priority:2;index:idx_attempt_owner,priority:2" json:"userId"`
	AttemptKey       string      `gorm:"size:64;not null;uniqueIndex:idx_attempt_key,priority:3" json:"attemptKey"`
	QuizID           string      `gorm:"size:128;index;not null" json:"quizId"`
	Difficulty       Difficulty  `gorm:"size:20;not null" json:"difficulty"`
	TotalQuestions   int         `json:"totalQuestions"`
	CorrectAnswers   int         `json:"correctAnswers"`
	WrongAnswers     int         `json:"wrongAnswers"`
	Score            int         `json:"score"`
	TimeTakenSeconds int         `json:"timeTakenSeconds"`
	TimeLimitSeconds int         `json:"timeLimitSeconds"`
	Mistakes         []Mistake   `gorm:"serializer:json;type:text" json:"mistakes"`
	Answers          map[int]int `gorm:"serializer:json;type:text" json:"answers"`
	FlaggedQuestions []int       `gorm:"serializer:json;type:text" json:"flaggedQuestions"`
	Degraded         bool        `gorm:"default:false" json:"degraded"`
	Forced           bool        `gorm:"default:false" json:"forced"`
	Timestamp        time.Time   `gorm:"index" json:"timestamp"`
}

func (AttemptRecord) TableName() string {
	return "quiz_attempts"
}

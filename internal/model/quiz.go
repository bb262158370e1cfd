package model

// Difficulty 测验难度
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
	Expert       Difficulty = "expert"
)

// Unit 规范化后的课程单元
type Unit struct {
	Title     string   `json:"title"`
	Subtopics []string `json:"subtopics"`
}

// swagger:model QuizDescriptor
type QuizDescriptor struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Difficulty       Difficulty `json:"difficulty"`
	QuestionCount    int        `json:"questionCount"`
	TimeLimitMinutes int        `json:"timeLimitMinutes"`
	XPReward         int        `json:"xpReward"`
	Units            []Unit     `json:"units"`
	BestScore        *int       `json:"bestScore,omitempty"`
}

// Question 单选题，CorrectAnswer 为选项下标
type Question struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// QuestionSet 一次生成得到的题目集合，Degraded 表示使用了本地占位题
type QuestionSet struct {
	Questions []Question `json:"questions"`
	Degraded  bool       `json:"degraded"`
}

package service

import (
	"fmt"

	"study_quiz_backend/internal/model"
)

const maxIntermediateQuizzes = 3

// 解锁阈值
const (
	beginnerPassScore     = 50
	intermediatePassScore = 50
	advancedUnlockScore   = 60
	expertUnlockScore     = 80
)

type tierSpec struct {
	questionCount    int
	timeLimitMinutes int
	xpReward         int
}

var tierSpecs = map[model.Difficulty]tierSpec{
	model.Beginner:     {questionCount: 10, timeLimitMinutes: 10, xpReward: 50},
	model.Intermediate: {questionCount: 15, timeLimitMinutes: 15, xpReward: 100},
	model.Advanced:     {questionCount: 20, timeLimitMinutes: 25, xpReward: 200},
	model.Expert:       {questionCount: 30, timeLimitMinutes: 40, xpReward: 500},
}

// QuizID 对 (课程, 难度, 单元下标) 唯一且稳定
func QuizID(courseID string, difficulty model.Difficulty, unitIndex int) string {
	return fmt.Sprintf("%s-%s-%d", courseID, difficulty, unitIndex)
}

// BuildCatalog 根据课程单元、历史作答和学习深度推导当前可见的测验列表。
// 顺序固定为 beginner、各单元 intermediate、advanced、expert。
func BuildCatalog(courseID string, units []model.Unit, attempts []model.AttemptRecord, studyDepth int) []model.QuizDescriptor {
	if len(units) == 0 {
		return []model.QuizDescriptor{}
	}

	best := bestScores(attempts)
	catalog := make([]model.QuizDescriptor, 0, 2+maxIntermediateQuizzes)

	beginner := newDescriptor(courseID, model.Beginner, 0, "Course Overview Quiz", units, best)
	catalog = append(catalog, beginner)

	// 单元测验逐个放出：前一个通过（或学习深度足够）才出现下一个
	prevPassed := scoreAtLeast(beginner.BestScore, beginnerPassScore) || studyDepth >= 1
	for i, unit := range units {
		if i >= maxIntermediateQuizzes || !prevPassed {
			break
		}
		title := fmt.Sprintf("Unit %d: %s", i+1, unit.Title)
		d := newDescriptor(courseID, model.Intermediate, i, title, []model.Unit{unit}, best)
		catalog = append(catalog, d)
		prevPassed = scoreAtLeast(d.BestScore, intermediatePassScore) || studyDepth >= 1
	}

	if studyDepth >= 2 || anyAttemptAtLeast(attempts, model.Intermediate, advancedUnlockScore) {
		catalog = append(catalog, newDescriptor(courseID, model.Advanced, 0, "Advanced Challenge", units, best))
	}

	if studyDepth >= 3 || anyAttemptAtLeast(attempts, model.Advanced, expertUnlockScore) {
		catalog = append(catalog, newDescriptor(courseID, model.Expert, 0, "Expert Mastery", units, best))
	}

	return catalog
}

// IsLocked 只依赖目录快照本身
func IsLocked(catalog []model.QuizDescriptor, index int) bool {
	if index < 0 || index >= len(catalog) {
		return true
	}
	if index == 0 {
		return false
	}

	quiz := catalog[index]
	if quiz.Difficulty == model.Intermediate {
		prev := catalog[index-1]
		if prev.Difficulty == model.Intermediate {
			return !scoreAtLeast(prev.BestScore, intermediatePassScore)
		}
	}

	switch quiz.Difficulty {
	case model.Beginner:
		return false
	case model.Intermediate:
		return !anyBestAtLeast(catalog, model.Beginner, beginnerPassScore)
	case model.Advanced:
		return !anyBestAtLeast(catalog, model.Intermediate, advancedUnlockScore)
	case model.Expert:
		return !anyBestAtLeast(catalog, model.Advanced, expertUnlockScore)
	}
	return true
}

// FindInCatalog 返回测验在目录中的下标，不存在时返回 -1
func FindInCatalog(catalog []model.QuizDescriptor, quizID string) int {
	for i, q := range catalog {
		if q.ID == quizID {
			return i
		}
	}
	return -1
}

func newDescriptor(courseID string, difficulty model.Difficulty, unitIndex int, title string, units []model.Unit, best map[string]int) model.QuizDescriptor {
	spec := tierSpecs[difficulty]
	id := QuizID(courseID, difficulty, unitIndex)
	d := model.QuizDescriptor{
		ID:               id,
		Title:            title,
		Difficulty:       difficulty,
		QuestionCount:    spec.questionCount,
		TimeLimitMinutes: spec.timeLimitMinutes,
		XPReward:         spec.xpReward,
		Units:            units,
	}
	if score, ok := best[id]; ok {
		s := score
		d.BestScore = &s
	}
	return d
}

func bestScores(attempts []model.AttemptRecord) map[string]int {
	best := make(map[string]int, len(attempts))
	for _, a := range attempts {
		if cur, ok := best[a.QuizID]; !ok || a.Score > cur {
			best[a.QuizID] = a.Score
		}
	}
	return best
}

func scoreAtLeast(score *int, threshold int) bool {
	return score != nil && *score >= threshold
}

func anyAttemptAtLeast(attempts []model.AttemptRecord, difficulty model.Difficulty, threshold int) bool {
	for _, a := range attempts {
		if a.Difficulty == difficulty && a.Score >= threshold {
			return true
		}
	}
	return false
}

func anyBestAtLeast(catalog []model.QuizDescriptor, difficulty model.Difficulty, threshold int) bool {
	for _, q := range catalog {
		if q.Difficulty == difficulty && scoreAtLeast(q.BestScore, threshold) {
			return true
		}
	}
	return false
}

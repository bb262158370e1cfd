package service

import "math"

// 等级阈值：每 100 XP 升一级
const xpPerLevel = 100

// Score 返回 0-100 的百分制得分
func Score(totalQuestions, correctAnswers int) int {
	if totalQuestions <= 0 {
		return 0
	}
	if correctAnswers < 0 {
		correctAnswers = 0
	}
	if correctAnswers > totalQuestions {
		correctAnswers = totalQuestions
	}
	return int(math.Round(100 * float64(correctAnswers) / float64(totalQuestions)))
}

// XPGained 作答完成和历史回放都必须通过这里计算经验值
func XPGained(score, correctAnswers int) int {
	return score*10 + correctAnswers*5
}

type Grade struct {
	Letter string `json:"grade"`
	Stars  int    `json:"stars"`
}

func GradeFor(score int) Grade {
	switch {
	case score >= 90:
		return Grade{Letter: "A+", Stars: 5}
	case score >= 80:
		return Grade{Letter: "A", Stars: 4}
	case score >= 70:
		return Grade{Letter: "B", Stars: 3}
	case score >= 60:
		return Grade{Letter: "C", Stars: 2}
	default:
		return Grade{Letter: "D", Stars: 1}
	}
}

// LevelForXP 返回当前等级和升到下一级所需的累计 XP
func LevelForXP(xp int) (int, int) {
	if xp < 0 {
		xp = 0
	}
	level := xp / xpPerLevel
	return level, NextLevelXP(level)
}

func NextLevelXP(level int) int {
	return (level + 1) * xpPerLevel
}

package service

import (
	"context"
	"fmt"
	"strings"

	"study_quiz_backend/internal/model"
	"study_quiz_backend/internal/util"
)

type ChatClient interface {
	Chat(ctx context.Context, prompt, background string, history []AIChatMessage) (string, error)
	ChatStream(ctx context.Context, prompt, background string, history []AIChatMessage) (<-chan string, <-chan error)
}

// DoubtService 围绕课程单元回答学习中的疑问
type DoubtService struct {
	courses *CourseService
	ai      ChatClient
}

func NewDoubtService(courses *CourseService, ai ChatClient) *DoubtService {
	return &DoubtService{courses: courses, ai: ai}
}

type DoubtRequest struct {
	Question  string          `json:"question" binding:"required"`
	UnitIndex *int            `json:"unitIndex"`
	History   []AIChatMessage `json:"history"`
}

type DoubtResponse struct {
	Answer string   `json:"answer"`
	Source string   `json:"source"` // course_units 或 llm
	Units  []string `json:"units,omitempty"`
}

// background 拼出课程上下文：指定单元优先，否则按关键词匹配单元
func (s *DoubtService) background(ctx context.Context, courseID string, req DoubtRequest) (string, []string, error) {
	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return "", nil, err
	}

	var matched []model.Unit
	if req.UnitIndex != nil {
		i := *req.UnitIndex
		if i < 0 || i >= len(course.Units) {
			return "", nil, fmt.Errorf("unit %d: %w", i, util.ErrUnitIndex)
		}
		matched = []model.Unit{course.Units[i]}
	} else {
		matched = MatchUnits(course.Units, req.Question, 3)
	}
	if len(matched) == 0 {
		return "", nil, nil
	}

	var b strings.Builder
	if course.Title != "" {
		fmt.Fprintf(&b, "Course: %s\n\n", course.Title)
	}
	titles := make([]string, 0, len(matched))
	for _, u := range matched {
		titles = append(titles, u.Title)
		fmt.Fprintf(&b, "[Unit] %s\n", u.Title)
		if len(u.Subtopics) > 0 {
			fmt.Fprintf(&b, "Topics: %s\n", strings.Join(u.Subtopics, "; "))
		}
		b.WriteString("\n")
	}
	return b.String(), titles, nil
}

func (s *DoubtService) Ask(ctx context.Context, courseID string, req DoubtRequest) (*DoubtResponse, error) {
	background, units, err := s.background(ctx, courseID, req)
	if err != nil {
		return nil, err
	}

	answer, err := s.ai.Chat(ctx, req.Question, background, req.History)
	if err != nil {
		return nil, err
	}
	return &DoubtResponse{Answer: answer, Source: sourceFor(units), Units: units}, nil
}

func (s *DoubtService) AskStream(ctx context.Context, courseID string, req DoubtRequest) (<-chan string, string, <-chan error, error) {
	background, units, err := s.background(ctx, courseID, req)
	if err != nil {
		return nil, "", nil, err
	}
	stream, errChan := s.ai.ChatStream(ctx, req.Question, background, req.History)
	return stream, sourceFor(units), errChan, nil
}

func sourceFor(units []string) string {
	if len(units) > 0 {
		return "course_units"
	}
	return "llm"
}

// MatchUnits 按问题中出现的单元标题或子主题挑选单元，保持课程顺序
func MatchUnits(units []model.Unit, question string, limit int) []model.Unit {
	q := strings.ToLower(question)
	out := make([]model.Unit, 0, limit)
	for _, u := range units {
		if len(out) == limit {
			break
		}
		if mentions(q, u.Title) {
			out = append(out, u)
			continue
		}
		for _, t := range u.Subtopics {
			if mentions(q, t) {
				out = append(out, u)
				break
			}
		}
	}
	return out
}

func mentions(question, phrase string) bool {
	phrase = strings.ToLower(strings.TrimSpace(phrase))
	return phrase != "" && strings.Contains(question, phrase)
}

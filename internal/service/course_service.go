package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"study_quiz_backend/internal/model"
	"study_quiz_backend/internal/util"
)

type CourseStore interface {
	Upsert(ctx context.Context, course *model.Course) error
	FindByID(ctx context.Context, id string) (*model.Course, error)
}

type StudyDepthStore interface {
	Depth(ctx context.Context, userID, courseID string) (int, error)
	Save(ctx context.Context, p *model.StudyProgress) error
}

type CourseService struct {
	courses CourseStore
	depths  StudyDepthStore
}

func NewCourseService(courses CourseStore, depths StudyDepthStore) *CourseService {
	return &CourseService{courses: courses, depths: depths}
}

type CourseUpsertRequest struct {
	Title     string          `json:"title"`
	Structure json.RawMessage `json:"structure" binding:"required"`
}

type CourseView struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Units []model.Unit `json:"units"`
}

func (s *CourseService) Upsert(ctx context.Context, courseID string, req CourseUpsertRequest) (*CourseView, error) {
	units, err := NormalizeUnits(req.Structure)
	if err != nil {
		return nil, err
	}
	course := &model.Course{
		ID:        courseID,
		Title:     req.Title,
		Structure: []byte(req.Structure),
	}
	if err := s.courses.Upsert(ctx, course); err != nil {
		return nil, fmt.Errorf("save course %s: %w", courseID, err)
	}
	return &CourseView{ID: courseID, Title: req.Title, Units: units}, nil
}

func (s *CourseService) Get(ctx context.Context, courseID string) (*CourseView, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	units, err := NormalizeUnits(course.Structure)
	if err != nil {
		return nil, err
	}
	return &CourseView{ID: course.ID, Title: course.Title, Units: units}, nil
}

func (s *CourseService) StudyDepth(ctx context.Context, userID, courseID string) (int, error) {
	d, err := s.depths.Depth(ctx, userID, courseID)
	if err != nil {
		return 0, err
	}
	return clampDepth(d), nil
}

// SetStudyDepth 学习深度是外部推导的信号，这里只负责截断到 0..3
func (s *CourseService) SetStudyDepth(ctx context.Context, userID, courseID string, depth int) (int, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return 0, err
	}
	depth = clampDepth(depth)
	if err := s.depths.Save(ctx, &model.StudyProgress{UserID: userID, CourseID: courseID, Depth: depth}); err != nil {
		return 0, fmt.Errorf("save study depth: %w", err)
	}
	return depth, nil
}

func clampDepth(d int) int {
	if d < 0 {
		return 0
	}
	if d > util.MaxStudyDepth {
		return util.MaxStudyDepth
	}
	return d
}

// NormalizeUnits 把各种形状的课程结构统一成 []model.Unit。
// 支持顶层数组，或包在 units / course_structure / structure 字段里的数组；
// 单元可以是字符串或对象，子主题可以是字符串或带 title/name 的对象。
func NormalizeUnits(raw []byte) ([]model.Unit, error) {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return []model.Unit{}, nil
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidStructure, err)
	}

	items, ok := unitList(doc)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list of units", util.ErrInvalidStructure)
	}

	units := make([]model.Unit, 0, len(items))
	for i, item := range items {
		u, ok := normalizeUnit(item, i)
		if !ok {
			continue
		}
		units = append(units, u)
	}
	return units, nil
}

func unitList(doc interface{}) ([]interface{}, bool) {
	switch v := doc.(type) {
	case nil:
		return []interface{}{}, true
	case []interface{}:
		return v, true
	case map[string]interface{}:
		for _, key := range []string{"units", "course_structure", "structure"} {
			if inner, ok := v[key]; ok {
				return unitList(inner)
			}
		}
	}
	return nil, false
}

func normalizeUnit(item interface{}, index int) (model.Unit, bool) {
	switch v := item.(type) {
	case string:
		title := strings.TrimSpace(v)
		if title == "" {
			title = fmt.Sprintf("Unit %d", index+1)
		}
		return model.Unit{Title: title, Subtopics: []string{}}, true
	case map[string]interface{}:
		title := firstString(v, "unit_title", "title", "name")
		if title == "" {
			title = fmt.Sprintf("Unit %d", index+1)
		}
		var rawTopics interface{}
		for _, key := range []string{"sub_topics", "subtopics", "topics"} {
			if t, ok := v[key]; ok {
				rawTopics = t
				break
			}
		}
		return model.Unit{Title: title, Subtopics: normalizeSubtopics(rawTopics)}, true
	}
	return model.Unit{}, false
}

func normalizeSubtopics(raw interface{}) []string {
	list, ok := raw.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(list))
	for _, t := range list {
		switch v := t.(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				out = append(out, s)
			}
		case map[string]interface{}:
			if s := firstString(v, "title", "name", "sub_topic_title", "topic"); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func firstString(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

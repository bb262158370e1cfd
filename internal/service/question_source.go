package service

import (
	"context"
	"fmt"
	"strings"

	"study_quiz_backend/internal/model"
	"study_quiz_backend/pkg/logger"
	"study_quiz_backend/pkg/monitoring"
	"study_quiz_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// DegradedPrefix 标记本地占位题，客户端据此提示“离线练习”
const DegradedPrefix = "[Practice mode] "

type QuestionGenerator interface {
	GenerateQuestions(ctx context.Context, req GenerateQuizRequest) ([]model.Question, error)
}

type QuestionCache interface {
	Get(ctx context.Context, key string) (*model.QuestionSet, error)
	Set(ctx context.Context, key string, set *model.QuestionSet) error
	Delete(ctx context.Context, key string) error
}

// QuestionSource 永远返回可用的题目：生成失败时降级为占位题
type QuestionSource struct {
	generator QuestionGenerator
	cache     QuestionCache
}

func NewQuestionSource(generator QuestionGenerator, cache QuestionCache) *QuestionSource {
	return &QuestionSource{generator: generator, cache: cache}
}

func QuestionCacheKey(userID, quizID string) string {
	return "quiz:questions:" + userID + ":" + quizID
}

func (s *QuestionSource) Fetch(ctx context.Context, cacheKey string, req GenerateQuizRequest) model.QuestionSet {
	ctx, span := tracing.Tracer.Start(ctx, "QuestionSource.Fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("quiz.difficulty", string(req.Difficulty)),
		attribute.Int("quiz.question_count", req.QuestionCount),
	)

	if s.cache != nil && cacheKey != "" {
		cached, err := s.cache.Get(ctx, cacheKey)
		if err != nil {
			logger.Log.Warn("question cache read failed", zap.String("key", cacheKey), zap.Error(err))
		} else if cached != nil && len(cached.Questions) > 0 {
			span.SetAttributes(attribute.Bool("quiz.cache_hit", true))
			return *cached
		}
	}

	var (
		questions []model.Question
		err       error
	)
	if s.generator != nil {
		questions, err = s.generator.GenerateQuestions(ctx, req)
	} else {
		err = fmt.Errorf("no question generator configured")
	}
	if err == nil {
		questions = validQuestions(questions, req.QuestionCount)
		if len(questions) == 0 {
			err = fmt.Errorf("generator returned no usable questions")
		}
	}

	if err != nil {
		logger.Log.Warn("question generation failed, using fallback questions",
			zap.String("difficulty", string(req.Difficulty)),
			zap.Error(err),
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fallback")
		monitoring.QuestionFallbacks.WithLabelValues(string(req.Difficulty)).Inc()
		return model.QuestionSet{Questions: FallbackQuestions(req), Degraded: true}
	}

	set := model.QuestionSet{Questions: questions}
	if s.cache != nil && cacheKey != "" {
		if err := s.cache.Set(ctx, cacheKey, &set); err != nil {
			logger.Log.Warn("question cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return set
}

// Forget 作答结算后清除缓存，重考必须重新出题
func (s *QuestionSource) Forget(ctx context.Context, cacheKey string) {
	if s.cache == nil || cacheKey == "" {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		logger.Log.Warn("question cache delete failed", zap.String("key", cacheKey), zap.Error(err))
	}
}

func validQuestions(in []model.Question, limit int) []model.Question {
	out := make([]model.Question, 0, len(in))
	for _, q := range in {
		if strings.TrimSpace(q.Question) == "" || len(q.Options) < 2 {
			continue
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			continue
		}
		out = append(out, q)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// FallbackQuestions 本地生成的占位题，题干带有 DegradedPrefix
func FallbackQuestions(req GenerateQuizRequest) []model.Question {
	count := req.QuestionCount
	if count <= 0 {
		count = 5
	}
	topics := req.Topics
	if len(topics) == 0 {
		topics = []string{"this course"}
	}

	questions := make([]model.Question, 0, count)
	for i := 0; i < count; i++ {
		topic := topics[i%len(topics)]
		correct := i % 4
		options := []string{
			fmt.Sprintf("It is unrelated to %s", topic),
			fmt.Sprintf("It is only a historical footnote to %s", topic),
			fmt.Sprintf("It is never used in practice with %s", topic),
			"It is unrelated to anything in the course",
		}
		options[correct] = fmt.Sprintf("It is a key idea you should review in %s", topic)
		questions = append(questions, model.Question{
			Question:      fmt.Sprintf("%sQuestion %d: which statement about \"%s\" is correct?", DegradedPrefix, i+1, topic),
			Options:       options,
			CorrectAnswer: correct,
			Explanation:   "Question generation is temporarily unavailable. Review the unit material and try again later for a full quiz.",
		})
	}
	return questions
}

// TopicsFor 测验的出题主题：单元标题加子主题
func TopicsFor(quiz model.QuizDescriptor) []string {
	topics := make([]string, 0, len(quiz.Units)*3)
	for _, u := range quiz.Units {
		topics = append(topics, u.Title)
		topics = append(topics, u.Subtopics...)
	}
	return topics
}

// CourseContext 给生成接口的课程概要
func CourseContext(courseTitle string, units []model.Unit) string {
	var b strings.Builder
	if courseTitle != "" {
		b.WriteString("Course: ")
		b.WriteString(courseTitle)
		b.WriteString("\n")
	}
	for i, u := range units {
		fmt.Fprintf(&b, "Unit %d: %s", i+1, u.Title)
		if len(u.Subtopics) > 0 {
			b.WriteString(" (")
			b.WriteString(strings.Join(u.Subtopics, ", "))
			b.WriteString(")")
		}
		b.WriteString("\n")
	}
	return b.String()
}

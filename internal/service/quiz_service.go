package service

import (
	"context"
	"strconv"
	"time"

	"study_quiz_backend/internal/model"
	"study_quiz_backend/internal/util"
	"study_quiz_backend/pkg/logger"
	"study_quiz_backend/pkg/monitoring"

	"go.uber.org/zap"
)

type AttemptStore interface {
	Create(ctx context.Context, attempt *model.AttemptRecord) error
	ListByCourseAndUser(ctx context.Context, courseID, userID string) ([]model.AttemptRecord, error)
	PageByCourseAndUser(ctx context.Context, courseID, userID string, page, limit int) ([]model.AttemptRecord, int64, error)
	FindForUser(ctx context.Context, courseID, userID, attemptID string) (*model.AttemptRecord, error)
}

// 超时强制提交没有请求上下文，持久化使用独立的超时
const expirePersistTimeout = 10 * time.Second

type QuizService struct {
	courses  *CourseService
	attempts AttemptStore
	stats    *StatsService
	source   *QuestionSource
	sessions *SessionManager
}

func NewQuizService(courses *CourseService, attempts AttemptStore, stats *StatsService, source *QuestionSource, sessions *SessionManager) *QuizService {
	return &QuizService{
		courses:  courses,
		attempts: attempts,
		stats:    stats,
		source:   source,
		sessions: sessions,
	}
}

type CatalogEntry struct {
	model.QuizDescriptor
	Locked bool `json:"locked"`
}

// SubmissionResult 结算结果。保存失败时 Saved=false，结果仍然返回给用户
type SubmissionResult struct {
	Attempt    *model.AttemptRecord `json:"attempt"`
	Grade      string               `json:"grade"`
	Stars      int                  `json:"stars"`
	XPGained   int                  `json:"xpGained"`
	Stats      *StatsView           `json:"stats,omitempty"`
	LeveledUp  bool                 `json:"leveledUp"`
	NewLevel   int                  `json:"newLevel,omitempty"`
	Saved      bool                 `json:"saved"`
	SaveError  string               `json:"saveError,omitempty"`
	StatsError string               `json:"statsError,omitempty"`
}

func (s *QuizService) buildCatalog(ctx context.Context, userID, courseID string) (*CourseView, []model.QuizDescriptor, error) {
	course, err := s.courses.Get(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	attempts, err := s.attempts.ListByCourseAndUser(ctx, courseID, userID)
	if err != nil {
		return nil, nil, err
	}
	depth, err := s.courses.StudyDepth(ctx, userID, courseID)
	if err != nil {
		return nil, nil, err
	}

	catalog := BuildCatalog(courseID, course.Units, attempts, depth)
	if len(catalog) == 0 {
		logger.Log.Warn("course has no units, quiz catalog is empty", zap.String("courseID", courseID))
	}
	return course, catalog, nil
}

func (s *QuizService) Catalog(ctx context.Context, userID, courseID string) ([]CatalogEntry, error) {
	_, catalog, err := s.buildCatalog(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	entries := make([]CatalogEntry, len(catalog))
	for i, q := range catalog {
		entries[i] = CatalogEntry{QuizDescriptor: q, Locked: IsLocked(catalog, i)}
	}
	return entries, nil
}

// Start 校验解锁状态后取题并开始计时
func (s *QuizService) Start(ctx context.Context, userID, courseID, quizID string) (*SessionView, error) {
	if cur, err := s.sessions.Current(userID); err == nil && cur.Active() {
		return nil, util.ErrQuizInProgress
	}

	course, catalog, err := s.buildCatalog(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	idx := FindInCatalog(catalog, quizID)
	if idx < 0 {
		return nil, util.ErrQuizNotFound
	}
	if IsLocked(catalog, idx) {
		return nil, util.ErrQuizLocked
	}
	quiz := catalog[idx]

	set := s.source.Fetch(ctx, QuestionCacheKey(userID, quiz.ID), GenerateQuizRequest{
		Topics:        TopicsFor(quiz),
		Difficulty:    quiz.Difficulty,
		QuestionCount: quiz.QuestionCount,
		CourseContext: CourseContext(course.Title, course.Units),
	})

	sess, err := s.sessions.Begin(SessionParams{
		UserID:    userID,
		CourseID:  courseID,
		Quiz:      quiz,
		Questions: set,
	}, s.onExpire)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("quiz started",
		zap.String("userID", userID),
		zap.String("quizID", quiz.ID),
		zap.Int("questions", len(set.Questions)),
		zap.Bool("degraded", set.Degraded),
	)
	view := sess.View()
	return &view, nil
}

func (s *QuizService) Session(userID string) (*SessionView, error) {
	sess, err := s.sessions.Current(userID)
	if err != nil {
		return nil, err
	}
	view := sess.View()
	return &view, nil
}

func (s *QuizService) Answer(userID string, index, option int) (*SessionView, error) {
	sess, err := s.sessions.Current(userID)
	if err != nil {
		return nil, err
	}
	if err := sess.Answer(index, option); err != nil {
		return nil, err
	}
	view := sess.View()
	return &view, nil
}

func (s *QuizService) ToggleFlag(userID string, index int) (bool, error) {
	sess, err := s.sessions.Current(userID)
	if err != nil {
		return false, err
	}
	return sess.ToggleFlag(index)
}

func (s *QuizService) Pause(userID string) (*SessionView, error) {
	return s.transition(userID, (*QuizSession).Pause)
}

func (s *QuizService) Resume(userID string) (*SessionView, error) {
	return s.transition(userID, (*QuizSession).Resume)
}

// Exit 放弃作答，不保存记录也不计经验
func (s *QuizService) Exit(userID string) error {
	sess, err := s.sessions.Current(userID)
	if err != nil {
		return err
	}
	if err := sess.Exit(); err != nil {
		return err
	}
	logger.Log.Info("quiz exited", zap.String("userID", userID), zap.String("quizID", sess.Quiz().ID))
	return nil
}

func (s *QuizService) transition(userID string, fn func(*QuizSession) error) (*SessionView, error) {
	sess, err := s.sessions.Current(userID)
	if err != nil {
		return nil, err
	}
	if err := fn(sess); err != nil {
		return nil, err
	}
	view := sess.View()
	return &view, nil
}

func (s *QuizService) Submit(ctx context.Context, userID string) (*SubmissionResult, error) {
	sess, err := s.sessions.Current(userID)
	if err != nil {
		return nil, err
	}
	record, err := sess.Submit()
	if err != nil {
		return nil, err
	}
	result := s.finalize(ctx, record)
	sess.setResult(result)
	return result, nil
}

func (s *QuizService) onExpire(sess *QuizSession, record *model.AttemptRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), expirePersistTimeout)
	defer cancel()

	logger.Log.Info("quiz time expired, submitting automatically",
		zap.String("userID", record.UserID),
		zap.String("quizID", record.QuizID),
	)
	sess.setResult(s.finalize(ctx, record))
}

// finalize 保存记录并结算经验。至多一次，失败不重试
func (s *QuizService) finalize(ctx context.Context, record *model.AttemptRecord) *SubmissionResult {
	monitoring.AttemptsSubmitted.WithLabelValues(string(record.Difficulty), strconv.FormatBool(record.Forced)).Inc()
	// 结算后错题会给出正确答案，缓存只用于提交前重新开始
	s.source.Forget(ctx, QuestionCacheKey(record.UserID, record.QuizID))

	grade := GradeFor(record.Score)
	result := &SubmissionResult{
		Attempt:  record,
		Grade:    grade.Letter,
		Stars:    grade.Stars,
		XPGained: XPGained(record.Score, record.CorrectAnswers),
	}

	if err := s.attempts.Create(ctx, record); err != nil {
		monitoring.AttemptSaveFailures.Inc()
		logger.Log.Error("save quiz attempt failed",
			zap.String("userID", record.UserID),
			zap.String("quizID", record.QuizID),
			zap.Error(err),
		)
		result.SaveError = err.Error()
		return result
	}
	result.Saved = true

	update, err := s.stats.ApplyAttempt(ctx, record)
	if err != nil {
		logger.Log.Error("update user stats failed", zap.String("userID", record.UserID), zap.Error(err))
		result.StatsError = err.Error()
		return result
	}
	result.Stats = update.Stats
	result.XPGained = update.XPGained
	result.LeveledUp = update.LeveledUp
	result.NewLevel = update.NewLevel
	return result
}

// History 分页参数越界时使用默认值，返回实际生效的页码和条数
func (s *QuizService) History(ctx context.Context, userID, courseID string, page, limit int) (*util.PageResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	list, total, err := s.attempts.PageByCourseAndUser(ctx, courseID, userID, page, limit)
	if err != nil {
		return nil, err
	}
	return &util.PageResponse{List: list, Total: total, Page: page, Limit: limit}, nil
}

func (s *QuizService) Attempt(ctx context.Context, userID, courseID, attemptID string) (*model.AttemptRecord, error) {
	return s.attempts.FindForUser(ctx, courseID, userID, attemptID)
}

// Shutdown 停止所有计时器，进行中的作答被丢弃
func (s *QuizService) Shutdown() {
	s.sessions.Shutdown()
}

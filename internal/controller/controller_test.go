package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"study_quiz_backend/internal/config"
	"study_quiz_backend/internal/middleware"
	"study_quiz_backend/internal/repository"
	"study_quiz_backend/internal/repository/testutil"
	"study_quiz_backend/internal/service"
	"study_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	testutil.SeedCourse(t, context.Background(), db, "c1",
		`[{"unit_title":"Variables","sub_topics":["Types"]},{"unit_title":"Functions"}]`)

	attempts := repository.NewAttemptRepository(db)
	courses := service.NewCourseService(repository.NewCourseRepository(db), repository.NewStudyProgressRepository(db))
	stats := service.NewStatsService(repository.NewStatsRepository(db), attempts, nil)
	sessions := service.NewSessionManager(time.Hour)
	t.Cleanup(sessions.Shutdown)
	quiz := service.NewQuizService(courses, attempts, stats, service.NewQuestionSource(nil, nil), sessions)

	courseCtl := NewCourseController(courses)
	quizCtl := NewQuizController(quiz, service.NewStorageService(&config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()}))
	statsCtl := NewStatsController(stats, func() int { return 10 })

	r := gin.New()
	api := r.Group("/api", middleware.AuthMiddleware(testSecret))
	api.GET("/courses/:courseId", courseCtl.Get)
	api.PUT("/courses/:courseId/study-depth", courseCtl.SetStudyDepth)
	api.GET("/courses/:courseId/quizzes", quizCtl.Catalog)
	api.POST("/courses/:courseId/quizzes/:quizId/start", quizCtl.Start)
	api.GET("/courses/:courseId/attempts", quizCtl.History)
	api.GET("/quiz-session", quizCtl.Session)
	api.PUT("/quiz-session/answers/:index", quizCtl.Answer)
	api.POST("/quiz-session/submit", quizCtl.Submit)
	api.GET("/stats", statsCtl.Get)
	api.GET("/leaderboard", statsCtl.Leaderboard)
	return r
}

func token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := util.GenerateJWT(userID, userID+"@example.com", testSecret, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return tok
}

func do(t *testing.T, r *gin.Engine, method, path, userID string, body interface{}) (*httptest.ResponseRecorder, util.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, userID))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp util.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", method, path, err, w.Body.String())
	}
	return w, resp
}

func TestRoutes_RequireToken(t *testing.T) {
	r := newTestRouter(t)
	w, resp := do(t, r, http.MethodGet, "/api/courses/c1/quizzes", "", nil)
	if w.Code != http.StatusUnauthorized || resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d %+v", w.Code, resp)
	}
}

func TestRoutes_StatusMapping(t *testing.T) {
	r := newTestRouter(t)

	if w, _ := do(t, r, http.MethodGet, "/api/courses/missing", "u1", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing course: expected 404, got %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodGet, "/api/quiz-session", "u1", nil); w.Code != http.StatusNotFound {
		t.Fatalf("no session: expected 404, got %d", w.Code)
	}
	// 未解锁的单元测验不在目录中
	if w, _ := do(t, r, http.MethodPost, "/api/courses/c1/quizzes/c1-intermediate-0/start", "u1", nil); w.Code != http.StatusNotFound {
		t.Fatalf("hidden quiz: expected 404, got %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodPost, "/api/courses/c1/quizzes/nope/start", "u1", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown quiz: expected 404, got %d", w.Code)
	}

	if w, resp := do(t, r, http.MethodPost, "/api/courses/c1/quizzes/c1-beginner-0/start", "u1", nil); w.Code != http.StatusCreated || resp.Data == nil {
		t.Fatalf("start: expected 201, got %d %+v", w.Code, resp)
	}
	if w, _ := do(t, r, http.MethodPost, "/api/courses/c1/quizzes/c1-beginner-1/start", "u1", nil); w.Code != http.StatusConflict {
		t.Fatalf("second start: expected 409, got %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodPut, "/api/quiz-session/answers/99", "u1", gin.H{"option": 0}); w.Code != http.StatusBadRequest {
		t.Fatalf("bad index: expected 400, got %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodPut, "/api/quiz-session/answers/0", "u1", gin.H{}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing option: expected 400, got %d", w.Code)
	}
}

func TestRoutes_SubmitUpdatesStats(t *testing.T) {
	r := newTestRouter(t)

	if w, _ := do(t, r, http.MethodPost, "/api/courses/c1/quizzes/c1-beginner-0/start", "u1", nil); w.Code != http.StatusCreated {
		t.Fatalf("start: %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodPut, "/api/quiz-session/answers/0", "u1", gin.H{"option": 0}); w.Code != http.StatusOK {
		t.Fatalf("answer: %d", w.Code)
	}

	w, resp := do(t, r, http.MethodPost, "/api/quiz-session/submit", "u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: %d %+v", w.Code, resp)
	}
	var result service.SubmissionResult
	raw, _ := json.Marshal(resp.Data)
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Saved || result.Attempt == nil || result.Attempt.TotalQuestions != 10 || !result.Attempt.Degraded {
		t.Fatalf("unexpected result %+v", result)
	}

	if w, _ := do(t, r, http.MethodPost, "/api/quiz-session/submit", "u1", nil); w.Code != http.StatusConflict {
		t.Fatalf("double submit: expected 409, got %d", w.Code)
	}

	_, resp = do(t, r, http.MethodGet, "/api/stats", "u1", nil)
	var stats service.StatsView
	raw, _ = json.Marshal(resp.Data)
	if err := json.Unmarshal(raw, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalQuizzes != 1 || stats.XP != result.XPGained {
		t.Fatalf("unexpected stats %+v (gained %d)", stats, result.XPGained)
	}

	_, resp = do(t, r, http.MethodGet, "/api/leaderboard", "u2", nil)
	board, ok := resp.Data.([]interface{})
	if !ok || len(board) != 1 {
		t.Fatalf("unexpected leaderboard %+v", resp.Data)
	}
}

func TestRoutes_HistoryPagingDefaults(t *testing.T) {
	r := newTestRouter(t)

	w, resp := do(t, r, http.MethodGet, "/api/courses/c1/attempts?page=0&limit=999", "u1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("history: %d", w.Code)
	}
	var page util.PageResponse
	raw, _ := json.Marshal(resp.Data)
	if err := json.Unmarshal(raw, &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Page != 1 || page.Limit != 20 || page.Total != 0 {
		t.Fatalf("unexpected paging %+v", page)
	}
}

func TestRoutes_StudyDepthShowsLockedIntermediate(t *testing.T) {
	r := newTestRouter(t)

	if w, _ := do(t, r, http.MethodPut, "/api/courses/c1/study-depth", "u1", gin.H{"depth": 1}); w.Code != http.StatusOK {
		t.Fatalf("depth: %d", w.Code)
	}
	if w, _ := do(t, r, http.MethodPost, "/api/courses/c1/quizzes/c1-intermediate-0/start", "u1", nil); w.Code != http.StatusForbidden {
		t.Fatalf("intermediate still needs a passed beginner quiz, got %d", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/health", NewHealthController(testutil.DB(t), nil).HealthCheck)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}
	var resp struct {
		Data struct {
			Status     string            `json:"status"`
			Components map[string]string `json:"components"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Status != "ok" || resp.Data.Components["database"] != "up" {
		t.Fatalf("unexpected health %+v", resp.Data)
	}
	if _, ok := resp.Data.Components["redis"]; ok {
		t.Fatalf("redis should not be reported when disabled")
	}
}

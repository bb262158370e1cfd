package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"study_quiz_backend/internal/model"
	"study_quiz_backend/internal/util"
	"study_quiz_backend/pkg/monitoring"
)

type SessionState string

const (
	StateNotStarted SessionState = "not_started"
	StateInProgress SessionState = "in_progress"
	StatePaused     SessionState = "paused"
	StateSubmitted  SessionState = "submitted"
	StateExited     SessionState = "exited"
)

func (s SessionState) Terminal() bool {
	return s == StateSubmitted || s == StateExited
}

const notAnswered = "Not answered"

// QuizSession 一次测验作答过程。倒计时 goroutine 由会话自己持有，
// 暂停、提交、退出以及超时强制提交时都会停止。
type QuizSession struct {
	mu sync.Mutex

	userID    string
	courseID  string
	quiz      model.QuizDescriptor
	questions []model.Question
	degraded  bool

	state     SessionState
	answers   map[int]int
	flags     map[int]struct{}
	timeLimit int
	remaining int
	startedAt time.Time

	tickInterval time.Duration
	stop         chan struct{}
	done         chan struct{}
	// gen 每次启动计时器加一，旧 goroutine 的 tick 会被忽略
	gen uint64
	// tickStart 当前这一秒开始计时的时刻；carry 为暂停时已走过的部分
	tickStart time.Time
	carry     time.Duration

	record *model.AttemptRecord
	result *SubmissionResult

	onExpire func(*QuizSession, *model.AttemptRecord)
	onClose  func(*QuizSession)
	now      func() time.Time
}

type SessionParams struct {
	UserID       string
	CourseID     string
	Quiz         model.QuizDescriptor
	Questions    model.QuestionSet
	TickInterval time.Duration
}

func NewQuizSession(p SessionParams) *QuizSession {
	tick := p.TickInterval
	if tick <= 0 {
		tick = time.Second
	}
	limit := p.Quiz.TimeLimitMinutes * 60
	return &QuizSession{
		userID:       p.UserID,
		courseID:     p.CourseID,
		quiz:         p.Quiz,
		questions:    p.Questions.Questions,
		degraded:     p.Questions.Degraded,
		state:        StateNotStarted,
		answers:      make(map[int]int),
		flags:        make(map[int]struct{}),
		timeLimit:    limit,
		remaining:    limit,
		tickInterval: tick,
		now:          time.Now,
	}
}

// OnExpire 超时强制提交后回调，在会话锁之外执行
func (s *QuizSession) OnExpire(fn func(*QuizSession, *model.AttemptRecord)) {
	s.mu.Lock()
	s.onExpire = fn
	s.mu.Unlock()
}

func (s *QuizSession) UserID() string   { return s.userID }
func (s *QuizSession) CourseID() string { return s.courseID }

func (s *QuizSession) Quiz() model.QuizDescriptor { return s.quiz }

func (s *QuizSession) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *QuizSession) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining
}

// Active 进行中或暂停
func (s *QuizSession) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateInProgress || s.state == StatePaused
}

func (s *QuizSession) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateNotStarted {
		return fmt.Errorf("start quiz in state %s: %w", s.state, util.ErrSessionClosed)
	}
	s.state = StateInProgress
	s.startedAt = s.now()
	s.startTickerLocked()
	return nil
}

func (s *QuizSession) Answer(index, option int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpenLocked(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.questions) {
		return util.ErrQuestionIndex
	}
	if option < 0 || option >= len(s.questions[index].Options) {
		return util.ErrOptionIndex
	}
	s.answers[index] = option
	return nil
}

// ToggleFlag 返回切换后的标记状态
func (s *QuizSession) ToggleFlag(index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpenLocked(); err != nil {
		return false, err
	}
	if index < 0 || index >= len(s.questions) {
		return false, util.ErrQuestionIndex
	}
	if _, ok := s.flags[index]; ok {
		delete(s.flags, index)
		return false, nil
	}
	s.flags[index] = struct{}{}
	return true, nil
}

func (s *QuizSession) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpenLocked(); err != nil {
		return err
	}
	if s.state == StatePaused {
		return nil
	}
	s.state = StatePaused
	s.carry = s.now().Sub(s.tickStart)
	if s.carry < 0 {
		s.carry = 0
	}
	if s.carry > s.tickInterval {
		s.carry = s.tickInterval
	}
	s.stopTickerLocked()
	return nil
}

func (s *QuizSession) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpenLocked(); err != nil {
		return err
	}
	if s.state == StateInProgress {
		return nil
	}
	s.state = StateInProgress
	s.startTickerLocked()
	return nil
}

func (s *QuizSession) Submit() (*model.AttemptRecord, error) {
	s.mu.Lock()
	if err := s.checkOpenLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	record := s.finishLocked(false)
	onClose := s.onClose
	s.mu.Unlock()

	if onClose != nil {
		onClose(s)
	}
	return record, nil
}

// Exit 放弃本次作答，不生成记录
func (s *QuizSession) Exit() error {
	s.mu.Lock()
	if err := s.checkOpenLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = StateExited
	s.stopTickerLocked()
	onClose := s.onClose
	s.mu.Unlock()

	if onClose != nil {
		onClose(s)
	}
	return nil
}

// Tick 倒计时走一格，归零时强制提交
func (s *QuizSession) Tick() {
	s.tick(0)
}

// tick 返回 false 表示计时 goroutine 应该退出。gen 为 0 时不校验来源
func (s *QuizSession) tick(gen uint64) bool {
	s.mu.Lock()
	if s.state != StateInProgress || (gen != 0 && gen != s.gen) {
		s.mu.Unlock()
		return false
	}
	s.tickStart = s.now()
	s.carry = 0
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining > 0 {
		s.mu.Unlock()
		return true
	}

	record := s.finishLocked(true)
	onExpire := s.onExpire
	onClose := s.onClose
	s.mu.Unlock()

	if onExpire != nil {
		onExpire(s, record)
	}
	if onClose != nil {
		onClose(s)
	}
	return false
}

// Done 当前倒计时 goroutine 退出时关闭；未启动过时返回已关闭的 channel
func (s *QuizSession) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return s.done
}

func (s *QuizSession) Record() *model.AttemptRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

func (s *QuizSession) Result() *SubmissionResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

func (s *QuizSession) setResult(r *SubmissionResult) {
	s.mu.Lock()
	s.result = r
	s.mu.Unlock()
}

func (s *QuizSession) checkOpenLocked() error {
	switch {
	case s.state.Terminal():
		return util.ErrSessionClosed
	case s.state == StateNotStarted:
		return util.ErrNoActiveSession
	}
	return nil
}

func (s *QuizSession) startTickerLocked() {
	if s.stop != nil {
		return
	}
	stop := make(chan struct{})
	done := make(chan struct{})
	s.stop = stop
	s.done = done
	s.gen++
	gen := s.gen
	interval := s.tickInterval
	// 暂停前已走过的部分计入恢复后的第一格
	first := interval - s.carry
	s.tickStart = s.now().Add(-s.carry)

	go func() {
		defer close(done)

		timer := time.NewTimer(first)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-timer.C:
		}
		if !s.tick(gen) {
			return
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if !s.tick(gen) {
					return
				}
			}
		}
	}()
}

func (s *QuizSession) stopTickerLocked() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	s.stop = nil
}

func (s *QuizSession) finishLocked(forced bool) *model.AttemptRecord {
	s.state = StateSubmitted
	s.stopTickerLocked()
	s.record = s.buildRecordLocked(forced)
	return s.record
}

func (s *QuizSession) buildRecordLocked(forced bool) *model.AttemptRecord {
	now := s.now()
	total := len(s.questions)
	correct := 0
	mistakes := make([]model.Mistake, 0)

	for i, q := range s.questions {
		ans, answered := s.answers[i]
		if answered && ans == q.CorrectAnswer {
			correct++
			continue
		}
		userAnswer := notAnswered
		if answered {
			userAnswer = optionText(q, ans)
		}
		mistakes = append(mistakes, model.Mistake{
			QuestionIndex: i,
			Question:      q.Question,
			UserAnswer:    userAnswer,
			CorrectAnswer: optionText(q, q.CorrectAnswer),
			Explanation:   q.Explanation,
		})
	}

	answers := make(map[int]int, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	flagged := make([]int, 0, len(s.flags))
	for k := range s.flags {
		flagged = append(flagged, k)
	}
	sort.Ints(flagged)

	return &model.AttemptRecord{
		CourseID:         s.courseID,
		UserID:           s.userID,
		AttemptKey:       fmt.Sprintf("attempt_%d", now.UnixMilli()),
		QuizID:           s.quiz.ID,
		Difficulty:       s.quiz.Difficulty,
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		WrongAnswers:     total - correct,
		Score:            Score(total, correct),
		TimeTakenSeconds: s.timeLimit - s.remaining,
		TimeLimitSeconds: s.timeLimit,
		Mistakes:         mistakes,
		Answers:          answers,
		FlaggedQuestions: flagged,
		Degraded:         s.degraded,
		Forced:           forced,
		Timestamp:        now,
	}
}

func optionText(q model.Question, index int) string {
	if index < 0 || index >= len(q.Options) {
		return notAnswered
	}
	return q.Options[index]
}

type QuestionView struct {
	Index    int      `json:"index"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// SessionView 返回给客户端的会话快照，不包含正确答案
type SessionView struct {
	CourseID         string            `json:"courseId"`
	QuizID           string            `json:"quizId"`
	Title            string            `json:"title"`
	Difficulty       model.Difficulty  `json:"difficulty"`
	State            SessionState      `json:"state"`
	RemainingSeconds int               `json:"remainingSeconds"`
	TimeLimitSeconds int               `json:"timeLimitSeconds"`
	Degraded         bool              `json:"degraded"`
	Questions        []QuestionView    `json:"questions"`
	Answers          map[int]int       `json:"answers"`
	Flagged          []int             `json:"flaggedQuestions"`
	Result           *SubmissionResult `json:"result,omitempty"`
}

func (s *QuizSession) View() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()

	questions := make([]QuestionView, len(s.questions))
	for i, q := range s.questions {
		questions[i] = QuestionView{Index: i, Question: q.Question, Options: q.Options}
	}
	answers := make(map[int]int, len(s.answers))
	for k, v := range s.answers {
		answers[k] = v
	}
	flagged := make([]int, 0, len(s.flags))
	for k := range s.flags {
		flagged = append(flagged, k)
	}
	sort.Ints(flagged)

	return SessionView{
		CourseID:         s.courseID,
		QuizID:           s.quiz.ID,
		Title:            s.quiz.Title,
		Difficulty:       s.quiz.Difficulty,
		State:            s.state,
		RemainingSeconds: s.remaining,
		TimeLimitSeconds: s.timeLimit,
		Degraded:         s.degraded,
		Questions:        questions,
		Answers:          answers,
		Flagged:          flagged,
		Result:           s.result,
	}
}

// SessionManager 每个用户同一时间只能有一个进行中的测验
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*QuizSession
	tick     time.Duration
}

func NewSessionManager(tick time.Duration) *SessionManager {
	if tick <= 0 {
		tick = time.Second
	}
	return &SessionManager{
		sessions: make(map[string]*QuizSession),
		tick:     tick,
	}
}

// SetTickInterval 只影响之后新建的会话
func (m *SessionManager) SetTickInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	m.mu.Lock()
	m.tick = d
	m.mu.Unlock()
}

// Begin 创建并启动会话。已结束的旧会话会被替换
func (m *SessionManager) Begin(p SessionParams, onExpire func(*QuizSession, *model.AttemptRecord)) (*QuizSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.sessions[p.UserID]; ok && existing.Active() {
		return nil, util.ErrQuizInProgress
	}

	if p.TickInterval <= 0 {
		p.TickInterval = m.tick
	}
	s := NewQuizSession(p)
	s.onExpire = onExpire
	s.onClose = func(*QuizSession) {
		monitoring.ActiveSessions.Dec()
	}
	if err := s.Start(); err != nil {
		return nil, err
	}
	m.sessions[p.UserID] = s
	monitoring.ActiveSessions.Inc()
	return s, nil
}

// Current 返回用户最近一次会话（可能已结束）
func (m *SessionManager) Current(userID string) (*QuizSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		return nil, util.ErrNoActiveSession
	}
	return s, nil
}

// Shutdown 退出所有进行中的会话，停止全部倒计时
func (m *SessionManager) Shutdown() {
	m.mu.Lock()
	sessions := make([]*QuizSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*QuizSession)
	m.mu.Unlock()

	for _, s := range sessions {
		_ = s.Exit()
	}
}

package controller

import (
	"strconv"

	"study_quiz_backend/internal/service"
	"study_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService    *service.QuizService
	StorageService *service.StorageService
}

func NewQuizController(quizService *service.QuizService, storageService *service.StorageService) *QuizController {
	return &QuizController{QuizService: quizService, StorageService: storageService}
}

// @Summary 课程测验列表
// @Description 根据作答历史和学习深度推导测验，并标记是否锁定
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=[]service.CatalogEntry}
// @Router /api/courses/{courseId}/quizzes [get]
func (c *QuizController) Catalog(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	entries, err := c.QuizService.Catalog(ctx.Request.Context(), userID, ctx.Param("courseId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

// @Summary 开始测验
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param quizId path string true "测验ID"
// @Success 201 {object} util.Response{data=service.SessionView}
// @Failure 403 {object} util.Response "测验未解锁"
// @Failure 409 {object} util.Response "已有进行中的测验"
// @Router /api/courses/{courseId}/quizzes/{quizId}/start [post]
func (c *QuizController) Start(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	view, err := c.QuizService.Start(ctx.Request.Context(), userID, ctx.Param("courseId"), ctx.Param("quizId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// @Summary 当前测验会话
// @Description 不返回正确答案；结束后附带结算结果
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.SessionView}
// @Router /api/quiz-session [get]
func (c *QuizController) Session(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	view, err := c.QuizService.Session(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

type AnswerRequest struct {
	Option *int `json:"option" binding:"required"`
}

// @Summary 作答
// @Description 重复作答覆盖之前的选项
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param index path int true "题目下标"
// @Param body body AnswerRequest true "选项下标"
// @Success 200 {object} util.Response{data=service.SessionView}
// @Router /api/quiz-session/answers/{index} [put]
func (c *QuizController) Answer(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		util.BadRequest(ctx, "invalid index")
		return
	}

	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.QuizService.Answer(userID, index, *req.Option)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 标记/取消标记题目
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param index path int true "题目下标"
// @Success 200 {object} util.Response
// @Router /api/quiz-session/flags/{index} [post]
func (c *QuizController) ToggleFlag(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		util.BadRequest(ctx, "invalid index")
		return
	}

	flagged, err := c.QuizService.ToggleFlag(userID, index)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"index": index, "flagged": flagged})
}

// @Summary 暂停测验
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.SessionView}
// @Router /api/quiz-session/pause [post]
func (c *QuizController) Pause(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	view, err := c.QuizService.Pause(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 继续测验
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.SessionView}
// @Router /api/quiz-session/resume [post]
func (c *QuizController) Resume(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	view, err := c.QuizService.Resume(userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 提交测验
// @Description 保存失败时仍返回结算结果，saved=false
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.SubmissionResult}
// @Router /api/quiz-session/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	result, err := c.QuizService.Submit(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 退出测验
// @Description 放弃作答，不保存记录
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/quiz-session/exit [post]
func (c *QuizController) Exit(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	if err := c.QuizService.Exit(userID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"exited": true})
}

// @Summary 作答历史
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/courses/{courseId}/attempts [get]
func (c *QuizController) History(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	result, err := c.QuizService.History(ctx.Request.Context(), userID, ctx.Param("courseId"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 导出作答报告
// @Description 生成 JSON 报告并上传到对象存储
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param attemptId path string true "作答记录ID"
// @Success 200 {object} util.Response{data=service.ReportExport}
// @Router /api/courses/{courseId}/attempts/{attemptId}/export [post]
func (c *QuizController) Export(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	attempt, err := c.QuizService.Attempt(ctx.Request.Context(), userID, ctx.Param("courseId"), ctx.Param("attemptId"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	export, err := c.StorageService.ExportAttempt(ctx.Request.Context(), attempt)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, export)
}

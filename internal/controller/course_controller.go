package controller

import (
	"study_quiz_backend/internal/service"
	"study_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// @Summary 创建或更新课程结构
// @Description 课程结构原样保存，读取时规范化为单元列表
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param course body service.CourseUpsertRequest true "课程结构"
// @Success 200 {object} util.Response{data=service.CourseView}
// @Router /api/courses/{courseId} [put]
func (c *CourseController) Upsert(ctx *gin.Context) {
	if _, ok := currentUser(ctx); !ok {
		return
	}

	var req service.CourseUpsertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.CourseService.Upsert(ctx.Request.Context(), ctx.Param("courseId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 获取课程单元
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseView}
// @Router /api/courses/{courseId} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	if _, ok := currentUser(ctx); !ok {
		return
	}

	view, err := c.CourseService.Get(ctx.Request.Context(), ctx.Param("courseId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

type StudyDepthRequest struct {
	Depth *int `json:"depth" binding:"required"`
}

// @Summary 设置学习深度
// @Description 深度由学习模块推导，超出 0-3 的值会被截断
// @Tags 课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param body body StudyDepthRequest true "学习深度"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId}/study-depth [put]
func (c *CourseController) SetStudyDepth(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req StudyDepthRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	depth, err := c.CourseService.SetStudyDepth(ctx.Request.Context(), userID, ctx.Param("courseId"), *req.Depth)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"depth": depth})
}

package controller

import (
	"study_quiz_backend/internal/service"
	"study_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DoubtController struct {
	doubtService *service.DoubtService
}

func NewDoubtController(doubtService *service.DoubtService) *DoubtController {
	return &DoubtController{doubtService: doubtService}
}

// Ask 课程答疑
// @Summary 课程答疑
// @Description 结合课程单元调用大模型回答
// @Tags 答疑
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param request body service.DoubtRequest true "问题内容"
// @Success 200 {object} util.Response{data=service.DoubtResponse}
// @Router /api/courses/{courseId}/doubts [post]
func (c *DoubtController) Ask(ctx *gin.Context) {
	if _, ok := currentUser(ctx); !ok {
		return
	}

	var req service.DoubtRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.doubtService.Ask(ctx.Request.Context(), ctx.Param("courseId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// AskStream 流式答疑
// @Summary 课程答疑（SSE）
// @Tags 答疑
// @Accept json
// @Produce text/event-stream
// @Security BearerAuth
// @Param courseId path string true "课程ID"
// @Param request body service.DoubtRequest true "问题内容"
// @Router /api/courses/{courseId}/doubts/stream [post]
func (c *DoubtController) AskStream(ctx *gin.Context) {
	if _, ok := currentUser(ctx); !ok {
		return
	}

	var req service.DoubtRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	stream, source, errChan, err := c.doubtService.AskStream(ctx.Request.Context(), ctx.Param("courseId"), req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	// 设置SSE响应头
	ctx.Header("Content-Type", "text/event-stream")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	ctx.SSEvent("source", source)
	ctx.Writer.Flush()

	for content := range stream {
		ctx.SSEvent("message", content)
		ctx.Writer.Flush()
	}

	if err := <-errChan; err != nil {
		ctx.SSEvent("error", err.Error())
		ctx.Writer.Flush()
	}

	ctx.SSEvent("end", "done")
	ctx.Writer.Flush()
}

package controller

import (
	"errors"
	"net/http"

	"study_quiz_backend/internal/middleware"
	"study_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError 把业务错误映射成HTTP状态码，其余按500处理并记录日志
func respondError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrNoActiveSession):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrQuizLocked):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrQuizInProgress),
		errors.Is(err, util.ErrSessionClosed):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrQuestionIndex),
		errors.Is(err, util.ErrOptionIndex),
		errors.Is(err, util.ErrUnitIndex),
		errors.Is(err, util.ErrInvalidStructure):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
		util.InternalServerError(ctx)
	}
}

func currentUser(ctx *gin.Context) (string, bool) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
	}
	return userID, ok
}

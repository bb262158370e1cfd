package controller

import (
	"strconv"

	"study_quiz_backend/internal/service"
	"study_quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatsService
	// 排行榜默认条数，配置热更新时可改
	LeaderboardSize func() int
}

func NewStatsController(statsService *service.StatsService, leaderboardSize func() int) *StatsController {
	return &StatsController{StatsService: statsService, LeaderboardSize: leaderboardSize}
}

// @Summary 我的学习统计
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.StatsView}
// @Router /api/stats [get]
func (c *StatsController) Get(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	stats, err := c.StatsService.Get(ctx.Request.Context(), userID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// @Summary XP 排行榜
// @Tags 统计
// @Produce json
// @Security BearerAuth
// @Param limit query int false "条数"
// @Success 200 {object} util.Response{data=[]service.LeaderboardEntry}
// @Router /api/leaderboard [get]
func (c *StatsController) Leaderboard(ctx *gin.Context) {
	if _, ok := currentUser(ctx); !ok {
		return
	}

	limit := 10
	if c.LeaderboardSize != nil {
		limit = c.LeaderboardSize()
	}
	if l, err := strconv.Atoi(ctx.Query("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}

	entries, err := c.StatsService.Leaderboard(ctx.Request.Context(), limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, entries)
}

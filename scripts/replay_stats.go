// 根据作答历史重新计算用户统计（XP、等级、平均分）并刷新排行榜
//
// 经验值公式调整后，或 user_stats 与作答记录不一致时手动执行。
//
// 用法: go run scripts/replay_stats.go [-user <userID>]

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"study_quiz_backend/internal/config"
	"study_quiz_backend/internal/repository"
	"study_quiz_backend/internal/service"
	"study_quiz_backend/pkg/database"
	"study_quiz_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	userID := flag.String("user", "", "只回放指定用户，默认全部")
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	flag.Parse()

	data, err := os.ReadFile(*configPath)
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	var leaderboard service.Leaderboard
	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			log.Printf("Redis 不可用，跳过排行榜刷新: %v", err)
		} else {
			defer rdb.Close()
			leaderboard = service.NewRedisLeaderboard(rdb)
		}
	}

	stats := service.NewStatsService(
		repository.NewStatsRepository(db),
		repository.NewAttemptRepository(db),
		leaderboard,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *userID != "" {
		view, err := stats.Replay(ctx, *userID)
		if err != nil {
			log.Fatalf("回放失败: %v", err)
		}
		log.Printf("用户 %s: level=%d xp=%d quizzes=%d", view.UserID, view.Level, view.XP, view.TotalQuizzes)
		return
	}

	log.Println("开始回放全部用户统计...")
	n, err := stats.ReplayAll(ctx)
	if err != nil {
		log.Fatalf("回放中断（已完成 %d 个用户）: %v", n, err)
	}
	log.Printf("完成！共 %d 个用户", n)
}

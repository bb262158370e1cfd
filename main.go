// @title Study Quiz 后端 API
// @version 1.0
// @description 课程测验进阶、计分与经验值服务。

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"
	"path/filepath"

	"study_quiz_backend/internal/app"
	"study_quiz_backend/internal/config"
	"study_quiz_backend/pkg/configwatcher"
	"study_quiz_backend/pkg/logger"

	"go.uber.org/zap"
)

const configDir = "configs"

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	flag.Parse()

	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		logger.Log.Info("数据库迁移完成，退出程序")
		return
	}

	go func() {
		path := filepath.Join(configDir, "config.yaml")
		if err := configwatcher.WatchConfig(application.Context(), path, application.ReloadConfig); err != nil {
			logger.Log.Warn("配置热更新不可用", zap.Error(err))
		}
	}()

	application.Run()
}

package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/seed"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/sheet"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 初始化班表
	repo := sheet.NewRepository(cfg, dbpool)
	if err := seed.SeedSchedule(context.Background(), repo, cfg); err != nil {
		logger.Error("班表初始化失败", "error", err)
		os.Exit(1)
	}
}

package seed

import (
	"context"
	"log/slog"

	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/sheet"
)

// SeedSchedule 重建班表：第一行是日期标签（每个工作日占起止两列），
// 第二行是起止子表头，数据行从第三行开始，每位员工一行
func SeedSchedule(ctx context.Context, repo *sheet.Repository, cfg *config.Config) error {
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := repo.Reset(ctx); err != nil {
		return err
	}

	// 表头
	for i, day := range domain.Weekdays {
		startCol := cfg.Schedule.NameColumn + 1 + i*2
		if err := repo.WriteCell(ctx, 1, startCol, day); err != nil {
			return err
		}
		if err := repo.WriteCell(ctx, 2, startCol, "Start"); err != nil {
			return err
		}
		if err := repo.WriteCell(ctx, 2, startCol+1, "End"); err != nil {
			return err
		}
	}
	if err := repo.WriteCell(ctx, 1, cfg.Schedule.NameColumn, "Name"); err != nil {
		return err
	}

	// 数据行
	for i, name := range cfg.Seed.Employees {
		row := cfg.Schedule.HeaderRows + 1 + i
		if err := repo.WriteCell(ctx, row, cfg.Schedule.NameColumn, name); err != nil {
			return err
		}
	}

	slog.Info("班表初始化完成", "employees", len(cfg.Seed.Employees), "days", len(domain.Weekdays))
	return nil
}

package shiftservice

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/sheet"
)

// Service 是班表的记录存储：把一条结构化的排班请求变成一次满足
// 业务约束的表格写入。行列在每次调用时重新解析，不缓存任何坐标。
// 所有写操作串行经过同一把互斥锁，避免先检查后写入的竞态
type Service struct {
	cfg  *config.Config
	grid sheet.Grid

	mu sync.Mutex
}

func NewService(cfg *config.Config, grid sheet.Grid) *Service {
	return &Service{
		cfg:  cfg,
		grid: grid,
	}
}

// Create 为员工在指定工作日登记一个班次。
// 返回的 Outcome 是业务结果，error 只代表底层表格的基础设施故障
func (s *Service) Create(ctx context.Context, name string, day string, startTime string, endTime string) (domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, outcome, err := s.resolveRow(ctx, name)
	if err != nil || outcome != "" {
		return outcome, err
	}

	if !isRecognizedDay(day) {
		return domain.OutcomeInvalidDay, nil
	}
	if outcome := s.validateTimes(startTime, endTime); outcome != "" {
		return outcome, nil
	}

	col, outcome, err := s.resolveDayColumn(ctx, day)
	if err != nil || outcome != "" {
		return outcome, err
	}

	// 已有班次不允许静默覆盖，必须先删除再登记
	existing, err := s.grid.ReadCell(ctx, row, col)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(existing) != "" {
		return domain.OutcomeEntryExists, nil
	}

	reached, err := s.dayLimitReached(ctx, col)
	if err != nil {
		return "", err
	}
	if reached {
		return domain.OutcomeDayLimitReached, nil
	}

	if err := s.grid.WriteCell(ctx, row, col, startTime); err != nil {
		return "", err
	}
	if err := s.grid.WriteCell(ctx, row, col+1, endTime); err != nil {
		return "", err
	}

	return domain.OutcomeUpdateSuccess, nil
}

// Delete 清空员工在指定工作日的班次。删除不存在的班次同样返回成功，
// 这样重复的删除请求是幂等的
func (s *Service) Delete(ctx context.Context, name string, day string) (domain.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, outcome, err := s.resolveRow(ctx, name)
	if err != nil || outcome != "" {
		return outcome, err
	}

	if !isRecognizedDay(day) {
		return domain.OutcomeInvalidDay, nil
	}

	col, outcome, err := s.resolveDayColumn(ctx, day)
	if err != nil || outcome != "" {
		return outcome, err
	}

	if err := s.grid.WriteCell(ctx, row, col, ""); err != nil {
		return "", err
	}
	if err := s.grid.WriteCell(ctx, row, col+1, ""); err != nil {
		return "", err
	}

	return domain.OutcomeDeleteSuccess, nil
}

// Read 返回员工在指定工作日已提交的班次。Outcome 为空串表示查询本身成功，
// 此时 record 为 nil 代表当天没有班次；内容一律从单元格回读，反映已提交的状态
func (s *Service) Read(ctx context.Context, name string, day string) (*domain.ShiftRecord, domain.Outcome, error) {
	row, outcome, err := s.resolveRow(ctx, name)
	if err != nil || outcome != "" {
		return nil, outcome, err
	}

	if !isRecognizedDay(day) {
		return nil, domain.OutcomeInvalidDay, nil
	}

	col, outcome, err := s.resolveDayColumn(ctx, day)
	if err != nil || outcome != "" {
		return nil, outcome, err
	}

	startTime, err := s.grid.ReadCell(ctx, row, col)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(startTime) == "" {
		return nil, "", nil
	}

	endTime, err := s.grid.ReadCell(ctx, row, col+1)
	if err != nil {
		return nil, "", err
	}
	storedName, err := s.grid.ReadCell(ctx, row, s.cfg.Schedule.NameColumn)
	if err != nil {
		return nil, "", err
	}

	return &domain.ShiftRecord{
		Name:      storedName,
		Day:       day,
		StartTime: startTime,
		EndTime:   endTime,
	}, "", nil
}

func (s *Service) resolveRow(ctx context.Context, name string) (int, domain.Outcome, error) {
	row, err := s.grid.FindRowByLabel(ctx, name)
	if err != nil {
		switch {
		case errors.Is(err, sheet.ErrLabelNotFound):
			return 0, domain.OutcomeInvalidName, nil
		case errors.Is(err, sheet.ErrAmbiguousLabel):
			return 0, domain.OutcomeAmbiguousName, nil
		default:
			return 0, "", err
		}
	}
	return row, "", nil
}

func (s *Service) resolveDayColumn(ctx context.Context, day string) (int, domain.Outcome, error) {
	col, err := s.grid.FindColumnByLabel(ctx, day)
	if err != nil {
		switch {
		case errors.Is(err, sheet.ErrLabelNotFound), errors.Is(err, sheet.ErrAmbiguousLabel):
			// 识别为工作日但在表头中找不到唯一的列对，同样按无效日期处理
			return 0, domain.OutcomeInvalidDay, nil
		default:
			return 0, "", err
		}
	}
	return col, "", nil
}

func (s *Service) validateTimes(startTime string, endTime string) domain.Outcome {
	startHour, err := parseTimeToHour(startTime)
	if err != nil {
		return domain.OutcomeInvalidTime
	}
	endHour, err := parseTimeToHour(endTime)
	if err != nil {
		return domain.OutcomeInvalidTime
	}

	if !isWithinWindow(startHour, s.cfg.Schedule.MinHour, s.cfg.Schedule.MaxHour) {
		return domain.OutcomeInvalidTime
	}
	if !isWithinWindow(endHour, s.cfg.Schedule.MinHour, s.cfg.Schedule.MaxHour) {
		return domain.OutcomeInvalidTime
	}
	if !isEndAfterStart(startHour, endHour) {
		return domain.OutcomeInvalidTime
	}

	return ""
}

// dayLimitReached 统计当天起始时间列里非空的数据行数量，表头行不计入
func (s *Service) dayLimitReached(ctx context.Context, col int) (bool, error) {
	values, err := s.grid.ReadColumn(ctx, col)
	if err != nil {
		return false, err
	}

	filled := 0
	for i, value := range values {
		if i < s.cfg.Schedule.HeaderRows {
			continue
		}
		if strings.TrimSpace(value) != "" {
			filled++
		}
	}

	return filled >= s.cfg.Schedule.DayLimit, nil
}

package shiftservice

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/sheet"
)

// memGrid 是测试用的内存表格，行为与 Postgres 实现保持一致
type memGrid struct {
	mu         sync.Mutex
	cells      map[[2]int]string
	maxRow     int
	headerRows int
	nameColumn int
}

var _ sheet.Grid = (*memGrid)(nil)

func newMemGrid(employees ...string) *memGrid {
	g := &memGrid{
		cells:      make(map[[2]int]string),
		headerRows: 2,
		nameColumn: 1,
	}

	// 第一行是日期标签，每个工作日占据相邻的起止两列
	for i, day := range domain.Weekdays {
		g.set(1, 2+i*2, day)
		g.set(2, 2+i*2, "Start")
		g.set(2, 2+i*2+1, "End")
	}
	for i, name := range employees {
		g.set(3+i, 1, name)
	}

	return g
}

func (g *memGrid) set(row int, col int, value string) {
	g.cells[[2]int{row, col}] = value
	if row > g.maxRow {
		g.maxRow = row
	}
}

func (g *memGrid) FindRowByLabel(_ context.Context, label string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	matches := make([]int, 0)
	for row := g.headerRows + 1; row <= g.maxRow; row++ {
		if sheet.NormalizeLabel(g.cells[[2]int{row, g.nameColumn}]) == sheet.NormalizeLabel(label) {
			matches = append(matches, row)
		}
	}

	switch len(matches) {
	case 0:
		return 0, sheet.ErrLabelNotFound
	case 1:
		return matches[0], nil
	default:
		return 0, sheet.ErrAmbiguousLabel
	}
}

func (g *memGrid) FindColumnByLabel(_ context.Context, label string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	matches := make([]int, 0)
	for col := 1; col <= 2+len(domain.Weekdays)*2; col++ {
		if v, ok := g.cells[[2]int{1, col}]; ok && sheet.NormalizeLabel(v) == sheet.NormalizeLabel(label) {
			matches = append(matches, col)
		}
	}

	switch len(matches) {
	case 0:
		return 0, sheet.ErrLabelNotFound
	case 1:
		return matches[0], nil
	default:
		return 0, sheet.ErrAmbiguousLabel
	}
}

func (g *memGrid) ReadCell(_ context.Context, row int, col int) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cells[[2]int{row, col}], nil
}

func (g *memGrid) WriteCell(_ context.Context, row int, col int, value string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.set(row, col, value)
	return nil
}

func (g *memGrid) ReadColumn(_ context.Context, col int) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	values := make([]string, g.maxRow)
	for row := 1; row <= g.maxRow; row++ {
		values[row-1] = g.cells[[2]int{row, col}]
	}
	return values, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Schedule.MinHour = 9
	cfg.Schedule.MaxHour = 18
	cfg.Schedule.DayLimit = 3
	cfg.Schedule.HeaderRows = 2
	cfg.Schedule.NameColumn = 1
	return cfg
}

func TestCreateWritesBothCells(t *testing.T) {
	grid := newMemGrid("Alice", "Bob")
	svc := NewService(testConfig(), grid)

	outcome, err := svc.Create(context.Background(), "Alice", "Monday", "9am", "5pm")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdateSuccess, outcome)

	start, _ := grid.ReadCell(context.Background(), 3, 2)
	end, _ := grid.ReadCell(context.Background(), 3, 3)
	assert.Equal(t, "9am", start)
	assert.Equal(t, "5pm", end)
}

func TestCreateRejectsUnknownEmployee(t *testing.T) {
	svc := NewService(testConfig(), newMemGrid("Alice"))

	outcome, err := svc.Create(context.Background(), "Mallory", "Monday", "9am", "5pm")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeInvalidName, outcome)
}

func TestCreateRejectsAmbiguousEmployee(t *testing.T) {
	// 两行经过归一化后是同一个标签
	svc := NewService(testConfig(), newMemGrid("Alice", "alice "))

	outcome, err := svc.Create(context.Background(), "Alice", "Monday", "9am", "5pm")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeAmbiguousName, outcome)
}

func TestCreateRejectsUnknownDay(t *testing.T) {
	svc := NewService(testConfig(), newMemGrid("Alice"))

	for _, day := range []string{"Sunday", "monday", "N/A", ""} {
		outcome, err := svc.Create(context.Background(), "Alice", day, "9am", "5pm")
		require.NoError(t, err)
		assert.Equal(t, domain.OutcomeInvalidDay, outcome, day)
	}
}

func TestCreateRejectsInvalidTimes(t *testing.T) {
	svc := NewService(testConfig(), newMemGrid("Alice"))

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"start before window", "8am", "5pm"},
		{"end after window", "9am", "7pm"},
		{"end equals start", "9am", "9am"},
		{"end before start", "5pm", "9am"},
		{"malformed start", "nine", "5pm"},
		{"malformed end", "9am", "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := svc.Create(context.Background(), "Alice", "Monday", tt.start, tt.end)
			require.NoError(t, err)
			assert.Equal(t, domain.OutcomeInvalidTime, outcome)
		})
	}
}

func TestCreateRejectsDuplicateEntry(t *testing.T) {
	grid := newMemGrid("Alice")
	svc := NewService(testConfig(), grid)
	ctx := context.Background()

	outcome, err := svc.Create(ctx, "Alice", "Monday", "9am", "5pm")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeUpdateSuccess, outcome)

	// 第二次登记被拒绝，且不改变已有的单元格
	outcome, err = svc.Create(ctx, "Alice", "Monday", "10am", "6pm")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeEntryExists, outcome)

	start, _ := grid.ReadCell(ctx, 3, 2)
	end, _ := grid.ReadCell(ctx, 3, 3)
	assert.Equal(t, "9am", start)
	assert.Equal(t, "5pm", end)
}

func TestCreateEnforcesDayLimit(t *testing.T) {
	grid := newMemGrid("Alice", "Bob", "Charlie", "Diana")
	svc := NewService(testConfig(), grid)
	ctx := context.Background()

	for _, name := range []string{"Alice", "Bob", "Charlie"} {
		outcome, err := svc.Create(ctx, name, "Monday", "9am", "5pm")
		require.NoError(t, err)
		require.Equal(t, domain.OutcomeUpdateSuccess, outcome)
	}

	outcome, err := svc.Create(ctx, "Diana", "Monday", "9am", "5pm")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDayLimitReached, outcome)

	start, _ := grid.ReadCell(ctx, 6, 2)
	assert.Empty(t, start)

	// 其他工作日不受影响
	outcome, err = svc.Create(ctx, "Diana", "Tuesday", "9am", "5pm")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeUpdateSuccess, outcome)
}

func TestDeleteThenCreateReusesCells(t *testing.T) {
	grid := newMemGrid("Alice")
	svc := NewService(testConfig(), grid)
	ctx := context.Background()

	outcome, err := svc.Create(ctx, "Alice", "Monday", "9am", "5pm")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeUpdateSuccess, outcome)

	outcome, err = svc.Delete(ctx, "Alice", "Monday")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeDeleteSuccess, outcome)

	outcome, err = svc.Create(ctx, "Alice", "Monday", "10am", "6pm")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeUpdateSuccess, outcome)

	start, _ := grid.ReadCell(ctx, 3, 2)
	end, _ := grid.ReadCell(ctx, 3, 3)
	assert.Equal(t, "10am", start)
	assert.Equal(t, "6pm", end)
}

func TestDeleteIsIdempotent(t *testing.T) {
	grid := newMemGrid("Alice")
	svc := NewService(testConfig(), grid)
	ctx := context.Background()

	outcome, err := svc.Delete(ctx, "Alice", "Monday")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeDeleteSuccess, outcome)

	start, _ := grid.ReadCell(ctx, 3, 2)
	end, _ := grid.ReadCell(ctx, 3, 3)
	assert.Empty(t, start)
	assert.Empty(t, end)
}

func TestDeleteValidatesDay(t *testing.T) {
	svc := NewService(testConfig(), newMemGrid("Alice"))

	outcome, err := svc.Delete(context.Background(), "Alice", "Someday")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeInvalidDay, outcome)
}

func TestReadReturnsCommittedRecord(t *testing.T) {
	svc := NewService(testConfig(), newMemGrid("Alice"))
	ctx := context.Background()

	outcome, err := svc.Create(ctx, "Alice", "Wednesday", "10am", "4pm")
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeUpdateSuccess, outcome)

	record, readOutcome, err := svc.Read(ctx, "alice", "Wednesday")
	require.NoError(t, err)
	require.Empty(t, readOutcome)
	require.NotNil(t, record)
	assert.Equal(t, "Alice", record.Name)
	assert.Equal(t, "Wednesday", record.Day)
	assert.Equal(t, "10am", record.StartTime)
	assert.Equal(t, "4pm", record.EndTime)
}

func TestReadWithoutRecord(t *testing.T) {
	svc := NewService(testConfig(), newMemGrid("Alice"))

	record, outcome, err := svc.Read(context.Background(), "Alice", "Friday")
	require.NoError(t, err)
	assert.Empty(t, outcome)
	assert.Nil(t, record)
}

func TestConcurrentCreatesSameTarget(t *testing.T) {
	grid := newMemGrid("Alice")
	svc := NewService(testConfig(), grid)
	ctx := context.Background()

	const workers = 8
	outcomes := make([]domain.Outcome, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = svc.Create(ctx, "Alice", "Monday", "9am", "5pm")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	successes := 0
	for _, outcome := range outcomes {
		switch outcome {
		case domain.OutcomeUpdateSuccess:
			successes++
		case domain.OutcomeEntryExists:
		default:
			t.Fatalf("未预期的结果: %s", outcome)
		}
	}
	assert.Equal(t, 1, successes)
}

func TestConcurrentCreatesRespectDayLimit(t *testing.T) {
	grid := newMemGrid("Alice", "Bob", "Charlie", "Diana", "Eve")
	svc := NewService(testConfig(), grid)
	ctx := context.Background()

	names := []string{"Alice", "Bob", "Charlie", "Diana", "Eve"}
	outcomes := make([]domain.Outcome, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			outcomes[i], errs[i] = svc.Create(ctx, name, "Friday", "9am", "5pm")
		}(i, name)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	successes := 0
	for _, outcome := range outcomes {
		switch outcome {
		case domain.OutcomeUpdateSuccess:
			successes++
		case domain.OutcomeDayLimitReached:
		default:
			t.Fatalf("未预期的结果: %s", outcome)
		}
	}
	assert.Equal(t, 3, successes)
}

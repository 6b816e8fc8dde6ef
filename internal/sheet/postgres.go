package sheet

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/config"
)

// Repository 以 Postgres 中的 grid_cells 表实现 Grid 契约
type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

var _ Grid = (*Repository)(nil)

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// EnsureSchema 建表，由 seed 程序在写入班表之前调用
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS grid_cells (
			row_index INT NOT NULL,
			col_index INT NOT NULL,
			value TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (row_index, col_index)
		)
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query)
	return err
}

// Reset 清空整张班表
func (r *Repository) Reset(ctx context.Context) error {
	query := `
		TRUNCATE grid_cells
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query)
	return err
}

func (r *Repository) FindRowByLabel(ctx context.Context, label string) (int, error) {
	// 只在姓名列的数据行中查找，表头行不参与匹配
	query := `
		SELECT row_index FROM grid_cells
		WHERE col_index = $1 AND row_index > $2 AND lower(trim(value)) = $3
		ORDER BY row_index
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, r.cfg.Schedule.NameColumn, r.cfg.Schedule.HeaderRows, NormalizeLabel(label))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	matches := make([]int, 0)
	for rows.Next() {
		var rowIndex int
		if err := rows.Scan(&rowIndex); err != nil {
			return 0, err
		}
		matches = append(matches, rowIndex)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	switch len(matches) {
	case 0:
		return 0, ErrLabelNotFound
	case 1:
		return matches[0], nil
	default:
		return 0, ErrAmbiguousLabel
	}
}

func (r *Repository) FindColumnByLabel(ctx context.Context, label string) (int, error) {
	// 日期标签写在第一行每个列对的起始列上
	query := `
		SELECT col_index FROM grid_cells
		WHERE row_index = 1 AND lower(trim(value)) = $1
		ORDER BY col_index
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, NormalizeLabel(label))
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	matches := make([]int, 0)
	for rows.Next() {
		var colIndex int
		if err := rows.Scan(&colIndex); err != nil {
			return 0, err
		}
		matches = append(matches, colIndex)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	switch len(matches) {
	case 0:
		return 0, ErrLabelNotFound
	case 1:
		return matches[0], nil
	default:
		return 0, ErrAmbiguousLabel
	}
}

func (r *Repository) ReadCell(ctx context.Context, row int, col int) (string, error) {
	query := `
		SELECT value FROM grid_cells WHERE row_index = $1 AND col_index = $2
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var value string
	if err := r.dbpool.QueryRowContext(ctx, query, row, col).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// 从未写入过的单元格视为空单元格
			return "", nil
		}
		return "", err
	}

	return value, nil
}

func (r *Repository) WriteCell(ctx context.Context, row int, col int, value string) error {
	query := `
		INSERT INTO grid_cells (row_index, col_index, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (row_index, col_index) DO UPDATE SET value = EXCLUDED.value
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, row, col, value)
	return err
}

func (r *Repository) ReadColumn(ctx context.Context, col int) ([]string, error) {
	// 先取整张表的最大行号，保证返回的列是稠密的
	maxRowQuery := `
		SELECT COALESCE(MAX(row_index), 0) FROM grid_cells
	`
	query := `
		SELECT row_index, value FROM grid_cells WHERE col_index = $1 ORDER BY row_index
	`

	ctx, cancel := context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var maxRow int
	if err := r.dbpool.QueryRowContext(ctx, maxRowQuery).Scan(&maxRow); err != nil {
		return nil, err
	}

	values := make([]string, maxRow)

	rows, err := r.dbpool.QueryContext(ctx, query, col)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var rowIndex int
		var value string
		if err := rows.Scan(&rowIndex, &value); err != nil {
			return nil, err
		}
		values[rowIndex-1] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return values, nil
}

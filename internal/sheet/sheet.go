package sheet

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrLabelNotFound  = errors.New("标签不存在")
	ErrAmbiguousLabel = errors.New("标签匹配到多个结果")
)

// Grid 是记录存储对底层二维表格的最小依赖。
// 行列均为从 1 开始的下标，单元格内容一律是字符串，空串表示空单元格。
type Grid interface {
	// FindRowByLabel 在姓名列的数据行中查找标签对应的行，
	// 找不到返回 ErrLabelNotFound，匹配到多行返回 ErrAmbiguousLabel
	FindRowByLabel(ctx context.Context, label string) (int, error)
	// FindColumnByLabel 在表头行中查找标签对应的列
	FindColumnByLabel(ctx context.Context, label string) (int, error)
	ReadCell(ctx context.Context, row int, col int) (string, error)
	WriteCell(ctx context.Context, row int, col int, value string) error
	// ReadColumn 返回整列内容，按行号排列，缺失的单元格以空串填充
	ReadColumn(ctx context.Context, col int) ([]string, error)
}

// NormalizeLabel 是行列标签的统一归一化规则：去除首尾空白并小写化。
// 查找与写入使用同一条规则，避免旧版子串匹配带来的歧义命中
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

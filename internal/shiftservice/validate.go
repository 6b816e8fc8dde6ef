package shiftservice

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/domain"
)

var errTimeFormat = errors.New("时间格式不正确")

// parseTimeToHour 将 "9am"、"12pm" 这类 12 小时制时间转换成 24 小时制的整点。
// 只接受一到两位数字加 am/pm 后缀，12am 转换为 0，12pm 保持 12
func parseTimeToHour(value string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(value))

	var pm bool
	switch {
	case strings.HasSuffix(s, "am"):
		pm = false
	case strings.HasSuffix(s, "pm"):
		pm = true
	default:
		return 0, errTimeFormat
	}

	digits := s[:len(s)-2]
	if len(digits) < 1 || len(digits) > 2 {
		return 0, errTimeFormat
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, errTimeFormat
		}
	}

	hour, err := strconv.Atoi(digits)
	if err != nil {
		return 0, errTimeFormat
	}

	if pm && hour != 12 {
		hour += 12
	}
	if !pm && hour == 12 {
		hour = 0
	}

	return hour, nil
}

func isWithinWindow(hour int, minHour int, maxHour int) bool {
	return hour >= minHour && hour <= maxHour
}

func isEndAfterStart(startHour int, endHour int) bool {
	return endHour > startHour
}

func isRecognizedDay(day string) bool {
	return slices.Contains(domain.Weekdays, day)
}

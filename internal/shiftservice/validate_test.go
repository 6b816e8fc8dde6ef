package shiftservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeToHour(t *testing.T) {
	tests := []struct {
		input string
		hour  int
	}{
		{"12am", 0},
		{"1am", 1},
		{"9am", 9},
		{"11am", 11},
		{"12pm", 12},
		{"1pm", 13},
		{"5pm", 17},
		{"6pm", 18},
		{"11pm", 23},
		{" 9AM ", 9},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			hour, err := parseTimeToHour(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.hour, hour)
		})
	}
}

func TestParseTimeToHourRejectsMalformedInput(t *testing.T) {
	inputs := []string{"", "9", "am", "pm", "9:30am", "abcpm", "9xm", "100pm", "-1am", "N/A"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := parseTimeToHour(input)
			assert.ErrorIs(t, err, errTimeFormat)
		})
	}
}

func TestIsWithinWindow(t *testing.T) {
	assert.True(t, isWithinWindow(9, 9, 18))
	assert.True(t, isWithinWindow(18, 9, 18))
	assert.True(t, isWithinWindow(12, 9, 18))
	assert.False(t, isWithinWindow(8, 9, 18))
	assert.False(t, isWithinWindow(19, 9, 18))
	assert.False(t, isWithinWindow(0, 9, 18))
}

func TestIsEndAfterStart(t *testing.T) {
	assert.True(t, isEndAfterStart(9, 17))
	assert.False(t, isEndAfterStart(9, 9))
	assert.False(t, isEndAfterStart(17, 9))
}

func TestIsRecognizedDay(t *testing.T) {
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"} {
		assert.True(t, isRecognizedDay(day), day)
	}
	for _, day := range []string{"Saturday", "Sunday", "monday", "Mon", "", "N/A"} {
		assert.False(t, isRecognizedDay(day), day)
	}
}

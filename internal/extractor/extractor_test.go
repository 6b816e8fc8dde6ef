package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/shift-chatbot/backend/internal/domain"
)

func TestDecodeCandidates(t *testing.T) {
	data := []byte(`{
		"shifts": [
			{"action": "add", "day": "Monday", "start_time": "9am", "end_time": "5pm"},
			{"action": "delete", "day": "Friday", "start_time": "N/A", "end_time": "N/A"}
		]
	}`)

	candidates, err := decodeCandidates(data)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, domain.ShiftCandidate{Action: "add", Day: "Monday", StartTime: "9am", EndTime: "5pm"}, candidates[0])
	assert.Equal(t, domain.ShiftCandidate{Action: "delete", Day: "Friday", StartTime: "N/A", EndTime: "N/A"}, candidates[1])
}

func TestDecodeCandidatesEmptyList(t *testing.T) {
	candidates, err := decodeCandidates([]byte(`{"shifts": []}`))
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestDecodeCandidatesMissingKey(t *testing.T) {
	candidates, err := decodeCandidates([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestDecodeCandidatesMalformedJSON(t *testing.T) {
	_, err := decodeCandidates([]byte(`not json`))
	assert.Error(t, err)
}

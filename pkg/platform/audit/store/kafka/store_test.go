package kafka

import (
	"encoding/json"
	"testing"
	"time"

	audit "sentencer/pkg/platform/audit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresBrokersAndTopic(t *testing.T) {
	_, err := New(nil, "sentencer.audit")
	require.Error(t, err)

	_, err = New([]string{"localhost:9092"}, "")
	require.Error(t, err)
}

func TestNewRecord(t *testing.T) {
	ts := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	record, err := newRecord(audit.Event{
		Category:  audit.CategoryCompliance,
		Timestamp: ts,
		Subject:   "abc",
		Action:    string(audit.EventComputationCompleted),
		Decision:  "computed",
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", string(record.Key))
	require.Len(t, record.Headers, 2)
	assert.Equal(t, "category", record.Headers[0].Key)
	assert.Equal(t, string(audit.CategoryCompliance), string(record.Headers[0].Value))
	assert.Equal(t, string(audit.EventComputationCompleted), string(record.Headers[1].Value))

	var event audit.Event
	require.NoError(t, json.Unmarshal(record.Value, &event))
	assert.Equal(t, "abc", event.Subject)
	assert.Equal(t, ts, event.Timestamp)
	assert.Equal(t, "computed", event.Decision)
}

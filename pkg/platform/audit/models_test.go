package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditEventCategory(t *testing.T) {
	assert.Equal(t, CategoryCompliance, EventComputationCompleted.Category())
	assert.Equal(t, CategoryCompliance, EventComputationDefaulted.Category())
	assert.Equal(t, CategoryOperations, EventBatchCompleted.Category())
	assert.Equal(t, CategoryOperations, AuditEvent("unknown").Category())
}

package binutil

import (
	"testing"

	"github.com/bmizerany/assert"
)

func TestLogOutputs(t *testing.T) {
	assert.Equal(t, []string{"lumberjack:gwagent.log", "stderr"}, LogOutputs("gwagent.log", true))
	assert.Equal(t, []string{"stderr"}, LogOutputs("", true))
	assert.Equal(t, []string{"lumberjack:gwagent.log"}, LogOutputs("gwagent.log", false))
	assert.Equal(t, 0, len(LogOutputs("", false)))
}

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func withObserved(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, observed := observer.New(zap.DebugLevel)
	prev := Get()
	Set(zap.New(core).Sugar())
	t.Cleanup(func() { Set(prev) })
	return observed
}

func TestLogLevels(t *testing.T) {
	t.Parallel()
	logs := withObserved(t)

	Debug("debug msg")
	Infof("info %s", "formatted")
	Warnw("warn kv", "key", "val")
	Errorf("error %s", "formatted")

	require.Equal(t, 4, logs.Len())
	assert.Equal(t, "debug msg", logs.All()[0].Message)
	assert.Equal(t, "info formatted", logs.All()[1].Message)
	assert.Equal(t, "warn kv", logs.All()[2].Message)
	assert.Equal(t, "error formatted", logs.All()[3].Message)
}

func TestGetReturnsSingleton(t *testing.T) {
	t.Parallel()
	require.NotNil(t, Get())
}

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogUsableBeforeInit(t *testing.T) {
	require.NotNil(t, Log)
	assert.NotPanics(t, func() { Log.Info("before init") })
}

func TestSetLevel(t *testing.T) {
	require.NoError(t, SetLevel("warn"))
	assert.False(t, Log.Core().Enabled(-1))
	assert.True(t, Log.Core().Enabled(1))

	assert.Error(t, SetLevel("loud"))
}

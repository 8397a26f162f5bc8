package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitRejectsBadValues(t *testing.T) {
	assert.Error(t, Init(Config{Level: "loud"}))
	assert.Error(t, Init(Config{Format: "xml"}))
	assert.Error(t, Init(Config{File: FileConfig{Enabled: true}}))
}

func TestInitDefaults(t *testing.T) {
	assert.NoError(t, Init(Config{}))
	assert.NoError(t, Init(Config{Level: "debug", Format: "json"}))
	assert.True(t, GetLogger().IsDebugEnabled())
}

func TestWithFieldReturnsIndependentLogger(t *testing.T) {
	base := GetLogger()
	derived := base.WithField("component", "test")

	assert.NotNil(t, derived)
	// The derived logger is a new value; the base logger is untouched.
	assert.NotSame(t, base, derived)
}

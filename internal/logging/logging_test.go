package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_InfoLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(Options{Output: &buf})
	log.Info("network created", "network", "net1")
	log.V(1).Info("hidden detail")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "network created")
	assert.Contains(t, out, `"network": "net1"`)
	assert.NotContains(t, out, "hidden detail")
	assert.NotContains(t, out, "\x1b[")
}

func TestNew_Verbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := New(Options{Output: &buf, Verbose: true})
	log.V(1).Info("pulling image")

	assert.Contains(t, buf.String(), "pulling image")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestNew_ForcedColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	color := true
	log := New(Options{Output: &buf, Color: &color})
	log.Error(nil, "step failed")

	assert.Contains(t, buf.String(), "\x1b[")
}

package logging

import (
	"bytes"
	"os"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/apex/log"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func newEntry(level log.Level, msg string, fields log.Fields) *log.Entry {
	e := log.NewEntry(log.Log.(*log.Logger)).WithFields(fields)
	e.Level = level
	e.Message = msg
	return e
}

func TestHandleLog(t *testing.T) {
	var buf bytes.Buffer
	h := New(&buf, false)

	require.NoError(t, h.HandleLog(newEntry(log.WarnLevel, "porosity outside (0, 1]", log.Fields{
		"field":  "porosity",
		"source": "ignored",
	})))

	out := buf.String()
	assert.Contains(t, out, " WARN: porosity outside (0, 1]")
	assert.Contains(t, out, " field=porosity")
	assert.NotContains(t, out, "source=")
	assert.NotContains(t, out, "Stacktrace:")
}

func TestHandleLog_TimestampsAndStackTraces(t *testing.T) {
	var buf bytes.Buffer
	h := New(&buf, false)
	h.Timestamps = true
	h.StackTraces = true
	h.now = func() time.Time { return time.Date(2024, time.March, 4, 5, 6, 7, 0, time.UTC) }

	require.NoError(t, h.HandleLog(newEntry(log.ErrorLevel, "write failed", log.Fields{
		"error": errors.New("disk full"),
	})))

	out := buf.String()
	assert.Contains(t, out, "[Mar  4 05:06:07.000] write failed")
	assert.Contains(t, out, "Stacktrace:")
	assert.Contains(t, out, "disk full")
}

func TestConfigure(t *testing.T) {
	defer log.SetLevel(log.InfoLevel)

	var buf bytes.Buffer
	Configure(&buf, true)
	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	Configure(&buf, false)
	log.Debug("hidden")
	log.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, New("debug", "text").GetLevel())
	assert.Equal(t, logrus.WarnLevel, New("WARN", "text").GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("nonsense", "text").GetLevel())
}

func TestNewWithOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithOutput(&buf, "info", "json")

	l.WithField("id", 7).Info("category fetched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "category fetched", entry["msg"])
	assert.Equal(t, float64(7), entry["id"])
}

func TestDiscardIsSilent(t *testing.T) {
	l := Discard()
	assert.NotPanics(t, func() { l.Error("ignored") })
}

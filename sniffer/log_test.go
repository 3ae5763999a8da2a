package sniffer

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestDebugEnabled(t *testing.T) {
	l := logrus.New()
	l.SetOutput(io.Discard)

	l.SetLevel(logrus.InfoLevel)
	assert.False(t, debugEnabled(l))
	assert.False(t, debugEnabled(l.WithField("component", "sniffer")))

	l.SetLevel(logrus.DebugLevel)
	assert.True(t, debugEnabled(l))
	assert.True(t, debugEnabled(l.WithField("component", "sniffer")))
}

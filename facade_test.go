//go:build !tinygo && !baremetal

package nrfsniff

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedSession(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	var got []Timestamp
	s, board := NewSimulated()
	require.NoError(t, s.Init(Config{
		EventHandler: func(e *Event) { got = append(got, e.Timestamp) },
		Logger:       logger,
	}))
	require.NoError(t, s.Configure(DefaultParameters()))
	require.NoError(t, s.StartReceiving())

	board.Advance(DefaultReloadInterval*2 + 57)
	board.Radio.Air(DefaultParameters().Address, []byte("hi"), -30)
	s.Poll()

	require.NoError(t, s.StopReceiving())
	assert.Equal(t, []Timestamp{Timestamp(DefaultReloadInterval*2 + 57)}, got)
	assert.Equal(t, StateIdle, s.State())
}

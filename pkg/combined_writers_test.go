package pkg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

var errDiskFull = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errDiskFull
}

func TestCombinedWriter_Write(t *testing.T) {
	terminal := bytes.NewBufferString("> ")
	logFile := &bytes.Buffer{}
	cw := NewCombinedWriter(terminal, logFile)

	for _, line := range []string{"set completed\n", "rest over\n"} {
		n, err := cw.Write([]byte(line))
		require.NoError(t, err)
		assert.Equal(t, 2*len(line), n)
	}

	assert.Equal(t, "> set completed\nrest over\n", terminal.String())
	assert.Equal(t, "set completed\nrest over\n", logFile.String())
}

func TestCombinedWriter_FailingWriter(t *testing.T) {
	logFile := &bytes.Buffer{}
	cw := NewCombinedWriter(failingWriter{}, logFile, failingWriter{})

	n, err := cw.Write([]byte("line"))
	assert.ErrorIs(t, err, errDiskFull)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Equal(t, 4, n)
	assert.Equal(t, "line", logFile.String())
}

func TestCombinedWriter_SkipsNil(t *testing.T) {
	cw := NewCombinedWriter(nil, &bytes.Buffer{}, nil)
	assert.Len(t, cw.Writers, 1)
}

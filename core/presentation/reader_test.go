package presentation

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	apperrors "github.com/hyperterse/covidcol/core/shared/errors"
)

func TestLineReader_ReadsLines(t *testing.T) {
	defer goleak.VerifyNone(t)

	lr := NewLineReader(strings.NewReader("uno\r\ndos\ntres"))
	ctx := context.Background()

	for _, want := range []string{"uno", "dos", "tres"} {
		got, err := lr.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := lr.ReadLine(ctx)
	assert.True(t, apperrors.IsInterrupted(err))
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, lr.Close())
	require.NoError(t, lr.Close())
}

func TestLineReader_CancelAbandonsPendingRead(t *testing.T) {
	defer goleak.VerifyNone(t)

	pr, pw := io.Pipe()
	lr := NewLineReader(pr)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := lr.ReadLine(ctx)
	assert.True(t, apperrors.IsInterrupted(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	go func() {
		_, _ = pw.Write([]byte("tarde\n"))
	}()

	got, err := lr.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tarde", got, "the abandoned read is delivered to the next caller")

	require.NoError(t, pw.Close())
	_, err = lr.ReadLine(context.Background())
	assert.True(t, apperrors.IsInterrupted(err))

	require.NoError(t, lr.Close())
}

func TestLineReader_AlreadyCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	lr := NewLineReader(strings.NewReader("nunca leído\n"))
	defer lr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lr.ReadLine(ctx)
	assert.True(t, apperrors.IsInterrupted(err))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestLineReader_ReadError(t *testing.T) {
	defer goleak.VerifyNone(t)

	lr := NewLineReader(failingReader{})
	defer lr.Close()

	_, err := lr.ReadLine(context.Background())
	assert.True(t, apperrors.IsInterrupted(err))
	assert.ErrorContains(t, err, "disk on fire")

	_, err = lr.ReadLine(context.Background())
	assert.True(t, apperrors.IsInterrupted(err), "a broken stream stays broken")
}

package presentation

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	apperrors "github.com/hyperterse/covidcol/core/shared/errors"
)

type lineResult struct {
	line string
	err  error
}

// LineReader reads lines from an input stream without tying the caller to the
// blocking read, so a cancelled context abandons a pending prompt.
// A LineReader is used from a single goroutine.
type LineReader struct {
	requests  chan struct{}
	results   chan lineResult
	pending   bool
	closeOnce sync.Once
}

// NewLineReader starts the reader goroutine. Close stops it.
func NewLineReader(r io.Reader) *LineReader {
	lr := &LineReader{
		requests: make(chan struct{}),
		results:  make(chan lineResult, 1),
	}
	go lr.loop(bufio.NewReader(r))
	return lr
}

func (lr *LineReader) loop(br *bufio.Reader) {
	for range lr.requests {
		line, err := br.ReadString('\n')
		if errors.Is(err, io.EOF) && line != "" {
			err = nil
		}
		lr.results <- lineResult{line: strings.TrimRight(line, "\r\n"), err: err}
	}
}

// ReadLine returns the next line without its terminator. Cancellation, end
// of input and a failing input stream are all reported as an INTERRUPTED
// error: once stdin is gone there is nobody left to answer a prompt.
func (lr *LineReader) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", apperrors.WrapError(apperrors.ErrCodeInterrupted, "input interrupted", err)
	}

	if !lr.pending {
		select {
		case lr.requests <- struct{}{}:
			lr.pending = true
		case <-ctx.Done():
			return "", apperrors.WrapError(apperrors.ErrCodeInterrupted, "input interrupted", ctx.Err())
		}
	}

	select {
	case res := <-lr.results:
		lr.pending = false
		if res.err != nil {
			if errors.Is(res.err, io.EOF) {
				return "", apperrors.WrapError(apperrors.ErrCodeInterrupted, "end of input", res.err)
			}
			return "", apperrors.WrapError(apperrors.ErrCodeInterrupted, "input unavailable", res.err)
		}
		return res.line, nil
	case <-ctx.Done():
		return "", apperrors.WrapError(apperrors.ErrCodeInterrupted, "input interrupted", ctx.Err())
	}
}

// Close stops the reader goroutine once its current read, if any, returns.
func (lr *LineReader) Close() error {
	lr.closeOnce.Do(func() { close(lr.requests) })
	return nil
}

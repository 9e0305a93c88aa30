package evaluator

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sandrolain/gomodeval/pkg/parser"
)

// MaxLineLength is the longest input line EvalStream evaluates. Longer lines
// are skipped and reported with ErrLineTooLong.
const MaxLineLength = 1 << 20

// ErrLineTooLong is reported for a line longer than MaxLineLength.
var ErrLineTooLong = errors.New("line too long")

// LineReader splits input into newline-terminated lines. A line longer than
// MaxLineLength is consumed and reported as ErrLineTooLong, and reading
// continues with the next line.
type LineReader struct {
	br   *bufio.Reader
	line int
}

// NewLineReader returns a LineReader reading from r.
func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{br: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next line without its newline, and its 1-based number.
// It returns io.EOF once the input is exhausted. Any other error except
// ErrLineTooLong means the input cannot be read further.
func (lr *LineReader) Next() (int, string, error) {
	var (
		buf     []byte
		n       int
		tooLong bool
	)
	for {
		chunk, err := lr.br.ReadSlice('\n')
		n += len(chunk)
		if !tooLong {
			buf = append(buf, chunk...)
			if len(bytes.TrimSuffix(buf, []byte{'\n'})) > MaxLineLength {
				tooLong, buf = true, nil
			}
		}

		switch {
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == io.EOF && n == 0:
			return 0, "", io.EOF
		case err != nil && err != io.EOF:
			return lr.line + 1, "", err
		}

		lr.line++
		if tooLong {
			return lr.line, "", fmt.Errorf("%w: more than %d bytes", ErrLineTooLong, MaxLineLength)
		}
		return lr.line, string(bytes.TrimSuffix(buf, []byte{'\n'})), nil
	}
}

// StreamResult holds the outcome of evaluating one input line.
type StreamResult struct {
	// Line is the 1-based line number in the input.
	Line int
	// Source is the line with whitespace removed.
	Source string
	// Value is the result, valid only when Err is nil.
	Value int64
	// Err is non-nil when the line failed to evaluate, was too long, or when
	// reading the input failed. Read failures and cancellation end the
	// stream (see Fatal); every other error is scoped to its line.
	Err error
}

// Fatal reports whether res ended the stream rather than describing one
// failed line.
func (res StreamResult) Fatal() bool {
	return res.Err != nil && res.Source == "" && !errors.Is(res.Err, ErrLineTooLong)
}

// EvalStream reads r line by line and evaluates each non-blank line,
// sending results on the returned channel in input order. Lines containing
// only whitespace are skipped.
//
// The channel is closed when all input has been consumed or the context is
// cancelled. It is the caller's responsibility to drain the channel or cancel
// the context to avoid goroutine leaks.
func (e *Evaluator) EvalStream(ctx context.Context, r io.Reader) (<-chan StreamResult, error) {
	if r == nil {
		return nil, fmt.Errorf("invalid reader")
	}

	ch := make(chan StreamResult, 16)

	go func() {
		defer close(ch)

		send := func(res StreamResult) bool {
			select {
			case ch <- res:
				return true
			case <-ctx.Done():
				return false
			}
		}

		lr := NewLineReader(r)
		for {
			line, text, err := lr.Next()
			if err == io.EOF {
				return
			}

			if cerr := ctx.Err(); cerr != nil {
				send(StreamResult{Line: line, Err: cerr})
				return
			}

			if err != nil {
				if errors.Is(err, ErrLineTooLong) {
					if !send(StreamResult{Line: line, Err: err}) {
						return
					}
					continue
				}
				send(StreamResult{Line: line, Err: fmt.Errorf("read input: %w", err)})
				return
			}

			compact := parser.StripWhitespace(text)
			if compact == "" {
				continue
			}

			v, err := e.EvalString(ctx, compact)
			if !send(StreamResult{Line: line, Source: compact, Value: v, Err: err}) {
				return
			}
		}
	}()

	return ch, nil
}

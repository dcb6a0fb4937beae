// Package console acquires typed commands with readline, so text mode gets
// line editing and the Ctrl-C demotion semantics the session expects.
package console

import (
	"context"
	"errors"
	"io"

	"github.com/chzyer/readline"

	"myassist/internal/assistant"
)

type Reader struct {
	rl *readline.Instance
}

func NewReader() (*Reader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "You: ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &Reader{rl: rl}, nil
}

// ReadCommand blocks on one line of input. Ctrl-C maps to
// assistant.ErrInterrupted (demote to voice mode), Ctrl-D to io.EOF
// (terminate).
func (r *Reader) ReadCommand(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", assistant.ErrInterrupted
	}
	if errors.Is(err, io.EOF) {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

func (r *Reader) Close() error {
	return r.rl.Close()
}

// Package session runs a line oriented prompt. Each line is split into
// shell words and handed to Exec, so state held by the caller (the calendar, the
// undo window) lives across lines.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"
)

// ErrQuit ends the session when returned by Exec.
var ErrQuit = errors.New("session: quit")

type Session struct {
	In     io.Reader
	Out    io.Writer
	Prompt string
	Exec   func(ctx context.Context, args []string) error
	Log    *zap.Logger
}

func (s *Session) Do(ctx context.Context) error {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	red := color.New(color.FgRed)
	scanner := bufio.NewScanner(s.In)
	for {
		if s.Prompt != "" {
			_, _ = fmt.Fprint(s.Out, s.Prompt)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		args, err := shellwords.Parse(line)
		if err != nil {
			_, _ = red.Fprintf(s.Out, "error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "quit", "exit":
			return nil
		}
		log.Debug("session exec", zap.Strings("args", args))
		if err := s.Exec(ctx, args); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			_, _ = red.Fprintf(s.Out, "error: %v\n", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

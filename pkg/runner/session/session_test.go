package session

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
)

func TestDoSplitsWords(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{line: "task add Dishes", want: []string{"task", "add", "Dishes"}},
		{line: `task add "Feed the cat" --days mon,wed`, want: []string{"task", "add", "Feed the cat", "--days", "mon,wed"}},
		{line: `group add 'Bed time' --tasks "Brush teeth,Pajamas"`, want: []string{"group", "add", "Bed time", "--tasks", "Brush teeth,Pajamas"}},
		{line: `say it\'s   fine`, want: []string{"say", "it's", "fine"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var got []string
			s := Session{
				In:  strings.NewReader(tt.line + "\n"),
				Out: &bytes.Buffer{},
				Exec: func(_ context.Context, args []string) error {
					got = args
					return nil
				},
			}
			if err := s.Do(context.Background()); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDoUnterminatedQuote(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	calls := 0
	s := Session{
		In:  strings.NewReader("task add \"open\n"),
		Out: &out,
		Exec: func(context.Context, []string) error {
			calls++
			return nil
		},
	}
	if err := s.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Fatalf("expected no exec, got %d", calls)
	}
	if !strings.Contains(out.String(), "error:") {
		t.Fatalf("expected an error line, got %q", out.String())
	}
}

func TestDo(t *testing.T) {
	color.NoColor = true
	in := strings.NewReader("# comment\n\ncalendar\nboom\nundo\nquit\ncalendar\n")
	var out bytes.Buffer
	var ran [][]string
	s := Session{
		In:     in,
		Out:    &out,
		Prompt: "> ",
		Exec: func(_ context.Context, args []string) error {
			ran = append(ran, args)
			if args[0] == "boom" {
				return errors.New("kaboom")
			}
			return nil
		},
	}
	if err := s.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	want := [][]string{{"calendar"}, {"boom"}, {"undo"}}
	if diff := cmp.Diff(want, ran); diff != "" {
		t.Fatalf("exec mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(out.String(), "error: kaboom") {
		t.Fatalf("expected error to be printed, got %q", out.String())
	}
}

func TestDoQuitFromExec(t *testing.T) {
	calls := 0
	s := Session{
		In:  strings.NewReader("a\nb\n"),
		Out: &bytes.Buffer{},
		Exec: func(context.Context, []string) error {
			calls++
			return ErrQuit
		},
	}
	if err := s.Do(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Fatalf("expected one call, got %d", calls)
	}
}

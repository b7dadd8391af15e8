package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/wordwrap"
)

const defaultWidth = 60

// Printer writes notifications to a terminal. Boxes are drawn only when the
// output is a tty.
type Printer struct {
	mu    sync.Mutex
	out   io.Writer
	width int
	fancy bool

	// Last notification carrying an action, so a host can offer it.
	last *Action
}

// NewPrinter writes to out. Styling is enabled when out is a terminal.
func NewPrinter(out io.Writer) *Printer {
	p := &Printer{out: out, width: defaultWidth}
	if f, ok := out.(*os.File); ok {
		p.fancy = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return p
}

// Plain turns styling off.
func (p *Printer) Plain() *Printer {
	p.fancy = false
	return p
}

// Notify implements Notifier.
func (p *Printer) Notify(_ context.Context, n Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n.Action != nil {
		p.last = n.Action
	}
	if p.fancy {
		_, _ = fmt.Fprintln(p.out, p.box(n))
		return
	}
	_, _ = fmt.Fprintln(p.out, p.plain(n))
}

// LastAction returns the action of the most recent notification that had
// one.
func (p *Printer) LastAction() *Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

func (p *Printer) plain(n Notification) string {
	var b strings.Builder
	title := n.Title
	if n.Variant == Destructive {
		title = color.RedString(title)
	} else {
		title = color.GreenString(title)
	}
	b.WriteString(title)
	if n.Description != "" {
		b.WriteString(": ")
		b.WriteString(n.Description)
	}
	if n.Action != nil {
		fmt.Fprintf(&b, " [%s]", strings.ToLower(n.Action.Label))
	}
	return wordwrap.String(b.String(), p.width)
}

func (p *Printer) box(n Notification) string {
	accent := lipgloss.Color("42")
	if n.Variant == Destructive {
		accent = lipgloss.Color("196")
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(accent).Render(n.Title)
	body := title
	if n.Description != "" {
		body += "\n" + wordwrap.String(n.Description, p.width-4)
	}
	if n.Action != nil {
		body += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render("["+n.Action.Label+"]")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1).
		Render(body)
}

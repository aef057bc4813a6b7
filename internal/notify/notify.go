// Package notify turns scaffold reports into one human-readable line each.
// Every outcome gets its own tag and wording so created, skipped, and failed
// entries are visibly distinct; colour is only applied on terminals.
package notify

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/tripkit-labs/tripkit/internal/scaffold"
)

// Reporter receives scaffold reports as they are produced.
type Reporter interface {
	Report(r scaffold.Report)
}

// Printer writes reports to an io.Writer.
type Printer struct {
	w    io.Writer
	ok   lipgloss.Style
	skip lipgloss.Style
	fail lipgloss.Style
	dim  lipgloss.Style
}

var _ Reporter = (*Printer)(nil)

// NewPrinter returns a Printer writing to w. Styles are resolved against w,
// so pipes and buffers get plain text.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:    w,
		ok:   r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		skip: r.NewStyle().Foreground(lipgloss.Color("3")),
		fail: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		dim:  r.NewStyle().Faint(true),
	}
}

// Report implements Reporter.
func (p *Printer) Report(r scaffold.Report) {
	fmt.Fprintln(p.w, p.Format(r))
}

// Format renders a single report line.
func (p *Printer) Format(r scaffold.Report) string {
	switch r.Outcome.Status {
	case scaffold.StatusCreated:
		line := fmt.Sprintf("%s Created %s %s", p.ok.Render("[ OK ]"), describe(r), r.Path)
		if r.Source != "" {
			line += p.dim.Render(fmt.Sprintf(" (from template %s)", r.Source))
		}
		return line
	case scaffold.StatusAlreadyExists:
		return fmt.Sprintf("%s %s already exists at %s, left unchanged", p.skip.Render("[SKIP]"), r.Label, r.Path)
	case scaffold.StatusFailed:
		return fmt.Sprintf("%s Could not create %s at %s: %v", p.fail.Render("[FAIL]"), r.Label, r.Path, r.Outcome.Reason)
	default:
		return fmt.Sprintf("[ ?? ] %s at %s: %s", r.Label, r.Path, r.Outcome)
	}
}

// Summary writes a one-line tally of reports.
func (p *Printer) Summary(reports []scaffold.Report) {
	s := scaffold.Summarize(reports)
	fmt.Fprintf(p.w, "\n%d created, %d already existed, %d failed\n", s.Created, s.AlreadyExists, s.Failed)
}

func describe(r scaffold.Report) string {
	if r.Kind == scaffold.KindFolder {
		return "folder"
	}
	return r.Label
}

// Package report renders benchmark outcomes and result summaries for the
// terminal.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	mdbench "github.com/tphakala/go-md-bench"
)

var (
	colorTitle = lipgloss.Color("#7C3AED")
	colorOK    = lipgloss.Color("#10B981")
	colorFail  = lipgloss.Color("#EF4444")
	colorMuted = lipgloss.Color("#6B7280")
)

// Printer writes styled reports to one destination. Colors are dropped
// when the destination is not a terminal.
type Printer struct {
	w io.Writer

	title lipgloss.Style
	ok    lipgloss.Style
	fail  lipgloss.Style
	muted lipgloss.Style
	cell  lipgloss.Style
	head  lipgloss.Style
}

// New returns a printer writing to w.
func New(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:     w,
		title: r.NewStyle().Foreground(colorTitle).Bold(true),
		ok:    r.NewStyle().Foreground(colorOK).Bold(true),
		fail:  r.NewStyle().Foreground(colorFail).Bold(true),
		muted: r.NewStyle().Foreground(colorMuted),
		cell:  r.NewStyle().Padding(0, 1),
		head:  r.NewStyle().Padding(0, 1).Bold(true),
	}
}

// Config prints the problem parameters.
func (p *Printer) Config(cfg *mdbench.Config) {
	fmt.Fprintln(p.w, p.title.Render("Lennard-Jones force benchmark"))
	fmt.Fprintf(p.w, "  atoms %s, neighbors %d, cutsq %g, domain %g\n",
		humanize.Comma(int64(cfg.Atoms())), cfg.MaxNeighbors, cfg.Cutsq, cfg.Domain)
	fmt.Fprintf(p.w, "  %d passes of %d iterations on backend %q, eps %g\n",
		cfg.Passes, cfg.Iterations, cfg.Backend, cfg.Eps)
}

// Outcomes prints one line per precision variant.
func (p *Printer) Outcomes(outcomes []mdbench.Outcome) {
	for i := range outcomes {
		p.outcome(&outcomes[i])
	}
}

func (p *Printer) outcome(o *mdbench.Outcome) {
	status := p.ok.Render("OK")
	if o.Err != nil {
		status = p.fail.Render("FAILED")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", status, p.title.Render(o.TestName))
	if o.Slots() > 0 {
		fmt.Fprintf(&b, "  pairs %s/%s (%.2f%%)",
			humanize.Comma(int64(o.PairsWithinCutoff)), humanize.Comma(int64(o.Slots())), 100*o.PairFraction())
	}
	if o.Work.Bytes > 0 {
		fmt.Fprintf(&b, "  %.3f GFlop, %s per iteration", o.Work.GFlop(), humanize.IBytes(uint64(o.Work.Bytes)))
	}
	if o.BuildTime > 0 {
		fmt.Fprintf(&b, "  build %s", o.BuildTime.Round(time.Microsecond))
	}
	if o.TransferTime > 0 {
		fmt.Fprintf(&b, "  transfer %s", o.TransferTime.Round(time.Microsecond))
	}
	fmt.Fprintln(p.w, b.String())

	if o.BackendInfo != "" {
		fmt.Fprintln(p.w, p.muted.Render("    "+o.Backend+": "+o.BackendInfo))
	}
	if o.Err != nil {
		fmt.Fprintln(p.w, p.fail.Render("    "+o.Err.Error()))
	}
}

// Summary prints a table with one row per measurement.
func (p *Printer) Summary(summary []mdbench.Summary) {
	if len(summary) == 0 {
		fmt.Fprintln(p.w, p.muted.Render("no results"))
		return
	}

	rows := make([][]string, 0, len(summary))
	for _, s := range summary {
		rows = append(rows, []string{
			s.Test,
			s.Attributes,
			s.Unit,
			strconv.Itoa(s.Trials),
			formatValue(s.Median),
			formatValue(s.Mean),
			formatValue(s.Min),
			formatValue(s.Max),
			formatValue(s.StdDev),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.muted).
		Headers("test", "atts", "units", "trials", "median", "mean", "min", "max", "stddev").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.head
			}
			return p.cell
		})

	fmt.Fprintln(p.w, t.Render())
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

package viz

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/gprpipe/internal/sweep"
)

const recentLines = 5

// OutcomeMsg reports one finished sweep instance to the model.
type OutcomeMsg sweep.Outcome

// DoneMsg ends the program once the sweep returns.
type DoneMsg struct{ Err error }

// Progress follows a sweep: a bar, running counts and the latest outcomes.
type Progress struct {
	title  string
	total  int
	cancel context.CancelFunc

	done      int
	failed    int
	cancelled int
	recent    []string
	finished  bool
	aborted   bool
	width     int
}

func NewProgress(title string, total int, cancel context.CancelFunc) Progress {
	return Progress{title: title, total: total, cancel: cancel, width: 40}
}

func (m Progress) Init() tea.Cmd { return nil }

func (m Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			m.aborted = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-20, 10)
	case OutcomeMsg:
		m.done++
		o := sweep.Outcome(msg)
		status := "ok"
		switch {
		case o.Cancelled():
			m.cancelled++
			status = "cancelled"
		case !o.OK():
			m.failed++
			status = "failed"
		}
		m.recent = append(m.recent, fmt.Sprintf("%s %s", Status(status), outcomeName(o)))
		if len(m.recent) > recentLines {
			m.recent = m.recent[len(m.recent)-recentLines:]
		}
	case DoneMsg:
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Progress) View() string {
	var b strings.Builder
	b.WriteString(Title.Render(m.title) + "\n\n")

	pct := 1.0
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total)
	}
	fmt.Fprintf(&b, "%s %s\n", ProgressBar(pct, m.width), MetricValue.Render(fmt.Sprintf("%d/%d", m.done, m.total)))
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s\n\n",
		MetricLabel.Render("ok"), MetricValue.Render(fmt.Sprint(m.done-m.failed-m.cancelled)),
		MetricLabel.Render("failed"), MetricValue.Render(fmt.Sprint(m.failed)),
		MetricLabel.Render("cancelled"), MetricValue.Render(fmt.Sprint(m.cancelled)))
	if len(m.recent) > 0 {
		b.WriteString(Separator(m.width) + "\n")
	}
	for _, line := range m.recent {
		b.WriteString("  " + line + "\n")
	}
	if !m.finished && !m.aborted {
		b.WriteString("\n" + KeyHint.Render("q: cancel") + "\n")
	}
	return Panel.Render(b.String())
}

// Done reports how many instances finished.
func (m Progress) Done() int { return m.done }

func outcomeName(o sweep.Outcome) string {
	if o.Set != nil {
		return o.Set.GeometryFilename
	}
	if o.Err != nil {
		return fmt.Sprintf("#%d: %v", o.Index, o.Err)
	}
	return fmt.Sprintf("#%d", o.Index)
}

// RunProgress runs fn under a progress display. fn receives a context that
// is cancelled when the user quits and a callback to report outcomes.
func RunProgress(ctx context.Context, title string, total int, out io.Writer,
	fn func(ctx context.Context, report func(sweep.Outcome)) error, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts = append([]tea.ProgramOption{tea.WithOutput(out), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewProgress(title, total, cancel), opts...)
	errc := make(chan error, 1)
	go func() {
		err := fn(ctx, func(o sweep.Outcome) { p.Send(OutcomeMsg(o)) })
		errc <- err
		p.Send(DoneMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		cancel()
		<-errc
		return err
	}
	return <-errc
}

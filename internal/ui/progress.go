// Package ui renders live progress of a batch lint in the terminal.
package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"yamlcheck/internal/driver"
)

// maxListed keeps the view short on large batches; only active and failed
// files are listed beyond it.
const maxListed = 12

type progressModel struct {
	title   string
	events  <-chan driver.Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	width   int
	done    bool
}

type fileItem struct {
	path   string
	stage  driver.Stage
	status driver.Status
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders lint progress.
// The model quits once events is closed.
func NewProgressModel(title string, files []string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

// Run shows the progress view on out until events is closed.
func Run(out io.Writer, title string, files []string, events <-chan driver.Event) error {
	p := tea.NewProgram(NewProgressModel(title, files, events), tea.WithOutput(out), tea.WithInput(nil))
	_, err := p.Run()
	return err
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(driver.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	finished, failed := 0, 0
	for _, item := range m.items {
		if item.status == driver.StatusDone || item.status == driver.StatusError {
			finished++
		}
		if item.status == driver.StatusError {
			failed++
		}
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d", m.title, finished, len(m.items))
	if failed > 0 {
		header += fmt.Sprintf(", %d with errors", failed)
	}
	header += ")"
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	nameWidth := max(m.width-16, 20)
	listed := 0
	for _, item := range m.items {
		if len(m.items) > maxListed && item.status != driver.StatusWorking && item.status != driver.StatusError {
			continue
		}
		if listed == maxListed {
			break
		}
		label := statusLabel(item)
		b.WriteString(fmt.Sprintf("  %s %s\n", styleStatus(item.status).Render(fmt.Sprintf("%12s", label)), truncate(item.path, nameWidth)))
		listed++
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	idx, ok := m.index[ev.File]
	if !ok {
		return nil
	}
	m.items[idx].stage = ev.Stage
	m.items[idx].status = ev.Status
	return m.prog.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.items) == 0 {
		return 0
	}
	total := 0.0
	for _, item := range m.items {
		total += progressOf(item)
	}
	return total / float64(len(m.items))
}

func progressOf(item fileItem) float64 {
	if item.status == driver.StatusDone || item.status == driver.StatusError {
		return 1.0
	}
	switch item.stage {
	case driver.StageLoad:
		return 0.1
	case driver.StageScan:
		return 0.25
	case driver.StageParse:
		return 0.5
	case driver.StageLint:
		return 0.8
	default:
		return 0.0
	}
}

func statusLabel(item fileItem) string {
	switch item.status {
	case driver.StatusDone:
		return "done"
	case driver.StatusError:
		return "error"
	case driver.StatusWorking:
		return item.stage.String()
	default:
		return "queued"
	}
}

func styleStatus(status driver.Status) lipgloss.Style {
	switch status {
	case driver.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case driver.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case driver.StatusWorking:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

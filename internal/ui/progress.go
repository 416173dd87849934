// Package ui renders terminal progress for long-running commands.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"hier/internal/warm"
)

type progressModel struct {
	title   string
	events  <-chan warm.Event
	spinner spinner.Model
	prog    progress.Model
	items   []classItem
	index   map[string]int
	failed  int
	width   int
	done    bool
}

type classItem struct {
	id     string
	status string
	stage  warm.Stage
	detail string
}

type eventMsg warm.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders prefetch progress
// for ids until events is closed.
func NewProgressModel(title string, ids []string, events <-chan warm.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]classItem, 0, len(ids))
	index := make(map[string]int, len(ids))
	for i, id := range ids {
		items = append(items, classItem{id: id, status: "queued"})
		index[id] = i
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

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(warm.Event(msg))
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
		model, cmd := m.prog.Update(msg)
		m.prog = model.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.failed > 0 {
		header = fmt.Sprintf("%s (%d failed)", header, m.failed)
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	const statusWidth = 12
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, item := range m.items {
		line := item.id
		if item.detail != "" {
			line += "  " + item.detail
		}
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%12s", item.status))
		fmt.Fprintf(&b, "  %s %s\n", statusStyled, truncate(line, nameWidth))
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

func (m *progressModel) applyEvent(ev warm.Event) tea.Cmd {
	idx, ok := m.index[ev.ID]
	if !ok {
		return nil
	}
	item := &m.items[idx]
	if label := statusLabel(ev.Stage, ev.Status); label != "" {
		item.status = label
		item.stage = ev.Stage
	}
	switch ev.Status {
	case warm.StatusError:
		m.failed++
		if ev.Err != nil {
			item.detail = ev.Err.Error()
		}
	case warm.StatusDone:
		item.detail = ev.Elapsed.Round(time.Microsecond).String()
	}

	total := 0.0
	for _, it := range m.items {
		if it.status == "done" || it.status == "error" {
			total += 1.0
		} else {
			total += progressFromStage(it.stage)
		}
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

func progressFromStage(stage warm.Stage) float64 {
	switch stage {
	case warm.StageResolve:
		return 0.1
	case warm.StageFacts:
		return 0.3
	case warm.StageChain:
		return 0.6
	case warm.StageInterfaces:
		return 0.8
	default:
		return 0.0
	}
}

func statusLabel(stage warm.Stage, status warm.Status) string {
	switch status {
	case warm.StatusQueued:
		return "queued"
	case warm.StatusDone:
		return "done"
	case warm.StatusError:
		return "error"
	case warm.StatusWorking:
		return stageLabel(stage)
	default:
		return ""
	}
}

func stageLabel(stage warm.Stage) string {
	switch stage {
	case warm.StageResolve:
		return "resolving"
	case warm.StageFacts:
		return "loading"
	case warm.StageChain:
		return "ascending"
	case warm.StageInterfaces:
		return "interfaces"
	default:
		return ""
	}
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "error":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case "resolving", "loading", "ascending", "interfaces":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}

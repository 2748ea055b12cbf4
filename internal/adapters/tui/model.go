package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	targetListWidthRatio = 0.3
	logPaneBorderWidth   = 4
)

// TargetStatus is the state of a target in the list.
type TargetStatus string

const (
	// StatusRunning marks a target whose tasks are executing.
	StatusRunning TargetStatus = "Running"
	// StatusDone marks a target that completed.
	StatusDone TargetStatus = "Done"
	// StatusError marks a target that failed.
	StatusError TargetStatus = "Error"
)

// MsgTargetStart reports that a target began executing.
type MsgTargetStart struct {
	SpanID    string
	Name      string
	StartTime time.Time
}

// MsgTargetLog carries output of a running target.
type MsgTargetLog struct {
	SpanID string
	Data   []byte
}

// MsgTargetComplete reports that a target finished. Err is nil on success.
type MsgTargetComplete struct {
	SpanID  string
	EndTime time.Time
	Err     error
}

// TargetNode is one row of the target list.
type TargetNode struct {
	Name     string
	Status   TargetStatus
	Term     *Vterm
	Started  time.Time
	Duration time.Duration
	Err      error
}

// Model is the bubbletea model of the interactive build view. Targets are
// listed in the order they started.
type Model struct {
	Targets []*TargetNode
	SpanMap map[string]*TargetNode

	SelectedIdx int
	ListOffset  int
	ListHeight  int
	LogWidth    int
	LogHeight   int

	// FollowMode moves the selection to each target as it starts.
	FollowMode bool
	// Quitting is set when the user closed the view.
	Quitting bool
}

// NewModel returns an empty model following new targets.
func NewModel() *Model {
	m := &Model{}
	m.Reset()
	return m
}

// Reset clears the targets of a previous build and keeps the window size.
func (m *Model) Reset() {
	m.Targets = nil
	m.SpanMap = make(map[string]*TargetNode)
	m.SelectedIdx = 0
	m.ListOffset = 0
	m.FollowMode = true
	m.Quitting = false
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Selected returns the selected target, or nil before any target started.
func (m *Model) Selected() *TargetNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Targets) {
		return m.Targets[m.SelectedIdx]
	}
	return nil
}

// Update implements tea.Model.
//
//nolint:cyclop // one case per message kind
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		listWidth := int(float64(msg.Width) * targetListWidthRatio)
		m.LogWidth = msg.Width - listWidth - logPaneBorderWidth
		m.LogHeight = msg.Height - lipgloss.Height(titleStyle.Render("LOGS"))
		m.ListHeight = msg.Height - lipgloss.Height(titleStyle.Render("TARGETS")+"\n\n")
		m.ensureVisible()
		for _, node := range m.Targets {
			m.sizeTerm(node.Term)
		}

	case MsgTargetStart:
		node := &TargetNode{
			Name:    msg.Name,
			Status:  StatusRunning,
			Term:    NewVterm(),
			Started: msg.StartTime,
		}
		m.sizeTerm(node.Term)
		m.Targets = append(m.Targets, node)
		m.SpanMap[msg.SpanID] = node
		if m.FollowMode {
			m.SelectedIdx = len(m.Targets) - 1
			m.ensureVisible()
		}

	case MsgTargetLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			_, _ = node.Term.Write(msg.Data)
		}

	case MsgTargetComplete:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			node.Duration = msg.EndTime.Sub(node.Started)
			node.Err = msg.Err
			node.Status = StatusDone
			if msg.Err != nil {
				node.Status = StatusError
			}
		}
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		m.Quitting = true
		return tea.Quit
	case "k", "up":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.FollowMode = false
			m.ensureVisible()
		}
	case "j", "down":
		if m.SelectedIdx < len(m.Targets)-1 {
			m.SelectedIdx++
			m.FollowMode = false
			m.ensureVisible()
		}
	case "esc":
		m.FollowMode = true
		for i, node := range m.Targets {
			if node.Status == StatusRunning {
				m.SelectedIdx = i
				break
			}
		}
		m.ensureVisible()
		if node := m.Selected(); node != nil {
			node.Term.ScrollToBottom()
		}
	default:
		if node := m.Selected(); node != nil {
			node.Term.Update(msg)
		}
	}
	return nil
}

func (m *Model) sizeTerm(term *Vterm) {
	if m.LogWidth > 0 && m.LogHeight > 0 {
		term.SetWidth(m.LogWidth)
		term.SetHeight(m.LogHeight)
	}
}

func (m *Model) ensureVisible() {
	if m.ListHeight <= 0 {
		return
	}
	if m.SelectedIdx < m.ListOffset {
		m.ListOffset = m.SelectedIdx
	} else if m.SelectedIdx >= m.ListOffset+m.ListHeight {
		m.ListOffset = m.SelectedIdx - m.ListHeight + 1
	}
}

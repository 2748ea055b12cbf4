package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/forge/internal/ui/style"
)

// View implements tea.Model. It renders the target list beside the output
// of the selected target.
func (m *Model) View() string {
	if m.ListHeight == 0 {
		return "Initializing..."
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.targetList(), m.logPane())
}

func (m *Model) targetList() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("TARGETS") + "\n\n")

	end := min(m.ListOffset+m.ListHeight, len(m.Targets))
	for i := min(m.ListOffset, end); i < end; i++ {
		s.WriteString(m.targetRow(i, m.Targets[i]) + "\n")
	}
	return listStyle.Render(s.String())
}

func (m *Model) targetRow(index int, node *TargetNode) string {
	cursor := "  "
	rowStyle := statusStyle(node.Status)
	if index == m.SelectedIdx {
		cursor = selectedStyle.Render("> ")
		if node.Status == StatusRunning {
			rowStyle = selectedStyle
		}
	}

	row := cursor + rowStyle.Render(fmt.Sprintf("%s %s", statusIcon(node.Status), node.Name))
	if node.Status != StatusRunning {
		row += " " + durationStyle.Render(formatDuration(node.Duration))
	}
	return row
}

func (m *Model) logPane() string {
	node := m.Selected()
	if node == nil {
		return logStyle.Render(titleStyle.Render("LOGS (Waiting...)"))
	}

	mode := " (Manual)"
	if m.FollowMode {
		mode = " (Following)"
	}
	header := titleStyle.Render("LOGS: " + node.Name + mode)
	if node.Status == StatusError {
		header = failureTitleStyle.Render("FAILED: " + node.Name + mode)
	}
	return logStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, node.Term.View()))
}

func statusIcon(status TargetStatus) string {
	switch status {
	case StatusDone:
		return style.Check
	case StatusError:
		return style.Cross
	default:
		return style.Dot
	}
}

func statusStyle(status TargetStatus) lipgloss.Style {
	switch status {
	case StatusDone:
		return targetDoneStyle
	case StatusError:
		return targetErrorStyle
	default:
		return targetRunningStyle
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(10 * time.Millisecond).String()
}

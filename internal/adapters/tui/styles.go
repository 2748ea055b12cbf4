package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/forge/internal/ui/style"
)

var (
	targetRunningStyle = lipgloss.NewStyle().
				Foreground(style.Iris).
				Bold(true)

	targetDoneStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	targetErrorStyle = lipgloss.NewStyle().
				Foreground(style.Red)

	durationStyle = lipgloss.NewStyle().
			Foreground(style.Slate)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Iris).
			Bold(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Iris).
			Foreground(style.White)

	failureTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Padding(0, 1).
				Background(style.Red).
				Foreground(style.White)

	listStyle = lipgloss.NewStyle().
			MarginRight(2)

	logStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(style.Slate)
)

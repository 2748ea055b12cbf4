package tui_test

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/forge/internal/adapters/tui"
)

func lines(n int) string {
	var b strings.Builder
	for i := range n {
		b.WriteString("line")
		b.WriteByte(byte('a' + i))
		b.WriteString("\r\n")
	}
	return b.String()
}

func TestVterm_WriteSticksToBottom(t *testing.T) {
	vt := tui.NewVterm()
	vt.SetHeight(3)

	_, err := vt.Write([]byte(lines(6)))
	require.NoError(t, err)
	bottom := vt.Offset
	assert.Positive(t, bottom)

	vt.Offset = 0
	_, err = vt.Write([]byte(lines(2)))
	require.NoError(t, err)
	assert.Equal(t, 0, vt.Offset, "a scrolled view stays where it is")
}

func TestVterm_Scroll(t *testing.T) {
	vt := tui.NewVterm()
	vt.SetWidth(40)
	vt.SetHeight(2)
	_, _ = vt.Write([]byte(lines(5)))

	vt.Update(tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 0, vt.Offset)
	assert.Contains(t, vt.View(), "linea")

	vt.Update(tea.KeyMsg{Type: tea.KeyPgUp})
	assert.Equal(t, 0, vt.Offset, "offset is clamped at the top")

	vt.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 2, vt.Offset)

	vt.Update(tea.KeyMsg{Type: tea.KeyEnd})
	end := vt.Offset
	vt.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, end, vt.Offset, "offset is clamped at the bottom")

	vt.Offset = 0
	vt.ScrollToBottom()
	assert.Equal(t, end, vt.Offset)
}

func TestVterm_Tail(t *testing.T) {
	vt := tui.NewVterm()
	vt.SetWidth(40)
	_, _ = vt.Write([]byte(lines(4)))

	tail := vt.Tail(2)
	assert.NotContains(t, tail, "lineb")
	assert.Contains(t, tail, "lined")
}

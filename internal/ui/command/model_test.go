package command_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todos/internal/ui/command"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"clear", command.Clear},
		{"  Clear   Completed ", command.ClearCompleted},
		{"cc", command.ClearCompleted},
		{"SORT", command.Sort},
		{"q", command.Quit},
		{"exit", command.Quit},
		{"remind", command.Remind},
		{"settings", command.Settings},
		{"frobnicate", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, command.Normalize(tt.in))
		})
	}
}

func typeText(m command.Model, s string) command.Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestPalette_EmitsKnownCommand(t *testing.T) {
	m := command.New(80, 24)
	m.Focus()
	m = typeText(m, "sort")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	assert.Equal(t, command.CommandMsg(command.Sort), cmd())
}

func TestPalette_UnknownCommandStaysOpen(t *testing.T) {
	m := command.New(80, 24)
	m.Focus()
	m = typeText(m, "nope")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Contains(t, m.View(), "unknown command: nope")
}

func TestPalette_EscCancels(t *testing.T) {
	m := command.New(80, 24)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, command.CancelMsg{}, cmd())
}

package todos_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/todos/internal/model"
	"github.com/nhle/todos/internal/todos"
)

func TestReduceSubTask_Toggle(t *testing.T) {
	s := model.SubTask{ID: "s1", Description: "milk"}

	todos.ReduceSubTask(&s, todos.ToggleSubTaskChecked{})
	assert.True(t, s.Checked)

	todos.ReduceSubTask(&s, todos.ToggleSubTaskChecked{})
	assert.False(t, s.Checked)
	assert.Equal(t, "milk", s.Description)
}

func TestReduceSubTask_SetDescription(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"plain", "buy eggs"},
		{"empty", ""},
		{"whitespace kept", "  spaced  "},
		{"unicode", "café ☕"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := model.SubTask{ID: "s1", Description: "old", Checked: true}
			todos.ReduceSubTask(&s, todos.SetSubTaskDescription{Text: tt.text})
			assert.Equal(t, tt.text, s.Description)
			assert.True(t, s.Checked)
			assert.Equal(t, "s1", s.ID)
		})
	}
}

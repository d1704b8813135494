package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectOrder(t *testing.T) {
	tests := []struct {
		name       string
		ordered    []string
		draggedID  string
		hoverIndex int
		want       []string
	}{
		{
			name:       "drag down",
			ordered:    []string{"a", "b", "c", "d"},
			draggedID:  "a",
			hoverIndex: 2,
			want:       []string{"b", "c", "a", "d"},
		},
		{
			name:       "drag up",
			ordered:    []string{"a", "b", "c", "d"},
			draggedID:  "d",
			hoverIndex: 0,
			want:       []string{"d", "a", "b", "c"},
		},
		{
			name:       "drag to same position",
			ordered:    []string{"a", "b", "c"},
			draggedID:  "b",
			hoverIndex: 1,
			want:       []string{"a", "b", "c"},
		},
		{
			name:       "hover index past end clamps",
			ordered:    []string{"a", "b", "c"},
			draggedID:  "a",
			hoverIndex: 10,
			want:       []string{"b", "c", "a"},
		},
		{
			name:       "negative hover index clamps",
			ordered:    []string{"a", "b", "c"},
			draggedID:  "c",
			hoverIndex: -3,
			want:       []string{"c", "a", "b"},
		},
		{
			name:       "cross container drag inserts new id",
			ordered:    []string{"a", "b"},
			draggedID:  "z",
			hoverIndex: 1,
			want:       []string{"a", "z", "b"},
		},
		{
			name:       "empty list",
			ordered:    nil,
			draggedID:  "a",
			hoverIndex: 0,
			want:       []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProjectOrder(tt.ordered, tt.draggedID, tt.hoverIndex))
		})
	}
}

func TestProjectOrderLeavesInputUntouched(t *testing.T) {
	ordered := []string{"a", "b", "c"}
	_ = ProjectOrder(ordered, "a", 2)
	assert.Equal(t, []string{"a", "b", "c"}, ordered)
}

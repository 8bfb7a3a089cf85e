package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriority_Rank(t *testing.T) {
	tests := []struct {
		name      string
		priority  Priority
		wantRank  int
		wantValid bool
	}{
		{name: "high", priority: PriorityHigh, wantRank: 3, wantValid: true},
		{name: "medium", priority: PriorityMedium, wantRank: 2, wantValid: true},
		{name: "low", priority: PriorityLow, wantRank: 1, wantValid: true},
		{name: "unknown", priority: "urgent", wantRank: 0, wantValid: false},
		{name: "empty", priority: "", wantRank: 0, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantRank, tt.priority.Rank())
			assert.Equal(t, tt.wantValid, tt.priority.Valid())
		})
	}
}

func TestCollection_IndexAndClone(t *testing.T) {
	c := Collection{{ID: "a"}, {ID: "b"}}

	assert.Equal(t, 1, c.Index("b"))
	assert.Equal(t, -1, c.Index("missing"))

	clone := c.Clone()
	clone[0].Text = "changed"
	assert.Empty(t, c[0].Text, "clone must not share the backing array")
}

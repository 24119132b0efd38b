package luma_tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventFieldsFromArgs(t *testing.T) {
	args := map[string]interface{}{
		"name":        "Community Call",
		"startAt":     "2026-09-15T18:30:00Z",
		"description": "Monthly community call",
		"eventId":     "evt-1",
	}

	fields := eventFieldsFromArgs(args)
	assert.Equal(t, map[string]any{
		"name":           "Community Call",
		"start_at":       "2026-09-15T18:30:00Z",
		"description_md": "Monthly community call",
	}, fields)
}

func TestEventFieldsFromArgsEmpty(t *testing.T) {
	assert.Empty(t, eventFieldsFromArgs(map[string]interface{}{}))
}

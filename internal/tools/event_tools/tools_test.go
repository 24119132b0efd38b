package event_tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventInputFromArgs(t *testing.T) {
	args := map[string]interface{}{
		"groupUrlname":  "go-berlin",
		"title":         "Go Meetup",
		"startDateTime": "2026-09-15T18:30",
		"rsvpLimit":     float64(50),
	}

	in := eventInputFromArgs(args)
	assert.Equal(t, "go-berlin", in.GroupURLName)
	assert.Equal(t, "Go Meetup", in.Title)
	assert.Equal(t, "2026-09-15T18:30", in.StartDateTime)
	assert.Equal(t, 50, in.RSVPLimit)
	assert.Empty(t, in.VenueID)
}

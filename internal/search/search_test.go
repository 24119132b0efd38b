package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupRefs(n int) []GroupRef {
	groups := make([]GroupRef, n)
	for i := range groups {
		groups[i] = GroupRef{ID: fmt.Sprintf("g%d", i), Name: fmt.Sprintf("Group %d", i)}
	}
	return groups
}

func TestFindAcrossGroupsMatchAndFailure(t *testing.T) {
	groups := groupRefs(5)

	probe := func(_ context.Context, g GroupRef) (*Match, error) {
		switch g.ID {
		case "g1":
			return nil, errors.New("network error")
		case "g3":
			return &Match{
				Profile:    map[string]any{"id": "m42", "name": "Ada"},
				Membership: map[string]any{"role": "ORGANIZER"},
			}, nil
		default:
			return nil, nil
		}
	}

	result, err := FindAcrossGroups(context.Background(), groups, probe, 0, nil)
	require.NoError(t, err, "a failing probe must not abort the search")

	assert.Equal(t, "m42", result.Profile["id"])
	require.Len(t, result.Groups, 1)
	assert.Equal(t, "g3", result.Groups[0].GroupID)
	assert.Equal(t, "Group 3", result.Groups[0].GroupName)
	assert.Equal(t, "ORGANIZER", result.Groups[0].Metadata["role"])
}

func TestFindAcrossGroupsNotFound(t *testing.T) {
	groups := groupRefs(5)
	probe := func(_ context.Context, g GroupRef) (*Match, error) {
		return nil, nil
	}

	_, err := FindAcrossGroups(context.Background(), groups, probe, 0, nil)
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 5, notFound.Searched)
	assert.Contains(t, err.Error(), "5 groups")
}

func TestFindAcrossGroupsCollectsAllMemberships(t *testing.T) {
	groups := groupRefs(8)
	probe := func(_ context.Context, g GroupRef) (*Match, error) {
		if g.ID == "g2" || g.ID == "g5" || g.ID == "g7" {
			return &Match{
				Profile:    map[string]any{"id": "m1"},
				Membership: map[string]any{"group": g.ID},
			}, nil
		}
		return nil, nil
	}

	result, err := FindAcrossGroups(context.Background(), groups, probe, 3, nil)
	require.NoError(t, err)
	assert.NotNil(t, result.Profile)

	// Membership ordering is completion order, so only the set is checked.
	found := make(map[string]bool)
	for _, m := range result.Groups {
		found[m.GroupID] = true
	}
	assert.Equal(t, map[string]bool{"g2": true, "g5": true, "g7": true}, found)
}

func TestFindAcrossGroupsBoundsConcurrency(t *testing.T) {
	const limit = 3
	var inFlight, peak atomic.Int64
	var mu sync.Mutex

	probe := func(_ context.Context, g GroupRef) (*Match, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)

		mu.Lock()
		if n > peak.Load() {
			peak.Store(n)
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)
		if g.ID == "g0" {
			return &Match{Profile: map[string]any{"id": "m1"}}, nil
		}
		return nil, nil
	}

	_, err := FindAcrossGroups(context.Background(), groupRefs(12), probe, limit, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int64(limit))
}

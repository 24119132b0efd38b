// Package search implements bounded-concurrency fan-out lookups across many
// groups to locate a single member.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency caps how many group probes run at once.
const DefaultConcurrency = 5

// NotFoundError is returned when no probe found the target entity.
type NotFoundError struct {
	Searched int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("member not found in any of the %d groups searched", e.Searched)
}

// GroupRef identifies one group to probe.
type GroupRef struct {
	ID   string
	Name string
}

// Match is a successful probe result: the member's profile plus their
// membership metadata within the probed group.
type Match struct {
	Profile    map[string]any
	Membership map[string]any
}

// ProbeFunc queries one group for the target entity. Returning a nil Match
// with a nil error means the member is not in that group.
type ProbeFunc func(ctx context.Context, group GroupRef) (*Match, error)

// Membership records one group the member was found in.
type Membership struct {
	GroupID   string         `json:"group_id"`
	GroupName string         `json:"group_name"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Result aggregates all matches. Profile comes from whichever matching
// probe completed first; Groups ordering follows completion order and is
// nondeterministic across runs.
type Result struct {
	Profile map[string]any `json:"profile"`
	Groups  []Membership   `json:"groups"`
}

// FindAcrossGroups probes every group for the target entity with at most
// concurrency probes in flight. Individual probe failures are logged and
// swallowed — a failing group never aborts the others. When no probe
// matches, a NotFoundError naming the group count is returned.
func FindAcrossGroups(ctx context.Context, groups []GroupRef, probe ProbeFunc, concurrency int, logger *slog.Logger) (*Result, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.Default()
	}

	var (
		mu     sync.Mutex
		result Result
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, group := range groups {
		g.Go(func() error {
			match, err := probe(ctx, group)
			if err != nil {
				logger.Debug("group probe failed",
					slog.String("group", group.ID),
					slog.Any("error", err))
				return nil
			}
			if match == nil {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			if result.Profile == nil {
				// First completed match wins; completion order is not
				// deterministic.
				result.Profile = match.Profile
			}
			result.Groups = append(result.Groups, Membership{
				GroupID:   group.ID,
				GroupName: group.Name,
				Metadata:  match.Membership,
			})
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes completion.
	_ = g.Wait()

	if result.Profile == nil {
		return nil, &NotFoundError{Searched: len(groups)}
	}
	return &result, nil
}

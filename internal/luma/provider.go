package luma

import (
	"context"
	"strconv"

	"github.com/pulumi/events-mcp/internal/pagination"
	"github.com/pulumi/events-mcp/internal/provider"
)

// Provider is the Luma event-platform adapter.
type Provider struct {
	client *Client
}

// NewProvider creates the Luma adapter over a REST client.
func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

// Name implements provider.EventProvider.
func (p *Provider) Name() string { return "luma" }

// Capabilities implements provider.EventProvider.
func (p *Provider) Capabilities() provider.CapabilitySet {
	return provider.NewCapabilitySet(
		provider.CapListEvents,
		provider.CapCreateEvent,
		provider.CapEditEvent,
		provider.CapCancelEvent,
		provider.CapListGuests,
		provider.CapListPeople,
		provider.CapUserProfile,
	)
}

// IsAuthenticated implements provider.EventProvider.
func (p *Provider) IsAuthenticated() bool { return p.client.IsAuthenticated() }

// GetSelf returns the authenticated user's profile.
func (p *Provider) GetSelf(ctx context.Context) (map[string]any, error) {
	data, err := p.client.Get(ctx, "/user/get-self", nil)
	if err != nil {
		return nil, err
	}
	return unwrap(data, "user"), nil
}

// ListEvents returns one page of the calendar's events.
func (p *Provider) ListEvents(ctx context.Context, after string, limit int) (map[string]any, error) {
	return p.client.Get(ctx, "/calendar/list-events", cursorParams(nil, after, limit))
}

// ListAllEvents paginates through all calendar events.
func (p *Provider) ListAllEvents(ctx context.Context, limit, maxPages int) ([]map[string]any, error) {
	return p.fetchAllPages(ctx, "/calendar/list-events", nil, limit, maxPages)
}

// GetEvent returns an event by its API ID.
func (p *Provider) GetEvent(ctx context.Context, eventID string) (map[string]any, error) {
	data, err := p.client.Get(ctx, "/event/get", map[string]string{"api_id": eventID})
	if err != nil {
		return nil, err
	}
	return unwrap(data, "event"), nil
}

// CreateEvent creates an event from the given fields.
func (p *Provider) CreateEvent(ctx context.Context, fields map[string]any) (map[string]any, error) {
	data, err := p.client.Post(ctx, "/event/create", fields)
	if err != nil {
		return nil, err
	}
	return unwrap(data, "event"), nil
}

// UpdateEvent updates an event.
func (p *Provider) UpdateEvent(ctx context.Context, eventID string, fields map[string]any) (map[string]any, error) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["event_id"] = eventID

	data, err := p.client.Post(ctx, "/event/update", body)
	if err != nil {
		return nil, err
	}
	return unwrap(data, "event"), nil
}

// CancelEvent cancels an event.
func (p *Provider) CancelEvent(ctx context.Context, eventID string) (map[string]any, error) {
	return p.client.Post(ctx, "/event/cancel", map[string]any{"event_id": eventID})
}

// ListGuests returns one page of an event's guests.
func (p *Provider) ListGuests(ctx context.Context, eventID, after string, limit int) (map[string]any, error) {
	params := map[string]string{"event_api_id": eventID}
	return p.client.Get(ctx, "/event/get-guests", cursorParams(params, after, limit))
}

// ListAllGuests paginates through all guests for an event.
func (p *Provider) ListAllGuests(ctx context.Context, eventID string, limit, maxPages int) ([]map[string]any, error) {
	return p.fetchAllPages(ctx, "/event/get-guests", map[string]string{"event_api_id": eventID}, limit, maxPages)
}

// ListPeople returns one page of the calendar's people.
func (p *Provider) ListPeople(ctx context.Context, after string, limit int) (map[string]any, error) {
	return p.client.Get(ctx, "/calendar/list-people", cursorParams(nil, after, limit))
}

// ListAllPeople paginates through all people on the calendar.
func (p *Provider) ListAllPeople(ctx context.Context, limit, maxPages int) ([]map[string]any, error) {
	return p.fetchAllPages(ctx, "/calendar/list-people", nil, limit, maxPages)
}

// fetchAllPages drives the generic paginator over a Luma list endpoint,
// normalizing the entries/has_more/next_cursor page shape.
func (p *Provider) fetchAllPages(ctx context.Context, path string, params map[string]string, limit, maxPages int) ([]map[string]any, error) {
	fetch := func(ctx context.Context, cursor string) (pagination.Page[map[string]any], error) {
		data, err := p.client.Get(ctx, path, cursorParams(params, cursor, 0))
		if err != nil {
			return pagination.Page[map[string]any]{}, err
		}

		page := pagination.Page[map[string]any]{}
		if entries, ok := data["entries"].([]any); ok {
			for _, raw := range entries {
				if entry, ok := raw.(map[string]any); ok {
					page.Items = append(page.Items, entry)
				}
			}
		}
		page.HasMore, _ = data["has_more"].(bool)
		page.NextCursor, _ = data["next_cursor"].(string)
		return page, nil
	}

	result, err := pagination.FetchAll(ctx, fetch, pagination.Options{Limit: limit, MaxPages: maxPages})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

// cursorParams merges the pagination cursor and limit into query params.
func cursorParams(params map[string]string, after string, limit int) map[string]string {
	out := make(map[string]string, len(params)+2)
	for k, v := range params {
		out[k] = v
	}
	if after != "" {
		out["pagination_cursor"] = after
	}
	if limit > 0 {
		out["limit"] = strconv.Itoa(limit)
	}
	return out
}

// unwrap returns data[key] when present as an object, else data itself.
func unwrap(data map[string]any, key string) map[string]any {
	if inner, ok := data[key].(map[string]any); ok {
		return inner
	}
	return data
}

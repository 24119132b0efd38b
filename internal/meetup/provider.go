package meetup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pulumi/events-mcp/internal/config"
	"github.com/pulumi/events-mcp/internal/pagination"
	"github.com/pulumi/events-mcp/internal/provider"
	"github.com/pulumi/events-mcp/internal/search"
)

// Provider is the Meetup.com adapter.
type Provider struct {
	client   *Client
	settings *config.Settings
	logger   *slog.Logger
}

// NewProvider creates the Meetup adapter over a GraphQL client.
func NewProvider(client *Client, settings *config.Settings, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{client: client, settings: settings, logger: logger}
}

// Name implements provider.EventProvider.
func (p *Provider) Name() string { return "meetup" }

// Capabilities implements provider.EventProvider.
func (p *Provider) Capabilities() provider.CapabilitySet {
	return provider.NewCapabilitySet(
		provider.CapSearchEvents,
		provider.CapSearchGroups,
		provider.CapListGroups,
		provider.CapCreateEvent,
		provider.CapEditEvent,
		provider.CapDeleteEvent,
		provider.CapPublishEvent,
		provider.CapAnnounceEvent,
		provider.CapManageRSVPs,
		provider.CapCreateVenue,
		provider.CapNetworkSearch,
		provider.CapMemberSearch,
		provider.CapUserProfile,
	)
}

// IsAuthenticated implements provider.EventProvider.
func (p *Provider) IsAuthenticated() bool { return p.client.IsAuthenticated() }

// GetSelf returns the authenticated member's profile.
func (p *Provider) GetSelf(ctx context.Context) (map[string]any, error) {
	data, err := p.client.Execute(ctx, selfQuery, nil)
	if err != nil {
		return nil, err
	}
	return asMap(data["self"]), nil
}

// GetGroup returns a group by its URL name.
func (p *Provider) GetGroup(ctx context.Context, urlname string) (map[string]any, error) {
	data, err := p.client.Execute(ctx, groupByURLNameQuery, map[string]any{"urlname": urlname})
	if err != nil {
		return nil, err
	}
	return asMap(data["groupByUrlname"]), nil
}

// SearchGroupsOptions holds the optional fields for a group search.
type SearchGroupsOptions struct {
	Query string
	Lat   *float64
	Lon   *float64
	First int
	After string
}

// SearchGroups searches groups by keyword with an optional geo filter.
func (p *Provider) SearchGroups(ctx context.Context, opts SearchGroupsOptions) (map[string]any, error) {
	filter := map[string]any{"query": opts.Query}
	if opts.Lat != nil {
		filter["lat"] = *opts.Lat
	}
	if opts.Lon != nil {
		filter["lon"] = *opts.Lon
	}

	variables := map[string]any{"filter": filter, "first": firstOrDefault(opts.First)}
	if opts.After != "" {
		variables["after"] = opts.After
	}

	data, err := p.client.Execute(ctx, searchGroupsQuery, variables)
	if err != nil {
		return nil, err
	}
	return asMap(data["groupSearch"]), nil
}

// SearchEventsOptions holds the optional fields for an event search.
// Query, Lat, and Lon are required by the backend.
type SearchEventsOptions struct {
	Query     string
	Lat       float64
	Lon       float64
	StartDate string
	EndDate   string
	EventType string
	First     int
	After     string
}

// SearchEvents searches events with optional date-range and type filters.
func (p *Provider) SearchEvents(ctx context.Context, opts SearchEventsOptions) (map[string]any, error) {
	filter := map[string]any{"query": opts.Query, "lat": opts.Lat, "lon": opts.Lon}
	if opts.StartDate != "" {
		filter["startDateRange"] = opts.StartDate
	}
	if opts.EndDate != "" {
		filter["endDateRange"] = opts.EndDate
	}
	if opts.EventType != "" {
		filter["eventType"] = opts.EventType
	}

	variables := map[string]any{"filter": filter, "first": firstOrDefault(opts.First)}
	if opts.After != "" {
		variables["after"] = opts.After
	}

	data, err := p.client.Execute(ctx, searchEventsQuery, variables)
	if err != nil {
		return nil, err
	}
	return asMap(data["eventSearch"]), nil
}

// ListMyGroups returns one page of the authenticated member's groups.
func (p *Provider) ListMyGroups(ctx context.Context, first int, after string) (map[string]any, error) {
	variables := map[string]any{"first": firstOrDefault(first)}
	if after != "" {
		variables["after"] = after
	}
	data, err := p.client.Execute(ctx, listMyGroupsQuery, variables)
	if err != nil {
		return nil, err
	}
	return asMap(asMap(data["self"])["memberships"]), nil
}

// ListAllMyGroups paginates through all of the member's groups, returning
// the flattened group nodes.
func (p *Provider) ListAllMyGroups(ctx context.Context, limit, maxPages int) ([]map[string]any, error) {
	fetch := func(ctx context.Context, cursor string) (pagination.Page[map[string]any], error) {
		conn, err := p.ListMyGroups(ctx, 50, cursor)
		if err != nil {
			return pagination.Page[map[string]any]{}, err
		}
		return connectionPage(conn, nodeOnly), nil
	}

	result, err := pagination.FetchAll(ctx, fetch, pagination.Options{Limit: limit, MaxPages: maxPages})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

// ListGroupMembersOptions holds the optional fields for a member listing.
type ListGroupMembersOptions struct {
	First  int
	After  string
	Status string
}

// ListGroupMembers returns one page of a group's memberships.
func (p *Provider) ListGroupMembers(ctx context.Context, urlname string, opts ListGroupMembersOptions) (map[string]any, error) {
	variables := map[string]any{"urlname": urlname, "first": firstOrDefault(opts.First)}
	if opts.After != "" {
		variables["after"] = opts.After
	}
	if opts.Status != "" {
		variables["status"] = []string{opts.Status}
	}

	data, err := p.client.Execute(ctx, groupMembersQuery, variables)
	if err != nil {
		return nil, err
	}
	return asMap(asMap(data["groupByUrlname"])["memberships"]), nil
}

// ListAllGroupMembers paginates through a group's memberships, returning
// flattened records of profile plus membership metadata.
func (p *Provider) ListAllGroupMembers(ctx context.Context, urlname, status string, limit, maxPages int) ([]map[string]any, error) {
	fetch := func(ctx context.Context, cursor string) (pagination.Page[map[string]any], error) {
		conn, err := p.ListGroupMembers(ctx, urlname, ListGroupMembersOptions{First: 50, After: cursor, Status: status})
		if err != nil {
			return pagination.Page[map[string]any]{}, err
		}
		return connectionPage(conn, nodeWithMetadata), nil
	}

	result, err := pagination.FetchAll(ctx, fetch, pagination.Options{Limit: limit, MaxPages: maxPages})
	if err != nil {
		return nil, err
	}
	return result.Items, nil
}

// MemberRecord pairs a member profile with their membership metadata for
// one group.
type MemberRecord struct {
	Profile    map[string]any
	Membership map[string]any
}

// GetGroupMember returns a member's profile and membership metadata within
// a group, or (nil, nil) when the member does not belong to it.
func (p *Provider) GetGroupMember(ctx context.Context, urlname, memberID string) (*MemberRecord, error) {
	data, err := p.client.Execute(ctx, groupMemberByIDQuery, map[string]any{
		"urlname":   urlname,
		"memberIds": []string{memberID},
	})
	if err != nil {
		return nil, err
	}

	edges := asSlice(asMap(asMap(data["groupByUrlname"])["memberships"])["edges"])
	if len(edges) == 0 {
		return nil, nil
	}
	edge := asMap(edges[0])
	return &MemberRecord{
		Profile:    asMap(edge["node"]),
		Membership: asMap(edge["metadata"]),
	}, nil
}

// FindMemberAcrossGroups fans out across all of the member's groups to
// locate memberID, collecting every membership found.
func (p *Provider) FindMemberAcrossGroups(ctx context.Context, memberID string, concurrency int) (*search.Result, error) {
	groups, err := p.ListAllMyGroups(ctx, 0, 0)
	if err != nil {
		return nil, err
	}

	refs := make([]search.GroupRef, 0, len(groups))
	for _, g := range groups {
		urlname, _ := g["urlname"].(string)
		name, _ := g["name"].(string)
		if urlname == "" {
			continue
		}
		refs = append(refs, search.GroupRef{ID: urlname, Name: name})
	}

	probe := func(ctx context.Context, group search.GroupRef) (*search.Match, error) {
		rec, err := p.GetGroupMember(ctx, group.ID, memberID)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			return nil, nil
		}
		return &search.Match{Profile: rec.Profile, Membership: rec.Membership}, nil
	}

	return search.FindAcrossGroups(ctx, refs, probe, concurrency, p.logger)
}

// GetEvent returns an event by ID.
func (p *Provider) GetEvent(ctx context.Context, eventID string) (map[string]any, error) {
	data, err := p.client.Execute(ctx, eventByIDQuery, map[string]any{"eventId": eventID})
	if err != nil {
		return nil, err
	}
	return asMap(data["event"]), nil
}

// EventInput holds the optional fields for creating or editing an event.
// Zero values are omitted from the mutation input.
type EventInput struct {
	GroupURLName  string
	Title         string
	Description   string
	StartDateTime string
	Duration      string
	VenueID       string
	RSVPLimit     int
	PublishStatus string
}

func (in EventInput) toInput() map[string]any {
	input := map[string]any{}
	if in.GroupURLName != "" {
		input["groupUrlname"] = in.GroupURLName
	}
	if in.Title != "" {
		input["title"] = in.Title
	}
	if in.Description != "" {
		input["description"] = in.Description
	}
	if in.StartDateTime != "" {
		input["startDateTime"] = in.StartDateTime
	}
	if in.Duration != "" {
		input["duration"] = in.Duration
	}
	if in.VenueID != "" {
		input["venueId"] = in.VenueID
	}
	if in.RSVPLimit > 0 {
		input["rsvpSettings"] = map[string]any{"rsvpLimit": in.RSVPLimit}
	}
	if in.PublishStatus != "" {
		input["publishStatus"] = in.PublishStatus
	}
	return input
}

// CreateEvent creates an event and returns it.
func (p *Provider) CreateEvent(ctx context.Context, in EventInput) (map[string]any, error) {
	data, err := p.client.Execute(ctx, createEventMutation, map[string]any{"input": in.toInput()})
	if err != nil {
		return nil, err
	}
	result, err := mutationResult(data, "createEvent")
	if err != nil {
		return nil, err
	}
	return asMap(result["event"]), nil
}

// EditEvent updates an event and returns it.
func (p *Provider) EditEvent(ctx context.Context, eventID string, in EventInput) (map[string]any, error) {
	input := in.toInput()
	input["eventId"] = eventID

	data, err := p.client.Execute(ctx, editEventMutation, map[string]any{"input": input})
	if err != nil {
		return nil, err
	}
	result, err := mutationResult(data, "editEvent")
	if err != nil {
		return nil, err
	}
	return asMap(result["event"]), nil
}

// eventActions maps action names to their mutation and result key.
var eventActions = map[string]struct {
	mutation  string
	resultKey string
}{
	"delete":      {deleteEventMutation, "deleteEvent"},
	"publish":     {publishEventMutation, "publishEvent"},
	"announce":    {announceEventMutation, "announceEvent"},
	"close_rsvps": {closeEventRsvpsMutation, "closeEventRsvps"},
	"open_rsvps":  {openEventRsvpsMutation, "openEventRsvps"},
}

// EventAction runs a lifecycle action against an event: delete, publish,
// announce, close_rsvps, or open_rsvps.
func (p *Provider) EventAction(ctx context.Context, eventID, action string) (map[string]any, error) {
	act, ok := eventActions[action]
	if !ok {
		return nil, fmt.Errorf("unknown event action %q (must be one of delete, publish, announce, close_rsvps, open_rsvps)", action)
	}

	data, err := p.client.Execute(ctx, act.mutation, map[string]any{
		"input": map[string]any{"eventId": eventID},
	})
	if err != nil {
		return nil, err
	}
	return mutationResult(data, act.resultKey)
}

// VenueInput holds the fields for creating a venue.
type VenueInput struct {
	GroupURLName string
	Name         string
	Address      string
	City         string
	State        string
	Country      string
	PostalCode   string
	Lat          *float64
	Lon          *float64
}

// CreateVenue creates a venue and returns it.
func (p *Provider) CreateVenue(ctx context.Context, in VenueInput) (map[string]any, error) {
	input := map[string]any{}
	if in.GroupURLName != "" {
		input["groupUrlname"] = in.GroupURLName
	}
	if in.Name != "" {
		input["name"] = in.Name
	}
	if in.Address != "" {
		input["address"] = in.Address
	}
	if in.City != "" {
		input["city"] = in.City
	}
	if in.State != "" {
		input["state"] = in.State
	}
	if in.Country != "" {
		input["country"] = in.Country
	}
	if in.PostalCode != "" {
		input["postalCode"] = in.PostalCode
	}
	if in.Lat != nil {
		input["lat"] = *in.Lat
	}
	if in.Lon != nil {
		input["lon"] = *in.Lon
	}

	data, err := p.client.Execute(ctx, createVenueMutation, map[string]any{"input": input})
	if err != nil {
		return nil, err
	}
	result, err := mutationResult(data, "createVenue")
	if err != nil {
		return nil, err
	}
	return asMap(result["venue"]), nil
}

// GetNetwork returns a Pro network by URL name.
func (p *Provider) GetNetwork(ctx context.Context, urlname string) (map[string]any, error) {
	data, err := p.client.Execute(ctx, networkByURLNameQuery, map[string]any{"urlname": urlname})
	if err != nil {
		return nil, err
	}
	return asMap(data["proNetwork"]), nil
}

// NetworkSearchOptions holds the optional fields for a Pro-network search.
type NetworkSearchOptions struct {
	Type              string // events, groups, or members
	Query             string
	Roles             []string
	EventsAttendedMin int
	Sort              string
	Desc              bool
	First             int
	After             string
}

// networkSearches maps search types to their query and result key.
var networkSearches = map[string]struct {
	query     string
	resultKey string
}{
	"events":  {networkSearchEventsQuery, "eventsSearch"},
	"groups":  {networkSearchGroupsQuery, "groupsSearch"},
	"members": {networkSearchMembersQuery, "membersSearch"},
}

// NetworkSearch searches a Pro network for events, groups, or members.
func (p *Provider) NetworkSearch(ctx context.Context, urlname string, opts NetworkSearchOptions) (map[string]any, error) {
	ns, ok := networkSearches[opts.Type]
	if !ok {
		return nil, fmt.Errorf("unknown network search type %q (must be events, groups, or members)", opts.Type)
	}

	variables := map[string]any{"urlname": urlname, "first": firstOrDefault(opts.First)}
	if opts.Type == "members" {
		filter := map[string]any{}
		if opts.Query != "" {
			filter["query"] = opts.Query
		}
		if len(opts.Roles) > 0 {
			filter["roles"] = opts.Roles
		}
		if opts.EventsAttendedMin > 0 {
			filter["eventsAttendedMin"] = opts.EventsAttendedMin
		}
		if len(filter) > 0 {
			variables["filter"] = filter
		}
		if opts.Sort != "" {
			variables["sort"] = opts.Sort
			variables["desc"] = opts.Desc
		}
	} else if opts.Query != "" {
		variables["query"] = opts.Query
	}
	if opts.After != "" {
		variables["after"] = opts.After
	}

	data, err := p.client.Execute(ctx, ns.query, variables)
	if err != nil {
		return nil, err
	}
	return asMap(asMap(data["proNetwork"])[ns.resultKey]), nil
}

// mutationResult extracts a mutation payload and fails when the payload
// carries mutation-level errors.
func mutationResult(data map[string]any, key string) (map[string]any, error) {
	result := asMap(data[key])
	rawErrs := asSlice(result["errors"])
	if len(rawErrs) == 0 {
		return result, nil
	}

	errs := make([]provider.GraphQLError, 0, len(rawErrs))
	for _, raw := range rawErrs {
		m := asMap(raw)
		e := provider.GraphQLError{}
		e.Message, _ = m["message"].(string)
		e.Code, _ = m["code"].(string)
		e.Field, _ = m["field"].(string)
		errs = append(errs, e)
	}
	return nil, &provider.RemoteError{
		Platform: "meetup",
		Message:  "mutation failed: " + provider.JoinMessages(errs),
		Errors:   errs,
	}
}

// connectionPage normalizes a GraphQL connection (edges/pageInfo) into a
// pagination page. flatten maps one edge to an item.
func connectionPage(conn map[string]any, flatten func(edge map[string]any) map[string]any) pagination.Page[map[string]any] {
	page := pagination.Page[map[string]any]{}
	for _, raw := range asSlice(conn["edges"]) {
		page.Items = append(page.Items, flatten(asMap(raw)))
	}

	pageInfo := asMap(conn["pageInfo"])
	page.HasMore, _ = pageInfo["hasNextPage"].(bool)
	page.NextCursor, _ = pageInfo["endCursor"].(string)
	return page
}

func nodeOnly(edge map[string]any) map[string]any {
	return asMap(edge["node"])
}

func nodeWithMetadata(edge map[string]any) map[string]any {
	item := asMap(edge["node"])
	if meta := asMap(edge["metadata"]); len(meta) > 0 {
		item = cloneMap(item)
		item["membership"] = meta
	}
	return item
}

func firstOrDefault(first int) int {
	if first <= 0 {
		return 20
	}
	return first
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

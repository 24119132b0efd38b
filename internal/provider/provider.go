// Package provider defines the contract shared by all event-platform
// adapters: the capability set, the registry, and the error type for
// backend-reported failures.
package provider

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Capability names one operation class a platform supports.
type Capability string

// Capabilities a platform can declare.
const (
	CapSearchEvents  Capability = "search_events"
	CapSearchGroups  Capability = "search_groups"
	CapListEvents    Capability = "list_events"
	CapListGroups    Capability = "list_groups"
	CapListGuests    Capability = "list_guests"
	CapListPeople    Capability = "list_people"
	CapCreateEvent   Capability = "create_event"
	CapEditEvent     Capability = "edit_event"
	CapDeleteEvent   Capability = "delete_event"
	CapCancelEvent   Capability = "cancel_event"
	CapPublishEvent  Capability = "publish_event"
	CapAnnounceEvent Capability = "announce_event"
	CapManageRSVPs   Capability = "manage_rsvps"
	CapCreateVenue   Capability = "create_venue"
	CapNetworkSearch Capability = "network_search"
	CapMemberSearch  Capability = "member_search"
	CapUserProfile   Capability = "user_profile"
)

// CapabilitySet is the set of capabilities a platform declares.
type CapabilitySet map[Capability]struct{}

// NewCapabilitySet builds a set from the given capabilities.
func NewCapabilitySet(caps ...Capability) CapabilitySet {
	set := make(CapabilitySet, len(caps))
	for _, c := range caps {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the capability.
func (s CapabilitySet) Has(c Capability) bool {
	_, ok := s[c]
	return ok
}

// Sorted returns the capability names in lexical order, for stable output.
func (s CapabilitySet) Sorted() []string {
	names := make([]string, 0, len(s))
	for c := range s {
		names = append(names, string(c))
	}
	sort.Strings(names)
	return names
}

// EventProvider is the minimal contract every platform adapter satisfies.
// Tools depend on the concrete adapter for platform-specific operations;
// this interface covers the cross-platform surface (listing and status).
type EventProvider interface {
	Name() string
	Capabilities() CapabilitySet
	IsAuthenticated() bool
}

// Registry stores registered providers by name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]EventProvider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]EventProvider)}
}

// Register adds or replaces a provider under its own name.
func (r *Registry) Register(p EventProvider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.Name()] = p
}

// Get returns the provider registered under name, or nil.
func (r *Registry) Get(name string) EventProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providers[name]
}

// All returns every registered provider, sorted by name.
func (r *Registry) All() []EventProvider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]EventProvider, 0, len(r.providers))
	for _, p := range r.providers {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name() < all[j].Name() })
	return all
}

// GraphQLError is one structured error from a GraphQL response.
type GraphQLError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

// RemoteError is a backend-reported failure: either an HTTP error status
// or a logical error embedded in an otherwise successful response (the
// GraphQL errors array).
type RemoteError struct {
	Platform string
	Status   int
	Message  string
	Errors   []GraphQLError
}

func (e *RemoteError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s API error (%d): %s", e.Platform, e.Status, e.Message)
	}
	return fmt.Sprintf("%s API error: %s", e.Platform, e.Message)
}

// JoinMessages renders a "; "-joined human-readable message from a
// structured error list.
func JoinMessages(errs []GraphQLError) string {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

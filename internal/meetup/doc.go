// Package meetup implements the Meetup.com adapter: a GraphQL transport
// with automatic token refresh and browser-based login, and the provider
// over it exposing group, event, member, venue, and Pro-network operations.
package meetup

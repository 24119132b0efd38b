// Package auth implements the Meetup OAuth2 token lifecycle: a file-backed
// token store with automatic refresh, and helpers for the authorization-code
// flow (auth URL construction and code exchange).
//
// The TokenStore is the single owner of the cached token. All
// read-check-refresh sequences run under one exclusive lock so that
// concurrent callers never issue duplicate refresh requests.
package auth

// Package server provides the MCP server context, the OAuth callback
// HTTP server, and the health and metrics endpoints.
//
// ServerContext wires the shared HTTP client, the token store, and the
// platform providers together and manages their lifecycle. The callback
// server completes the Meetup OAuth flow: the browser is sent to Meetup's
// authorize page and redirected back to /auth/meetup/callback, where the
// authorization code is exchanged and the resulting token persisted.
//
// The metrics server serves Prometheus metrics on a dedicated port,
// isolated from the callback traffic.
package server

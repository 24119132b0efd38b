// Package luma implements the Luma adapter: a REST client authenticated
// with a static API key header, and the provider over it exposing
// calendar, event, guest, and people operations.
package luma

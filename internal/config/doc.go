// Package config loads runtime settings from PULUMI_EVENTS_* environment
// variables. Credentials are optional at load time; components that need
// them report a ConfigurationError on first use.
package config

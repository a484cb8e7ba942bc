// Package config loads and validates the authorization layer's
// environment configuration. Values may reference other environment
// variables with ${VAR} syntax; missing references fail loudly instead
// of expanding to empty strings.
package config

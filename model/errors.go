package model

import "fmt"

// ConfigurationError means the provider cannot be used as configured,
// typically because its API key is missing.
type ConfigurationError struct {
	Provider string
	Message  string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// ProviderRequestError is a failed exchange with a provider: a non-2xx
// status, an unreadable success body, or a transport failure (StatusCode 0).
type ProviderRequestError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderRequestError) Error() string {
	return e.Message
}

// UnknownProviderError is returned for an id with no registered constructor.
type UnknownProviderError struct {
	ID string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("Unknown provider: %s", e.ID)
}

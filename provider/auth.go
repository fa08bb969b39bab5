package provider

import "net/http"

// HeaderAuth puts an API key in a request header, optionally prefixed
// (e.g. "Authorization: Bearer <key>" or "x-api-key: <key>").
type HeaderAuth struct {
	apiKey     string
	headerName string
	prefix     string
}

// NewHeaderAuth creates a header authenticator. An empty headerName means
// Authorization.
func NewHeaderAuth(apiKey, headerName, prefix string) *HeaderAuth {
	if headerName == "" {
		headerName = "Authorization"
	}

	return &HeaderAuth{
		apiKey:     apiKey,
		headerName: headerName,
		prefix:     prefix,
	}
}

// NewBearerAuth creates an "Authorization: Bearer <key>" authenticator.
func NewBearerAuth(apiKey string) *HeaderAuth {
	return NewHeaderAuth(apiKey, "Authorization", "Bearer ")
}

// Apply adds the key to h. An empty key adds nothing, so keyless local
// servers never see an Authorization header.
func (a *HeaderAuth) Apply(h http.Header) {
	if a.apiKey == "" {
		return
	}
	h.Set(a.headerName, a.prefix+a.apiKey)
}

package riot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	// LoL Status API - lightweight, only needs a valid key
	statusEndpoint = "/lol/status/v4/platform-data"

	defaultValidationTimeout = 10 * time.Second
)

// KeyValidator checks a Riot API key with one cheap request before a report run
type KeyValidator struct {
	httpClient *http.Client
	baseURL    string
}

// KeyValidatorOption configures a KeyValidator
type KeyValidatorOption func(*KeyValidator)

// WithValidatorURL sets a custom platform URL (useful for testing)
func WithValidatorURL(u string) KeyValidatorOption {
	return func(v *KeyValidator) {
		v.baseURL = u
	}
}

// WithValidatorTimeout sets a custom timeout for validation requests
func WithValidatorTimeout(timeout time.Duration) KeyValidatorOption {
	return func(v *KeyValidator) {
		v.httpClient.Timeout = timeout
	}
}

// NewKeyValidator creates a new KeyValidator with the given options
func NewKeyValidator(opts ...KeyValidatorOption) *KeyValidator {
	v := &KeyValidator{
		httpClient: &http.Client{
			Timeout: defaultValidationTimeout,
		},
		baseURL: na1BaseURL,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// ValidateKey validates an API key against the status endpoint.
// Returns:
//   - (true, nil) if the key is valid
//   - (false, nil) if the key is invalid (401/403)
//   - (false, error) if there was a network/server error (key validity unknown)
func (v *KeyValidator) ValidateKey(ctx context.Context, apiKey string) (bool, error) {
	if apiKey == "" {
		return false, fmt.Errorf("API key cannot be empty")
	}

	q := url.Values{}
	q.Set("api_key", apiKey)

	_, err := FetchBody(ctx, v.httpClient, v.baseURL+statusEndpoint+"?"+q.Encode())
	if err == nil {
		return true, nil
	}

	if ue, ok := err.(*UpstreamError); ok {
		switch ue.Status {
		case http.StatusUnauthorized, http.StatusForbidden:
			return false, nil
		}
		return false, fmt.Errorf("unexpected status code: %d", ue.Status)
	}
	return false, err
}

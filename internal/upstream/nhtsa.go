package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxSnippetBytes caps the upstream body excerpt carried in a
// StatusError, to keep error payloads bounded.
const maxSnippetBytes = 2000

// StatusError is returned when the registry answers with a non-2xx
// status. It carries a body excerpt for debugging and maps to a 502 at
// the proxy surface.
type StatusError struct {
	StatusCode  int
	StatusText  string
	BodySnippet string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("nhtsa: upstream status %d %s", e.StatusCode, e.StatusText)
}

// NHTSAClient fetches vehicle type data from the government registry.
type NHTSAClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewNHTSAClient creates a registry client with a bounded request
// timeout (a hung upstream is treated as failed past that point).
func NewNHTSAClient(baseURL, userAgent string, timeout time.Duration) *NHTSAClient {
	return &NHTSAClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetVehicleTypesForMake fetches vehicle types for a make.
//
// The registry has no types-by-make-model-year endpoint, so this is the
// closest valid query even though callers also know model and year.
//
// Returns the parsed JSON payload (nil when the body doesn't parse), a
// *StatusError for a non-2xx response, or a wrapped transport error.
func (c *NHTSAClient) GetVehicleTypesForMake(ctx context.Context, makeName string) (json.RawMessage, error) {
	reqURL := fmt.Sprintf("%s/GetVehicleTypesForMake/%s?format=json",
		c.baseURL, url.PathEscape(makeName))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("nhtsa: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nhtsa: fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nhtsa: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > maxSnippetBytes {
			snippet = snippet[:maxSnippetBytes]
		}
		return nil, &StatusError{
			StatusCode:  resp.StatusCode,
			StatusText:  http.StatusText(resp.StatusCode),
			BodySnippet: snippet,
		}
	}

	if !json.Valid(body) {
		return nil, nil
	}
	return json.RawMessage(body), nil
}

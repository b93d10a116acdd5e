// Package upstream contains HTTP clients for the two external
// vehicle-data APIs: the CarQuery trims aggregator and the NHTSA
// vehicle registry. Both clients are stateless relays — parsing is
// best-effort and a malformed body degrades to a null payload rather
// than an error.
package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// CarQueryClient fetches vehicle trim specifications.
//
// CarQuery responses may arrive JSONP-wrapped (a leading function call
// around the JSON body); GetTrims strips the wrapper before parsing.
type CarQueryClient struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewCarQueryClient creates a CarQuery client.
func NewCarQueryClient(baseURL, userAgent string, timeout time.Duration) *CarQueryClient {
	return &CarQueryClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// jsonpWrapper matches the leading `fn(` and trailing `);` of a
// JSONP-wrapped body.
var jsonpWrapper = regexp.MustCompile(`^\w*\(|\);?$`)

// GetTrims fetches the getTrims listing for a make/model/year.
//
// Returns the parsed JSON payload, or nil when the upstream body could
// not be parsed — callers treat that the same as "no data". Only a
// transport failure is an error.
func (c *CarQueryClient) GetTrims(ctx context.Context, makeName, modelName, year string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("cmd", "getTrims")
	q.Set("make", makeName)
	q.Set("model", modelName)
	q.Set("year", year)

	reqURL := c.baseURL + "/?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("carquery: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json, text/javascript, */*")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("carquery: fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("carquery: read body: %w", err)
	}

	return ParseMaybeJSONP(body), nil
}

// ParseMaybeJSONP parses a body that is either plain JSON or JSONP.
// Returns nil when neither form parses.
func ParseMaybeJSONP(body []byte) json.RawMessage {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil
	}

	candidate := trimmed
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		candidate = jsonpWrapper.ReplaceAllString(trimmed, "")
	}

	if !json.Valid([]byte(candidate)) {
		return nil
	}
	return json.RawMessage(candidate)
}

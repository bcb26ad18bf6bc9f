package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL             = "https://places.googleapis.com/v1"
	geocodeFieldMask           = "places.formattedAddress,places.location"
	searchFieldMask            = "places.id,places.displayName,places.formattedAddress,places.location,places.rating"
	requestBodyReadLimit int64 = 1024
)

var (
	errAPIKeyRequired = errors.New("google maps api key is required")

	ErrNotFound = errors.New("no place matched the query")
	// ErrUpstream wraps non-2xx responses and transport failures.
	ErrUpstream = errors.New("places request failed")
)

// Client wraps the Google Places text search used for geocoding and store lookup.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Places base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// NewClient builds the Places client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// LatLng is the latitude/longitude pair returned by Google.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Place struct {
	ID               string
	Name             string
	FormattedAddress string
	Location         LatLng
	Rating           float64
}

// SearchRequest describes a text search, optionally biased to a circle.
type SearchRequest struct {
	Query        string
	IncludedType string
	Center       *LatLng
	RadiusMeters float64
	MaxResults   int
}

type circle struct {
	Center LatLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type searchPayload struct {
	TextQuery      string `json:"textQuery"`
	IncludedType   string `json:"includedType,omitempty"`
	MaxResultCount int    `json:"maxResultCount,omitempty"`
	LocationBias   *struct {
		Circle circle `json:"circle"`
	} `json:"locationBias,omitempty"`
}

type searchResponse struct {
	Places []struct {
		ID          string `json:"id"`
		DisplayName struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress string  `json:"formattedAddress"`
		Location         LatLng  `json:"location"`
		Rating           float64 `json:"rating"`
	} `json:"places"`
}

// Geocode resolves a free-text location to coordinates using the best text-search match.
func (c *Client) Geocode(ctx context.Context, address string) (Place, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Place{}, fmt.Errorf("address is required")
	}
	places, err := c.search(ctx, searchPayload{TextQuery: address, MaxResultCount: 1}, geocodeFieldMask)
	if err != nil {
		return Place{}, err
	}
	if len(places) == 0 {
		return Place{}, fmt.Errorf("%w: %s", ErrNotFound, address)
	}
	return places[0], nil
}

// SearchText runs a Places text search.
func (c *Client) SearchText(ctx context.Context, req SearchRequest) ([]Place, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("search query is required")
	}
	payload := searchPayload{
		TextQuery:      req.Query,
		IncludedType:   req.IncludedType,
		MaxResultCount: req.MaxResults,
	}
	if req.Center != nil && req.RadiusMeters > 0 {
		payload.LocationBias = &struct {
			Circle circle `json:"circle"`
		}{Circle: circle{Center: *req.Center, Radius: req.RadiusMeters}}
	}
	return c.search(ctx, payload, searchFieldMask)
}

func (c *Client) search(ctx context.Context, payload searchPayload, fieldMask string) ([]Place, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL("places:searchText"), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var apiResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %w", ErrUpstream, err)
	}

	places := make([]Place, 0, len(apiResp.Places))
	for _, p := range apiResp.Places {
		places = append(places, Place{
			ID:               p.ID,
			Name:             p.DisplayName.Text,
			FormattedAddress: p.FormattedAddress,
			Location:         p.Location,
			Rating:           p.Rating,
		})
	}
	return places, nil
}

func (c *Client) buildURL(path string) string {
	trimmed := strings.TrimRight(c.baseURL, "/")
	path = strings.TrimLeft(path, "/")
	return fmt.Sprintf("%s/%s", trimmed, path)
}

// Package imagesearch looks up product photos through the Custom Search JSON API.
package imagesearch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var (
	ErrAccessDenied  = errors.New("API access denied")
	ErrQuotaExceeded = errors.New("API quota exceeded")
	ErrUpstream      = errors.New("image search failed")
)

type Image struct {
	Title  string
	Link   string
	Width  int64
	Height int64
}

// Pixels is the image area used to rank results.
func (i Image) Pixels() int64 { return i.Width * i.Height }

type Searcher interface {
	Search(ctx context.Context, query string, limit int64) ([]Image, error)
}

type Client struct {
	svc      *customsearch.Service
	engineID string
}

func NewClient(ctx context.Context, apiKey, engineID string, opts ...option.ClientOption) (*Client, error) {
	if strings.TrimSpace(engineID) == "" {
		return nil, errors.New("search engine id is required")
	}
	if apiKey != "" {
		opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	}
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create custom search service: %w", err)
	}
	return &Client{svc: svc, engineID: engineID}, nil
}

func (c *Client) Search(ctx context.Context, query string, limit int64) ([]Image, error) {
	res, err := c.svc.Cse.List().
		Q(query).
		Cx(c.engineID).
		SearchType("image").
		ImgSize("huge").
		Num(limit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, classify(err)
	}

	images := make([]Image, 0, len(res.Items))
	for _, item := range res.Items {
		img := Image{Title: item.Title, Link: item.Link}
		if item.Image != nil {
			img.Width = item.Image.Width
			img.Height = item.Image.Height
		}
		images = append(images, img)
	}
	return images, nil
}

func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusForbidden:
			return fmt.Errorf("%w: %w", ErrAccessDenied, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", ErrQuotaExceeded, err)
		}
	}
	return fmt.Errorf("%w: %w", ErrUpstream, err)
}

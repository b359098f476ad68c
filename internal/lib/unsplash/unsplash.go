// Package unsplash searches photos through the Unsplash REST API.
package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/deppfellow/coursegen/internal/config"
	"github.com/pkg/errors"
)

// ErrNoResults is returned when a search matched nothing.
var ErrNoResults = errors.New("unsplash: no results")

type Client struct {
	BaseURL   string
	AccessKey string
	HTTP      *http.Client
}

func New(cfg *config.UnsplashConfig) *Client {
	return &Client{
		BaseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		AccessKey: cfg.AccessKey,
		HTTP: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

/* -------- Response -------- */

type searchResponse struct {
	Total   int     `json:"total"`
	Results []Photo `json:"results"`
}

type Photo struct {
	ID   string `json:"id"`
	URLs struct {
		Raw     string `json:"raw"`
		Full    string `json:"full"`
		Regular string `json:"regular"`
		Small   string `json:"small"`
		Thumb   string `json:"thumb"`
	} `json:"urls"`
}

/* -------- Options -------- */

const (
	OrientationLandscape = "landscape"
	OrientationPortrait  = "portrait"
	OrientationSquarish  = "squarish"
)

// SearchOptions narrows a photo search. Zero values are left to the API.
type SearchOptions struct {
	PerPage     int
	Orientation string
}

/* -------- API -------- */

// SearchPhotos returns the photos matching query, in API rank order.
func (c *Client) SearchPhotos(ctx context.Context, query string, opts SearchOptions) ([]Photo, error) {
	u, err := url.Parse(c.BaseURL + "/search/photos")
	if err != nil {
		return nil, fmt.Errorf("unsplash: invalid base url: %w", err)
	}

	q := u.Query()
	q.Set("query", query)
	if opts.PerPage > 0 {
		q.Set("per_page", fmt.Sprintf("%d", opts.PerPage))
	}
	if opts.Orientation != "" {
		q.Set("orientation", opts.Orientation)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+c.AccessKey)
	req.Header.Set("Accept-Version", "v1")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "unsplash: request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unsplash: status=%d after %s: %s", resp.StatusCode, time.Since(start), strings.TrimSpace(string(body)))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("unsplash: decode: %w", err)
	}

	return out.Results, nil
}

// FirstImageURL returns the regular-size URL of the best match.
func (c *Client) FirstImageURL(ctx context.Context, query string, opts SearchOptions) (string, error) {
	photos, err := c.SearchPhotos(ctx, query, opts)
	if err != nil {
		return "", err
	}
	if len(photos) == 0 || photos[0].URLs.Regular == "" {
		return "", ErrNoResults
	}
	return photos[0].URLs.Regular, nil
}
